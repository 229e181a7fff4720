package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

type historyOutput struct {
	LastPath         string   `json:"last_path"`
	MonsterNumbers   []string `json:"monster_numbers"`
	ReferenceHistory []string `json:"reference_history"`
	ResizeInput      string   `json:"resize_input,omitempty"`
	ResizeOutput     string   `json:"resize_output,omitempty"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "显示持久化的会话状态（上次目录、怪物编号、参考历史）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := ctx.store.Load()
			out := historyOutput{
				LastPath:         st.LastPath,
				MonsterNumbers:   nonNil(st.MonsterNumbers),
				ReferenceHistory: nonNil(st.ReferenceHistory),
				ResizeInput:      st.ResizeInput,
				ResizeOutput:     st.ResizeOutput,
			}
			if ctx.wantJSON(cmd) {
				return writeJSON(cmd, out)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, renderTable([]string{"项目", "值"}, [][]string{
				{"上次目录", out.LastPath},
				{"缩放输入", out.ResizeInput},
				{"缩放输出", out.ResizeOutput},
			}, nil))
			fmt.Fprintln(w, renderList("怪物编号", out.MonsterNumbers))
			fmt.Fprintln(w, renderList("参考历史", out.ReferenceHistory))
			return nil
		},
	}
}

func renderList(title string, items []string) string {
	if len(items) == 0 {
		return title + "：（空）"
	}
	rows := make([][]string, 0, len(items))
	for i, it := range items {
		rows = append(rows, []string{strconv.Itoa(i + 1), it})
	}
	return renderTable([]string{"#", title}, rows, []columnAlignment{alignRight, alignLeft})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
