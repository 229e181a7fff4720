package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/John-Robertt/muselog/internal/domain"
	"github.com/John-Robertt/muselog/internal/navigator"
)

// maxCellWidth 限制表格单元格宽度（提示词/参数 JSON 可能很长）。
const maxCellWidth = 80

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// wantJSON：显式 --json，或 stdout 不是终端时输出 JSON（stdout 只承载结果，日志走 stderr）。
func (c *commandContext) wantJSON(cmd *cobra.Command) bool {
	return c.flags.json || !isTerminal(cmd.OutOrStdout())
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			WidthMax:    maxCellWidth,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// printView 以人类可读形式输出视图：路径/角色 + 元数据表 + 操作表。
func printView(w io.Writer, v navigator.View) {
	fmt.Fprintf(w, "%s  [%s]\n", v.Path, v.Role.Label())

	rows := make([][]string, 0, len(v.Meta))
	for i, e := range v.Meta {
		rows = append(rows, []string{fmt.Sprint(i + 1), e.Label, oneLine(e.Value), string(e.Action)})
	}
	fmt.Fprintln(w, renderTable([]string{"#", "项目", "内容", "操作"}, rows, []columnAlignment{alignRight}))

	if len(v.Actions) == 0 {
		return
	}
	fmt.Fprintln(w, renderActions(v.Actions))
}

func renderActions(list []domain.Action) string {
	rows := make([][]string, 0, len(list))
	for i, a := range list {
		rows = append(rows, []string{fmt.Sprint(i + 1), a.Label, string(a.ID), formatInputs(a)})
	}
	return renderTable([]string{"#", "操作", "ID", "输入"}, rows, []columnAlignment{alignRight})
}

func formatInputs(a domain.Action) string {
	parts := make([]string, 0, len(a.Inputs)+1)
	for _, in := range a.Inputs {
		s := fmt.Sprintf("%s=%s", in.Name, in.Default)
		if len(in.Suggestions) > 0 {
			s += " (" + strings.Join(in.Suggestions, "/") + ")"
		}
		parts = append(parts, s)
	}
	if a.Confirm {
		parts = append(parts, "需确认")
	}
	return strings.Join(parts, " ")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// emitView 按输出模式输出视图。
func (c *commandContext) emitView(cmd *cobra.Command, v navigator.View) error {
	if c.wantJSON(cmd) {
		return writeJSON(cmd, v)
	}
	printView(cmd.OutOrStdout(), v)
	return nil
}
