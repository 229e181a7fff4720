package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/muselog/internal/actions"
	"github.com/John-Robertt/muselog/internal/domain"
	"github.com/John-Robertt/muselog/internal/navigator"
)

// actResult 是 act 命令的 JSON 输出。
type actResult struct {
	Action  domain.ActionID `json:"action"`
	Folder  string          `json:"folder"`
	Message string          `json:"message"`
	Opened  string          `json:"opened,omitempty"`
	View    navigator.View  `json:"view"`
}

func newActCommand(ctx *commandContext) *cobra.Command {
	var (
		rate    int
		typ     string
		monster string
		yes     bool
	)

	cmd := &cobra.Command{
		Use:   "act <action-id> [path]",
		Short: "在目录上执行一个操作（先用 show 查看可用操作）",
		Example: `  muselog act sequence.frame_rate "序列帧/(秒抽4帧)-待机" --rate 8
  muselog act sequence.delete "序列帧/(秒抽4帧)-待机" --yes
  muselog act json42.publish spine-导出/json42 --monster 12`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav := ctx.newNavigator()
			v, err := ctx.openAt(nav, argAt(args, 1))
			if err != nil {
				return err
			}
			id := domain.ActionID(args[0])
			a, ok := actions.Lookup(v.Actions, id)
			if !ok {
				return domain.InvalidInput(fmt.Sprintf("操作 %s 不适用于 %s（%s）", id, v.Path, v.Role.Label()))
			}

			in := actions.Input{FrameRate: rate, AnimationType: typ, MonsterNumber: monster, Confirmed: yes}
			if !cmd.Flags().Changed("monster") {
				in.MonsterNumber = defaultInput(a, actions.InputMonsterNumber)
			}
			if a.Confirm && !in.Confirmed && isTerminal(os.Stdin) && isTerminal(cmd.ErrOrStderr()) {
				in.Confirmed = confirm(os.Stdin, cmd.ErrOrStderr(), fmt.Sprintf("确定要%s %s 吗？", a.Label, v.Path))
			}

			res, err := ctx.runAction(nav, a.ID, in)
			if err != nil {
				return err
			}
			if ctx.wantJSON(cmd) {
				return writeJSON(cmd, res)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			printView(cmd.OutOrStdout(), res.View)
			return nil
		},
	}

	cmd.Flags().IntVar(&rate, "rate", 0, "新帧率（sequence.frame_rate）")
	cmd.Flags().StringVar(&typ, "type", "", "新动画类型（sequence.type）")
	cmd.Flags().StringVar(&monster, "monster", "", "怪物编号（json42.publish，默认取最近一次）")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "跳过确认")
	return cmd
}

// runAction 执行当前目录上的操作，并把产生的请求交给 nav 执行。
func (c *commandContext) runAction(nav *navigator.Navigator, id domain.ActionID, in actions.Input) (actResult, error) {
	folder := nav.Current()
	out, err := c.newRunner().Run(id, folder, in)
	if err != nil {
		return actResult{}, err
	}
	res := actResult{Action: id, Folder: folder, Message: out.Message, Opened: out.Opened}

	if len(out.Requests) > 0 {
		v, err := nav.DeliverAll(out.Requests)
		if err != nil {
			return actResult{}, err
		}
		res.View = v
		return res, nil
	}
	// 操作可能创建了子目录/同级目录：刷新当前视图。
	v, err := nav.Refresh()
	if err != nil {
		return actResult{}, err
	}
	res.View = v
	return res, nil
}

func defaultInput(a domain.Action, name string) string {
	for _, in := range a.Inputs {
		if in.Name == name {
			return in.Default
		}
	}
	return ""
}

func confirm(r io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N] ", prompt)
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(sc.Text())) {
	case "y", "yes", "是":
		return true
	default:
		return false
	}
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
