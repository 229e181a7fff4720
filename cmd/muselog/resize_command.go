package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/muselog/internal/domain"
	"github.com/John-Robertt/muselog/internal/resize"
)

func newResizeCommand(ctx *commandContext) *cobra.Command {
	var (
		mode        string
		value       int
		saveDefault bool
		openOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "resize [input] [output]",
		Short: "批量缩放目录中的图片",
		Long: `按模式计算目标尺寸（向下取整）后缩放 input 中的全部图片（不递归），
写入 output 中的同名文件（覆盖）。单张失败会被跳过，不影响其余图片。

input/output 省略时使用上次 --save-default 保存的目录。`,
		Example: `  muselog resize ./frames ./frames_50 --mode scale --value 50
  muselog resize ./frames ./out --mode width --value 512 --save-default`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := resize.ParseMode(mode)
			if err != nil {
				return err
			}
			st := ctx.store.Load()
			in := firstNonEmpty(argAt(args, 0), st.ResizeInput)
			out := firstNonEmpty(argAt(args, 1), st.ResizeOutput)
			if in == "" || out == "" {
				return usagef("需要 input 与 output 目录（或先用 --save-default 保存默认值）")
			}

			opts := resize.Options{Input: in, Output: out, Mode: m, Value: value, Log: ctx.log}

			var obs resize.Observer
			if w, interactive := pickProgressWriter(cmd); interactive && !ctx.wantJSON(cmd) {
				obs = newProgressUI(w)
			}

			runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			rep, err := resize.Run(runCtx, opts, obs)
			if err != nil && domain.ErrorCode(err) != "" {
				return err
			}

			if saveDefault {
				if e := ctx.store.SaveResizeDefaults(rep.Input, rep.Output); e != nil {
					ctx.log.Warn("保存默认缩放目录失败", "error", e)
				}
			}
			if openOutput && err == nil && rep.Processed > 0 {
				if e := ctx.opener.Open(rep.Output); e != nil {
					ctx.log.Warn("打开输出目录失败", "path", rep.Output, "error", e)
				}
			}

			if ctx.wantJSON(cmd) {
				if e := writeJSON(cmd, rep); e != nil {
					return e
				}
			} else if obs == nil {
				emitResizeSummary(cmd.OutOrStdout(), rep)
			}
			if err != nil {
				return err
			}
			if len(rep.Failed) > 0 {
				return fmt.Errorf("%d 张图片处理失败", len(rep.Failed))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", string(resize.ModeScale), "缩放模式：scale|width|height")
	cmd.Flags().IntVarP(&value, "value", "v", 50, "scale 为百分比，width/height 为像素")
	cmd.Flags().BoolVar(&saveDefault, "save-default", false, "把本次 input/output 保存为默认值")
	cmd.Flags().BoolVar(&openOutput, "open", false, "完成后打开输出目录")
	return cmd
}

func emitResizeSummary(w io.Writer, rep resize.Report) {
	fmt.Fprintf(w, "完成：processed=%d failed=%d total=%d\n", rep.Processed, len(rep.Failed), rep.Total)
	if len(rep.Failed) == 0 {
		return
	}
	rows := make([][]string, 0, len(rep.Failed))
	for _, f := range rep.Failed {
		rows = append(rows, []string{f.Name, f.Error})
	}
	fmt.Fprintln(w, renderTable([]string{"文件", "原因"}, rows, nil))
}

func pickProgressWriter(cmd *cobra.Command) (io.Writer, bool) {
	// 进度输出只在交互终端启用；默认走 stderr（不污染 stdout JSON）。
	if isTerminal(cmd.ErrOrStderr()) {
		return cmd.ErrOrStderr(), true
	}
	// 某些环境（例如仅重定向 stderr）下，stdout 仍是 TTY：退化输出到 stdout。
	if isTerminal(cmd.OutOrStdout()) {
		return cmd.OutOrStdout(), true
	}
	return nil, false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
