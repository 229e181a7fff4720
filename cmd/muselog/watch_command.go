package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/muselog/internal/navigator"
	"github.com/John-Robertt/muselog/internal/pathx"
	"github.com/John-Robertt/muselog/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "监听当前目录，变化时刷新视图",
		Long: `打开目录并监听其直接子项的变化（不递归）；多次变化在防抖窗口内合并为一次刷新。
当前目录被删除/改名时回到最近的已存在上级目录并继续监听。Ctrl+C 退出。`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav := ctx.newNavigator()
			v, err := ctx.openAt(nav, firstArg(args))
			if err != nil {
				return err
			}
			if err := ctx.emitView(cmd, v); err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			for {
				dir := nav.Current()
				w, err := watch.New(dir, watch.Options{Debounce: debounce, Log: ctx.log})
				if err != nil {
					return err
				}
				ctx.log.Info("开始监听目录", "path", dir)

				wctx, cancel := context.WithCancel(runCtx)
				err = w.Run(wctx, func(watch.Change) {
					var v navigator.View
					var rerr error
					if pathx.IsDir(dir) {
						v, rerr = nav.Refresh()
					} else {
						ctx.log.Warn("当前目录已不存在，返回上级目录", "path", dir)
						v, rerr = nav.Up()
					}
					if rerr != nil {
						ctx.log.Error("刷新失败", "path", dir, "error", rerr)
						return
					}
					if e := ctx.emitView(cmd, v); e != nil {
						ctx.log.Warn("输出视图失败", "error", e)
					}
					if nav.Current() != dir {
						cancel()
					}
				})
				cancel()

				if runCtx.Err() != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "已停止监听")
					return nil
				}
				if err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
			}
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "合并变化的防抖窗口")
	return cmd
}
