package main

import (
	"github.com/spf13/cobra"
)

func buildRootCommand(ctx *commandContext) *cobra.Command {
	flags := ctx.flags

	rootCmd := &cobra.Command{
		Use:           "muselog",
		Short:         "美术素材目录整理工具",
		Long:          "muselog 按目录约定（序列帧 / spine / spine-导出 / json42）浏览素材目录，展示元数据并执行整理操作。",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			return ctx.ensure(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.home, "home", "", "配置目录（默认 $MUSELOG_HOME 或 ~/.muselog）")
	pf.StringVar(&flags.logLevel, "log-level", "", "日志级别：debug|info|warn|error")
	pf.StringVar(&flags.logFormat, "log-format", "", "终端日志格式：console|json")
	pf.StringVar(&flags.spineTemplate, "spine-template", "", "spine 模板文件（覆盖 paths.spine_template）")
	pf.StringVar(&flags.monsterBase, "monster-base", "", "游戏项目怪物目录（覆盖 paths.game_monster_base）")
	pf.BoolVar(&flags.json, "json", false, "以 JSON 输出（stdout 非终端时默认启用）")
	pf.BoolVar(&flags.noOpen, "no-open", false, "不调用系统程序打开目录/文件")

	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newActCommand(ctx))
	rootCmd.AddCommand(newBrowseCommand(ctx))
	rootCmd.AddCommand(newResizeCommand(ctx))
	rootCmd.AddCommand(newVideoCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newWatchCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
