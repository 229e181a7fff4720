package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/muselog/internal/navigator"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var children bool

	cmd := &cobra.Command{
		Use:   "show [path]",
		Short: "显示目录的角色、元数据与可用操作",
		Long:  "path 省略时依次尝试：上次访问的目录、paths.default_path、用户目录。path 为文件时显示其所在目录。",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav := ctx.newNavigator()
			v, err := ctx.openAt(nav, firstArg(args))
			if err != nil {
				return err
			}
			if !children {
				return ctx.emitView(cmd, v)
			}

			names, err := nav.Children()
			if err != nil {
				return err
			}
			if ctx.wantJSON(cmd) {
				return writeJSON(cmd, struct {
					navigator.View
					Children []string `json:"children"`
				}{v, names})
			}
			printView(cmd.OutOrStdout(), v)
			fmt.Fprintf(cmd.OutOrStdout(), "子目录：%s\n", strings.Join(names, "  "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&children, "children", false, "同时列出子目录")
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
