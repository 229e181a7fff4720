package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/muselog/internal/config"
	"github.com/John-Robertt/muselog/internal/domain"
)

func main() {
	ctx := newCommandContext(&globalFlags{})
	if err := execute(ctx, buildRootCommand(ctx)); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

// execute 运行 root，返回后总是关闭日志文件。
func execute(ctx *commandContext, root *cobra.Command) error {
	defer ctx.close()
	return root.Execute()
}

// exitCode：参数/配置错误为 2，其余失败为 1。
func exitCode(err error) int {
	if config.Code(err) != "" {
		return 2
	}
	switch domain.ErrorCode(err) {
	case domain.ErrCodeInvalidInput, domain.ErrCodeConfirmRequired:
		return 2
	}
	var u *usageError
	if errors.As(err, &u) {
		return 2
	}
	return 1
}

// usageError 表示命令行用法错误（参数个数/取值）。
type usageError struct{ msg string }

func (e *usageError) Error() string { return "参数错误：" + e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}
