// Package opener 用系统默认程序（文件管理器/关联应用）打开路径。
package opener

import (
	"fmt"
	"os"

	"github.com/skratchdot/open-golang/open"
)

// Opener 是“用系统打开路径”的外部能力。
type Opener interface {
	Open(path string) error
}

// 测试可替换，避免真的拉起文件管理器。
var startFunc = open.Start

// System 调用操作系统的默认打开方式（xdg-open / open / explorer）。
type System struct{}

func (System) Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	if err := startFunc(path); err != nil {
		return fmt.Errorf("打开 %q 失败：%w", path, err)
	}
	return nil
}

// Func 把普通函数适配为 Opener。
type Func func(path string) error

func (f Func) Open(path string) error { return f(path) }

// Nop 什么都不做（用于非交互环境，例如 --no-open）。
type Nop struct{}

func (Nop) Open(string) error { return nil }
