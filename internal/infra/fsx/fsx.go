// Package fsx 是素材整理用到的文件系统原语：
// 原子整文件写入、目录重命名（不覆盖、不跨盘）、目录树复制与删除。
package fsx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// 测试通过替换它模拟 EXDEV / 权限错误。
var renameFunc = os.Rename

// PathTypeConflictError：路径存在，但类型与期望相反（目录/文件）。
type PathTypeConflictError struct {
	Path    string
	WantDir bool
}

func (e *PathTypeConflictError) Error() string {
	if e.WantDir {
		return fmt.Sprintf("期望目录，实际是文件：%q", e.Path)
	}
	return fmt.Sprintf("期望文件，实际是目录：%q", e.Path)
}

func IsPathTypeConflict(err error) bool {
	var e *PathTypeConflictError
	return errors.As(err, &e)
}

// ExistsError：目录重命名的目标已存在。
type ExistsError struct {
	Path string
}

func (e *ExistsError) Error() string { return fmt.Sprintf("目标已存在：%q", e.Path) }

func IsExists(err error) bool {
	var e *ExistsError
	return errors.As(err, &e)
}

// CrossDeviceError：源与目标不在同一个卷上（EXDEV）。
// 目录重命名不会退化为 复制+删除。
type CrossDeviceError struct {
	Src, Dst string
	Err      error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("不能跨盘重命名：%q -> %q：%v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// Rename 是 os.Rename；EXDEV 被包装为 *CrossDeviceError。目标是已存在的文件时覆盖。
func Rename(src, dst string) error {
	err := renameFunc(src, dst)
	if err != nil && isEXDEV(err) {
		return &CrossDeviceError{Src: src, Dst: dst, Err: err}
	}
	return err
}

// RenameDir 把目录 src 改名为 dst。
//
// 约束：
// - src 必须是目录
// - dst 已存在时返回 *ExistsError（仅大小写不同、指向同一目录的改名除外）
func RenameDir(src, dst string) error {
	sfi, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !sfi.IsDir() {
		return &PathTypeConflictError{Path: src, WantDir: true}
	}
	if dfi, err := os.Lstat(dst); err == nil && !os.SameFile(sfi, dfi) {
		return &ExistsError{Path: dst}
	}
	return Rename(src, dst)
}

// WriteFileAtomicReplace 把 data 整体写入 dir/name：先写同目录临时文件，再 rename 覆盖。
// 读者只会看到旧内容或新内容。dir 不存在时创建。
func WriteFileAtomicReplace(dir, name string, data []byte) (err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	dst := filepath.Join(dir, name)
	if fi, statErr := os.Lstat(dst); statErr == nil && fi.IsDir() {
		return &PathTypeConflictError{Path: dst, WantDir: false}
	}

	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if runtime.GOOS != "windows" {
		if err = tmp.Chmod(0o644); err != nil {
			return err
		}
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = Rename(tmpName, dst); err != nil {
		return err
	}
	syncDir(dir)
	return nil
}

// syncDir 尽力 fsync 目录项；Windows 上不支持，直接跳过。
func syncDir(dir string) {
	if runtime.GOOS == "windows" {
		return
	}
	if f, err := os.Open(dir); err == nil {
		_ = f.Sync()
		_ = f.Close()
	}
}
