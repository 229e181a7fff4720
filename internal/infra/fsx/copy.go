package fsx

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// EnsureDir 创建目录 p（父目录必须已存在）。
//
// 幂等：p 已是目录时返回 created=false 且不报错；p 存在但不是目录时返回 PathTypeConflictError。
func EnsureDir(p string) (created bool, err error) {
	if fi, err := os.Stat(p); err == nil {
		if !fi.IsDir() {
			return false, &PathTypeConflictError{Path: p, WantDir: true}
		}
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := os.Mkdir(p, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CopyFile 复制普通文件 src 到 dst，覆盖已存在的 dst，并保留权限位。
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return &PathTypeConflictError{Path: src, WantDir: false}
	}
	if dfi, err := os.Stat(dst); err == nil && dfi.IsDir() {
		return &PathTypeConflictError{Path: dst, WantDir: false}
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// CopyTree 把 src 目录的全部内容合并复制到 dst（dst 可以已存在；同名文件覆盖）。
//
// 约束：
// - 符号链接按其指向的内容复制
// - 不做回滚：中途失败时已复制的部分保留
func CopyTree(src, dst string) error {
	fi, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return &PathTypeConflictError{Path: src, WantDir: true}
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			if tfi, err := os.Stat(target); err == nil && !tfi.IsDir() {
				return &PathTypeConflictError{Path: target, WantDir: true}
			}
			return os.MkdirAll(target, 0o755)
		}
		return CopyFile(path, target)
	})
}

// RemoveAll 删除 p（文件或整个目录树）。p 不存在时返回 fs.ErrNotExist，
// 以便调用方区分“删了”和“本来就没有”。
func RemoveAll(p string) error {
	if _, err := os.Lstat(p); err != nil {
		return err
	}
	return os.RemoveAll(p)
}
