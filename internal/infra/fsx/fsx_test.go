package fsx

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomicReplace_SuccessAndNoTempLeft(t *testing.T) {
	dir := t.TempDir()

	if err := WriteFileAtomicReplace(dir, "a.json", []byte("hello")); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if err := WriteFileAtomicReplace(dir, "a.json", []byte("world")); err != nil {
		t.Fatalf("覆盖写入不期望错误：%v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "a.json"))
	if err != nil {
		t.Fatalf("读取文件失败：%v", err)
	}
	if string(b) != "world" {
		t.Fatalf("内容不一致：%q", string(b))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".a.json.tmp-") {
			t.Fatalf("临时文件未清理：%q", e.Name())
		}
	}
}

func TestWriteFileAtomicReplace_RenameFail_CleanupTemp(t *testing.T) {
	dir := t.TempDir()

	old := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		return os.ErrPermission
	}
	defer func() { renameFunc = old }()

	if err := WriteFileAtomicReplace(dir, "a.json", []byte("hello")); err == nil {
		t.Fatalf("期望失败，但得到 nil")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("不应留下任何文件，实际 %d 个", len(entries))
	}
}

func TestWriteFileAtomicReplace_TargetIsDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "a.json"), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	err := WriteFileAtomicReplace(dir, "a.json", []byte("x"))
	if !IsPathTypeConflict(err) {
		t.Fatalf("期望 PathTypeConflictError，实际：%T %v", err, err)
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "json42")

	created, err := EnsureDir(p)
	if err != nil || !created {
		t.Fatalf("首次创建：created=%v err=%v", created, err)
	}
	created, err = EnsureDir(p)
	if err != nil || created {
		t.Fatalf("重复创建应为 no-op：created=%v err=%v", created, err)
	}
}

func TestEnsureDir_FileConflict(t *testing.T) {
	p := filepath.Join(t.TempDir(), "x")
	writeFile(t, p, "f")
	if _, err := EnsureDir(p); !IsPathTypeConflict(err) {
		t.Fatalf("期望 PathTypeConflictError，实际：%v", err)
	}
}

func TestCopyTree_MergeAndOverwrite(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")

	writeFile(t, filepath.Join(src, "a.txt"), "new-a")
	writeFile(t, filepath.Join(src, "sub", "b.txt"), "b")
	writeFile(t, filepath.Join(dst, "a.txt"), "old-a")
	writeFile(t, filepath.Join(dst, "keep.txt"), "keep")

	if err := CopyTree(src, dst); err != nil {
		t.Fatalf("CopyTree 失败：%v", err)
	}

	assertContent(t, filepath.Join(dst, "a.txt"), "new-a")
	assertContent(t, filepath.Join(dst, "sub", "b.txt"), "b")
	assertContent(t, filepath.Join(dst, "keep.txt"), "keep")
}

func TestCopyTree_MissingSource(t *testing.T) {
	root := t.TempDir()
	err := CopyTree(filepath.Join(root, "nope"), filepath.Join(root, "dst"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("期望 ErrNotExist，实际 %v", err)
	}
}

func TestRenameDir(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "(秒抽4帧)-待机")
	busy := filepath.Join(root, "(秒抽4帧)-攻击")
	writeFile(t, filepath.Join(src, "0001.png"), "x")
	writeFile(t, filepath.Join(busy, "0001.png"), "y")

	if err := RenameDir(src, busy); !IsExists(err) {
		t.Fatalf("目标已存在应返回 ExistsError，实际：%v", err)
	}
	assertContent(t, filepath.Join(busy, "0001.png"), "y")

	dst := filepath.Join(root, "(秒抽6帧)-待机")
	if err := RenameDir(src, dst); err != nil {
		t.Fatalf("重命名失败：%v", err)
	}
	assertContent(t, filepath.Join(dst, "0001.png"), "x")

	if err := RenameDir(filepath.Join(dst, "0001.png"), filepath.Join(root, "z")); !IsPathTypeConflict(err) {
		t.Fatalf("源是文件时应返回 PathTypeConflictError，实际：%v", err)
	}
	if err := RenameDir(src, filepath.Join(root, "w")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("源不存在时期望 ErrNotExist，实际：%v", err)
	}
}

func TestRemoveAll_Missing(t *testing.T) {
	err := RemoveAll(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("期望 ErrNotExist，实际 %v", err)
	}
}

func writeFile(t *testing.T, p, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
}

func assertContent(t *testing.T, p, want string) {
	t.Helper()
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("读取 %q 失败：%v", p, err)
	}
	if string(b) != want {
		t.Fatalf("%q 内容=%q，期望 %q", p, string(b), want)
	}
}
