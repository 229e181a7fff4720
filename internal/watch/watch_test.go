package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/John-Robertt/muselog/internal/domain"
)

func TestNew_InvalidDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), Options{})
	if domain.ErrorCode(err) != domain.ErrCodeInvalidPath {
		t.Fatalf("期望 invalid_path，实际 %v", err)
	}
}

func TestRun_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, Options{Debounce: 100 * time.Millisecond})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan Change, 8)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func(c Change) { changes <- c }) }()

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("写入失败：%v", err)
		}
	}

	select {
	case c := <-changes:
		if c.Dir != dir || len(c.Paths) == 0 {
			t.Fatalf("变化不符合预期：%+v", c)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("超时：未收到目录变化")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("取消后 Run 应返回")
	}
}
