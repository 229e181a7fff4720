package textx

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestReadText_UTF8WithBOM(t *testing.T) {
	p := filepath.Join(t.TempDir(), "prompt.txt")
	if err := os.WriteFile(p, append([]byte{0xEF, 0xBB, 0xBF}, []byte("一只僵尸")...), 0o644); err != nil {
		t.Fatalf("写入失败：%v", err)
	}
	got, err := ReadText(p)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if got != "一只僵尸" {
		t.Fatalf("期望去掉 BOM，实际 %q", got)
	}
}

func TestReadText_GBKFallback(t *testing.T) {
	gbk, err := simplifiedchinese.GBK.NewEncoder().String("走路动画")
	if err != nil {
		t.Fatalf("GBK 编码失败：%v", err)
	}
	p := filepath.Join(t.TempDir(), "caption.txt")
	if err := os.WriteFile(p, []byte(gbk), 0o644); err != nil {
		t.Fatalf("写入失败：%v", err)
	}
	got, err := ReadText(p)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if got != "走路动画" {
		t.Fatalf("GBK 回退解码失败：%q", got)
	}
}

func TestReadText_Missing(t *testing.T) {
	if _, err := ReadText(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatalf("期望文件不存在时报错")
	}
}
