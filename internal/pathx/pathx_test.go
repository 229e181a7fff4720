package pathx

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSameFolder_SeparatorAndTrailingSlash(t *testing.T) {
	dir := t.TempDir()
	if !SameFolder(dir, dir+string(filepath.Separator)) {
		t.Fatalf("尾部分隔符不应影响比较")
	}
	if !SameFolder(filepath.Join(dir, "a", ".."), dir) {
		t.Fatalf("a/.. 应与原目录相同")
	}
	if SameFolder(dir, "") {
		t.Fatalf("空路径不应与任何目录相同")
	}
}

func TestSameFolder_CaseInsensitivePlatform(t *testing.T) {
	old := caseInsensitive
	defer func() { caseInsensitive = old }()

	caseInsensitive = true
	if !SameFolder("/Work/Spine", "/work/spine") {
		t.Fatalf("大小写不敏感平台上应视为同一目录")
	}

	caseInsensitive = false
	if SameFolder("/Work/Spine", "/work/spine") {
		t.Fatalf("大小写敏感平台上不应视为同一目录")
	}
}

func TestNormalize_Relative(t *testing.T) {
	got := Normalize("x/../y")
	if !filepath.IsAbs(got) {
		t.Fatalf("期望绝对路径，实际 %q", got)
	}
	if filepath.Base(got) != "y" {
		t.Fatalf("期望以 y 结尾，实际 %q", got)
	}
}

func TestNearestExisting(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "a")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}

	got, ok := NearestExisting(filepath.Join(sub, "gone", "deeper"))
	if !ok || got != sub {
		t.Fatalf("期望 %q，实际 %q ok=%v", sub, got, ok)
	}
}

func TestParent_Root(t *testing.T) {
	root := filepath.VolumeName(t.TempDir()) + string(filepath.Separator)
	if _, ok := Parent(root); ok {
		t.Fatalf("根目录不应有父目录")
	}
}
