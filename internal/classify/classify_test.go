package classify

import (
	"path/filepath"
	"testing"

	"github.com/John-Robertt/muselog/internal/domain"
)

func TestClassifyNames(t *testing.T) {
	cases := []struct {
		name, parent string
		want         domain.FolderRole
	}{
		{"(秒抽4帧)-待机", "序列帧", domain.RoleSequenceFrameContainer},
		{"Spine", "僵尸01", domain.RoleSpineFolder},
		{"SPINE", "x", domain.RoleSpineFolder},
		{"序列帧", "僵尸01", domain.RoleSequenceFrameParent},
		{"Spine-导出", "僵尸01", domain.RoleSpineExportFolder},
		{"JSON42", "spine-导出", domain.RoleJSON42Folder},
		{"参考图", "僵尸01", domain.RoleGeneric},
		// 上下文优先：父目录为“序列帧”时，即使自身叫 spine 也按序列帧容器处理。
		{"spine", "序列帧", domain.RoleSequenceFrameContainer},
	}
	for _, c := range cases {
		if got := ClassifyNames(c.name, c.parent); got != c.want {
			t.Fatalf("ClassifyNames(%q,%q) = %v，期望 %v", c.name, c.parent, got, c.want)
		}
	}
}

func TestClassify_NestedSequenceFolderUsesContext(t *testing.T) {
	p := filepath.Join(t.TempDir(), "序列帧", "序列帧")
	if got := Classify(p); got != domain.RoleSequenceFrameContainer {
		t.Fatalf("期望 SequenceFrameContainer，实际 %v", got)
	}
}

func TestClassify_SameFolderSameRole(t *testing.T) {
	base := t.TempDir()
	a := filepath.Join(base, "x", "json42")
	b := filepath.Join(base, "x", "y", "..", "json42") + string(filepath.Separator)
	if Classify(a) != Classify(b) {
		t.Fatalf("同一目录的不同写法应得到相同角色")
	}
}

func TestClassify_Root(t *testing.T) {
	if got := Classify(string(filepath.Separator)); got != domain.RoleGeneric {
		t.Fatalf("根目录应为 Generic，实际 %v", got)
	}
}
