package actions

import (
	"path/filepath"
	"testing"

	"github.com/John-Robertt/muselog/internal/domain"
)

type fakeMonsters struct {
	items    []string
	recorded []string
}

func (f *fakeMonsters) MonsterNumbers() []string { return f.items }

func (f *fakeMonsters) RecordMonsterNumber(n string) error {
	f.recorded = append(f.recorded, n)
	return nil
}

func TestResolve_PerRole(t *testing.T) {
	cases := []struct {
		role domain.FolderRole
		want []domain.ActionID
	}{
		{domain.RoleGeneric, nil},
		{domain.RoleSequenceFrameContainer, []domain.ActionID{
			domain.ActionSequenceSetFrameRate, domain.ActionSequenceSetType, domain.ActionSequenceDelete,
		}},
		{domain.RoleSpineFolder, []domain.ActionID{
			domain.ActionSpineCreateExport, domain.ActionSpineCopySequence,
			domain.ActionSpineCleanImages, domain.ActionSpineCreateProject,
		}},
		{domain.RoleSpineExportFolder, []domain.ActionID{domain.ActionExportCreateJSON42}},
		{domain.RoleJSON42Folder, []domain.ActionID{domain.ActionJSON42Publish}},
		{domain.RoleSequenceFrameParent, []domain.ActionID{domain.ActionSequenceCreate}},
	}
	for _, tc := range cases {
		got := Resolver{}.Resolve(tc.role, "/work/x", nil)
		if len(got) != len(tc.want) {
			t.Fatalf("%s：期望 %d 个操作，实际 %d", tc.role, len(tc.want), len(got))
		}
		for i := range got {
			if got[i].ID != tc.want[i] {
				t.Fatalf("%s：第 %d 个操作期望 %s，实际 %s", tc.role, i, tc.want[i], got[i].ID)
			}
		}
	}
}

func TestResolve_SequenceDefaultsFromName(t *testing.T) {
	folder := filepath.Join("/work", "序列帧", "(秒抽8帧)-冲刺")
	got := Resolver{}.Resolve(domain.RoleSequenceFrameContainer, folder, nil)

	rate := got[0].Inputs[0]
	if rate.Default != "8" || rate.Kind != domain.InputInt {
		t.Fatalf("帧率输入不符合预期：%+v", rate)
	}
	typ := got[1].Inputs[0]
	if typ.Default != "冲刺" {
		t.Fatalf("动画类型默认值不符合预期：%+v", typ)
	}
	if last := typ.Suggestions[len(typ.Suggestions)-1]; last != "冲刺" {
		t.Fatalf("自定义类型应追加到建议词表末尾：%v", typ.Suggestions)
	}
	if !got[2].Confirm {
		t.Fatalf("删除操作必须要求确认")
	}
}

func TestResolve_MonsterHistoryPrefill(t *testing.T) {
	r := Resolver{Monsters: &fakeMonsters{items: []string{"12", "07"}}}
	got := r.Resolve(domain.RoleJSON42Folder, "/work/json42", nil)
	in := got[0].Inputs[0]
	if in.Default != "12" || len(in.Suggestions) != 2 {
		t.Fatalf("怪物编号输入应以最近一次为默认值：%+v", in)
	}
}
