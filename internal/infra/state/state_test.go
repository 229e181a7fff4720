package state

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, nil)

	if got := s.Load(); got.LastPath != "" || len(got.MonsterNumbers) != 0 {
		t.Fatalf("文件不存在应返回空状态：%+v", got)
	}

	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("{"), 0o644); err != nil {
		t.Fatalf("写入失败：%v", err)
	}
	if got := s.Load(); got.LastPath != "" {
		t.Fatalf("损坏文件应返回空状态：%+v", got)
	}
}

func TestSaveLastPath(t *testing.T) {
	s := New(t.TempDir(), nil)
	if err := s.SaveLastPath("/work/僵尸01"); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if got := s.LastPath(); got != "/work/僵尸01" {
		t.Fatalf("期望读回 last_path，实际 %q", got)
	}
}

func TestRecordMonsterNumber_MoveToFront(t *testing.T) {
	s := New(t.TempDir(), nil)
	for _, n := range []string{"01", "02", "03"} {
		if err := s.RecordMonsterNumber(n); err != nil {
			t.Fatalf("不期望错误：%v", err)
		}
	}
	if err := s.RecordMonsterNumber("01"); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	got := s.MonsterNumbers()
	want := []string{"01", "03", "02"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("期望 %v，实际 %v", want, got)
	}
}

func TestRecordMonsterNumber_Cap(t *testing.T) {
	s := New(t.TempDir(), nil)
	for i := 0; i < MonsterHistoryLimit+10; i++ {
		if err := s.RecordMonsterNumber(fmt.Sprintf("%03d", i)); err != nil {
			t.Fatalf("不期望错误：%v", err)
		}
	}
	got := s.MonsterNumbers()
	if len(got) != MonsterHistoryLimit {
		t.Fatalf("期望 %d 条，实际 %d", MonsterHistoryLimit, len(got))
	}
	if got[0] != fmt.Sprintf("%03d", MonsterHistoryLimit+9) {
		t.Fatalf("最近的编号应在最前：%q", got[0])
	}
}

func TestPushRecent(t *testing.T) {
	got := PushRecent([]string{"a", "b", "c"}, " b ", 20)
	if fmt.Sprint(got) != "[b a c]" {
		t.Fatalf("期望 [b a c]，实际 %v", got)
	}
	if got := PushRecent([]string{"a"}, "  ", 20); len(got) != 1 {
		t.Fatalf("空值不应入列：%v", got)
	}
}

func TestUpdate_PreservesOtherFields(t *testing.T) {
	s := New(t.TempDir(), nil)
	if err := s.SaveLastPath("/x"); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if err := s.RecordReference("ref.png"); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if err := s.SaveResizeDefaults("/in", "/out"); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	st := s.Load()
	if st.LastPath != "/x" || len(st.ReferenceHistory) != 1 || st.ResizeInput != "/in" || st.ResizeOutput != "/out" {
		t.Fatalf("字段未被保留：%+v", st)
	}
}
