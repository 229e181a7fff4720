package navigator

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/John-Robertt/muselog/internal/actions"
	"github.com/John-Robertt/muselog/internal/domain"
	"github.com/John-Robertt/muselog/internal/infra/fsx"
	"github.com/John-Robertt/muselog/internal/meta"
)

type memState struct{ last string }

func (m *memState) SaveLastPath(p string) error { m.last = p; return nil }

func newNav(st LastPathSaver) *Navigator {
	return New(Options{State: st})
}

func TestNavigate_InvalidPathKeepsState(t *testing.T) {
	root := t.TempDir()
	n := newNav(nil)
	if _, err := n.Navigate(root); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	v, err := n.Navigate(filepath.Join(root, "missing"))
	if domain.ErrorCode(err) != domain.ErrCodeInvalidPath {
		t.Fatalf("期望 invalid_path，实际 %v", err)
	}
	if v.Path != root || n.Current() != root {
		t.Fatalf("失败时当前目录不应变化：%q", n.Current())
	}
	if n.CanGoBack() {
		t.Fatalf("失败导航不应写入历史")
	}
}

func TestNavigate_FileResolvesToParent(t *testing.T) {
	root := t.TempDir()
	f := filepath.Join(root, "prompt.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatalf("写入失败：%v", err)
	}
	v, err := newNav(nil).Navigate(f)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if v.Path != root {
		t.Fatalf("文件应解析为父目录：%q", v.Path)
	}
}

func TestNavigate_ViewAndLastPath(t *testing.T) {
	root := t.TempDir()
	spine := mkdir(t, root, "僵尸01", "spine")
	st := &memState{}
	n := newNav(st)

	v, err := n.Navigate(spine)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if v.Role != domain.RoleSpineFolder {
		t.Fatalf("期望 spine 角色，实际 %s", v.Role)
	}
	if len(v.Actions) != 4 {
		t.Fatalf("期望 4 个 spine 操作，实际 %d", len(v.Actions))
	}
	if len(v.Meta) == 0 || v.Meta[0].Label != meta.LabelFolder {
		t.Fatalf("元数据第一行应为目录：%+v", v.Meta)
	}
	if st.last != spine {
		t.Fatalf("应持久化上次访问目录：%q", st.last)
	}
}

func TestBackAndHistory(t *testing.T) {
	root := t.TempDir()
	a := mkdir(t, root, "a")
	b := mkdir(t, root, "b")
	c := mkdir(t, root, "c")
	n := newNav(nil)

	for _, p := range []string{a, b, b, c} {
		if _, err := n.Navigate(p); err != nil {
			t.Fatalf("不期望错误：%v", err)
		}
	}
	if got := n.History(); len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("同一目录重复导航不应写入历史：%v", got)
	}

	if err := os.RemoveAll(b); err != nil {
		t.Fatalf("删除失败：%v", err)
	}
	v, err := n.Back()
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if v.Path != a {
		t.Fatalf("应跳过已删除的目录回到 a，实际 %q", v.Path)
	}
	if n.CanGoBack() {
		t.Fatalf("后退不应再压入历史")
	}

	_, err = n.Back()
	if domain.ErrorCode(err) != domain.ErrCodeHistoryEmpty {
		t.Fatalf("期望 history_empty，实际 %v", err)
	}
	if n.Current() != a {
		t.Fatalf("历史为空时当前目录不应变化")
	}
}

func TestUp_WalksToExistingAncestor(t *testing.T) {
	root := t.TempDir()
	deep := mkdir(t, root, "a", "b", "c")
	n := newNav(nil)
	if _, err := n.Navigate(deep); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if err := os.RemoveAll(filepath.Join(root, "a", "b")); err != nil {
		t.Fatalf("删除失败：%v", err)
	}

	v, err := n.Up()
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if v.Path != filepath.Join(root, "a") {
		t.Fatalf("应回到最近的存在目录，实际 %q", v.Path)
	}
	if got := n.History(); len(got) != 1 || got[0] != deep {
		t.Fatalf("Up 应记录历史：%v", got)
	}
}

func TestRefresh_InvalidatesListing(t *testing.T) {
	root := t.TempDir()
	mkdir(t, root, "a")
	n := newNav(nil)
	if _, err := n.Navigate(root); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	names, err := n.Children()
	if err != nil || len(names) != 1 {
		t.Fatalf("期望 1 个子目录：%v %v", names, err)
	}

	mkdir(t, root, "b")
	if names, _ := n.Children(); len(names) != 1 {
		t.Fatalf("刷新前应使用缓存：%v", names)
	}
	if _, err := n.Refresh(); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if names, _ := n.Children(); len(names) != 2 {
		t.Fatalf("刷新后应重新读取：%v", names)
	}
	if n.CanGoBack() {
		t.Fatalf("刷新不应写入历史")
	}
}

func TestResume(t *testing.T) {
	root := t.TempDir()
	n := newNav(nil)
	v, err := n.Resume("", filepath.Join(root, "gone"), root)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if v.Path != root {
		t.Fatalf("应选择第一个存在的候选：%q", v.Path)
	}

	if _, err := newNav(nil).Resume(filepath.Join(root, "gone")); domain.ErrorCode(err) != domain.ErrCodeInvalidPath {
		t.Fatalf("没有可用候选期望 invalid_path，实际 %v", err)
	}
}

func TestEnterChild_CreatesMissing(t *testing.T) {
	root := t.TempDir()
	n := newNav(nil)
	if _, err := n.Navigate(root); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	v, err := n.EnterChild(ChildSequence)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if v.Path != filepath.Join(root, ChildSequence) || v.Role != domain.RoleSequenceFrameParent {
		t.Fatalf("期望进入序列帧目录：%+v", v)
	}
	if _, err := n.EnterChild("随便"); domain.ErrorCode(err) != domain.ErrCodeInvalidInput {
		t.Fatalf("非快捷目录期望 invalid_input，实际 %v", err)
	}
}

func TestEnterChild_FileInTheWay(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ChildSequence), []byte("x"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
	n := newNav(nil)
	if _, err := n.Navigate(root); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	v, err := n.EnterChild(ChildSequence)
	if domain.ErrorCode(err) != domain.ErrCodeOSFailure || !strings.Contains(err.Error(), "同名文件已存在") {
		t.Fatalf("期望 同名文件已存在，实际 %v", err)
	}
	if v.Path != root {
		t.Fatalf("失败时视图不应变化：%q", v.Path)
	}
}

func TestDeliver_RenameNavigatesToParent(t *testing.T) {
	root := t.TempDir()
	parent := mkdir(t, root, "序列帧")
	seq := mkdir(t, parent, "(秒抽4帧)-待机")
	n := newNav(nil)
	if _, err := n.Navigate(seq); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	out, err := (&actions.Runner{}).Run(domain.ActionSequenceSetFrameRate, seq, actions.Input{FrameRate: 8})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	v, err := n.DeliverAll(out.Requests)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if v.Path != parent {
		t.Fatalf("重命名后应回到父目录，实际 %q", v.Path)
	}
	if _, err := os.Stat(filepath.Join(parent, "(秒抽8帧)-待机")); err != nil {
		t.Fatalf("期望目录已重命名：%v", err)
	}
	if n.CanGoBack() {
		t.Fatalf("请求处理后的导航不应写入历史")
	}
}

func TestDeliver_DeleteNavigatesToParent(t *testing.T) {
	root := t.TempDir()
	parent := mkdir(t, root, "序列帧")
	seq := mkdir(t, parent, "(秒抽4帧)-待机")
	n := newNav(nil)
	if _, err := n.Navigate(seq); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	v, err := n.Deliver(domain.DeleteRequest{Path: seq})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if v.Path != parent {
		t.Fatalf("删除后应回到父目录，实际 %q", v.Path)
	}
	if _, err := os.Stat(seq); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("目录应已删除：%v", err)
	}
}

func TestDeliver_FailureKeepsView(t *testing.T) {
	root := t.TempDir()
	seq := mkdir(t, root, "序列帧", "(秒抽4帧)-待机")
	n := newNav(nil)
	if _, err := n.Navigate(seq); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	old := renameFunc
	renameFunc = func(string, string) error { return errors.New("permission denied") }
	t.Cleanup(func() { renameFunc = old })

	v, err := n.Deliver(domain.RenameRequest{OldPath: seq, NewPath: filepath.Join(root, "序列帧", "x")})
	if domain.ErrorCode(err) != domain.ErrCodeOSFailure {
		t.Fatalf("期望 os_failure，实际 %v", err)
	}
	if v.Path != seq || n.Current() != seq {
		t.Fatalf("失败时视图不应变化：%q", v.Path)
	}
}

func TestDeliver_RenameOntoExisting(t *testing.T) {
	root := t.TempDir()
	seq := mkdir(t, root, "序列帧", "(秒抽4帧)-待机")
	busy := mkdir(t, root, "序列帧", "(秒抽4帧)-攻击")
	n := newNav(nil)
	if _, err := n.Navigate(seq); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	v, err := n.Deliver(domain.RenameRequest{OldPath: seq, NewPath: busy})
	if domain.ErrorCode(err) != domain.ErrCodeOSFailure || !strings.Contains(err.Error(), "目标已存在") {
		t.Fatalf("期望 目标已存在，实际 %v", err)
	}
	if v.Path != seq {
		t.Fatalf("失败时视图不应变化：%q", v.Path)
	}
}

func TestDeliver_RenameCrossDevice(t *testing.T) {
	root := t.TempDir()
	seq := mkdir(t, root, "序列帧", "(秒抽4帧)-待机")
	n := newNav(nil)
	if _, err := n.Navigate(seq); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	old := renameFunc
	renameFunc = func(src, dst string) error {
		return &fsx.CrossDeviceError{Src: src, Dst: dst, Err: errors.New("invalid cross-device link")}
	}
	t.Cleanup(func() { renameFunc = old })

	_, err := n.Deliver(domain.RenameRequest{OldPath: seq, NewPath: filepath.Join(root, "序列帧", "x")})
	if domain.ErrorCode(err) != domain.ErrCodeOSFailure || !strings.Contains(err.Error(), "不能跨盘重命名") {
		t.Fatalf("期望 不能跨盘重命名，实际 %v", err)
	}
	if strings.Contains(err.Error(), "重命名目录失败") {
		t.Fatalf("跨盘错误应单独提示：%v", err)
	}
}

func mkdir(t *testing.T, parts ...string) string {
	t.Helper()
	p := filepath.Join(parts...)
	if err := os.MkdirAll(p, 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	return p
}
