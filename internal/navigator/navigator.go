// Package navigator 维护一个浏览视图的当前目录与历史栈。
//
// 约束：
// - 一个 Navigator 独占自己的当前路径与历史栈，不跨视图共享
// - 所有请求按到达顺序同步处理；Navigator 不做并发保护
// - 每次导航都重新生成元数据与操作列表，不复用上一次的结果
package navigator

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/John-Robertt/muselog/internal/actions"
	"github.com/John-Robertt/muselog/internal/classify"
	"github.com/John-Robertt/muselog/internal/domain"
	"github.com/John-Robertt/muselog/internal/history"
	"github.com/John-Robertt/muselog/internal/infra/fsx"
	"github.com/John-Robertt/muselog/internal/meta"
	"github.com/John-Robertt/muselog/internal/pathx"
	"github.com/John-Robertt/muselog/internal/scan"
)

// 快捷子目录名。
const (
	ChildReference = "参考图"
	ChildSequence  = "序列帧"
	ChildSpine     = "Spine"
	ChildVideo     = "视频"
)

// QuickChildren 是允许通过 EnterChild 进入（不存在则创建）的子目录。
var QuickChildren = []string{ChildReference, ChildSequence, ChildSpine, ChildVideo}

var (
	renameFunc    = fsx.RenameDir
	removeAllFunc = fsx.RemoveAll
)

// LastPathSaver 持久化“上次访问的目录”。
type LastPathSaver interface {
	SaveLastPath(p string) error
}

type Options struct {
	Resolver  actions.Resolver
	Collector *meta.Collector
	// State 为 nil 时不持久化上次访问目录。
	State LastPathSaver
	Log   *slog.Logger
	// HistoryLimit<=0 时使用 history.DefaultLimit。
	HistoryLimit int
}

// View 是一次导航后的完整视图。
type View struct {
	Path    string             `json:"path"`
	Role    domain.FolderRole  `json:"role"`
	Meta    []domain.MetaEntry `json:"meta"`
	Actions []domain.Action    `json:"actions"`
}

// Navigator 是 Idle / AtPath(p) 两态的状态机。
type Navigator struct {
	opts    Options
	log     *slog.Logger
	history *history.Stack

	view View
	at   bool

	// listings 缓存目录的子目录列表（key 为 pathx.Key）。
	listings map[string][]string
}

func New(opts Options) *Navigator {
	if opts.Collector == nil {
		opts.Collector = &meta.Collector{Log: opts.Log}
	}
	limit := opts.HistoryLimit
	if limit <= 0 {
		limit = history.DefaultLimit
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &Navigator{
		opts:     opts,
		log:      log,
		history:  history.New(limit),
		listings: make(map[string][]string),
	}
}

// View 返回当前视图；尚未导航时 ok=false。
func (n *Navigator) View() (View, bool) { return n.view, n.at }

// Current 返回当前目录（Idle 时为空）。
func (n *Navigator) Current() string { return n.view.Path }

// CanGoBack 决定“后退”是否可用。
func (n *Navigator) CanGoBack() bool { return !n.history.Empty() }

// History 返回历史栈快照（最早在前）。
func (n *Navigator) History() []string { return n.history.Items() }

// Navigate 导航到 path 并记录历史。
func (n *Navigator) Navigate(path string) (View, error) {
	return n.NavigateWith(path, true, false)
}

// NavigateWith 导航到 path。
//
// - path 是文件时导航到其所在目录
// - path 不存在或不是目录时返回 invalid_path，状态不变
// - addHistory=true 且新旧路径不同时，把旧路径压入历史
// - refreshTree=true 时丢弃目标目录的列表缓存
func (n *Navigator) NavigateWith(path string, addHistory, refreshTree bool) (View, error) {
	if path == "" {
		return n.view, domain.InvalidPath(path)
	}
	p := pathx.Normalize(path)
	if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
		p = filepath.Dir(p)
	}
	if !pathx.IsDir(p) {
		return n.view, domain.InvalidPath(p)
	}

	if addHistory && n.at && !pathx.SameFolder(n.view.Path, p) {
		n.history.Push(n.view.Path)
	}
	if refreshTree {
		delete(n.listings, pathx.Key(p))
	}

	role := classify.Classify(p)
	entries := n.opts.Collector.Collect(p)
	n.view = View{
		Path:    p,
		Role:    role,
		Meta:    entries,
		Actions: n.opts.Resolver.Resolve(role, p, entries),
	}
	n.at = true

	if n.opts.State != nil {
		if err := n.opts.State.SaveLastPath(p); err != nil {
			n.log.Warn("保存上次访问目录失败", "path", p, "error", err)
		}
	}
	n.log.Debug("导航", "path", p, "role", role.String())
	return n.view, nil
}

// Back 返回历史中最近一个仍存在的目录，不再压入历史。
func (n *Navigator) Back() (View, error) {
	target, ok := n.history.Pop()
	if !ok {
		return n.view, &domain.Error{Code: domain.ErrCodeHistoryEmpty}
	}
	return n.NavigateWith(target, false, false)
}

// Up 导航到当前目录的父目录；当前目录已被删除时向上找最近的存在目录。
func (n *Navigator) Up() (View, error) {
	if !n.at {
		return n.view, domain.InvalidPath("")
	}
	parent, ok := pathx.Parent(n.view.Path)
	if !ok {
		return n.view, domain.InvalidInput("已经是根目录")
	}
	target, ok := pathx.NearestExisting(parent)
	if !ok {
		return n.view, domain.InvalidPath(parent)
	}
	return n.NavigateWith(target, true, false)
}

// Refresh 丢弃当前目录的缓存并重新导航，不修改历史。
func (n *Navigator) Refresh() (View, error) {
	if !n.at {
		return n.view, domain.InvalidPath("")
	}
	return n.NavigateWith(n.view.Path, false, true)
}

// Resume 依次尝试 candidates，导航到第一个存在的目录（不记录历史）。
func (n *Navigator) Resume(candidates ...string) (View, error) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if pathx.IsDir(pathx.Normalize(c)) {
			return n.NavigateWith(c, false, true)
		}
	}
	return n.view, domain.InvalidPath(fmt.Sprint(candidates))
}

// EnterChild 进入当前目录下的快捷子目录，不存在时先创建。
func (n *Navigator) EnterChild(name string) (View, error) {
	if !n.at {
		return n.view, domain.InvalidPath("")
	}
	if !isQuickChild(name) {
		return n.view, domain.InvalidInput(fmt.Sprintf("不支持的快捷目录：%s", name))
	}
	target := filepath.Join(n.view.Path, name)
	created, err := fsx.EnsureDir(target)
	if err != nil {
		if fsx.IsPathTypeConflict(err) {
			return n.view, domain.OSFailure(target, "同名文件已存在，无法创建目录", err)
		}
		return n.view, domain.OSFailure(target, "无法创建目录", err)
	}
	if created {
		delete(n.listings, pathx.Key(n.view.Path))
		n.log.Info("创建目录", "op", "mkdir", "path", target)
	}
	return n.Navigate(target)
}

// Children 返回当前目录的子目录名（排序），结果按目录缓存。
func (n *Navigator) Children() ([]string, error) {
	if !n.at {
		return nil, domain.InvalidPath("")
	}
	key := pathx.Key(n.view.Path)
	if names, ok := n.listings[key]; ok {
		return names, nil
	}
	names, err := scan.Dirs(n.view.Path)
	if err != nil {
		return nil, domain.OSFailure(n.view.Path, "读取目录失败", err)
	}
	n.listings[key] = names
	return names, nil
}

// Deliver 执行操作产生的重命名/删除请求。
//
// 成功后导航到受影响目录的父目录（不记录历史）；失败时记录日志并保持当前视图。
func (n *Navigator) Deliver(req domain.Request) (View, error) {
	var err error
	switch r := req.(type) {
	case domain.RenameRequest:
		err = n.rename(r)
	case domain.DeleteRequest:
		err = n.remove(r)
	default:
		err = domain.InvalidInput(fmt.Sprintf("未知请求类型：%T", req))
	}
	if err != nil {
		n.log.Error("执行目录请求失败", "path", req.Target(), "error", err)
		return n.view, err
	}

	parent := filepath.Dir(pathx.Normalize(req.Target()))
	delete(n.listings, pathx.Key(parent))
	return n.NavigateWith(parent, false, true)
}

// DeliverAll 按顺序执行 reqs，遇到第一个失败即停止。
func (n *Navigator) DeliverAll(reqs []domain.Request) (View, error) {
	v := n.view
	for _, r := range reqs {
		var err error
		if v, err = n.Deliver(r); err != nil {
			return v, err
		}
	}
	return v, nil
}

func (n *Navigator) rename(r domain.RenameRequest) error {
	if !pathx.IsDir(r.OldPath) {
		return domain.InvalidPath(r.OldPath)
	}
	if err := renameFunc(r.OldPath, r.NewPath); err != nil {
		if fsx.IsExists(err) {
			return domain.OSFailure(r.NewPath, "目标已存在", err)
		}
		if fsx.IsCrossDevice(err) {
			return domain.OSFailure(r.OldPath, "不能跨盘重命名", err)
		}
		return domain.OSFailure(r.OldPath, "重命名目录失败", err)
	}
	n.log.Info("重命名目录", "op", "rename", "path", r.OldPath, "dst", r.NewPath)
	return nil
}

func (n *Navigator) remove(r domain.DeleteRequest) error {
	if err := removeAllFunc(r.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.InvalidPath(r.Path)
		}
		return domain.OSFailure(r.Path, "删除目录失败", err)
	}
	n.log.Info("删除目录", "op", "remove", "path", r.Path)
	return nil
}

func isQuickChild(name string) bool {
	for _, c := range QuickChildren {
		if c == name {
			return true
		}
	}
	return false
}
