// Package state 持久化每用户的会话状态（<config dir>/state.json）。
//
// 约束：
// - 文件不存在或损坏时按空状态处理，不报错
// - 读-改-写在 gofrs/flock 文件锁内完成，多个进程/面板不会互相覆盖
// - 写入为整文件原子替换
package state

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/John-Robertt/muselog/internal/infra/fsx"
)

const (
	FileName = "state.json"

	MonsterHistoryLimit   = 50
	ReferenceHistoryLimit = 20
)

// State 是 state.json 的结构。
type State struct {
	LastPath         string   `json:"last_path,omitempty"`
	MonsterNumbers   []string `json:"monster_numbers"`
	ReferenceHistory []string `json:"reference_history"`
	ResizeInput      string   `json:"resize_input,omitempty"`
	ResizeOutput     string   `json:"resize_output,omitempty"`
}

// Store 读写 Dir 下的 state.json。
type Store struct {
	Dir string
	Log *slog.Logger
}

func New(dir string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{Dir: filepath.Clean(strings.TrimSpace(dir)), Log: log}
}

func (s *Store) Path() string { return filepath.Join(s.Dir, FileName) }

// Load 读取当前状态；任何读取/解析错误都降级为空状态。
func (s *Store) Load() State {
	b, err := os.ReadFile(s.Path())
	if err != nil {
		if !os.IsNotExist(err) {
			s.Log.Debug("读取状态文件失败，按空处理", "path", s.Path(), "error", err)
		}
		return State{}
	}
	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		s.Log.Debug("状态文件无法解析，按空处理", "path", s.Path(), "error", err)
		return State{}
	}
	st.MonsterNumbers = Normalize(st.MonsterNumbers, MonsterHistoryLimit)
	st.ReferenceHistory = Normalize(st.ReferenceHistory, ReferenceHistoryLimit)
	return st
}

// Update 在文件锁内执行读-改-写。
func (s *Store) Update(fn func(*State)) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("创建配置目录失败：%w", err)
	}
	lock := flock.New(s.Path() + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("锁定状态文件失败：%w", err)
	}
	defer func() { _ = lock.Unlock() }()

	st := s.Load()
	fn(&st)
	st.MonsterNumbers = Normalize(st.MonsterNumbers, MonsterHistoryLimit)
	st.ReferenceHistory = Normalize(st.ReferenceHistory, ReferenceHistoryLimit)

	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return fsx.WriteFileAtomicReplace(s.Dir, FileName, b)
}

func (s *Store) LastPath() string { return s.Load().LastPath }

func (s *Store) SaveLastPath(p string) error {
	if strings.TrimSpace(p) == "" {
		return nil
	}
	return s.Update(func(st *State) { st.LastPath = p })
}

func (s *Store) MonsterNumbers() []string { return s.Load().MonsterNumbers }

// RecordMonsterNumber 把 n 放到怪物编号历史的最前面（已存在则移动，不重复）。
func (s *Store) RecordMonsterNumber(n string) error {
	return s.Update(func(st *State) {
		st.MonsterNumbers = PushRecent(st.MonsterNumbers, n, MonsterHistoryLimit)
	})
}

func (s *Store) ReferenceHistory() []string { return s.Load().ReferenceHistory }

func (s *Store) RecordReference(ref string) error {
	return s.Update(func(st *State) {
		st.ReferenceHistory = PushRecent(st.ReferenceHistory, ref, ReferenceHistoryLimit)
	})
}

func (s *Store) SaveResizeDefaults(in, out string) error {
	return s.Update(func(st *State) {
		st.ResizeInput = in
		st.ResizeOutput = out
	})
}
