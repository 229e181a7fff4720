// Package history 实现浏览器的“后退”历史栈。
package history

import "github.com/John-Robertt/muselog/internal/pathx"

// DefaultLimit 是历史记录条数上限，超出后丢弃最旧的条目。
const DefaultLimit = 50

// Stack 是有上限的后退栈（切片末尾为栈顶）。
//
// 约束：
// - Push 与栈顶为同一目录（pathx.SameFolder）时不入栈
// - 超过上限时从最旧的一端淘汰
// - 非并发安全：由唯一的 Navigator 持有
type Stack struct {
	items []string
	limit int

	// exists 用于 Pop 时过滤已不存在的目录；测试可替换。
	exists func(string) bool
}

func New(limit int) *Stack {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack{limit: limit, exists: pathx.IsDir}
}

func (s *Stack) Push(path string) {
	if path == "" {
		return
	}
	if n := len(s.items); n > 0 && pathx.SameFolder(s.items[n-1], path) {
		return
	}
	s.items = append(s.items, path)
	if overflow := len(s.items) - s.limit; overflow > 0 {
		s.items = append(s.items[:0:0], s.items[overflow:]...)
	}
}

// Pop 弹出栈顶，直到遇到一个当前仍存在的目录；栈耗尽则返回 ("", false)。
func (s *Stack) Pop() (string, bool) {
	for len(s.items) > 0 {
		n := len(s.items) - 1
		p := s.items[n]
		s.items = s.items[:n]
		if p != "" && s.exists(p) {
			return p, true
		}
	}
	return "", false
}

func (s *Stack) Empty() bool { return len(s.items) == 0 }

func (s *Stack) Len() int { return len(s.items) }

// Items 返回从旧到新的快照。
func (s *Stack) Items() []string {
	return append([]string(nil), s.items...)
}
