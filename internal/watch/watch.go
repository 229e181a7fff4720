// Package watch 监听单个目录的变化，并把一段时间内的事件合并为一次回调。
package watch

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/John-Robertt/muselog/internal/domain"
	"github.com/John-Robertt/muselog/internal/pathx"
)

// DefaultDebounce 是默认的事件合并窗口。
const DefaultDebounce = 500 * time.Millisecond

type Options struct {
	// Debounce<=0 时使用 DefaultDebounce。
	Debounce time.Duration
	Log      *slog.Logger
}

// Change 是一次合并后的变化：窗口内涉及的路径（去重、排序）。
type Change struct {
	Dir   string
	Paths []string
}

// Watcher 监听一个目录（不递归）。
type Watcher struct {
	dir      string
	debounce time.Duration
	log      *slog.Logger
	fw       *fsnotify.Watcher
}

// New 创建并开始监听 dir。返回后目录上的变化即会被记录。
func New(dir string, opts Options) (*Watcher, error) {
	dir = pathx.Normalize(dir)
	if !pathx.IsDir(dir) {
		return nil, domain.InvalidPath(dir)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, domain.OSFailure(dir, "创建目录监听失败", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, domain.OSFailure(dir, "添加目录监听失败", err)
	}
	d := opts.Debounce
	if d <= 0 {
		d = DefaultDebounce
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{dir: dir, debounce: d, log: log, fw: fw}, nil
}

func (w *Watcher) Dir() string { return w.dir }

// Run 处理事件直到 ctx 取消或监听器被关闭。
//
// 约束：
// - onChange 在 Run 所在的 goroutine 上串行调用，不会并发
// - Chmod 事件被忽略
// - 返回前关闭底层监听器
func (w *Watcher) Run(ctx context.Context, onChange func(Change)) error {
	defer w.fw.Close()

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = map[string]struct{}{}
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			pending[ev.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.log.Warn("目录事件溢出，按一次变化处理", "dir", w.dir)
				pending[w.dir] = struct{}{}
				continue
			}
			w.log.Warn("目录监听出错", "dir", w.dir, "error", err)

		case <-timerC:
			timerC = nil
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = map[string]struct{}{}
			w.log.Debug("目录变化", "dir", w.dir, "paths", len(paths))
			onChange(Change{Dir: w.dir, Paths: paths})
		}
	}
}

// Close 停止监听；正在运行的 Run 会随之返回。
func (w *Watcher) Close() error { return w.fw.Close() }
