// Package logging 构造全局 slog.Logger：终端输出（console/json）+ 可选的日志文件。
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultFileName 是日志目录下的默认日志文件名。
const DefaultFileName = "app.log"

type Options struct {
	Level  string // debug|info|warn|error
	Format string // console|json
	// File 为空时不写日志文件。
	File string
	// Stderr 为 nil 时使用 os.Stderr。
	Stderr io.Writer
}

// ParseLevel 解析日志级别；未知值返回 error。
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("不支持的日志级别：%q", level)
	}
}

// New 返回 logger 与用于关闭日志文件的 closer（没有日志文件时 closer 为空操作）。
//
// 终端 handler 按 Format 选择；日志文件固定为 JSON 行，便于事后检索。
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nopCloser{}, err
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var term slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "console", "":
		term = slog.NewTextHandler(stderr, handlerOptions(level))
	case "json":
		term = slog.NewJSONHandler(stderr, handlerOptions(level))
	default:
		return nil, nopCloser{}, fmt.Errorf("不支持的日志格式：%q", opts.Format)
	}

	path := strings.TrimSpace(opts.File)
	if path == "" {
		return slog.New(term), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nopCloser{}, fmt.Errorf("创建日志目录失败：%w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nopCloser{}, fmt.Errorf("打开日志文件失败：%w", err)
	}
	file := slog.NewJSONHandler(f, handlerOptions(level))
	return slog.New(fanout{term, file}), f, nil
}

// Discard 返回丢弃全部输出的 logger（测试与静默模式使用）。
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func handlerOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().Format(time.DateTime))
			}
			return a
		},
	}
}

// fanout 把同一条记录写到多个 handler。
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithAttrs(attrs)
	}
	return next
}

func (f fanout) WithGroup(name string) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithGroup(name)
	}
	return next
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
