package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/John-Robertt/muselog/internal/resize"
)

var _ resize.Observer = (*progressUI)(nil)

// progressUI 在交互终端上逐张打印缩放进度。
//
// 约束：
// - 只写 w（通常是 stderr），stdout 的 JSON 结果不受影响
// - 每张图片一行：序号、百分比、尺寸变化或失败原因、预计剩余时间
type progressUI struct {
	w   io.Writer
	now func() time.Time

	mu      sync.Mutex
	started time.Time
	skipped int
}

func newProgressUI(w io.Writer) *progressUI {
	return &progressUI{w: w, now: time.Now}
}

func (p *progressUI) OnStart(total int, opts resize.Options) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.started = p.now()
	p.skipped = 0
	fmt.Fprintf(p.w, "缩放 %s -> %s（%s），共 %d 张\n", opts.Input, opts.Output, formatMode(opts.Mode, opts.Value), total)
}

func (p *progressUI) OnItemDone(idx, total int, res resize.ItemResult, dur time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	head := fmt.Sprintf("[%*d/%d %3d%%] %s", digits(total), idx, total, percent(idx, total), res.Name)
	if !res.OK() {
		p.skipped++
		fmt.Fprintf(p.w, "%s 跳过：%s\n", head, truncate(res.Err.Error(), 120))
		return
	}
	line := fmt.Sprintf("%s %dx%d -> %dx%d %s", head, res.FromW, res.FromH, res.ToW, res.ToH, formatShortDuration(dur))
	if idx < total {
		line += "  剩余约 " + formatElapsed(eta(p.now().Sub(p.started), idx, total))
	}
	fmt.Fprintln(p.w, line)
}

func (p *progressUI) OnDone(rep resize.Report, dur time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.w, "完成：已处理 %d，跳过 %d，共 %d（用时 %s）\n", rep.Processed, len(rep.Failed), rep.Total, formatElapsed(dur))
}

func formatMode(m resize.Mode, value int) string {
	switch m {
	case resize.ModeScale:
		return fmt.Sprintf("按比例 %d%%", value)
	case resize.ModeWidth:
		return fmt.Sprintf("宽 %dpx", value)
	case resize.ModeHeight:
		return fmt.Sprintf("高 %dpx", value)
	}
	return fmt.Sprintf("%s %d", m, value)
}

// eta 按已处理张数的平均耗时估算剩余时间。
func eta(elapsed time.Duration, done, total int) time.Duration {
	if done <= 0 || total <= done {
		return 0
	}
	return elapsed / time.Duration(done) * time.Duration(total-done)
}

func percent(done, total int) int {
	if total <= 0 {
		return 100
	}
	return done * 100 / total
}

func digits(n int) int {
	return len(fmt.Sprint(n))
}

// truncate 按 rune 截断，避免切坏中文。
func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s%3600/60, s%60)
}
