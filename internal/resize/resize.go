// Package resize 批量缩放目录中的图片。
package resize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/John-Robertt/muselog/internal/domain"
	"github.com/John-Robertt/muselog/internal/infra/fsx"
	"github.com/John-Robertt/muselog/internal/infra/imgx"
	"github.com/John-Robertt/muselog/internal/pathx"
	"github.com/John-Robertt/muselog/internal/scan"
)

// Mode 是尺寸计算方式。
type Mode string

const (
	ModeScale  Mode = "scale"  // 按百分比
	ModeWidth  Mode = "width"  // 固定宽度，高度等比
	ModeHeight Mode = "height" // 固定高度，宽度等比
)

// ParseMode 解析 CLI/配置中的模式字符串（大小写不敏感）。
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeScale, ModeWidth, ModeHeight:
		return m, nil
	default:
		return "", domain.InvalidInput(fmt.Sprintf("未知缩放模式：%q（可选 scale|width|height）", s))
	}
}

// NewSize 按 mode 计算 w×h 图片的目标尺寸，结果向下取整。
//
// 结果可能小于 1，由调用方判定为无效尺寸。
func NewSize(mode Mode, value, w, h int) (int, int) {
	switch mode {
	case ModeScale:
		return w * value / 100, h * value / 100
	case ModeWidth:
		if w <= 0 {
			return 0, 0
		}
		return value, h * value / w
	case ModeHeight:
		if h <= 0 {
			return 0, 0
		}
		return w * value / h, value
	default:
		return 0, 0
	}
}

type Options struct {
	Input  string
	Output string
	Mode   Mode
	Value  int

	Log *slog.Logger
}

// ItemResult 是单张图片的处理结果。
type ItemResult struct {
	Name string `json:"name"`
	Dst  string `json:"dst,omitempty"`

	FromW int `json:"from_w,omitempty"`
	FromH int `json:"from_h,omitempty"`
	ToW   int `json:"to_w,omitempty"`
	ToH   int `json:"to_h,omitempty"`

	Err error `json:"-"`
}

func (r ItemResult) OK() bool { return r.Err == nil }

// Failure 是被跳过的图片及原因。
type Failure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// Report 是一次批处理的汇总。
type Report struct {
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	Mode      Mode      `json:"mode"`
	Value     int       `json:"value"`
	Total     int       `json:"total"`
	Processed int       `json:"processed"`
	Failed    []Failure `json:"failed"`
}

// Run 处理 opts.Input 下的全部图片（不递归），结果写入 opts.Output 的同名文件（覆盖）。
//
// 约束：
// - 输入目录不存在/不是目录、输出目录无法创建、参数无效时返回 error，不处理任何图片
// - 单张图片失败只记录并跳过，不影响其余图片
// - ctx 取消时停止处理后续图片，已处理的结果保留
func Run(ctx context.Context, opts Options, obs Observer) (Report, error) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	in := pathx.Normalize(opts.Input)
	out := pathx.Normalize(opts.Output)
	rep := Report{Input: in, Output: out, Mode: opts.Mode, Value: opts.Value, Failed: []Failure{}}

	if _, err := ParseMode(string(opts.Mode)); err != nil {
		return rep, err
	}
	if opts.Value <= 0 {
		return rep, domain.InvalidInput(fmt.Sprintf("缩放数值必须大于 0：%d", opts.Value))
	}
	if strings.TrimSpace(opts.Input) == "" || !pathx.IsDir(in) {
		return rep, domain.InvalidPath(in)
	}
	if strings.TrimSpace(opts.Output) == "" {
		return rep, domain.InvalidInput("输出目录不能为空")
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return rep, domain.OSFailure(out, "创建输出目录失败", err)
	}

	files, err := scan.Files(in, imgx.IsImageExt)
	if err != nil {
		return rep, domain.OSFailure(in, "读取输入目录失败", err)
	}
	rep.Total = len(files)

	started := time.Now()
	if obs != nil {
		obs.OnStart(rep.Total, opts)
	}

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			log.Warn("批量缩放已取消", "done", i, "total", rep.Total)
			break
		}
		t0 := time.Now()
		res := processOne(f, out, opts.Mode, opts.Value)
		if res.OK() {
			rep.Processed++
			log.Info("缩放图片", "op", "resize", "path", f.AbsPath, "dst", res.Dst,
				"from", fmt.Sprintf("%dx%d", res.FromW, res.FromH), "to", fmt.Sprintf("%dx%d", res.ToW, res.ToH))
		} else {
			rep.Failed = append(rep.Failed, Failure{Name: f.Name, Error: res.Err.Error()})
			log.Warn("图片处理失败，已跳过", "path", f.AbsPath, "error", res.Err)
		}
		if obs != nil {
			obs.OnItemDone(i+1, rep.Total, res, time.Since(t0))
		}
	}

	if obs != nil {
		obs.OnDone(rep, time.Since(started))
	}
	return rep, ctx.Err()
}

func processOne(f scan.File, outDir string, mode Mode, value int) ItemResult {
	res := ItemResult{Name: f.Name}

	src, _, err := imgx.DecodeFile(f.AbsPath)
	if err != nil {
		res.Err = fmt.Errorf("解码失败：%w", err)
		return res
	}
	b := src.Bounds()
	res.FromW, res.FromH = b.Dx(), b.Dy()

	w, h := NewSize(mode, value, res.FromW, res.FromH)
	if w < 1 || h < 1 {
		res.Err = fmt.Errorf("目标尺寸无效：%dx%d", w, h)
		return res
	}
	res.ToW, res.ToH = w, h

	dst, err := imgx.Resize(src, w, h)
	if err != nil {
		res.Err = err
		return res
	}
	data, err := imgx.EncodeForName(f.Name, dst)
	if err != nil {
		res.Err = fmt.Errorf("编码失败：%w", err)
		return res
	}
	if err := fsx.WriteFileAtomicReplace(outDir, f.Name, data); err != nil {
		res.Err = fmt.Errorf("写入失败：%w", err)
		return res
	}
	res.Dst = filepath.Join(outDir, f.Name)
	return res
}
