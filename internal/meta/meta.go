// Package meta 扫描目录中的约定文件，生成元数据面板的行。
package meta

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/John-Robertt/muselog/internal/domain"
	"github.com/John-Robertt/muselog/internal/infra/imgx"
	"github.com/John-Robertt/muselog/internal/infra/textx"
	"github.com/John-Robertt/muselog/internal/scan"
)

const (
	LabelFolder = "目录"
	LabelPrompt = "提示词"
	LabelModel  = "模型名称"
	LabelParams = "其他参数"
	LabelVideo  = "视频文件"
	LabelRefs   = "参考图"

	// MaxTextLen 是文本类值展示的最大字符数。
	MaxTextLen = 2000
	// MaxRefs 是参考图展示的最大数量，超出部分以 " ..." 表示。
	MaxRefs = 20
)

var (
	// PromptFiles 是约定的提示词类文本文件名（按优先级）。
	PromptFiles = []string{"prompt.txt", "prompts.txt", "neg_prompt.txt", "caption.txt"}
	// ParamFiles 是约定的 JSON 参数文件名（按优先级，取第一个可解析的）。
	ParamFiles = []string{"metadata.json", "params.json", "info.json"}
	// ModelKeys 是模型名称字段的候选键（按优先级）。
	ModelKeys = []string{"model", "model_name", "ckpt"}

	VideoExts = []string{".mp4", ".mov", ".avi", ".mkv", ".webm"}
)

// Collector 收集目录元数据。零值可用。
type Collector struct {
	Log *slog.Logger
}

func (c *Collector) log() *slog.Logger {
	if c == nil || c.Log == nil {
		return slog.Default()
	}
	return c.Log
}

// Collect 按固定顺序探测 folder，返回元数据行。每个探测相互独立，缺失即跳过。
//
// 顺序：
// 1) 目录本身（总是存在）
// 2) 提示词类文本文件：每个存在的文件一行
// 3) 第一个可解析为对象的 JSON 参数文件：模型名称 / 提示词（2 未提供时）/ 其他参数
// 4) 视频文件：每个一行
// 5) 参考图：文件名含 ref/reference 的图片 + ref/ 子目录中的图片
func (c *Collector) Collect(folder string) []domain.MetaEntry {
	out := []domain.MetaEntry{{
		Label:   LabelFolder,
		Value:   folder,
		Action:  domain.MetaActionOpenFolder,
		Payload: folder,
	}}

	havePrompt := false
	for _, name := range PromptFiles {
		p := filepath.Join(folder, name)
		if !isFile(p) {
			continue
		}
		text, err := textx.ReadText(p)
		if err != nil {
			c.log().Debug("读取文本失败，跳过", "path", p, "error", err)
			continue
		}
		out = append(out, domain.MetaEntry{
			Label:   fmt.Sprintf("%s (%s)", LabelPrompt, name),
			Value:   truncateRunes(strings.TrimSpace(text), MaxTextLen),
			Action:  domain.MetaActionOpenFile,
			Payload: p,
		})
		havePrompt = true
	}

	if params, path, ok := c.firstJSON(folder); ok {
		if model := firstString(params, ModelKeys...); model != "" {
			out = append(out, domain.MetaEntry{Label: LabelModel, Value: model})
		}
		if v, ok := params["prompt"]; ok && !havePrompt {
			out = append(out, domain.MetaEntry{Label: LabelPrompt, Value: truncateRunes(display(v), MaxTextLen)})
		}
		out = append(out, domain.MetaEntry{
			Label:   LabelParams,
			Value:   compactJSON(params),
			Action:  domain.MetaActionOpenFile,
			Payload: path,
		})
	}

	videos, err := scan.Files(folder, scan.ExtIn(VideoExts...))
	if err != nil {
		c.log().Debug("列出视频失败，跳过", "folder", folder, "error", err)
	}
	for _, v := range videos {
		out = append(out, domain.MetaEntry{
			Label:   LabelVideo,
			Value:   v.Name,
			Action:  domain.MetaActionVideoDetail,
			Payload: v.AbsPath,
		})
	}

	if refs := References(folder); len(refs) > 0 {
		out = append(out, domain.MetaEntry{Label: LabelRefs, Value: joinRefs(refs)})
	}
	return out
}

// References 返回目录中的参考图（去重，保持发现顺序）。
func References(folder string) []string {
	var refs []string
	seen := map[string]struct{}{}
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		refs = append(refs, p)
	}

	if images, err := scan.Files(folder, imgx.IsImageExt); err == nil {
		for _, f := range images {
			name := strings.ToLower(f.Name)
			if strings.Contains(name, "ref") || strings.Contains(name, "reference") {
				add(f.AbsPath)
			}
		}
	}
	if images, err := scan.Files(filepath.Join(folder, "ref"), imgx.IsImageExt); err == nil {
		for _, f := range images {
			add(f.AbsPath)
		}
	}
	return refs
}

func (c *Collector) firstJSON(folder string) (map[string]any, string, bool) {
	for _, name := range ParamFiles {
		p := filepath.Join(folder, name)
		if !isFile(p) {
			continue
		}
		text, err := textx.ReadText(p)
		if err != nil {
			c.log().Debug("读取 JSON 失败，跳过", "path", p, "error", err)
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(text), &m); err != nil || m == nil {
			c.log().Debug("JSON 无法解析或不是对象，跳过", "error", domain.MalformedMetadata(p, err))
			continue
		}
		return m, p, true
	}
	return nil, "", false
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if s := strings.TrimSpace(display(v)); s != "" {
			return s
		}
	}
	return ""
}

func display(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func compactJSON(m map[string]any) string {
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Sprint(m)
	}
	return string(b)
}

func joinRefs(refs []string) string {
	names := make([]string, 0, MaxRefs)
	for i, r := range refs {
		if i >= MaxRefs {
			break
		}
		names = append(names, filepath.Base(r))
	}
	s := strings.Join(names, ", ")
	if len(refs) > MaxRefs {
		s += " ..."
	}
	return s
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}
