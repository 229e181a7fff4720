// Package sidecar 读写视频目录下的提示词元数据文件（提示词.txt）。
//
// 文件内容是一个 JSON 对象：
//
//	{
//	  "<视频文件名>": {"video_path": "...", "prompt": "...", "reference": "..."},
//	  "__reference_history__": ["最近使用的参考", ...]
//	}
//
// 读取时保留未知字段；保存时整文件重写（不做局部修改）。
package sidecar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/John-Robertt/muselog/internal/infra/fsx"
	"github.com/John-Robertt/muselog/internal/infra/state"
)

const (
	FileName              = "提示词.txt"
	ReferenceHistoryKey   = "__reference_history__"
	ReferenceHistoryLimit = 20
)

// Entry 是单个视频的元数据。Extra 保存读到但不认识的字段，保存时原样写回。
type Entry struct {
	VideoPath string
	Prompt    string
	Reference string
	Extra     map[string]json.RawMessage
}

// File 是一个已加载的 提示词.txt。
type File struct {
	Path             string
	Entries          map[string]Entry
	ReferenceHistory []string
	// Malformed 为 true 表示原文件存在但无法解析（已按空处理）。
	Malformed bool

	// raw 是读到的原始值；未经 Set 修改的键保存时原样写回。
	raw     map[string]json.RawMessage
	touched map[string]bool
}

// PathFor 返回视频对应的元数据文件路径（与视频同目录）。
func PathFor(videoPath string) string {
	return filepath.Join(filepath.Dir(videoPath), FileName)
}

// Load 读取 path。文件不存在/无法解析/不是对象时返回空 File（Malformed 标记解析失败），
// 只有真正的 IO 错误才返回 error。
func Load(path string) (*File, error) {
	f := &File{
		Path:    path,
		Entries: map[string]Entry{},
		raw:     map[string]json.RawMessage{},
		touched: map[string]bool{},
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil || raw == nil {
		f.Malformed = true
		return f, nil
	}

	for key, v := range raw {
		if key == ReferenceHistoryKey {
			var hist []any
			if json.Unmarshal(v, &hist) == nil {
				f.ReferenceHistory = normalizeHistory(hist)
			}
			continue
		}
		f.Entries[key] = decodeEntry(v)
		f.raw[key] = v
	}
	return f, nil
}

// Entry 返回 videoName 的元数据；不存在时返回只带 VideoPath 的空条目。
func (f *File) Entry(videoName, videoPath string) Entry {
	e, ok := f.Entries[videoName]
	if !ok {
		e = Entry{}
	}
	if e.VideoPath == "" {
		e.VideoPath = videoPath
	}
	return e
}

// Set 写入 videoName 的元数据，并把非空 reference 记入参考历史（最近在前）。
func (f *File) Set(videoName string, e Entry) {
	e.Prompt = strings.TrimSpace(e.Prompt)
	e.Reference = strings.TrimSpace(e.Reference)
	f.Entries[videoName] = e
	if f.touched == nil {
		f.touched = map[string]bool{}
	}
	f.touched[videoName] = true
	if e.Reference != "" {
		f.ReferenceHistory = state.PushRecent(f.ReferenceHistory, e.Reference, ReferenceHistoryLimit)
	}
}

// Save 整文件重写。
func (f *File) Save() error {
	payload := make(map[string]any, len(f.Entries)+1)
	for k, e := range f.Entries {
		if raw, ok := f.raw[k]; ok && !f.touched[k] {
			payload[k] = raw
			continue
		}
		payload[k] = encodeEntry(e)
	}
	if len(f.ReferenceHistory) > 0 {
		payload[ReferenceHistoryKey] = f.ReferenceHistory
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return err
	}
	return fsx.WriteFileAtomicReplace(filepath.Dir(f.Path), filepath.Base(f.Path), buf.Bytes())
}

// VideoNames 返回已有条目的视频文件名（排序）。
func (f *File) VideoNames() []string {
	out := make([]string, 0, len(f.Entries))
	for k := range f.Entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func decodeEntry(v json.RawMessage) Entry {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(v, &obj); err == nil && obj != nil {
		e := Entry{Extra: map[string]json.RawMessage{}}
		for k, fv := range obj {
			switch k {
			case "video_path":
				e.VideoPath = stringValue(fv)
			case "prompt":
				e.Prompt = stringValue(fv)
			case "reference":
				e.Reference = stringValue(fv)
			default:
				e.Extra[k] = fv
			}
		}
		return e
	}
	// null -> 空条目；其他标量 -> 当作 prompt。
	if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return Entry{}
	}
	return Entry{Prompt: stringValue(v)}
}

func encodeEntry(e Entry) map[string]any {
	m := make(map[string]any, len(e.Extra)+3)
	for k, v := range e.Extra {
		m[k] = v
	}
	m["video_path"] = e.VideoPath
	m["prompt"] = e.Prompt
	if e.Reference != "" {
		m["reference"] = e.Reference
	}
	return m
}

func stringValue(v json.RawMessage) string {
	var s string
	if json.Unmarshal(v, &s) == nil {
		return s
	}
	if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return ""
	}
	return strings.TrimSpace(string(v))
}

func normalizeHistory(items []any) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, strings.TrimSpace(fmt.Sprint(it)))
	}
	return state.Normalize(out, ReferenceHistoryLimit)
}
