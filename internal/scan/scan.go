package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File 描述目录中的一个普通文件（只做 stat，不读内容）。
type File struct {
	AbsPath string
	Name    string
	Ext     string // 小写，例如 ".mp4"
	Size    int64
}

// Files 列出 dir 下（不递归）扩展名满足 match 的普通文件。
//
// 约束：
// - 扩展名比较大小写不敏感（match 收到的是小写扩展名）
// - 输出按文件名稳定排序
// - match 为 nil 时返回全部普通文件
func Files(dir string, match func(ext string) bool) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(entries))
	for _, d := range entries {
		if d.IsDir() {
			continue
		}
		name := d.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if match != nil && !match(ext) {
			continue
		}
		info, err := d.Info()
		if err != nil {
			// 列目录与 stat 之间被删除：跳过即可。
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		files = append(files, File{
			AbsPath: filepath.Join(dir, name),
			Name:    name,
			Ext:     ext,
			Size:    info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Dirs 列出 dir 下（不递归）的子目录名，按名称排序。
func Dirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, d := range entries {
		if d.IsDir() {
			out = append(out, d.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// ExtIn 返回一个匹配给定扩展名集合的 match 函数。
func ExtIn(exts ...string) func(string) bool {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		set[strings.ToLower(e)] = struct{}{}
	}
	return func(ext string) bool {
		_, ok := set[ext]
		return ok
	}
}
