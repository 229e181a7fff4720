// Package pathx 负责路径规范化与“是否同一目录”的比较。
//
// 所有历史记录/当前路径的比较都必须走 SameFolder，而不是直接比较字符串，
// 以吸收分隔符、尾部斜杠与大小写（大小写不敏感文件系统上）差异。
package pathx

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/text/cases"
)

// caseInsensitive 表示当前平台默认文件系统是否大小写不敏感。测试可替换。
var caseInsensitive = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

var folder = cases.Fold()

// Normalize 返回 clean + absolute 的路径；出错时原样返回输入。
func Normalize(p string) string {
	s := strings.TrimSpace(p)
	if s == "" {
		return p
	}
	abs, err := filepath.Abs(s)
	if err != nil {
		return p
	}
	return filepath.Clean(abs)
}

// Key 返回用于比较/做 map key 的规范形式。
func Key(p string) string {
	n := Normalize(p)
	if caseInsensitive {
		return folder.String(n)
	}
	return n
}

// SameFolder 判断 a 与 b 是否指向同一目录（只做字符串层面的规范化，不解析符号链接）。
func SameFolder(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	return Key(a) == Key(b)
}

// IsDir 判断 p 是否为已存在的目录。
func IsDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}

// NearestExisting 从 p 开始向上查找第一个存在的目录。
// 到达根目录仍未找到时返回 ("", false)。
func NearestExisting(p string) (string, bool) {
	cur := Normalize(p)
	for {
		if IsDir(cur) {
			return cur, true
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", false
		}
		cur = parent
	}
}

// Parent 返回 p 的父目录；p 已是根目录时 ok=false。
func Parent(p string) (string, bool) {
	n := Normalize(p)
	parent := filepath.Dir(n)
	if parent == n {
		return "", false
	}
	return parent, true
}
