package classify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultFrameRate = 4
	// DefaultAnimationType 用于“修改已有序列”场景下解析失败时的兜底类型。
	DefaultAnimationType = "待机"
	// DefaultTemplateType 用于“新建序列目录”场景。
	DefaultTemplateType = "空白"
)

// AnimationTypes 是动画类型的固定建议词表（允许自由输入扩展）。
var AnimationTypes = []string{"走路", "待机", "死亡", "攻击"}

var (
	frameRateRE     = regexp.MustCompile(`(\d+)帧`)
	// 规范名中类型是 "帧)-" 之后的全部内容（可含空格与 "-"）。
	typeAfterRateRE = regexp.MustCompile(`帧\)-(.+)$`)
	// 非规范名：取最后一段 "-xxx"。
	animationTypeRE = regexp.MustCompile(`-(\S+)$`)
)

// ParseSequenceName 从 "(秒抽{N}帧)-{type}" 形式的目录名中解析帧率与动画类型。
//
// 解析失败时不报错，使用兜底值：帧率 DefaultFrameRate，类型 fallbackType
// （fallbackType 为空时用 DefaultAnimationType）。帧率必须为正整数，否则视为缺失。
func ParseSequenceName(name, fallbackType string) (frameRate int, animationType string) {
	frameRate = DefaultFrameRate
	animationType = fallbackType
	if animationType == "" {
		animationType = DefaultAnimationType
	}

	if m := frameRateRE.FindStringSubmatch(name); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			frameRate = n
		}
	}
	if m := typeAfterRateRE.FindStringSubmatch(name); m != nil && strings.TrimSpace(m[1]) != "" {
		animationType = strings.TrimSpace(m[1])
	} else if m := animationTypeRE.FindStringSubmatch(name); m != nil {
		animationType = m[1]
	}
	return frameRate, animationType
}

// BuildSequenceName 生成 "(秒抽{N}帧)-{type}"；type 为空时用 DefaultAnimationType。
func BuildSequenceName(frameRate int, animationType string) string {
	t := strings.TrimSpace(animationType)
	if t == "" {
		t = DefaultAnimationType
	}
	return fmt.Sprintf("(秒抽%d帧)-%s", frameRate, t)
}

// MergeTypes 返回建议词表；current 不在词表中时追加到末尾。
func MergeTypes(current string) []string {
	out := append([]string(nil), AnimationTypes...)
	current = strings.TrimSpace(current)
	if current == "" {
		return out
	}
	for _, t := range out {
		if t == current {
			return out
		}
	}
	return append(out, current)
}
