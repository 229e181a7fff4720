// Package classify 根据目录名/父目录名判断目录在产线中的角色。
package classify

import (
	"path/filepath"
	"strings"

	"github.com/John-Robertt/muselog/internal/domain"
	"github.com/John-Robertt/muselog/internal/pathx"
)

const (
	SequenceFolderName    = "序列帧"
	SpineFolderName       = "spine"
	SpineExportFolderName = "spine-导出"
	JSON42FolderName      = "json42"
)

// Classify 返回 folderPath 的角色。纯函数：只看目录名与父目录名，不访问文件系统。
//
// 规则按固定优先级匹配（先命中先返回）：
// 1) 父目录名 == 序列帧          -> SequenceFrameContainer
// 2) 目录名 == spine（忽略大小写）  -> SpineFolder
// 3) 目录名 == 序列帧            -> SequenceFrameParent
// 4) 目录名 == spine-导出        -> SpineExportFolder
// 5) 目录名 == json42           -> JSON42Folder
// 6) 其他                      -> Generic
//
// 规则 1 必须先于规则 3：嵌套在“序列帧”中的“序列帧”按所在上下文判定。
func Classify(folderPath string) domain.FolderRole {
	p := pathx.Normalize(folderPath)
	name := filepath.Base(p)
	parent := filepath.Base(filepath.Dir(p))
	if filepath.Dir(p) == p {
		// 根目录：没有有意义的目录名与父目录名。
		return domain.RoleGeneric
	}
	return ClassifyNames(name, parent)
}

// ClassifyNames 是 Classify 的核心，直接接收 (目录名, 父目录名)。
func ClassifyNames(name, parent string) domain.FolderRole {
	switch {
	case strings.EqualFold(parent, SequenceFolderName):
		return domain.RoleSequenceFrameContainer
	case strings.EqualFold(name, SpineFolderName):
		return domain.RoleSpineFolder
	case strings.EqualFold(name, SequenceFolderName):
		return domain.RoleSequenceFrameParent
	case strings.EqualFold(name, SpineExportFolderName):
		return domain.RoleSpineExportFolder
	case strings.EqualFold(name, JSON42FolderName):
		return domain.RoleJSON42Folder
	default:
		return domain.RoleGeneric
	}
}
