package domain

import "fmt"

// FolderRole 是目录在美术产线中的语义角色。
//
// 角色只由 (目录名, 父目录名) 决定，见 classify.Classify。
type FolderRole int

const (
	RoleGeneric FolderRole = iota
	// RoleSequenceFrameContainer：父目录名为“序列帧”的单个动画序列目录，例如 (秒抽4帧)-待机。
	RoleSequenceFrameContainer
	// RoleSequenceFrameParent：目录名本身为“序列帧”。
	RoleSequenceFrameParent
	RoleSpineFolder
	RoleSpineExportFolder
	RoleJSON42Folder
)

func (r FolderRole) String() string {
	switch r {
	case RoleGeneric:
		return "generic"
	case RoleSequenceFrameContainer:
		return "sequence_frame_container"
	case RoleSequenceFrameParent:
		return "sequence_frame_parent"
	case RoleSpineFolder:
		return "spine"
	case RoleSpineExportFolder:
		return "spine_export"
	case RoleJSON42Folder:
		return "json42"
	default:
		return "unknown"
	}
}

// Label 是给人看的中文名称。
func (r FolderRole) Label() string {
	switch r {
	case RoleSequenceFrameContainer:
		return "动画序列帧"
	case RoleSequenceFrameParent:
		return "序列帧目录"
	case RoleSpineFolder:
		return "Spine 目录"
	case RoleSpineExportFolder:
		return "Spine 导出目录"
	case RoleJSON42Folder:
		return "json42 目录"
	default:
		return "普通目录"
	}
}

func (r FolderRole) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *FolderRole) UnmarshalText(b []byte) error {
	for _, c := range []FolderRole{
		RoleGeneric,
		RoleSequenceFrameContainer,
		RoleSequenceFrameParent,
		RoleSpineFolder,
		RoleSpineExportFolder,
		RoleJSON42Folder,
	} {
		if c.String() == string(b) {
			*r = c
			return nil
		}
	}
	return fmt.Errorf("未知目录角色：%q", string(b))
}
