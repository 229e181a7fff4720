package domain

// MetaActionKind 描述元数据行上可触发的操作。
type MetaActionKind string

const (
	MetaActionNone        MetaActionKind = ""
	MetaActionOpenFolder  MetaActionKind = "open_folder"
	MetaActionOpenFile    MetaActionKind = "open_file"
	MetaActionVideoDetail MetaActionKind = "video_detail"
)

// MetaEntry 是元数据面板中的一行。
//
// 每次导航都会重新生成，不跨导航缓存。
type MetaEntry struct {
	Label  string         `json:"label"`
	Value  string         `json:"value"`
	Action MetaActionKind `json:"action,omitempty"`
	// Payload 是操作的不透明参数（通常是文件/目录路径）。
	Payload string `json:"payload,omitempty"`
}

func (e MetaEntry) HasAction() bool { return e.Action != MetaActionNone }
