package domain

// ActionID 标识一个目录上下文操作。
type ActionID string

const (
	ActionSequenceSetFrameRate ActionID = "sequence.frame_rate"
	ActionSequenceSetType      ActionID = "sequence.type"
	ActionSequenceDelete       ActionID = "sequence.delete"

	ActionSpineCreateExport  ActionID = "spine.create_export"
	ActionSpineCopySequence  ActionID = "spine.copy_sequence"
	ActionSpineCleanImages   ActionID = "spine.clean_images"
	ActionSpineCreateProject ActionID = "spine.create_template"

	ActionExportCreateJSON42 ActionID = "spine_export.create_json42"

	ActionJSON42Publish ActionID = "json42.publish"

	ActionSequenceCreate ActionID = "sequence_parent.create"
)

// InputKind 描述操作所需输入的类型。
type InputKind string

const (
	InputInt    InputKind = "int"
	InputChoice InputKind = "choice" // 可从 Suggestions 中选，也允许自由输入
)

// ActionInput 是操作的一个输入项（调用契约）。
type ActionInput struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Kind        InputKind `json:"kind"`
	Default     string    `json:"default,omitempty"`
	Suggestions []string  `json:"suggestions,omitempty"`
}

// Action 是某个目录角色下可执行的一个操作。
type Action struct {
	ID     ActionID      `json:"id"`
	Label  string        `json:"label"`
	Inputs []ActionInput `json:"inputs,omitempty"`
	// Confirm=true 表示执行前必须由调用方向用户确认。
	Confirm bool `json:"confirm,omitempty"`
}
