package domain

// Request 是操作产生、交给所属 Navigator 执行的目录变更请求。
//
// 操作本身只“请求”重命名/删除，不直接落盘；Navigator 收到后执行并刷新视图。
type Request interface {
	// Target 是受影响的目录（重命名前的旧路径 / 被删除的路径）。
	Target() string
}

type RenameRequest struct {
	OldPath string
	NewPath string
}

func (r RenameRequest) Target() string { return r.OldPath }

type DeleteRequest struct {
	Path string
}

func (r DeleteRequest) Target() string { return r.Path }
