// Package actions 根据目录角色给出可执行的操作，并执行这些操作的文件系统副作用。
//
// 约束：
// - Resolver 只描述操作（纯函数），不访问文件系统以外的状态（怪物编号历史除外）
// - Runner 对重命名/删除只返回 domain.Request，由所属 Navigator 执行
// - 每个操作独立报告失败，不自动重试；多步操作失败时不回滚已完成的前缀
package actions

import (
	"path/filepath"
	"strconv"

	"github.com/John-Robertt/muselog/internal/classify"
	"github.com/John-Robertt/muselog/internal/domain"
)

// 输入项名称（Input 字段与 ActionInput.Name 的对应关系）。
const (
	InputFrameRate     = "rate"
	InputAnimationType = "type"
	InputMonsterNumber = "monster"
)

// MaxFrameRate 是帧率输入允许的上限。
const MaxFrameRate = 240

// MonsterHistory 提供怪物编号历史（最近使用在前）。
type MonsterHistory interface {
	MonsterNumbers() []string
	RecordMonsterNumber(n string) error
}

// Resolver 把目录角色映射为有序的操作列表。
type Resolver struct {
	Monsters MonsterHistory
}

// Resolve 返回 role 在 folder 上可用的操作。meta 为同一次导航收集到的元数据（当前未使用）。
func (r Resolver) Resolve(role domain.FolderRole, folder string, meta []domain.MetaEntry) []domain.Action {
	_ = meta
	switch role {
	case domain.RoleSequenceFrameContainer:
		rate, typ := classify.ParseSequenceName(filepath.Base(folder), classify.DefaultAnimationType)
		return []domain.Action{
			{
				ID:    domain.ActionSequenceSetFrameRate,
				Label: "修改帧率",
				Inputs: []domain.ActionInput{{
					Name:    InputFrameRate,
					Label:   "帧率",
					Kind:    domain.InputInt,
					Default: strconv.Itoa(rate),
				}},
			},
			{
				ID:    domain.ActionSequenceSetType,
				Label: "修改动画类型",
				Inputs: []domain.ActionInput{{
					Name:        InputAnimationType,
					Label:       "动画类型",
					Kind:        domain.InputChoice,
					Default:     typ,
					Suggestions: classify.MergeTypes(typ),
				}},
			},
			{ID: domain.ActionSequenceDelete, Label: "删除选中的动画", Confirm: true},
		}
	case domain.RoleSpineFolder:
		return []domain.Action{
			{ID: domain.ActionSpineCreateExport, Label: "创建 spine-导出 文件夹"},
			{ID: domain.ActionSpineCopySequence, Label: "拷贝 序列帧 到 images"},
			{ID: domain.ActionSpineCleanImages, Label: "清理 images"},
			{ID: domain.ActionSpineCreateProject, Label: "创建 spine 模板"},
		}
	case domain.RoleSpineExportFolder:
		return []domain.Action{
			{ID: domain.ActionExportCreateJSON42, Label: "创建 json42 文件夹"},
		}
	case domain.RoleJSON42Folder:
		var history []string
		if r.Monsters != nil {
			history = r.Monsters.MonsterNumbers()
		}
		def := ""
		if len(history) > 0 {
			def = history[0]
		}
		return []domain.Action{{
			ID:    domain.ActionJSON42Publish,
			Label: "拷贝 json42 文件夹到游戏项目怪物文件夹",
			Inputs: []domain.ActionInput{{
				Name:        InputMonsterNumber,
				Label:       "怪物编号",
				Kind:        domain.InputChoice,
				Default:     def,
				Suggestions: history,
			}},
		}}
	case domain.RoleSequenceFrameParent:
		return []domain.Action{
			{ID: domain.ActionSequenceCreate, Label: "创建 动画序列帧"},
		}
	case domain.RoleGeneric:
		return nil
	default:
		return nil
	}
}

// Lookup 在 actions 中按 ID 查找。
func Lookup(actions []domain.Action, id domain.ActionID) (domain.Action, bool) {
	for _, a := range actions {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Action{}, false
}
