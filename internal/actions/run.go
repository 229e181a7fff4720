package actions

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/John-Robertt/muselog/internal/classify"
	"github.com/John-Robertt/muselog/internal/domain"
	"github.com/John-Robertt/muselog/internal/infra/fsx"
	"github.com/John-Robertt/muselog/internal/infra/opener"
	"github.com/John-Robertt/muselog/internal/pathx"
	"github.com/John-Robertt/muselog/internal/scan"
)

const (
	// ImagesFolderName 是 spine 目录下存放序列帧图片的子目录。
	ImagesFolderName = "images"
	// DefaultKeepFolder 是清理 images 时每个子目录中保留的目录。
	DefaultKeepFolder = "preds-BiRefNet_resize"
	// MonsterFolderPrefix 是游戏项目中怪物目录名前缀。
	MonsterFolderPrefix = "jiangshi_"
)

// Input 是执行操作时由调用方收集的输入。
type Input struct {
	FrameRate     int
	AnimationType string
	MonsterNumber string
	// Confirmed=true 表示用户已确认（删除类操作必填）。
	Confirmed bool
}

// Outcome 是一次操作的结果。
type Outcome struct {
	Message string
	// Requests 交给所属 Navigator 执行（重命名/删除）。
	Requests []domain.Request
	// Opened 是操作结束后用外部程序打开的路径（未打开则为空）。
	Opened string
}

// Runner 执行目录操作。零值可用，但依赖外部路径的操作会报 MissingSource。
type Runner struct {
	SpineTemplate string
	MonsterBase   string
	KeepFolder    string

	Monsters MonsterHistory
	Opener   opener.Opener
	Log      *slog.Logger
}

func (r *Runner) log() *slog.Logger {
	if r.Log == nil {
		return slog.Default()
	}
	return r.Log
}

// Run 在 folder 上执行 id 对应的操作。
//
// 操作必须适用于 folder 的角色，否则返回 invalid_input。
func (r *Runner) Run(id domain.ActionID, folder string, in Input) (Outcome, error) {
	folder = pathx.Normalize(folder)
	if !pathx.IsDir(folder) {
		return Outcome{}, domain.InvalidPath(folder)
	}
	role := classify.Classify(folder)
	if _, ok := Lookup(Resolver{}.Resolve(role, folder, nil), id); !ok {
		return Outcome{}, domain.InvalidInput(fmt.Sprintf("操作 %s 不适用于%s", id, role.Label()))
	}

	switch id {
	case domain.ActionSequenceSetFrameRate:
		return r.setFrameRate(folder, in.FrameRate)
	case domain.ActionSequenceSetType:
		return r.setAnimationType(folder, in.AnimationType)
	case domain.ActionSequenceDelete:
		return r.deleteSequence(folder, in.Confirmed)
	case domain.ActionSpineCreateExport:
		return r.ensureDir(filepath.Join(filepath.Dir(folder), classify.SpineExportFolderName))
	case domain.ActionSpineCopySequence:
		return r.copySequence(folder)
	case domain.ActionSpineCleanImages:
		return r.cleanImages(folder)
	case domain.ActionSpineCreateProject:
		return r.createTemplate(folder)
	case domain.ActionExportCreateJSON42:
		return r.ensureDir(filepath.Join(folder, classify.JSON42FolderName))
	case domain.ActionJSON42Publish:
		return r.publishJSON42(folder, in.MonsterNumber)
	case domain.ActionSequenceCreate:
		name := classify.BuildSequenceName(classify.DefaultFrameRate, classify.DefaultTemplateType)
		return r.ensureDir(filepath.Join(folder, name))
	default:
		return Outcome{}, domain.InvalidInput(fmt.Sprintf("未知操作：%s", id))
	}
}

func (r *Runner) setFrameRate(folder string, rate int) (Outcome, error) {
	if rate <= 0 {
		return Outcome{}, domain.InvalidInput("帧率必须大于 0")
	}
	if rate > MaxFrameRate {
		return Outcome{}, domain.InvalidInput(fmt.Sprintf("帧率不能超过 %d", MaxFrameRate))
	}
	cur, typ := classify.ParseSequenceName(filepath.Base(folder), classify.DefaultAnimationType)
	if rate == cur {
		return Outcome{Message: "帧率未变化"}, nil
	}
	return r.renameTo(folder, classify.BuildSequenceName(rate, typ))
}

func (r *Runner) setAnimationType(folder, typ string) (Outcome, error) {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return Outcome{}, domain.InvalidInput("动画类型不能为空")
	}
	if !safeNamePart(typ) {
		return Outcome{}, domain.InvalidInput(fmt.Sprintf("动画类型不能包含路径分隔符：%q", typ))
	}
	rate, cur := classify.ParseSequenceName(filepath.Base(folder), classify.DefaultAnimationType)
	if typ == cur {
		return Outcome{Message: "动画类型未变化"}, nil
	}
	return r.renameTo(folder, classify.BuildSequenceName(rate, typ))
}

func (r *Runner) renameTo(folder, newName string) (Outcome, error) {
	newPath := filepath.Join(filepath.Dir(folder), newName)
	if !pathx.SameFolder(filepath.Dir(newPath), filepath.Dir(folder)) {
		return Outcome{}, domain.InvalidInput(fmt.Sprintf("新名称会移出当前目录：%q", newName))
	}
	if _, err := os.Lstat(newPath); err == nil && !pathx.SameFolder(newPath, folder) {
		return Outcome{}, domain.OSFailure(newPath, "目标已存在", fs.ErrExist)
	}
	return Outcome{
		Message:  fmt.Sprintf("重命名为 %s", newName),
		Requests: []domain.Request{domain.RenameRequest{OldPath: folder, NewPath: newPath}},
	}, nil
}

func (r *Runner) deleteSequence(folder string, confirmed bool) (Outcome, error) {
	if !confirmed {
		return Outcome{}, &domain.Error{Code: domain.ErrCodeConfirmRequired, Path: folder, Msg: "确定要删除选中的动画吗"}
	}
	return Outcome{
		Message:  fmt.Sprintf("删除 %s", filepath.Base(folder)),
		Requests: []domain.Request{domain.DeleteRequest{Path: folder}},
	}, nil
}

func (r *Runner) ensureDir(target string) (Outcome, error) {
	created, err := fsx.EnsureDir(target)
	if err != nil {
		return Outcome{}, domain.OSFailure(target, "创建目录失败", err)
	}
	if !created {
		return Outcome{Message: fmt.Sprintf("已存在 %s", target)}, nil
	}
	r.log().Info("创建目录", "op", "mkdir", "path", target)
	return Outcome{Message: fmt.Sprintf("已成功创建 %s", target)}, nil
}

func (r *Runner) copySequence(spine string) (Outcome, error) {
	src := filepath.Join(filepath.Dir(spine), classify.SequenceFolderName)
	if !pathx.IsDir(src) {
		return Outcome{}, domain.MissingSource(src, "序列帧目录不存在")
	}
	dst := filepath.Join(spine, ImagesFolderName)
	if err := fsx.CopyTree(src, dst); err != nil {
		return Outcome{}, domain.OSFailure(dst, "拷贝序列帧失败", err)
	}
	r.log().Info("拷贝序列帧", "op", "copy_tree", "path", src, "dst", dst)
	return Outcome{Message: fmt.Sprintf("已成功拷贝序列帧到 %s", dst)}, nil
}

func (r *Runner) cleanImages(spine string) (Outcome, error) {
	imagesDir := filepath.Join(spine, ImagesFolderName)
	if !pathx.IsDir(imagesDir) {
		return Outcome{}, domain.MissingSource(imagesDir, "images 目录不存在")
	}
	keep := r.KeepFolder
	if keep == "" {
		keep = DefaultKeepFolder
	}

	subs, err := scan.Dirs(imagesDir)
	if err != nil {
		return Outcome{}, domain.OSFailure(imagesDir, "读取 images 目录失败", err)
	}
	removed := 0
	for _, sub := range subs {
		subDir := filepath.Join(imagesDir, sub)
		if !pathx.IsDir(filepath.Join(subDir, keep)) {
			continue
		}
		entries, err := os.ReadDir(subDir)
		if err != nil {
			return Outcome{}, domain.OSFailure(subDir, "读取目录失败", err)
		}
		for _, e := range entries {
			if e.Name() == keep {
				continue
			}
			p := filepath.Join(subDir, e.Name())
			if err := fsx.RemoveAll(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return Outcome{}, domain.OSFailure(p, "删除失败", err)
			}
			removed++
			r.log().Info("删除多余内容", "op", "remove", "path", p)
		}
	}
	return Outcome{Message: fmt.Sprintf("已清理 images 目录多余内容（%d 项）", removed)}, nil
}

func (r *Runner) createTemplate(spine string) (Outcome, error) {
	tpl := strings.TrimSpace(r.SpineTemplate)
	if tpl == "" {
		return Outcome{}, domain.MissingSource("", "未配置 spine 模板文件（paths.spine_template）")
	}
	if fi, err := os.Stat(tpl); err != nil || !fi.Mode().IsRegular() {
		return Outcome{}, domain.MissingSource(tpl, "模板文件不存在")
	}
	parentName := filepath.Base(filepath.Dir(spine))
	if parentName == "" || parentName == "." || parentName == string(filepath.Separator) {
		parentName = "spine"
	}
	target := filepath.Join(spine, parentName+".spine")
	if err := fsx.CopyFile(tpl, target); err != nil {
		return Outcome{}, domain.OSFailure(target, "创建模板文件失败", err)
	}
	r.log().Info("创建 spine 模板", "op", "copy_file", "path", tpl, "dst", target)
	return Outcome{Message: fmt.Sprintf("已成功创建模板文件：%s", target)}, nil
}

func (r *Runner) publishJSON42(src, monster string) (Outcome, error) {
	monster = strings.TrimSpace(monster)
	if monster == "" {
		return Outcome{}, domain.InvalidInput("请填写怪物编号")
	}
	if !safeNamePart(monster) {
		return Outcome{}, domain.InvalidInput(fmt.Sprintf("怪物编号不能包含路径分隔符：%q", monster))
	}
	base := strings.TrimSpace(r.MonsterBase)
	if base == "" {
		return Outcome{}, domain.MissingSource("", "未配置游戏项目怪物目录（paths.game_monster_base）")
	}

	dst := filepath.Join(base, MonsterFolderPrefix+monster)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return Outcome{}, domain.OSFailure(base, "创建目标父目录失败", err)
	}
	if err := fsx.CopyTree(src, dst); err != nil {
		return Outcome{}, domain.OSFailure(dst, "拷贝 json42 失败", err)
	}
	r.log().Info("拷贝 json42", "op", "copy_tree", "path", src, "dst", dst)

	out := Outcome{Message: fmt.Sprintf("已成功拷贝 %s 到 %s", src, dst)}

	// 拷贝已完成：后续步骤失败只记录，不回滚。
	if renamed, err := alignJSONToAtlas(dst); err != nil {
		r.log().Warn("json 重命名失败", "op", "rename", "path", dst, "error", err)
		out.Message += fmt.Sprintf("；json 重命名失败：%v", err)
	} else if renamed != "" {
		r.log().Info("json 与 atlas 对齐", "op", "rename", "path", renamed)
	}

	if r.Monsters != nil {
		if err := r.Monsters.RecordMonsterNumber(monster); err != nil {
			r.log().Warn("保存怪物编号历史失败", "error", err)
		}
	}
	if r.Opener != nil {
		if err := r.Opener.Open(dst); err != nil {
			r.log().Warn("打开目标目录失败", "path", dst, "error", err)
		} else {
			out.Opened = dst
		}
	}
	return out, nil
}

// safeNamePart 判断 s 能否作为单个目录名的一部分：不含路径分隔符，也不是 "." / ".."。
func safeNamePart(s string) bool {
	return !strings.ContainsAny(s, `/\`) && s != "." && s != ".."
}

// alignJSONToAtlas 在 dir 中恰好有一个 .atlas 与一个 .json 且主名不同时，
// 把 .json 重命名为与 .atlas 同名。返回新 json 路径（未改名则为空）。
func alignJSONToAtlas(dir string) (string, error) {
	atlases, err := scan.Files(dir, scan.ExtIn(".atlas"))
	if err != nil {
		return "", err
	}
	jsons, err := scan.Files(dir, scan.ExtIn(".json"))
	if err != nil {
		return "", err
	}
	if len(atlases) != 1 || len(jsons) != 1 {
		return "", nil
	}
	stem := strings.TrimSuffix(atlases[0].Name, filepath.Ext(atlases[0].Name))
	jsonStem := strings.TrimSuffix(jsons[0].Name, filepath.Ext(jsons[0].Name))
	if stem == jsonStem {
		return "", nil
	}
	target := filepath.Join(dir, stem+".json")
	if err := fsx.Rename(jsons[0].AbsPath, target); err != nil {
		return "", err
	}
	return target, nil
}
