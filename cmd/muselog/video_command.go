package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/muselog/internal/domain"
	"github.com/John-Robertt/muselog/internal/meta"
	"github.com/John-Robertt/muselog/internal/pathx"
	"github.com/John-Robertt/muselog/internal/scan"
	"github.com/John-Robertt/muselog/internal/sidecar"
)

// videoDetail 是 video show/set 的 JSON 输出。
type videoDetail struct {
	Video     string `json:"video"`
	VideoPath string `json:"video_path"`
	Prompt    string `json:"prompt"`
	Reference string `json:"reference"`
	Sidecar   string `json:"sidecar"`
	Malformed bool   `json:"malformed,omitempty"`
}

func newVideoCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "video",
		Short: "查看/编辑视频的提示词元数据（提示词.txt）",
	}
	cmd.AddCommand(newVideoShowCommand(ctx))
	cmd.AddCommand(newVideoSetCommand(ctx))
	cmd.AddCommand(newVideoListCommand(ctx))
	return cmd
}

func newVideoShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <video>",
		Short: "显示视频的提示词与参考",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoPath, err := videoArg(args[0])
			if err != nil {
				return err
			}
			f, err := loadSidecar(videoPath)
			if err != nil {
				return err
			}
			return ctx.emitVideo(cmd, f, videoPath)
		},
	}
}

func newVideoSetCommand(ctx *commandContext) *cobra.Command {
	var prompt, reference string

	cmd := &cobra.Command{
		Use:   "set <video>",
		Short: "保存视频的提示词与参考",
		Long: `只更新显式传入的字段；提示词.txt 整文件重写。
非空的 --reference 会同时记入参考历史（提示词.txt 与全局 state.json）。`,
		Example: `  muselog video set ./视频/idle.mp4 --prompt "a cat walking" --reference ref_01.png`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("prompt") && !cmd.Flags().Changed("reference") {
				return usagef("至少需要 --prompt 或 --reference")
			}
			videoPath, err := videoArg(args[0])
			if err != nil {
				return err
			}
			f, err := loadSidecar(videoPath)
			if err != nil {
				return err
			}
			if f.Malformed {
				ctx.log.Warn("提示词文件无法解析，将被覆盖", "error", domain.MalformedMetadata(f.Path, nil))
			}

			name := filepath.Base(videoPath)
			e := f.Entry(name, videoPath)
			if cmd.Flags().Changed("prompt") {
				e.Prompt = prompt
			}
			if cmd.Flags().Changed("reference") {
				e.Reference = reference
			}
			f.Set(name, e)
			if err := f.Save(); err != nil {
				return domain.OSFailure(f.Path, "保存提示词文件失败", err)
			}
			ctx.log.Info("已保存视频元数据", "video", videoPath, "path", f.Path)

			if ref := f.Entries[name].Reference; ref != "" {
				if err := ctx.store.RecordReference(ref); err != nil {
					ctx.log.Warn("记录参考历史失败", "error", err)
				}
			}
			return ctx.emitVideo(cmd, f, videoPath)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "", "提示词")
	cmd.Flags().StringVar(&reference, "reference", "", "参考（图片名或路径）")
	return cmd
}

func newVideoListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list [dir]",
		Short: "列出目录中的视频及其提示词",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := firstArg(args)
			if dir == "" {
				dir = "."
			}
			dir = pathx.Normalize(dir)
			if !pathx.IsDir(dir) {
				return domain.InvalidPath(dir)
			}
			videos, err := scan.Files(dir, scan.ExtIn(meta.VideoExts...))
			if err != nil {
				return domain.OSFailure(dir, "读取目录失败", err)
			}
			f, err := sidecar.Load(filepath.Join(dir, sidecar.FileName))
			if err != nil {
				return domain.OSFailure(filepath.Join(dir, sidecar.FileName), "读取提示词文件失败", err)
			}

			out := make([]videoDetail, 0, len(videos))
			for _, v := range videos {
				e := f.Entry(v.Name, v.AbsPath)
				out = append(out, videoDetail{
					Video:     v.Name,
					VideoPath: e.VideoPath,
					Prompt:    e.Prompt,
					Reference: e.Reference,
					Sidecar:   f.Path,
				})
			}
			if ctx.wantJSON(cmd) {
				return writeJSON(cmd, out)
			}
			if len(out) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "没有视频文件")
				return nil
			}
			rows := make([][]string, 0, len(out))
			for _, d := range out {
				rows = append(rows, []string{d.Video, oneLine(d.Prompt), d.Reference})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"视频", "提示词", "参考"}, rows, nil))
			return nil
		},
	}
}

func videoArg(arg string) (string, error) {
	p := pathx.Normalize(arg)
	if p == "" || pathx.IsDir(p) {
		return "", domain.InvalidPath(p)
	}
	return p, nil
}

func loadSidecar(videoPath string) (*sidecar.File, error) {
	p := sidecar.PathFor(videoPath)
	f, err := sidecar.Load(p)
	if err != nil {
		return nil, domain.OSFailure(p, "读取提示词文件失败", err)
	}
	return f, nil
}

func (c *commandContext) emitVideo(cmd *cobra.Command, f *sidecar.File, videoPath string) error {
	name := filepath.Base(videoPath)
	e := f.Entry(name, videoPath)
	if c.wantJSON(cmd) {
		return writeJSON(cmd, videoDetail{
			Video:     name,
			VideoPath: e.VideoPath,
			Prompt:    e.Prompt,
			Reference: e.Reference,
			Sidecar:   f.Path,
			Malformed: f.Malformed,
		})
	}
	return printVideoDetail(cmd.OutOrStdout(), videoPath)
}
