package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/muselog/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "管理配置文件（config.toml）",
	}
	cmd.AddCommand(newConfigInitCommand(ctx))
	cmd.AddCommand(newConfigShowCommand(ctx))
	return cmd
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "在配置目录写入示例 config.toml",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := strings.TrimSpace(ctx.flags.home)
			if dir == "" {
				d, err := config.DefaultDir()
				if err != nil {
					return err
				}
				dir = d
			}
			p, err := config.WriteSample(dir, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已写入配置文件：%s\n", p)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "覆盖已存在的配置文件")
	return cmd
}

type configOutput struct {
	Dir           string `json:"dir"`
	File          string `json:"file"`
	FileExists    bool   `json:"file_exists"`
	DefaultPath   string `json:"default_path"`
	SpineTemplate string `json:"spine_template"`
	MonsterBase   string `json:"game_monster_base"`
	KeepFolder    string `json:"images_keep_folder"`
	LogLevel      string `json:"log_level"`
	LogFormat     string `json:"log_format"`
	LogFile       string `json:"log_file"`
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "显示合并后的最终配置（CLI > config.toml > 默认值）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eff := ctx.eff
			if ctx.flags.json {
				return writeJSON(cmd, configOutput{
					Dir:           eff.Dir,
					File:          eff.File,
					FileExists:    eff.FileExists,
					DefaultPath:   eff.DefaultPath,
					SpineTemplate: eff.SpineTemplate,
					MonsterBase:   eff.MonsterBase,
					KeepFolder:    eff.KeepFolder,
					LogLevel:      eff.LogLevel,
					LogFormat:     eff.LogFormat,
					LogFile:       eff.LogFile(),
				})
			}
			b, err := eff.Marshal()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if eff.FileExists {
				fmt.Fprintf(w, "# 配置文件：%s\n", eff.File)
			} else {
				fmt.Fprintf(w, "# 配置文件不存在（使用默认值）：%s\n", eff.File)
			}
			_, err = w.Write(b)
			return err
		},
	}
}
