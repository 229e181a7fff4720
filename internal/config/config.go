package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/John-Robertt/muselog/internal/infra/fsx"
)

//go:embed sample_config.toml
var sampleConfig string

const (
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
	// ErrCodeExists 表示 config init 时配置文件已存在（未指定 --force）。
	ErrCodeExists = "config_exists"
)

const (
	// FileName 是配置目录下的配置文件名。
	FileName = "config.toml"
	// EnvHome 指定配置目录；未设置时使用 ~/.muselog。
	EnvHome = "MUSELOG_HOME"

	DefaultKeepFolder = "preds-BiRefNet_resize"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
	DefaultLogFile    = "app.log"
)

// CLIArgs 是 CLI 暴露的覆盖项，并保留“是否显式指定”的信息。
type CLIArgs struct {
	// Dir 为空时使用 DefaultDir。
	Dir string

	LogLevel    string
	LogLevelSet bool

	LogFormat    string
	LogFormatSet bool

	SpineTemplate    string
	SpineTemplateSet bool

	MonsterBase    string
	MonsterBaseSet bool
}

// FileConfig 对应 config.toml 的解析结构。
type FileConfig struct {
	Paths   PathsConfig   `toml:"paths"`
	Logging LoggingConfig `toml:"logging"`
}

type PathsConfig struct {
	DefaultPath      string `toml:"default_path"`
	SpineTemplate    string `toml:"spine_template"`
	GameMonsterBase  string `toml:"game_monster_base"`
	ImagesKeepFolder string `toml:"images_keep_folder"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Dir    string `toml:"dir"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置。
type EffectiveConfig struct {
	// Dir 是配置目录（同时存放 state.json 与默认日志目录）。
	Dir        string
	File       string
	FileExists bool

	DefaultPath   string
	SpineTemplate string
	MonsterBase   string
	KeepFolder    string

	LogLevel  string
	LogFormat string
	LogDir    string
}

// LogFile 返回日志文件路径。
func (e EffectiveConfig) LogFile() string {
	return filepath.Join(e.LogDir, DefaultLogFile)
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeExists:
		return fmt.Sprintf("%s：配置文件已存在 %q（使用 --force 覆盖）", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// DefaultDir 返回配置目录：$MUSELOG_HOME 或 ~/.muselog。
func DefaultDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvHome)); v != "" {
		return expandPath(v)
	}
	return expandPath("~/.muselog")
}

// LoadEffective 读取 <dir>/config.toml（可选）并与 CLI 参数合并为最终配置。
//
// 覆盖优先级（固定）：CLI > config.toml > 内置默认值。
// 路径字段统一展开 ~ 并转为绝对路径。
func LoadEffective(cli CLIArgs) (EffectiveConfig, error) {
	dir := strings.TrimSpace(cli.Dir)
	var err error
	if dir == "" {
		dir, err = DefaultDir()
	} else {
		dir, err = expandPath(dir)
	}
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cli.Dir, Err: err}
	}

	cfgPath := filepath.Join(dir, FileName)
	fc, exists, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	return merge(dir, cfgPath, exists, cli, fc)
}

func merge(dir, cfgPath string, exists bool, cli CLIArgs, fc FileConfig) (EffectiveConfig, error) {
	eff := EffectiveConfig{
		Dir:        dir,
		File:       cfgPath,
		FileExists: exists,
		KeepFolder: DefaultKeepFolder,
		LogLevel:   DefaultLogLevel,
		LogFormat:  DefaultLogFormat,
		LogDir:     filepath.Join(dir, "logs"),
	}
	invalid := func(err error) (EffectiveConfig, error) {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	paths := []struct {
		dst   *string
		file  string
		cli   string
		set   bool
		field string
	}{
		{&eff.DefaultPath, fc.Paths.DefaultPath, "", false, "paths.default_path"},
		{&eff.SpineTemplate, fc.Paths.SpineTemplate, cli.SpineTemplate, cli.SpineTemplateSet, "paths.spine_template"},
		{&eff.MonsterBase, fc.Paths.GameMonsterBase, cli.MonsterBase, cli.MonsterBaseSet, "paths.game_monster_base"},
		{&eff.LogDir, fc.Logging.Dir, "", false, "logging.dir"},
	}
	for _, p := range paths {
		v := strings.TrimSpace(p.file)
		if p.set {
			v = strings.TrimSpace(p.cli)
		}
		if v == "" {
			continue
		}
		abs, err := expandPath(v)
		if err != nil {
			return invalid(fmt.Errorf("%s 无效：%w", p.field, err))
		}
		*p.dst = abs
	}

	if keep := strings.TrimSpace(fc.Paths.ImagesKeepFolder); keep != "" {
		if strings.ContainsAny(keep, `/\`) {
			return invalid(fmt.Errorf("paths.images_keep_folder 只能是目录名：%q", keep))
		}
		eff.KeepFolder = keep
	}

	level := fc.Logging.Level
	if cli.LogLevelSet {
		level = cli.LogLevel
	}
	if level = strings.ToLower(strings.TrimSpace(level)); level != "" {
		switch level {
		case "debug", "info", "warn", "error":
			eff.LogLevel = level
		default:
			return invalid(fmt.Errorf("logging.level 只能是 debug|info|warn|error，实际是 %q", level))
		}
	}

	format := fc.Logging.Format
	if cli.LogFormatSet {
		format = cli.LogFormat
	}
	if format = strings.ToLower(strings.TrimSpace(format)); format != "" {
		switch format {
		case "console", "json":
			eff.LogFormat = format
		default:
			return invalid(fmt.Errorf("logging.format 只能是 console|json，实际是 %q", format))
		}
	}
	return eff, nil
}

// readFileConfig 读取并解析 TOML 配置文件（未知字段报错）。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}

// SampleConfig 返回内置的示例配置内容。
func SampleConfig() string { return sampleConfig }

// WriteSample 把示例配置写到 <dir>/config.toml。文件已存在且 force=false 时返回 config_exists。
func WriteSample(dir string, force bool) (string, error) {
	dir, err := expandPath(dir)
	if err != nil {
		return "", &Error{Code: ErrCodeInvalid, Path: dir, Err: err}
	}
	p := filepath.Join(dir, FileName)
	if _, err := os.Stat(p); err == nil && !force {
		return p, &Error{Code: ErrCodeExists, Path: p}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return p, &Error{Code: ErrCodeInvalid, Path: p, Err: err}
	}
	if err := fsx.WriteFileAtomicReplace(dir, FileName, []byte(sampleConfig)); err != nil {
		return p, &Error{Code: ErrCodeInvalid, Path: p, Err: err}
	}
	return p, nil
}

// Marshal 把最终配置编码为 TOML（config show 使用）。
func (e EffectiveConfig) Marshal() ([]byte, error) {
	return toml.Marshal(FileConfig{
		Paths: PathsConfig{
			DefaultPath:      e.DefaultPath,
			SpineTemplate:    e.SpineTemplate,
			GameMonsterBase:  e.MonsterBase,
			ImagesKeepFolder: e.KeepFolder,
		},
		Logging: LoggingConfig{
			Level:  e.LogLevel,
			Format: e.LogFormat,
			Dir:    e.LogDir,
		},
	})
}

// expandPath 展开 ~ 并返回 clean + absolute 路径。
func expandPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", errors.New("路径为空")
	}
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("无法确定用户目录：%w", err)
		}
		if p == "~" {
			p = home
		} else if len(p) > 1 && (p[1] == '/' || p[1] == '\\') {
			p = filepath.Join(home, p[2:])
		}
	}
	return filepath.Abs(filepath.Clean(p))
}

// ExpandPath 对外暴露路径展开规则。
func ExpandPath(p string) (string, error) { return expandPath(p) }
