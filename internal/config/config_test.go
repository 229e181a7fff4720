package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadEffective_NoFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	eff, err := LoadEffective(CLIArgs{Dir: dir})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.FileExists {
		t.Fatalf("配置文件不存在时 FileExists 应为 false")
	}
	if eff.KeepFolder != DefaultKeepFolder || eff.LogLevel != "info" || eff.LogFormat != "console" {
		t.Fatalf("默认值不符合预期：%+v", eff)
	}
	if eff.LogFile() != filepath.Join(dir, "logs", "app.log") {
		t.Fatalf("默认日志文件不符合预期：%q", eff.LogFile())
	}
}

func TestLoadEffective_FileAndCLIMergeOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), []byte(`
[paths]
spine_template = "tpl/ske.spine"
game_monster_base = "/game/monsters"
images_keep_folder = "keep"

[logging]
level = "debug"
format = "json"
`))

	eff, err := LoadEffective(CLIArgs{Dir: dir})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.KeepFolder != "keep" || eff.LogLevel != "debug" || eff.LogFormat != "json" {
		t.Fatalf("应使用配置文件中的值：%+v", eff)
	}
	if !filepath.IsAbs(eff.SpineTemplate) {
		t.Fatalf("路径应转为绝对路径：%q", eff.SpineTemplate)
	}

	eff, err = LoadEffective(CLIArgs{
		Dir:            dir,
		LogLevel:       "warn",
		LogLevelSet:    true,
		MonsterBase:    "/other",
		MonsterBaseSet: true,
	})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.LogLevel != "warn" {
		t.Fatalf("CLI 应覆盖配置文件：%q", eff.LogLevel)
	}
	wantBase, _ := filepath.Abs("/other")
	if eff.MonsterBase != wantBase {
		t.Fatalf("CLI 应覆盖 game_monster_base：%q", eff.MonsterBase)
	}
}

func TestLoadEffective_Invalid(t *testing.T) {
	cases := map[string]string{
		"语法错误": "[paths\n",
		"未知字段": "[paths]\nunknown = 1\n",
		"日志级别": "[logging]\nlevel = \"trace\"\n",
		"日志格式": "[logging]\nformat = \"xml\"\n",
		"保留目录": "[paths]\nimages_keep_folder = \"a/b\"\n",
	}
	for name, content := range cases {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, FileName), []byte(content))
		_, err := LoadEffective(CLIArgs{Dir: dir})
		if Code(err) != ErrCodeInvalid {
			t.Fatalf("%s：期望 %q，实际 err=%v (code=%q)", name, ErrCodeInvalid, err, Code(err))
		}
	}
}

func TestDefaultDir_Env(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvHome, dir)
	got, err := DefaultDir()
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if got != dir {
		t.Fatalf("期望使用 %s：%q", EnvHome, got)
	}
}

func TestWriteSample(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "home")

	p, err := WriteSample(dir, false)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if _, err := WriteSample(dir, false); Code(err) != ErrCodeExists {
		t.Fatalf("已存在时期望 %q，实际 %v", ErrCodeExists, err)
	}
	if _, err := WriteSample(dir, true); err != nil {
		t.Fatalf("force 覆盖不期望错误：%v", err)
	}

	// 示例配置本身必须能被加载。
	eff, err := LoadEffective(CLIArgs{Dir: dir})
	if err != nil {
		t.Fatalf("示例配置应可加载：%v", err)
	}
	if !eff.FileExists || eff.File != p {
		t.Fatalf("应读取示例配置：%+v", eff)
	}
}

func TestEffectiveConfig_Marshal(t *testing.T) {
	eff, err := LoadEffective(CLIArgs{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	b, err := eff.Marshal()
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if !strings.Contains(string(b), "images_keep_folder") || !strings.Contains(string(b), "[logging]") {
		t.Fatalf("输出不符合预期：%s", b)
	}
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
}
