package main

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/muselog/internal/actions"
	"github.com/John-Robertt/muselog/internal/config"
	"github.com/John-Robertt/muselog/internal/infra/opener"
	"github.com/John-Robertt/muselog/internal/infra/state"
	"github.com/John-Robertt/muselog/internal/logging"
	"github.com/John-Robertt/muselog/internal/meta"
	"github.com/John-Robertt/muselog/internal/navigator"
)

// globalFlags 是所有子命令共享的参数。
type globalFlags struct {
	home          string
	logLevel      string
	logFormat     string
	spineTemplate string
	monsterBase   string
	json          bool
	noOpen        bool
}

// commandContext 负责按需加载配置并构造各组件（每次进程只加载一次）。
type commandContext struct {
	flags *globalFlags

	once   sync.Once
	eff    config.EffectiveConfig
	log    *slog.Logger
	closer io.Closer
	store  *state.Store
	err    error

	// opener 可在测试中替换。
	opener opener.Opener
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensure(cmd *cobra.Command) error {
	c.once.Do(func() {
		pf := cmd.Root().PersistentFlags()
		eff, err := config.LoadEffective(config.CLIArgs{
			Dir:              c.flags.home,
			LogLevel:         c.flags.logLevel,
			LogLevelSet:      pf.Changed("log-level"),
			LogFormat:        c.flags.logFormat,
			LogFormatSet:     pf.Changed("log-format"),
			SpineTemplate:    c.flags.spineTemplate,
			SpineTemplateSet: pf.Changed("spine-template"),
			MonsterBase:      c.flags.monsterBase,
			MonsterBaseSet:   pf.Changed("monster-base"),
		})
		if err != nil {
			c.err = err
			return
		}
		log, closer, err := logging.New(logging.Options{
			Level:  eff.LogLevel,
			Format: eff.LogFormat,
			File:   eff.LogFile(),
			Stderr: cmd.ErrOrStderr(),
		})
		if err != nil {
			c.err = err
			return
		}
		slog.SetDefault(log)

		c.eff = eff
		c.log = log
		c.closer = closer
		c.store = state.New(eff.Dir, log)
		if c.opener == nil {
			if c.flags.noOpen {
				c.opener = opener.Nop{}
			} else {
				c.opener = opener.System{}
			}
		}
	})
	return c.err
}

// close 关闭日志文件；可重复调用。
func (c *commandContext) close() {
	if c.closer != nil {
		_ = c.closer.Close()
		c.closer = nil
	}
}

func (c *commandContext) newNavigator() *navigator.Navigator {
	return navigator.New(navigator.Options{
		Resolver:  actions.Resolver{Monsters: c.store},
		Collector: &meta.Collector{Log: c.log},
		State:     c.store,
		Log:       c.log,
	})
}

func (c *commandContext) newRunner() *actions.Runner {
	return &actions.Runner{
		SpineTemplate: c.eff.SpineTemplate,
		MonsterBase:   c.eff.MonsterBase,
		KeepFolder:    c.eff.KeepFolder,
		Monsters:      c.store,
		Opener:        c.opener,
		Log:           c.log,
	}
}

// openAt 导航到 path；path 为空时按 上次访问目录 > paths.default_path > 用户目录 恢复。
func (c *commandContext) openAt(nav *navigator.Navigator, path string) (navigator.View, error) {
	if strings.TrimSpace(path) != "" {
		return nav.Navigate(path)
	}
	home, _ := os.UserHomeDir()
	return nav.Resume(c.store.LastPath(), c.eff.DefaultPath, home)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
