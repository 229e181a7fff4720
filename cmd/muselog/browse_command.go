package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/muselog/internal/actions"
	"github.com/John-Robertt/muselog/internal/domain"
	"github.com/John-Robertt/muselog/internal/navigator"
	"github.com/John-Robertt/muselog/internal/sidecar"
)

const browseHelp = `命令：
  cd <路径|子目录>     进入目录（相对路径基于当前目录）
  back                后退
  up                  上一级
  refresh             刷新
  ls                  列出子目录
  enter <名称>         进入快捷子目录（参考图/序列帧/Spine/视频，不存在则创建）
  meta                显示元数据
  actions             显示可用操作
  do <序号|ID> [rate=N] [type=T] [monster=N] [yes]
                      执行操作
  open <序号>          打开元数据行（目录/文件/视频详情）
  history             显示历史栈
  pwd                 显示当前目录
  help                显示本帮助
  quit                退出`

func newBrowseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "browse [path]",
		Short: "交互式浏览目录（行命令）",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := &browser{
				ctx: ctx,
				nav: ctx.newNavigator(),
				out: cmd.OutOrStdout(),
			}
			v, err := ctx.openAt(b.nav, firstArg(args))
			if err != nil {
				return err
			}
			printView(b.out, v)
			return b.loop(cmd.InOrStdin())
		},
	}
}

// browser 是一个浏览视图：独占一个 Navigator，命令按输入顺序同步处理。
type browser struct {
	ctx *commandContext
	nav *navigator.Navigator
	out io.Writer
}

var errQuit = errors.New("quit")

func (b *browser) loop(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for {
		fmt.Fprintf(b.out, "%s> ", filepath.Base(b.nav.Current()))
		if !sc.Scan() {
			fmt.Fprintln(b.out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		err := b.exec(line, sc)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			// 单条命令失败不退出浏览，视图保持不变。
			fmt.Fprintf(b.out, "错误：%v\n", err)
		}
	}
}

func (b *browser) exec(line string, sc *bufio.Scanner) error {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		fmt.Fprintln(b.out, browseHelp)
		return nil
	case "pwd":
		fmt.Fprintln(b.out, b.nav.Current())
		return nil
	case "cd":
		if rest == "" {
			return usagef("cd 需要一个路径")
		}
		target := rest
		if !filepath.IsAbs(target) {
			target = filepath.Join(b.nav.Current(), target)
		}
		return b.show(b.nav.Navigate(target))
	case "back":
		return b.show(b.nav.Back())
	case "up":
		return b.show(b.nav.Up())
	case "refresh":
		return b.show(b.nav.Refresh())
	case "enter":
		return b.show(b.nav.EnterChild(rest))
	case "ls":
		names, err := b.nav.Children()
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(b.out, n)
		}
		return nil
	case "meta", "actions":
		v, _ := b.nav.View()
		if name == "actions" {
			if len(v.Actions) == 0 {
				fmt.Fprintln(b.out, "当前目录没有可用操作")
				return nil
			}
			fmt.Fprintln(b.out, renderActions(v.Actions))
			return nil
		}
		printView(b.out, navigator.View{Path: v.Path, Role: v.Role, Meta: v.Meta})
		return nil
	case "history":
		for i, p := range b.nav.History() {
			fmt.Fprintf(b.out, "%d  %s\n", i+1, p)
		}
		return nil
	case "do":
		return b.do(rest, sc)
	case "open":
		return b.open(rest)
	default:
		return usagef("未知命令 %q（输入 help 查看帮助）", name)
	}
}

func (b *browser) show(v navigator.View, err error) error {
	if err != nil {
		return err
	}
	printView(b.out, v)
	return nil
}

func (b *browser) do(args string, sc *bufio.Scanner) error {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return usagef("do 需要操作序号或 ID")
	}
	v, _ := b.nav.View()
	a, err := pickAction(v.Actions, fields[0])
	if err != nil {
		return err
	}

	in := actions.Input{MonsterNumber: defaultInput(a, actions.InputMonsterNumber)}
	for _, kv := range fields[1:] {
		k, val, _ := strings.Cut(kv, "=")
		switch k {
		case actions.InputFrameRate:
			n, err := strconv.Atoi(val)
			if err != nil {
				return domain.InvalidInput(fmt.Sprintf("帧率必须是整数：%q", val))
			}
			in.FrameRate = n
		case actions.InputAnimationType:
			in.AnimationType = val
		case actions.InputMonsterNumber:
			in.MonsterNumber = val
		case "yes", "y":
			in.Confirmed = true
		default:
			return usagef("未知输入 %q", kv)
		}
	}
	if a.Confirm && !in.Confirmed {
		fmt.Fprintf(b.out, "确定要%s %s 吗？[y/N] ", a.Label, v.Path)
		if sc.Scan() {
			switch strings.ToLower(strings.TrimSpace(sc.Text())) {
			case "y", "yes", "是":
				in.Confirmed = true
			}
		}
	}

	res, err := b.ctx.runAction(b.nav, a.ID, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(b.out, res.Message)
	printView(b.out, res.View)
	return nil
}

func pickAction(list []domain.Action, key string) (domain.Action, error) {
	if n, err := strconv.Atoi(key); err == nil {
		if n < 1 || n > len(list) {
			return domain.Action{}, domain.InvalidInput(fmt.Sprintf("操作序号超出范围：%d", n))
		}
		return list[n-1], nil
	}
	if a, ok := actions.Lookup(list, domain.ActionID(key)); ok {
		return a, nil
	}
	return domain.Action{}, domain.InvalidInput(fmt.Sprintf("当前目录没有操作 %q", key))
}

func (b *browser) open(arg string) error {
	v, _ := b.nav.View()
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 || n > len(v.Meta) {
		return usagef("open 需要元数据行序号（1-%d）", len(v.Meta))
	}
	e := v.Meta[n-1]
	if !e.HasAction() {
		return domain.InvalidInput(fmt.Sprintf("第 %d 行没有可执行的操作", n))
	}
	switch e.Action {
	case domain.MetaActionOpenFolder, domain.MetaActionOpenFile:
		if err := b.ctx.opener.Open(e.Payload); err != nil {
			return domain.OSFailure(e.Payload, "打开失败", err)
		}
		fmt.Fprintf(b.out, "已打开 %s\n", e.Payload)
		return nil
	case domain.MetaActionVideoDetail:
		return printVideoDetail(b.out, e.Payload)
	default:
		return domain.InvalidInput(fmt.Sprintf("第 %d 行的操作不受支持：%s", n, e.Action))
	}
}

func printVideoDetail(w io.Writer, videoPath string) error {
	f, err := sidecar.Load(sidecar.PathFor(videoPath))
	if err != nil {
		return domain.OSFailure(sidecar.PathFor(videoPath), "读取视频元数据失败", err)
	}
	e := f.Entry(filepath.Base(videoPath), videoPath)
	fmt.Fprintln(w, renderTable([]string{"项目", "内容"}, [][]string{
		{"视频", e.VideoPath},
		{"提示词", e.Prompt},
		{"参考", e.Reference},
	}, nil))
	return nil
}
