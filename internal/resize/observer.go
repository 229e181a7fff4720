package resize

import "time"

// Observer 用于把批处理进度从执行流程中解耦出来。
//
// 约束：
// - resize 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON 契约）
// - 事件在调用 Run 的 goroutine 上按顺序触发
type Observer interface {
	// OnStart 在开始处理第一张图片前调用。
	OnStart(total int, opts Options)
	// OnItemDone 在每张图片处理完成（成功或跳过）后调用。
	OnItemDone(idx, total int, res ItemResult, dur time.Duration)
	// OnDone 在全部结束时调用一次。
	OnDone(rep Report, dur time.Duration)
}

// Funcs 把函数适配为 Observer；为 nil 的回调被忽略。
type Funcs struct {
	Start    func(total int, opts Options)
	ItemDone func(idx, total int, res ItemResult, dur time.Duration)
	Done     func(rep Report, dur time.Duration)
}

func (f Funcs) OnStart(total int, opts Options) {
	if f.Start != nil {
		f.Start(total, opts)
	}
}

func (f Funcs) OnItemDone(idx, total int, res ItemResult, dur time.Duration) {
	if f.ItemDone != nil {
		f.ItemDone(idx, total, res, dur)
	}
}

func (f Funcs) OnDone(rep Report, dur time.Duration) {
	if f.Done != nil {
		f.Done(rep, dur)
	}
}
