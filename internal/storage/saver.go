package storage

import (
	"sync"
	"time"
)

// Saver 防抖保存调度器
// 核心只发出脏通知，落盘时机由这里决定：
// 连续编辑合并为一次物理写入，而不是每次按键写一次
type Saver struct {
	flush    func() error
	delay    time.Duration
	onError  func(error)
	mu       sync.Mutex
	timer    *time.Timer
	disabled bool
}

// NewSaver 创建保存调度器
// flush 执行实际落盘；onError 处理落盘失败（可为 nil）
func NewSaver(delay time.Duration, flush func() error, onError func(error)) *Saver {
	return &Saver{
		flush:   flush,
		delay:   delay,
		onError: onError,
	}
}

// MarkDirty 标记有未落盘修改，延迟 delay 后写入
// 窗口内重复调用只重置计时器
func (s *Saver) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disabled {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		if err := s.flush(); err != nil && s.onError != nil {
			s.onError(err)
		}
	})
}

// Flush 立即同步落盘（退出前调用）
func (s *Saver) Flush() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	return s.flush()
}

// Stop 停止调度，不再接受脏通知
func (s *Saver) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabled = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
