// Package safe_close coordinates graceful shutdown of long-running goroutines
// Package safe_close 协调常驻 goroutine 的优雅退出
package safe_close

import (
	"sync"
)

// SafeClose broadcasts one close signal to every attached goroutine and waits for all of them
// SafeClose 向所有挂载的 goroutine 广播关闭信号并等待其退出
type SafeClose struct {
	closeSignal chan struct{}
	wg          sync.WaitGroup
	once        sync.Once

	mu  sync.Mutex
	err error
}

func NewSafeClose() *SafeClose {
	return &SafeClose{closeSignal: make(chan struct{})}
}

// Attach runs fn in a goroutine; fn must call done when it returns control
// Attach 在新 goroutine 中执行 fn，fn 结束时需调用 done
func (s *SafeClose) Attach(fn func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	var doneOnce sync.Once
	go fn(func() { doneOnce.Do(s.wg.Done) }, s.closeSignal)
}

// SendCloseSignal closes the signal channel once; the first non-nil err is kept
// SendCloseSignal 只关闭一次信号通道，保留第一个非空错误
func (s *SafeClose) SendCloseSignal(err error) {
	if err != nil {
		s.mu.Lock()
		if s.err == nil {
			s.err = err
		}
		s.mu.Unlock()
	}
	s.once.Do(func() { close(s.closeSignal) })
}

// CloseSignal 返回关闭信号通道
func (s *SafeClose) CloseSignal() <-chan struct{} {
	return s.closeSignal
}

// WaitClosed 等待所有挂载的 goroutine 退出，返回触发关闭的错误
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
