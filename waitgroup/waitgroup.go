package waitgroup

import "sync"

// WaitGroup waits for a counter of outstanding tasks to reach zero. The
// zero value is ready to use.
type WaitGroup struct {
	once sync.Once
	mu   sync.Mutex
	cond *sync.Cond
	n    int
}

func (wg *WaitGroup) init() {
	wg.once.Do(func() { wg.cond = sync.NewCond(&wg.mu) })
}

// Add changes the counter by delta, which may be negative. A counter
// driven negative panics, the same as native sync.WaitGroup.
func (wg *WaitGroup) Add(delta int) {
	wg.init()
	wg.mu.Lock()
	defer wg.mu.Unlock()
	wg.n += delta
	if wg.n < 0 {
		panic("waitgroup: negative counter")
	}
	if wg.n == 0 {
		wg.cond.Broadcast()
	}
}

// Done decrements the counter by one.
func (wg *WaitGroup) Done() { wg.Add(-1) }

// Wait blocks until the counter is zero.
func (wg *WaitGroup) Wait() {
	wg.init()
	wg.mu.Lock()
	defer wg.mu.Unlock()
	for wg.n > 0 {
		wg.cond.Wait()
	}
}
