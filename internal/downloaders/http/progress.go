package rangehttp

import "sync"

// progressState is the byte counter shared by all workers of one job. The
// callback runs under the lock, so callers observe a non-decreasing total.
type progressState struct {
	mu      sync.Mutex
	current int64
	total   int64
	fn      ProgressFunc
	args    []any
}

func newProgressState(total int64, fn ProgressFunc, args []any) *progressState {
	return &progressState{total: total, fn: fn, args: args}
}

func (p *progressState) add(n int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current += n
	if p.fn != nil {
		p.fn(p.current, p.total, n, p.args...)
	}
}

func (p *progressState) Current() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}
