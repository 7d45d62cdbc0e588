package clock

import (
	"sync"
	"time"
)

// Fake is a manually driven Clock.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	tickers map[*fakeTicker]struct{}
}

func NewFake(now time.Time) *Fake {
	return &Fake{now: now, tickers: make(map[*fakeTicker]struct{})}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) Set(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}

// Advance moves the clock and fires every running ticker once.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	now := f.now
	tickers := make([]*fakeTicker, 0, len(f.tickers))
	for t := range f.tickers {
		tickers = append(tickers, t)
	}
	f.mu.Unlock()

	for _, t := range tickers {
		select {
		case t.ch <- now:
		default:
		}
	}
}

func (f *Fake) NewTicker(time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time, 1), owner: f}
	f.tickers[t] = struct{}{}
	return t
}

// Running reports how many tickers have not been stopped.
func (f *Fake) Running() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}

type fakeTicker struct {
	ch    chan time.Time
	owner *Fake
}

func (t *fakeTicker) C() <-chan time.Time {
	return t.ch
}

func (t *fakeTicker) Stop() {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	delete(t.owner.tickers, t)
}
