package attendance

import (
	"context"
	"sync"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/attendance"
)

// screen is the attendance screen state of one browser session.
//
// generation changes with every selection change; revision changes after
// every confirmed mutation. A fetched snapshot is only committed while both
// still match the values it was started with.
type screen struct {
	mu         sync.Mutex
	selected   string
	generation uint64
	revision   uint64
	genCtx     context.Context
	genCancel  context.CancelFunc
	last       *committed
}

type committed struct {
	snapshot   attendance.Snapshot
	generation uint64
}

func newScreen() *screen {
	ctx, cancel := context.WithCancel(context.Background())
	return &screen{genCtx: ctx, genCancel: cancel}
}

func (sc *screen) current() (selected string, generation, revision uint64, genCtx context.Context) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.selected, sc.generation, sc.revision, sc.genCtx
}

// reselect cancels every load started for the previous selection.
func (sc *screen) reselect(employeeID string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.genCancel()
	sc.selected = employeeID
	sc.generation++
	sc.genCtx, sc.genCancel = context.WithCancel(context.Background())
	sc.last = nil
}

func (sc *screen) commit(generation, revision uint64, snap attendance.Snapshot) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if generation != sc.generation || revision != sc.revision {
		return false
	}
	sc.last = &committed{snapshot: snap, generation: generation}
	return true
}

func (sc *screen) lastSnapshot() (attendance.Snapshot, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.last == nil || sc.last.generation != sc.generation {
		return attendance.Snapshot{}, false
	}
	return sc.last.snapshot, true
}

// invalidate marks every snapshot taken before a confirmed mutation as stale.
func (sc *screen) invalidate() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.revision++
	sc.last = nil
}

func (sc *screen) close() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.genCancel()
}
