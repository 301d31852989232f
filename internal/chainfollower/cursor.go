package chainfollower

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prism-network/prism-index/internal/prismrepo"
)

// cursorPersistDelay mirrors the reference's fixed 60-second debounce
// between observing a new cursor and writing it, so a fast-moving source
// does not turn every block into a database write.
const cursorPersistDelay = 60 * time.Second

// CursorSignal is a single-slot mailbox for the most recently observed
// cursor, standing in for the watch channel a source and its persist
// worker share in the reference implementation. Set is safe to call from
// the source's receive loop while Wait/Latest are read by the persist
// worker, with no possibility of the worker observing a torn value.
type CursorSignal struct {
	mu     sync.Mutex
	latest *prismrepo.DltCursor
	notify chan struct{}
}

func NewCursorSignal() *CursorSignal {
	return &CursorSignal{notify: make(chan struct{}, 1)}
}

// Set records the latest cursor and wakes a blocked Wait call, if any.
func (s *CursorSignal) Set(cursor prismrepo.DltCursor) {
	s.mu.Lock()
	s.latest = &cursor
	s.mu.Unlock()
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Wait blocks until Set has been called at least once since the last
// Wait returned, or ctx is cancelled.
func (s *CursorSignal) Wait(ctx context.Context) bool {
	select {
	case <-s.notify:
		return true
	case <-ctx.Done():
		return false
	}
}

// Latest returns the most recently Set cursor, if any.
func (s *CursorSignal) Latest() (prismrepo.DltCursor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return prismrepo.DltCursor{}, false
	}
	return *s.latest, true
}

// RunCursorPersistWorker waits for a new cursor, lets cursorPersistDelay
// elapse so bursts of cursor updates coalesce into one write, then
// persists whatever the latest cursor is by that point. A write failure
// is logged and the loop keeps running rather than tearing down the
// follower over one failed checkpoint.
func RunCursorPersistWorker(ctx context.Context, signal *CursorSignal, store prismrepo.DltCursorRepository) error {
	return runCursorPersistWorker(ctx, signal, store, cursorPersistDelay)
}

func runCursorPersistWorker(ctx context.Context, signal *CursorSignal, store prismrepo.DltCursorRepository, delay time.Duration) error {
	for {
		if !signal.Wait(ctx) {
			return ctx.Err()
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		cursor, ok := signal.Latest()
		if !ok {
			continue
		}
		if err := store.SetCursor(ctx, cursor); err != nil {
			logrus.WithError(err).Error("failed to persist dlt cursor")
		}
	}
}
