package chainfollower

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prism-network/prism-index/internal/prismrepo"
)

type fakeCursorStore struct {
	mu      sync.Mutex
	writes  []prismrepo.DltCursor
	getErr  error
	current *prismrepo.DltCursor
}

func (f *fakeCursorStore) SetCursor(ctx context.Context, cursor prismrepo.DltCursor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, cursor)
	return nil
}

func (f *fakeCursorStore) GetCursor(ctx context.Context) (*prismrepo.DltCursor, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.current, nil
}

func (f *fakeCursorStore) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

func TestCursorSignalWaitBlocksUntilSet(t *testing.T) {
	signal := NewCursorSignal()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if signal.Wait(ctx) {
		t.Fatal("expected Wait to time out with nothing Set")
	}

	signal.Set(prismrepo.DltCursor{Slot: 7})
	if !signal.Wait(context.Background()) {
		t.Fatal("expected Wait to return immediately once Set")
	}
	cursor, ok := signal.Latest()
	if !ok || cursor.Slot != 7 {
		t.Fatalf("expected latest slot 7, got %+v ok=%v", cursor, ok)
	}
}

func TestRunCursorPersistWorkerCoalescesBurstsIntoOneWrite(t *testing.T) {
	signal := NewCursorSignal()
	store := &fakeCursorStore{}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		runCursorPersistWorker(ctx, signal, store, 20*time.Millisecond)
		close(done)
	}()

	signal.Set(prismrepo.DltCursor{Slot: 1})
	signal.Set(prismrepo.DltCursor{Slot: 2})
	signal.Set(prismrepo.DltCursor{Slot: 3})

	<-done

	if store.writeCount() == 0 {
		t.Fatal("expected at least one write")
	}
	last := store.writes[len(store.writes)-1]
	if last.Slot != 3 {
		t.Fatalf("expected the last write to carry the latest slot 3, got %d", last.Slot)
	}
}
