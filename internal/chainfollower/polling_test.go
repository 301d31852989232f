package chainfollower

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prism-network/prism-index/internal/prismrepo"
)

type fakePollingQuery struct {
	mu      sync.Mutex
	batches [][]PollingRow
	next    int
}

func (q *fakePollingQuery) QueryAfter(ctx context.Context, cursor *prismrepo.DltCursor) ([]PollingRow, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.next >= len(q.batches) {
		return nil, nil
	}
	rows := q.batches[q.next]
	q.next++
	return rows, nil
}

func TestPollingSourceStreamsDecodedRows(t *testing.T) {
	obj := sampleObject()
	raw := encodeEnvelope(t, obj)

	query := &fakePollingQuery{batches: [][]PollingRow{
		{{Slot: 1, BlockNumber: 1, TxIndex: 0, MetadataBytes: raw}},
	}}
	store := &fakeCursorStore{}

	s := NewPollingSource(query, store, NewCursorSignal(), 5*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	ch, err := s.Receive(ctx)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}

	var count int
	for b := range ch {
		count++
		if len(b.Operations) != 1 {
			t.Fatalf("expected 1 operation in block, got %d", len(b.Operations))
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 block emitted, got %d", count)
	}
}

func TestPollingSourceSkipsUndecodableRows(t *testing.T) {
	query := &fakePollingQuery{batches: [][]PollingRow{
		{{Slot: 1, MetadataBytes: []byte{0xff}}},
	}}
	store := &fakeCursorStore{}

	s := NewPollingSource(query, store, NewCursorSignal(), 5*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ch, err := s.Receive(ctx)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	for range ch {
		t.Fatal("expected no blocks for an undecodable row")
	}
}

func TestPollingSourceDefaultsIntervalWhenZero(t *testing.T) {
	s := NewPollingSource(&fakePollingQuery{}, &fakeCursorStore{}, NewCursorSignal(), 0)
	if s.interval != defaultPollInterval {
		t.Fatalf("expected default interval, got %s", s.interval)
	}
}
