package chainfollower

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prism-network/prism-index/internal/prismindex"
	"github.com/prism-network/prism-index/internal/prismop"
	"github.com/prism-network/prism-index/internal/prismrepo"
	"github.com/prism-network/prism-index/internal/prismstate"
)

const defaultPollInterval = 10 * time.Second

// PollingRow is one transaction-carrying row of the relational
// projection the polling source reads: a ledger position and the raw
// CBOR bytes of its label-21325 metadata value.
type PollingRow struct {
	Slot          uint64
	BlockNumber   uint64
	Cbt           time.Time
	TxIndex       uint32
	MetadataBytes []byte
}

// PollingQuery reads rows strictly after the given cursor, ordered by
// ledger position. A nil cursor means query from the beginning.
type PollingQuery interface {
	QueryAfter(ctx context.Context, cursor *prismrepo.DltCursor) ([]PollingRow, error)
}

// PollingSource streams ledger events by repeatedly querying a read-only
// relational projection, as an alternative to a live chain-sync session.
// It satisfies the same prismindex.BlockSource contract and reuses the
// same metadata decoding as the node-to-node source.
type PollingSource struct {
	query    PollingQuery
	cursors  prismrepo.DltCursorRepository
	signal   *CursorSignal
	interval time.Duration
}

func NewPollingSource(query PollingQuery, cursors prismrepo.DltCursorRepository, signal *CursorSignal, interval time.Duration) *PollingSource {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &PollingSource{query: query, cursors: cursors, signal: signal, interval: interval}
}

func (s *PollingSource) Receive(ctx context.Context) (<-chan prismindex.PublishedBlock, error) {
	out := make(chan prismindex.PublishedBlock, 64)
	go s.run(ctx, out)
	return out, nil
}

func (s *PollingSource) run(ctx context.Context, out chan<- prismindex.PublishedBlock) {
	defer close(out)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if !s.pollOnce(ctx, out) {
			return
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

func (s *PollingSource) pollOnce(ctx context.Context, out chan<- prismindex.PublishedBlock) bool {
	cursor, err := s.cursors.GetCursor(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to read persisted cursor, skipping this poll")
		return true
	}

	rows, err := s.query.QueryAfter(ctx, cursor)
	if err != nil {
		logrus.WithError(err).Error("failed to query the relational projection, skipping this poll")
		return true
	}

	for _, row := range rows {
		obj, err := decodeMetadata(map[uint64][]byte{prismMetadataLabel: row.MetadataBytes})
		cbt := row.Cbt
		if s.signal != nil {
			s.signal.Set(prismrepo.DltCursor{Slot: row.Slot, Cbt: &cbt})
		}
		if err != nil {
			logrus.WithError(err).Warn("dropping row with unparseable prism metadata")
			continue
		}
		if obj.BlockContent == nil || len(obj.BlockContent.Operations) == 0 {
			continue
		}

		block := prismindex.PublishedBlock{
			BlockMetadata: prismstate.BlockMetadata{
				SlotNumber:  row.Slot,
				BlockNumber: row.BlockNumber,
				Cbt:         row.Cbt,
				Absn:        row.TxIndex,
			},
			Operations: append([]prismop.WireSignedPrismOperation(nil), obj.BlockContent.Operations...),
		}

		select {
		case out <- block:
		case <-ctx.Done():
			return false
		}
	}
	return true
}
