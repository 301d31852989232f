package chainfollower

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prism-network/prism-index/internal/prismindex"
	"github.com/prism-network/prism-index/internal/prismop"
	"github.com/prism-network/prism-index/internal/prismrepo"
	"github.com/prism-network/prism-index/internal/prismstate"
)

const (
	defaultIdleTimeout  = 20 * time.Minute
	defaultRestartDelay = 10 * time.Second
)

var errIdleTimeout = errors.New("chainfollower: no event received within the idle timeout")

// Intersection names the chain point an N2N source asks the remote node
// to resume streaming from.
type Intersection struct {
	Slot      uint64
	BlockHash [32]byte
	Origin    bool
}

// RawEvent is one ledger event handed up by the low-level chain-sync
// client: a transaction carrying metadata, located by its containing
// block and sequence within it.
type RawEvent struct {
	Slot           uint64
	BlockNumber    uint64
	BlockHash      [32]byte
	Cbt            time.Time
	Absn           uint32
	MetadataLabels map[uint64][]byte
}

// EventSource is a connected chain-sync session: repeated calls to Next
// deliver ledger events in order until the session ends or ctx is
// cancelled. The actual Ouroboros node-to-node mini-protocol is outside
// this module's scope; production wiring supplies an EventSourceFactory
// backed by a real client library.
type EventSource interface {
	Next(ctx context.Context) (RawEvent, error)
	Close() error
}

// EventSourceFactory dials a chain-sync session starting at the given
// intersection point.
type EventSourceFactory func(ctx context.Context, at Intersection) (EventSource, error)

// N2NSource streams ledger events over a node-to-node chain-sync session
// and turns qualifying transactions into prismindex.PublishedBlock
// values. It resumes from a persisted cursor when one exists, otherwise
// from the network's hard-coded PRISM genesis point.
type N2NSource struct {
	dial         EventSourceFactory
	cursors      prismrepo.DltCursorRepository
	network      NetworkIdentifier
	signal       *CursorSignal
	idleTimeout  time.Duration
	restartDelay time.Duration
}

func NewN2NSource(dial EventSourceFactory, cursors prismrepo.DltCursorRepository, network NetworkIdentifier, signal *CursorSignal) *N2NSource {
	return &N2NSource{
		dial:         dial,
		cursors:      cursors,
		network:      network,
		signal:       signal,
		idleTimeout:  defaultIdleTimeout,
		restartDelay: defaultRestartDelay,
	}
}

// Receive implements prismindex.BlockSource. The returned channel is
// closed only when ctx is cancelled; any other failure triggers an
// internal restart after restartDelay, never a channel close.
func (s *N2NSource) Receive(ctx context.Context) (<-chan prismindex.PublishedBlock, error) {
	out := make(chan prismindex.PublishedBlock, 64)
	go s.run(ctx, out)
	return out, nil
}

func (s *N2NSource) run(ctx context.Context, out chan<- prismindex.PublishedBlock) {
	defer close(out)
	for ctx.Err() == nil {
		at, err := s.intersection(ctx)
		if err != nil {
			logrus.WithError(err).Error("failed to resolve chain-sync intersection point")
			if !sleepOrDone(ctx, s.restartDelay) {
				return
			}
			continue
		}

		source, err := s.dial(ctx, at)
		if err != nil {
			logrus.WithError(err).Error("failed to start chain-sync session")
			if !sleepOrDone(ctx, s.restartDelay) {
				return
			}
			continue
		}

		err = s.streamLoop(ctx, source, out)
		if errors.Is(err, errIdleTimeout) {
			// Deliberately do not close the session: the remote side may
			// still be mid-handshake recovery and closing here has been
			// observed to hang. The connection is abandoned; resource
			// usage grows slowly across restarts, which is an accepted
			// cost of never blocking the follower on a stuck peer.
			logrus.Warn("chain-sync session idle too long, abandoning it and reconnecting")
		} else {
			source.Close()
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				logrus.WithError(err).Error("chain-sync session terminated")
			}
		}

		logrus.WithField("delay", s.restartDelay).Error("restarting chain-sync session")
		if !sleepOrDone(ctx, s.restartDelay) {
			return
		}
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *N2NSource) streamLoop(ctx context.Context, source EventSource, out chan<- prismindex.PublishedBlock) error {
	for {
		evCtx, cancel := context.WithTimeout(ctx, s.idleTimeout)
		ev, err := source.Next(evCtx)
		timedOut := evCtx.Err() == context.DeadlineExceeded
		cancel()
		if err != nil {
			if timedOut {
				return errIdleTimeout
			}
			return err
		}

		if s.signal != nil {
			cbt := ev.Cbt
			s.signal.Set(prismrepo.DltCursor{Slot: ev.Slot, BlockHash: ev.BlockHash, Cbt: &cbt})
		}

		obj, err := decodeMetadata(ev.MetadataLabels)
		if err != nil {
			if !errors.Is(err, errWrongLabel) {
				logrus.WithError(err).Warn("dropping transaction with unparseable prism metadata")
			}
			continue
		}
		if obj.BlockContent == nil || len(obj.BlockContent.Operations) == 0 {
			continue
		}

		block := prismindex.PublishedBlock{
			BlockMetadata: prismstate.BlockMetadata{
				SlotNumber:  ev.Slot,
				BlockNumber: ev.BlockNumber,
				Cbt:         ev.Cbt,
				Absn:        ev.Absn,
			},
			Operations: append([]prismop.WireSignedPrismOperation(nil), obj.BlockContent.Operations...),
		}

		select {
		case out <- block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *N2NSource) intersection(ctx context.Context) (Intersection, error) {
	cursor, err := s.cursors.GetCursor(ctx)
	if err != nil {
		return Intersection{}, err
	}
	if cursor != nil {
		return Intersection{Slot: cursor.Slot, BlockHash: cursor.BlockHash}, nil
	}
	if g, ok := sinceGenesis(s.network); ok {
		logrus.WithFields(logrus.Fields{"slot": g.slot}).Info("no persisted cursor, starting from the prism genesis point")
		return Intersection{Slot: g.slot, BlockHash: g.blockHash}, nil
	}
	logrus.Info("no persisted cursor and no genesis point for this network, starting from chain origin")
	return Intersection{Origin: true}, nil
}
