package prismindex

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/prism-network/prism-index/internal/prismop"
	"github.com/prism-network/prism-index/internal/prismrepo"
	"github.com/prism-network/prism-index/internal/prismstate"
)

// PublishedBlock is one chain block carrying zero or more signed
// operations, as handed off by a BlockSource.
type PublishedBlock struct {
	BlockMetadata prismstate.BlockMetadata
	Operations    []prismop.WireSignedPrismOperation
}

// BlockSource is the chain follower's side of the ingestion contract: it
// streams blocks until the context is cancelled or the underlying
// source closes, at which point the channel is closed.
type BlockSource interface {
	Receive(ctx context.Context) (<-chan PublishedBlock, error)
}

// RunIndexerLoop repeatedly fetches unindexed raw operations and
// classifies them one at a time, returning once a pass finds nothing
// left to classify. A caller wanting continuous classification (as new
// raw operations are ingested) should call this on a timer.
func RunIndexerLoop(ctx context.Context, repo prismrepo.OperationRepository, param prismop.Parameters) error {
	for {
		rows, err := repo.GetUnindexedRawOperations(ctx)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		logrus.WithField("count", len(rows)).Info("indexing raw operations")
		for _, row := range rows {
			indexed := classifyRow(ctx, repo, param, row)
			if err := repo.InsertIndexedOperations(ctx, []prismrepo.IndexedOperation{indexed}); err != nil {
				return err
			}
		}
	}
}

// RunSyncLoop drains a BlockSource into the raw-operation repository
// until the source closes or ctx is cancelled. Operations whose inner
// oneof is entirely empty are dropped before insertion: they carry no
// classifiable content and would only waste a row. A batch insert
// failure is logged and the loop continues with the next block, rather
// than tearing down the whole pipeline over one write.
func RunSyncLoop(ctx context.Context, repo prismrepo.OperationRepository, source BlockSource) error {
	blocks, err := source.Receive(ctx)
	if err != nil {
		return err
	}

	for block := range blocks {
		batch := make([]prismrepo.TimedOperation, 0, len(block.Operations))
		for osn, signed := range block.Operations {
			if signed.Operation == (prismop.WirePrismOperation{}) {
				continue
			}
			batch = append(batch, prismrepo.TimedOperation{
				ID: prismrepo.NewRawOperationID(),
				Metadata: prismstate.OperationMetadata{
					Block: block.BlockMetadata,
					Osn:   uint32(osn),
				},
				Signed: signed,
			})
		}
		if len(batch) == 0 {
			continue
		}
		if err := repo.InsertRawOperations(ctx, batch); err != nil {
			logrus.WithError(err).Error("failed to insert raw operations")
		}
	}

	return ctx.Err()
}
