package submitter

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/prism-network/prism-index/internal/prismop"
)

// SubmitAll splits operations into chunks of at most batchSize and
// submits one transaction per chunk, returning every transaction id in
// submission order. It stops and returns the partial results alongside
// the first error, since a later batch succeeding after an earlier one
// failed would leave the submission order ambiguous to the caller.
func SubmitAll(ctx context.Context, sink *WalletSink, operations []prismop.WireSignedPrismOperation, batchSize int) ([]TxId, error) {
	if batchSize <= 0 {
		batchSize = len(operations)
	}
	var txIds []TxId
	for start := 0; start < len(operations); start += batchSize {
		end := start + batchSize
		if end > len(operations) {
			end = len(operations)
		}
		batch := operations[start:end]

		txID, err := sink.PublishOperations(ctx, batch)
		if err != nil {
			logrus.WithError(err).WithField("batch_size", len(batch)).Error("failed to submit operation batch")
			return txIds, err
		}
		txIds = append(txIds, txID)
	}
	return txIds, nil
}
