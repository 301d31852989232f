package main

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/prism-network/prism-index/internal/prismop"
	"github.com/prism-network/prism-index/internal/submitter"
)

// InvalidSubmissionError wraps a malformed submission request: bad hex,
// an unparseable wire operation, or an empty operation list. The HTTP
// layer maps it to 400; every other error from Submit is a backend
// failure and maps to 500.
type InvalidSubmissionError struct {
	Cause error
}

func (e *InvalidSubmissionError) Error() string { return e.Cause.Error() }
func (e *InvalidSubmissionError) Unwrap() error { return e.Cause }

// SubmissionService decodes hex-encoded signed operations from the
// submission API and publishes them as a single ledger transaction.
type SubmissionService struct {
	sink *submitter.WalletSink
}

func NewSubmissionService(sink *submitter.WalletSink) *SubmissionService {
	return &SubmissionService{sink: sink}
}

// Submit decodes each entry of rawOperations as hex-encoded
// SignedPrismOperation wire bytes and publishes them together,
// returning the resulting transaction id.
func (s *SubmissionService) Submit(ctx context.Context, rawOperations []string) (submitter.TxId, error) {
	operations := make([]prismop.WireSignedPrismOperation, 0, len(rawOperations))
	for i, raw := range rawOperations {
		b, err := hex.DecodeString(raw)
		if err != nil {
			return "", &InvalidSubmissionError{Cause: fmt.Errorf("signed_operations[%d]: invalid hex: %w", i, err)}
		}
		op, err := prismop.DecodeSignedPrismOperation(b)
		if err != nil {
			return "", &InvalidSubmissionError{Cause: fmt.Errorf("signed_operations[%d]: %w", i, err)}
		}
		operations = append(operations, op)
	}
	if len(operations) == 0 {
		return "", &InvalidSubmissionError{Cause: fmt.Errorf("signed_operations: must not be empty")}
	}
	return s.sink.PublishOperations(ctx, operations)
}
