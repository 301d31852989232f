package main

import (
	"context"
	"fmt"

	"github.com/prism-network/prism-index/internal/diddoc"
	"github.com/prism-network/prism-index/internal/prismdid"
	"github.com/prism-network/prism-index/internal/prismop"
	"github.com/prism-network/prism-index/internal/prismrepo"
	"github.com/prism-network/prism-index/internal/prismresolve"
	"github.com/prism-network/prism-index/internal/prismstate"
)

// ErrDidNotFound is returned when a syntactically valid DID has no
// published state: either it was never created, or every operation
// addressing it failed to bootstrap one.
var ErrDidNotFound = fmt.Errorf("did not found")

// ResolutionService resolves published DID state into documents, backed
// by a raw-operation repository and the state machine.
type ResolutionService struct {
	repo    prismrepo.OperationRepository
	machine prismstate.Machine
	param   prismop.Parameters
}

func NewResolutionService(repo prismrepo.OperationRepository, machine prismstate.Machine, param prismop.Parameters) *ResolutionService {
	return &ResolutionService{repo: repo, machine: machine, param: param}
}

// Resolve parses did, loads every operation classified against it, folds
// them through the state machine, and projects the result into a W3C DID
// document. It returns ErrDidNotFound when did parses but has no
// published state.
func (s *ResolutionService) Resolve(ctx context.Context, rawDid string) (diddoc.Document, error) {
	parsed, err := prismdid.Parse(rawDid)
	if err != nil {
		return diddoc.Document{}, err
	}

	rows, err := s.repo.GetOperationsByDid(ctx, parsed.Canonical)
	if err != nil {
		return diddoc.Document{}, err
	}

	operations := make([]prismresolve.TimedOperation, 0, len(rows))
	for _, row := range rows {
		signed, err := prismop.ParseSignedOperation(row.Signed, s.param)
		if err != nil {
			// A row that fails to re-parse here was already accepted by
			// the indexer against looser structural checks than the
			// state machine enforces; skip it rather than fail the
			// whole resolution.
			continue
		}
		operations = append(operations, prismresolve.TimedOperation{
			Metadata: row.Metadata,
			Signed:   signed,
		})
	}

	state, _ := prismresolve.ResolvePublished(s.machine, operations)
	if state == nil {
		return diddoc.Document{}, ErrDidNotFound
	}

	return diddoc.FromDidState(parsed.String(), *state), nil
}
