// Package prismresolve drives prismstate.Machine over a batch of observed
// operations to compute a DID's current document: sort by ledger order,
// find the first operation that bootstraps a state, then fold the rest
// while recording every outcome (success or conflict) in a debug trace.
package prismresolve

import (
	"sort"

	"github.com/prism-network/prism-index/internal/prismop"
	"github.com/prism-network/prism-index/internal/prismstate"
)

// TimedOperation pairs a signed operation with the ledger metadata it was
// observed under.
type TimedOperation struct {
	Metadata prismstate.OperationMetadata
	Signed   prismop.SignedOperation
}

// DebugEntry records the outcome of processing one TimedOperation during a
// resolution: Err is nil for every operation that was successfully
// applied (or skipped as a no-op, for ProtocolVersionUpdate), and
// non-nil for every operation rejected by the state machine, whether
// during initialization or during the fold.
type DebugEntry struct {
	Metadata prismstate.OperationMetadata
	Signed   prismop.SignedOperation
	Err      error
}

// ResolvePublished sorts operations into canonical order, initializes a
// state from the first operation that successfully bootstraps one, then
// folds every remaining operation through the machine in order. It
// returns the finalized document (nil if no operation in the batch could
// bootstrap a state) and the full debug trace in processing order.
//
// The input slice is not mutated; sorting operates on a local copy.
func ResolvePublished(machine prismstate.Machine, operations []TimedOperation) (*prismstate.DidState, []DebugEntry) {
	ordered := make([]TimedOperation, len(operations))
	copy(ordered, operations)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Metadata.Less(ordered[j].Metadata)
	})

	debug := make([]DebugEntry, 0, len(ordered))

	state, consumed, ok := initState(machine, ordered, &debug)
	if !ok {
		return nil, debug
	}

	for _, item := range ordered[consumed:] {
		next, err := machine.Apply(state, item.Signed, item.Metadata)
		state = next
		debug = append(debug, DebugEntry{Metadata: item.Metadata, Signed: item.Signed, Err: err})
	}

	final := state.Finalize()
	return &final, debug
}

// initState scans ordered from the start for the first operation that
// successfully initializes a published state, recording every skipped
// operation (and its failure) into debug. It returns the number of
// leading entries consumed (including the one that succeeded) so the
// caller can fold the remainder.
func initState(machine prismstate.Machine, ordered []TimedOperation, debug *[]DebugEntry) (prismstate.State, int, bool) {
	for i, item := range ordered {
		state, err := machine.InitPublished(item.Signed, item.Metadata)
		if err != nil {
			*debug = append(*debug, DebugEntry{Metadata: item.Metadata, Signed: item.Signed, Err: err})
			continue
		}
		*debug = append(*debug, DebugEntry{Metadata: item.Metadata, Signed: item.Signed})
		return state, i + 1, true
	}
	return prismstate.State{}, len(ordered), false
}

// ResolveUnpublished computes the state a long-form DID would have if
// published with no further operations: only its embedded CreateDid is
// applied, with synthetic metadata, and the signature step is skipped
// since the DID string is its own proof (a tampered embedded operation
// simply fails to hash back to the literal suffix, which is caught by
// prismdid.Parse before resolution is ever attempted).
func ResolveUnpublished(machine prismstate.Machine, op prismop.Operation) (prismstate.DidState, error) {
	state, err := machine.InitUnpublished(op)
	if err != nil {
		return prismstate.DidState{}, err
	}
	return state.Finalize(), nil
}
