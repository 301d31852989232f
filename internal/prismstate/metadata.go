// Package prismstate implements the operation-processing state machine: a
// pure fold of (DidState, OperationMetadata, SignedOperation) into a new
// DidState or a per-operation error. No shared mutable state is used;
// every candidate mutation works on a cloned copy, matching the
// persistent-map discipline of the reference implementation (structural
// sharing there is an optimization, not a contract this package needs to
// reproduce).
package prismstate

import "time"

// BlockMetadata locates an operation's carrying transaction within the
// ledger: the block it landed in, and its position among the
// operation-carrying transactions of that block.
type BlockMetadata struct {
	SlotNumber  uint64
	BlockNumber uint64
	Cbt         time.Time
	Absn        uint32 // operation-carrying-transaction sequence within the block
}

// OperationMetadata locates a single operation within its transaction,
// on top of the transaction's own BlockMetadata location.
type OperationMetadata struct {
	Block BlockMetadata
	Osn   uint32 // operation sequence within the transaction's operation list
}

// Less orders two OperationMetadata values by the canonical
// (block_number, absn, osn) tiebreak chain.
func (m OperationMetadata) Less(other OperationMetadata) bool {
	if m.Block.BlockNumber != other.Block.BlockNumber {
		return m.Block.BlockNumber < other.Block.BlockNumber
	}
	if m.Block.Absn != other.Block.Absn {
		return m.Block.Absn < other.Block.Absn
	}
	return m.Osn < other.Osn
}

// UnpublishedMetadata is the synthetic metadata used when resolving a
// long-form DID from its embedded CreateDid operation alone, with no
// ledger placement to draw real metadata from.
func UnpublishedMetadata() OperationMetadata {
	return OperationMetadata{
		Block: BlockMetadata{Cbt: time.Unix(0, 0).UTC()},
	}
}
