// Package prismrepo declares the storage contracts the indexer, resolver
// and chain-follower worker depend on. It carries no implementation: see
// internal/store/postgres for the concrete adapter. Keeping the contract
// here, separate from any driver, lets the indexer and resolver be tested
// against an in-memory fake without importing pgx.
package prismrepo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/prism-network/prism-index/internal/prismdid"
	"github.com/prism-network/prism-index/internal/prismop"
	"github.com/prism-network/prism-index/internal/prismstate"
)

// RawOperationID identifies one row of the raw-operation table, assigned
// at insert time.
type RawOperationID uuid.UUID

// String renders the id in its canonical UUID form.
func (id RawOperationID) String() string { return uuid.UUID(id).String() }

// NewRawOperationID generates a fresh random id for a row about to be
// inserted.
func NewRawOperationID() RawOperationID { return RawOperationID(uuid.New()) }

// TimedOperation pairs a raw operation row with the ledger metadata it
// was observed under and, once parsed, its structurally validated form.
type TimedOperation struct {
	ID       RawOperationID
	Metadata prismstate.OperationMetadata
	Signed   prismop.WireSignedPrismOperation
}

// IndexedKind distinguishes the three classification outcomes a raw
// operation can resolve to.
type IndexedKind int

const (
	IndexedSsi IndexedKind = iota
	IndexedVdr
	IndexedIgnored
)

// IndexedOperation is one classified row: an SSI operation belonging to
// a DID document, a VDR operation belonging to a storage-entry chain, or
// an operation the classifier could not place anywhere.
type IndexedOperation struct {
	Kind            IndexedKind
	RawOperationID  RawOperationID
	Did             prismdid.CanonicalPrismDid // Ssi, and Vdr once a root is found
	OperationHash   []byte                     // Vdr only
	InitOperationHash []byte                   // Vdr only: the owning chain's CreateStorageEntry hash
	PrevOperationHash []byte                   // Vdr only, nil for a chain root
}

// DltCursor is the single persisted replay position for a chain-follower
// source.
type DltCursor struct {
	Slot      uint64
	BlockHash [32]byte
	Cbt       *time.Time
}

// OperationRepository is the storage contract backing both the indexer
// and the resolver: raw operation ingestion, classification, and the
// read paths a DID-resolution API needs.
type OperationRepository interface {
	// InsertRawOperations persists a block's worth of observed operations
	// atomically; is_indexed starts false for every row.
	InsertRawOperations(ctx context.Context, batch []TimedOperation) error

	// GetUnindexedRawOperations fetches rows not yet classified, in ledger
	// order (block number, absn, osn). One call may return only part of
	// them: the postgres adapter returns at most 500 rows per call, and
	// RunIndexerLoop calls it again until it returns none.
	GetUnindexedRawOperations(ctx context.Context) ([]TimedOperation, error)

	// GetVdrRawOperationByOperationHash looks up the raw row whose
	// operation hashes to hash, used by the storage chain-to-root walk.
	// The second return value is false when no such row exists.
	GetVdrRawOperationByOperationHash(ctx context.Context, hash []byte) (TimedOperation, bool, error)

	// InsertIndexedOperations writes the classification for a batch of
	// rows and flips is_indexed for each one.
	InsertIndexedOperations(ctx context.Context, rows []IndexedOperation) error

	// GetAllDids returns one page of known DIDs ordered by most recent
	// activity descending, then by DID ascending.
	GetAllDids(ctx context.Context, page, pageSize uint32) (Paginated[prismdid.CanonicalPrismDid], error)

	// GetOperationsByDid returns every operation classified against did,
	// in no particular order; callers needing canonical order (the
	// resolver) sort the result themselves.
	GetOperationsByDid(ctx context.Context, did prismdid.CanonicalPrismDid) ([]TimedOperation, error)
}

// DltCursorRepository persists the chain follower's replay position.
type DltCursorRepository interface {
	SetCursor(ctx context.Context, cursor DltCursor) error
	GetCursor(ctx context.Context) (*DltCursor, error)
}
