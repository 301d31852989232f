package prismop

import (
	"github.com/ipfs/go-cid"

	"github.com/prism-network/prism-index/internal/prismcrypto"
)

// StatusListEntryData is the structured bitstring-status-list payload
// variant of a storage entry.
type StatusListEntryData struct {
	State   int64
	Name    string
	Details string
}

// StorageDataKind distinguishes the three storage entry payload shapes.
type StorageDataKind int

const (
	StorageDataBytes StorageDataKind = iota
	StorageDataIpfs
	StorageDataStatusList
)

// StorageData is the parsed oneof over the three storage payload kinds.
type StorageData struct {
	Kind       StorageDataKind
	Bytes      []byte
	Ipfs       string
	StatusList StatusListEntryData
}

func parseStorageData(w wireStorageData, kind string) (StorageData, error) {
	switch {
	case w.Bytes != nil:
		return StorageData{Kind: StorageDataBytes, Bytes: w.Bytes}, nil
	case w.Ipfs != nil:
		if _, err := cid.Decode(*w.Ipfs); err != nil {
			return StorageData{}, &StorageOperationError{Kind: kind, Reason: "invalid ipfs cid", Cause: err}
		}
		return StorageData{Kind: StorageDataIpfs, Ipfs: *w.Ipfs}, nil
	case w.StatusList != nil:
		return StorageData{Kind: StorageDataStatusList, StatusList: StatusListEntryData{
			State:   w.StatusList.State,
			Name:    w.StatusList.Name,
			Details: w.StatusList.Details,
		}}, nil
	default:
		return StorageData{}, &StorageOperationError{Kind: kind, Reason: "empty storage data"}
	}
}

// CreateStorageEntryOperation is the structurally validated form of a
// CreateStorageEntry operation: the root of a VDR storage chain, anchored
// to the owning DID's suffix.
type CreateStorageEntryOperation struct {
	DidSuffix string
	Nonce     []byte
	Data      StorageData
}

// ParseCreateStorageEntryOperation parses and validates a wire
// CreateStorageEntry operation.
func ParseCreateStorageEntryOperation(w wireCreateStorageEntry) (CreateStorageEntryOperation, error) {
	if len(w.DidPrismHash) != 32 {
		return CreateStorageEntryOperation{}, &StorageOperationError{Kind: "create", Reason: "invalid did_prism_hash length"}
	}
	suffix := prismcrypto.HexEncode(w.DidPrismHash)
	data, err := parseStorageData(w.Data, "create")
	if err != nil {
		return CreateStorageEntryOperation{}, err
	}
	return CreateStorageEntryOperation{DidSuffix: suffix, Nonce: w.Nonce, Data: data}, nil
}

// UpdateStorageEntryOperation is the structurally validated form of an
// UpdateStorageEntry operation, chained to its predecessor by hash.
type UpdateStorageEntryOperation struct {
	PrevOperationHash prismcrypto.Sha256Digest
	Data              StorageData
}

// ParseUpdateStorageEntryOperation parses and validates a wire
// UpdateStorageEntry operation.
func ParseUpdateStorageEntryOperation(w wireUpdateStorageEntry) (UpdateStorageEntryOperation, error) {
	prevHash, err := prismcrypto.DigestFromBytes(w.PreviousOperationHash)
	if err != nil {
		return UpdateStorageEntryOperation{}, &StorageOperationError{Kind: "update", Reason: "invalid previous operation hash", Cause: err}
	}
	data, err := parseStorageData(w.Data, "update")
	if err != nil {
		return UpdateStorageEntryOperation{}, err
	}
	return UpdateStorageEntryOperation{PrevOperationHash: prevHash, Data: data}, nil
}

// DeactivateStorageEntryOperation is the structurally validated form of
// a DeactivateStorageEntry operation.
type DeactivateStorageEntryOperation struct {
	PrevOperationHash prismcrypto.Sha256Digest
}

// ParseDeactivateStorageEntryOperation parses and validates a wire
// DeactivateStorageEntry operation.
func ParseDeactivateStorageEntryOperation(w wireDeactivateStorageEntry) (DeactivateStorageEntryOperation, error) {
	prevHash, err := prismcrypto.DigestFromBytes(w.PreviousOperationHash)
	if err != nil {
		return DeactivateStorageEntryOperation{}, &StorageOperationError{Kind: "deactivate", Reason: "invalid previous operation hash", Cause: err}
	}
	return DeactivateStorageEntryOperation{PrevOperationHash: prevHash}, nil
}
