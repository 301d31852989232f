package prismstate

import (
	"errors"
	"fmt"

	"github.com/prism-network/prism-index/internal/prismop"
)

var (
	ErrInitFromNonCreateOperation = errors.New("prismstate: initializing a did state requires a CreateDid operation")
	ErrUpdateFromCreateOperation  = errors.New("prismstate: cannot apply a CreateDid operation to existing did state")
	ErrMissingOperation           = errors.New("prismstate: signed operation has no inner operation")
	ErrInvalidSignature           = errors.New("prismstate: signature verification failed")
)

// SignedWithError reports why a signed operation's signed_with key id
// could not be used to authorize the operation: malformed id, key not
// found, key revoked, or key usage mismatched to the operation family.
type SignedWithError struct {
	Reason string
	ID     prismop.PublicKeyID
	Usage  prismop.KeyUsage
	Cause  error
}

func (e *SignedWithError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("prismstate: signed_with %q: %s: %v", e.ID, e.Reason, e.Cause)
	}
	if e.Usage != 0 {
		return fmt.Sprintf("prismstate: signed_with %q: %s (usage %s)", e.ID, e.Reason, e.Usage)
	}
	return fmt.Sprintf("prismstate: signed_with %q: %s", e.ID, e.Reason)
}

func (e *SignedWithError) Unwrap() error { return e.Cause }

// ConflictKind enumerates the ways a candidate mutation can conflict with
// a DID's current state: reusing a key id, revoking or updating a key
// that isn't active, breaking a storage entry's hash chain, and so on.
type ConflictKind int

const (
	ConflictUnmatchedPreviousOperationHash ConflictKind = iota + 1
	ConflictAddPublicKeyExistingID
	ConflictRevokePublicKeyNotExists
	ConflictRevokePublicKeyAlreadyRevoked
	ConflictAddServiceExistingID
	ConflictRevokeServiceNotExists
	ConflictRevokeServiceAlreadyRevoked
	ConflictUpdateServiceNotExists
	ConflictUpdateServiceIsRevoked
	ConflictAfterUpdateMissingMasterKey
	ConflictAfterUpdatePublicKeyExceedLimit
	ConflictAfterUpdateServiceExceedLimit
	ConflictAddStorageEntryExistingHash
	ConflictUpdateStorageEntryNotExists
	ConflictUpdateStorageEntryAlreadyRevoked
	ConflictRevokeStorageEntryNotExists
	ConflictRevokeStorageEntryAlreadyRevoked
)

func (k ConflictKind) String() string {
	switch k {
	case ConflictUnmatchedPreviousOperationHash:
		return "unmatched_previous_operation_hash"
	case ConflictAddPublicKeyExistingID:
		return "add_public_key_with_existing_id"
	case ConflictRevokePublicKeyNotExists:
		return "revoke_public_key_not_exists"
	case ConflictRevokePublicKeyAlreadyRevoked:
		return "revoke_public_key_already_revoked"
	case ConflictAddServiceExistingID:
		return "add_service_with_existing_id"
	case ConflictRevokeServiceNotExists:
		return "revoke_service_not_exists"
	case ConflictRevokeServiceAlreadyRevoked:
		return "revoke_service_already_revoked"
	case ConflictUpdateServiceNotExists:
		return "update_service_not_exists"
	case ConflictUpdateServiceIsRevoked:
		return "update_service_is_revoked"
	case ConflictAfterUpdateMissingMasterKey:
		return "after_update_missing_master_key"
	case ConflictAfterUpdatePublicKeyExceedLimit:
		return "after_update_public_key_exceed_limit"
	case ConflictAfterUpdateServiceExceedLimit:
		return "after_update_service_exceed_limit"
	case ConflictAddStorageEntryExistingHash:
		return "add_storage_entry_with_existing_hash"
	case ConflictUpdateStorageEntryNotExists:
		return "update_storage_entry_not_exists"
	case ConflictUpdateStorageEntryAlreadyRevoked:
		return "update_storage_entry_already_revoked"
	case ConflictRevokeStorageEntryNotExists:
		return "revoke_storage_entry_not_exists"
	case ConflictRevokeStorageEntryAlreadyRevoked:
		return "revoke_storage_entry_already_revoked"
	default:
		return "unknown_conflict"
	}
}

// ConflictError reports that applying a candidate mutation would violate
// the did state's invariants. ID identifies the offending entry where
// applicable; Limit/Actual are populated for the two cardinality checks.
type ConflictError struct {
	Kind   ConflictKind
	ID     string
	Limit  int
	Actual int
}

func (e *ConflictError) Error() string {
	switch e.Kind {
	case ConflictAfterUpdatePublicKeyExceedLimit, ConflictAfterUpdateServiceExceedLimit:
		return fmt.Sprintf("prismstate: %s: limit=%d actual=%d", e.Kind, e.Limit, e.Actual)
	case ConflictAfterUpdateMissingMasterKey, ConflictUnmatchedPreviousOperationHash:
		return fmt.Sprintf("prismstate: %s", e.Kind)
	default:
		return fmt.Sprintf("prismstate: %s: id=%s", e.Kind, e.ID)
	}
}
