package prismstate

import (
	"github.com/prism-network/prism-index/internal/prismdid"
	"github.com/prism-network/prism-index/internal/prismop"
)

// Machine is the v1 operation processor: the structural-validation limits
// it enforces are fixed at construction, matching the reference
// implementation's per-protocol-version processor selection (v1 is the
// only version this indexer understands; ProtocolVersionUpdate is
// accepted but never changes which processor runs).
type Machine struct {
	Param prismop.Parameters
}

// NewMachine builds a v1 Machine bound to param.
func NewMachine(param prismop.Parameters) Machine {
	return Machine{Param: param}
}

// InitPublished seeds a new DID's state from its CreateDid operation as
// observed on chain, then verifies the operation's own signature against
// the keys it just declared (the DID is bootstrapped by its own create).
func (m Machine) InitPublished(signed prismop.SignedOperation, metadata OperationMetadata) (State, error) {
	if signed.Operation.Kind != prismop.OpCreateDid {
		return State{}, ErrInitFromNonCreateOperation
	}
	did := prismdid.CanonicalPrismDid{Suffix: signed.Operation.Digest()}
	candidate, err := m.applyCreateDid(newState(did), signed.Operation.CreateDid, metadata)
	if err != nil {
		return State{}, err
	}
	if err := m.checkSignature(candidate, signed); err != nil {
		return State{}, err
	}
	return candidate, nil
}

// InitUnpublished seeds state from a long-form DID's embedded CreateDid
// operation alone, with synthetic metadata and no signature check: the
// DID string is its own proof, since anyone could compute the suffix
// from a tampered operation and the suffix would simply not match.
func (m Machine) InitUnpublished(op prismop.Operation) (State, error) {
	if op.Kind != prismop.OpCreateDid {
		return State{}, ErrInitFromNonCreateOperation
	}
	did := prismdid.CanonicalPrismDid{Suffix: op.Digest()}
	return m.applyCreateDid(newState(did), op.CreateDid, UnpublishedMetadata())
}

// Apply processes one further signed operation against a published
// state. On error the returned State is the unmodified input: the caller
// should keep using it and record the error in its own trace rather than
// treat the return value as a replacement.
func (m Machine) Apply(state State, signed prismop.SignedOperation, metadata OperationMetadata) (State, error) {
	if err := m.checkSignature(state, signed); err != nil {
		return state, err
	}

	switch signed.Operation.Kind {
	case prismop.OpCreateDid:
		return state, ErrUpdateFromCreateOperation
	case prismop.OpUpdateDid:
		return m.applyUpdateDid(state, signed.Operation, metadata)
	case prismop.OpDeactivateDid:
		return m.applyDeactivateDid(state, signed.Operation, metadata)
	case prismop.OpProtocolVersionUpdate:
		// Deliberately unsupported in v1: accepted as a no-op.
		return state, nil
	case prismop.OpCreateStorageEntry:
		return m.applyCreateStorageEntry(state, signed.Operation, metadata)
	case prismop.OpUpdateStorageEntry:
		return m.applyUpdateStorageEntry(state, signed.Operation, metadata)
	case prismop.OpDeactivateStorageEntry:
		return m.applyDeactivateStorageEntry(state, signed.Operation, metadata)
	default:
		return state, ErrMissingOperation
	}
}

// checkSignature implements 4.4.2: resolve signed_with among non-revoked
// keys, classify the inner operation as SSI or storage, require the
// matching usage, and verify over the operation's canonical bytes.
func (m Machine) checkSignature(state State, signed prismop.SignedOperation) error {
	key, err := state.lookupSigningKey(signed.SignedWith)
	if err != nil {
		return err
	}

	required := signed.Operation.RequiredKeyUsage()
	if key.Usage != required {
		return &SignedWithError{Reason: "key usage does not match operation family", ID: signed.SignedWith, Usage: key.Usage}
	}

	if !signed.VerifySignature(key.Key) {
		return ErrInvalidSignature
	}
	return nil
}

func (m Machine) applyCreateDid(state State, op prismop.CreateDidOperation, metadata OperationMetadata) (State, error) {
	candidate := state.clone()
	candidate.withContext(op.Context)
	candidate.withLastOperationHash(state.did.Suffix)
	for _, pk := range op.PublicKeys {
		if err := candidate.addPublicKey(pk, metadata); err != nil {
			return state, err
		}
	}
	for _, svc := range op.Services {
		if err := candidate.addService(svc, metadata); err != nil {
			return state, err
		}
	}
	return candidate, nil
}

func (m Machine) applyUpdateDid(state State, op prismop.Operation, metadata OperationMetadata) (State, error) {
	parsed := op.UpdateDid
	if parsed.PrevOperationHash != state.lastOperationHash {
		return state, &ConflictError{Kind: ConflictUnmatchedPreviousOperationHash}
	}

	candidate := state.clone()
	candidate.withLastOperationHash(op.Digest())
	for _, action := range parsed.Actions {
		if err := applyUpdateAction(&candidate, action, metadata); err != nil {
			return state, err
		}
	}

	if err := validateAfterUpdate(candidate, m.Param); err != nil {
		return state, err
	}
	return candidate, nil
}

func applyUpdateAction(state *State, action prismop.UpdateOperationAction, metadata OperationMetadata) error {
	switch action.Kind {
	case prismop.ActionAddKey:
		return state.addPublicKey(action.AddKey, metadata)
	case prismop.ActionRemoveKey:
		return state.revokePublicKey(action.RemoveKeyID, metadata)
	case prismop.ActionAddService:
		return state.addService(action.AddService, metadata)
	case prismop.ActionRemoveService:
		return state.revokeService(action.RemoveServiceID, metadata)
	case prismop.ActionUpdateService:
		if action.UpdateServiceType != nil {
			if err := state.updateServiceType(action.UpdateServiceID, *action.UpdateServiceType); err != nil {
				return err
			}
		}
		if action.UpdateServiceEndpoint != nil {
			if err := state.updateServiceEndpoint(action.UpdateServiceID, *action.UpdateServiceEndpoint); err != nil {
				return err
			}
		}
		return nil
	case prismop.ActionPatchContext:
		state.withContext(action.PatchContext)
		return nil
	default:
		return nil
	}
}

func validateAfterUpdate(state State, param prismop.Parameters) error {
	if state.nonRevokedMasterKeyCount() == 0 {
		return &ConflictError{Kind: ConflictAfterUpdateMissingMasterKey}
	}
	if len(state.publicKeys) > param.MaxPublicKeys {
		return &ConflictError{Kind: ConflictAfterUpdatePublicKeyExceedLimit, Limit: param.MaxPublicKeys, Actual: len(state.publicKeys)}
	}
	if len(state.services) > param.MaxServices {
		return &ConflictError{Kind: ConflictAfterUpdateServiceExceedLimit, Limit: param.MaxServices, Actual: len(state.services)}
	}
	return nil
}

func (m Machine) applyDeactivateDid(state State, op prismop.Operation, metadata OperationMetadata) (State, error) {
	parsed := op.DeactivateDid
	if parsed.PrevOperationHash != state.lastOperationHash {
		return state, &ConflictError{Kind: ConflictUnmatchedPreviousOperationHash}
	}

	candidate := state.clone()
	operationHash := op.Digest()
	for id, entry := range state.publicKeys {
		if !entry.IsRevoked() {
			if err := candidate.revokePublicKey(id, metadata); err != nil {
				return state, err
			}
		}
	}
	for id, entry := range state.services {
		if !entry.IsRevoked() {
			if err := candidate.revokeService(id, metadata); err != nil {
				return state, err
			}
		}
	}
	for _, entry := range state.storage {
		if !entry.IsRevoked() {
			if err := candidate.revokeStorage(entry.Item.LastOperationHash, operationHash, metadata); err != nil {
				return state, err
			}
		}
	}
	candidate.withLastOperationHash(operationHash)
	return candidate, nil
}

func (m Machine) applyCreateStorageEntry(state State, op prismop.Operation, metadata OperationMetadata) (State, error) {
	candidate := state.clone()
	operationHash := op.Digest()
	if err := candidate.addStorage(operationHash, op.CreateStorageEntry.Data, metadata); err != nil {
		return state, err
	}
	candidate.withLastOperationHash(operationHash)
	return candidate, nil
}

func (m Machine) applyUpdateStorageEntry(state State, op prismop.Operation, metadata OperationMetadata) (State, error) {
	parsed := op.UpdateStorageEntry
	candidate := state.clone()
	operationHash := op.Digest()
	if err := candidate.updateStorage(parsed.PrevOperationHash, operationHash, parsed.Data); err != nil {
		return state, err
	}
	candidate.withLastOperationHash(operationHash)
	return candidate, nil
}

func (m Machine) applyDeactivateStorageEntry(state State, op prismop.Operation, metadata OperationMetadata) (State, error) {
	parsed := op.DeactivateStorageEntry
	candidate := state.clone()
	operationHash := op.Digest()
	if err := candidate.revokeStorage(parsed.PrevOperationHash, operationHash, metadata); err != nil {
		return state, err
	}
	candidate.withLastOperationHash(operationHash)
	return candidate, nil
}
