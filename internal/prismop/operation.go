package prismop

import "github.com/prism-network/prism-index/internal/prismcrypto"

// OperationKind distinguishes the seven operation variants.
type OperationKind int

const (
	OpCreateDid OperationKind = iota
	OpUpdateDid
	OpDeactivateDid
	OpProtocolVersionUpdate
	OpCreateStorageEntry
	OpUpdateStorageEntry
	OpDeactivateStorageEntry
)

// Operation is the fully parsed, structurally validated form of any of
// the seven wire operation variants, tagged by Kind.
type Operation struct {
	Kind OperationKind

	CreateDid              CreateDidOperation
	UpdateDid              UpdateDidOperation
	DeactivateDid          DeactivateDidOperation
	ProtocolVersionUpdate  ProtocolVersionUpdateOperation
	CreateStorageEntry     CreateStorageEntryOperation
	UpdateStorageEntry     UpdateStorageEntryOperation
	DeactivateStorageEntry DeactivateStorageEntryOperation

	wire WirePrismOperation
}

// ParseOperation dispatches on the wire oneof and runs structural
// validation for whichever variant is populated.
func ParseOperation(w WirePrismOperation, param Parameters) (Operation, error) {
	switch {
	case w.CreateDid != nil:
		parsed, err := ParseCreateDidOperation(*w.CreateDid, param)
		if err != nil {
			return Operation{}, err
		}
		return Operation{Kind: OpCreateDid, CreateDid: parsed, wire: w}, nil
	case w.UpdateDid != nil:
		parsed, err := ParseUpdateDidOperation(*w.UpdateDid, param)
		if err != nil {
			return Operation{}, err
		}
		return Operation{Kind: OpUpdateDid, UpdateDid: parsed, wire: w}, nil
	case w.DeactivateDid != nil:
		parsed, err := ParseDeactivateDidOperation(*w.DeactivateDid)
		if err != nil {
			return Operation{}, err
		}
		return Operation{Kind: OpDeactivateDid, DeactivateDid: parsed, wire: w}, nil
	case w.ProtocolVersionUpdate != nil:
		parsed := ParseProtocolVersionUpdateOperation(*w.ProtocolVersionUpdate)
		return Operation{Kind: OpProtocolVersionUpdate, ProtocolVersionUpdate: parsed, wire: w}, nil
	case w.CreateStorageEntry != nil:
		parsed, err := ParseCreateStorageEntryOperation(*w.CreateStorageEntry)
		if err != nil {
			return Operation{}, err
		}
		return Operation{Kind: OpCreateStorageEntry, CreateStorageEntry: parsed, wire: w}, nil
	case w.UpdateStorageEntry != nil:
		parsed, err := ParseUpdateStorageEntryOperation(*w.UpdateStorageEntry)
		if err != nil {
			return Operation{}, err
		}
		return Operation{Kind: OpUpdateStorageEntry, UpdateStorageEntry: parsed, wire: w}, nil
	case w.DeactivateStorageEntry != nil:
		parsed, err := ParseDeactivateStorageEntryOperation(*w.DeactivateStorageEntry)
		if err != nil {
			return Operation{}, err
		}
		return Operation{Kind: OpDeactivateStorageEntry, DeactivateStorageEntry: parsed, wire: w}, nil
	default:
		return Operation{}, errOperationMissing
	}
}

// CanonicalBytes returns the deterministic encoding used for hashing and
// signing, delegating to the underlying wire representation.
func (op Operation) CanonicalBytes() []byte { return op.wire.CanonicalBytes() }

// Digest returns the SHA-256 hash of the operation's canonical bytes.
func (op Operation) Digest() prismcrypto.Sha256Digest { return op.wire.Digest() }

// IsSSI reports whether this operation belongs to the SSI (DID document)
// family, as opposed to the VDR storage family.
func (op Operation) IsSSI() bool {
	switch op.Kind {
	case OpCreateDid, OpUpdateDid, OpDeactivateDid, OpProtocolVersionUpdate:
		return true
	default:
		return false
	}
}

// RequiredKeyUsage returns the key usage a signer must hold for this
// operation kind: MasterKey for SSI operations, VdrKey for storage
// operations.
func (op Operation) RequiredKeyUsage() KeyUsage {
	if op.IsSSI() {
		return KeyUsageMaster
	}
	return KeyUsageVdr
}

// SignedOperation is a fully parsed SignedPrismOperation: the claimed
// signer key id, the signature bytes, and the parsed inner operation.
type SignedOperation struct {
	SignedWith PublicKeyID
	Signature  []byte
	Operation  Operation
}

// ParseSignedOperation parses the wire envelope and structurally
// validates both the key id and the inner operation. It does not verify
// the signature: that requires the signer's key material from the
// current DID state, which only the state machine has.
func ParseSignedOperation(w WireSignedPrismOperation, param Parameters) (SignedOperation, error) {
	if len(w.Signature) == 0 {
		return SignedOperation{}, errSignatureMissing
	}
	keyID, err := ParsePublicKeyID(w.SignedWith, param.MaxIDSize)
	if err != nil {
		return SignedOperation{}, &PublicKeyError{ID: w.SignedWith, Reason: "invalid signed_with", Cause: err}
	}
	op, err := ParseOperation(w.Operation, param)
	if err != nil {
		return SignedOperation{}, err
	}
	return SignedOperation{SignedWith: keyID, Signature: w.Signature, Operation: op}, nil
}

// VerifySignature checks the signature against the operation's canonical
// bytes using the given key material.
func (s SignedOperation) VerifySignature(key prismcrypto.KeyMaterial) bool {
	return key.Verifiable() && key.Verify(s.Operation.CanonicalBytes(), s.Signature)
}
