package prismop

import "github.com/prism-network/prism-index/internal/prismcrypto"

// DeactivateDidOperation is the structurally validated form of a
// DeactivateDid operation.
type DeactivateDidOperation struct {
	ID                string
	PrevOperationHash prismcrypto.Sha256Digest
}

// ParseDeactivateDidOperation parses and validates a wire DeactivateDid
// operation.
func ParseDeactivateDidOperation(w wireDeactivateDID) (DeactivateDidOperation, error) {
	if !didSuffixHexRe.MatchString(w.ID) {
		return DeactivateDidOperation{}, &DeactivateDidOperationError{Reason: "invalid did suffix"}
	}
	prevHash, err := prismcrypto.DigestFromBytes(w.PreviousOperationHash)
	if err != nil {
		return DeactivateDidOperation{}, &DeactivateDidOperationError{Reason: "invalid previous operation hash", Cause: err}
	}
	return DeactivateDidOperation{ID: w.ID, PrevOperationHash: prevHash}, nil
}

// ProtocolVersionUpdateOperation carries a proposed protocol version. v1
// of this indexer accepts and chains it but never changes behavior
// based on its contents.
type ProtocolVersionUpdateOperation struct {
	ProposerDid string
	Major       uint64
	Minor       uint64
}

// ParseProtocolVersionUpdateOperation parses a ProtocolVersionUpdate
// operation. It has no structural constraints beyond decoding.
func ParseProtocolVersionUpdateOperation(w wireProtocolVersionUpdate) ProtocolVersionUpdateOperation {
	return ProtocolVersionUpdateOperation{ProposerDid: w.ProposerDid, Major: w.Major, Minor: w.Minor}
}
