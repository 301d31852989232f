package prismop

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/prism-network/prism-index/internal/prismcrypto"
)

// WirePrismOperation is the tagged oneof over the seven operation
// variants. Exactly one field is populated.
type WirePrismOperation struct {
	CreateDid              *wireCreateDID
	UpdateDid              *wireUpdateDID
	DeactivateDid          *wireDeactivateDID
	ProtocolVersionUpdate  *wireProtocolVersionUpdate
	CreateStorageEntry     *wireCreateStorageEntry
	UpdateStorageEntry     *wireUpdateStorageEntry
	DeactivateStorageEntry *wireDeactivateStorageEntry
}

// CanonicalBytes returns the deterministic protobuf encoding used as the
// hash and signature input for this operation.
func (op WirePrismOperation) CanonicalBytes() []byte {
	var b []byte
	switch {
	case op.CreateDid != nil:
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, op.CreateDid.appendTo(nil))
	case op.UpdateDid != nil:
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, op.UpdateDid.appendTo(nil))
	case op.DeactivateDid != nil:
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, op.DeactivateDid.appendTo(nil))
	case op.ProtocolVersionUpdate != nil:
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendBytes(b, op.ProtocolVersionUpdate.appendTo(nil))
	case op.CreateStorageEntry != nil:
		b = protowire.AppendTag(b, 5, protowire.BytesType)
		b = protowire.AppendBytes(b, op.CreateStorageEntry.appendTo(nil))
	case op.UpdateStorageEntry != nil:
		b = protowire.AppendTag(b, 6, protowire.BytesType)
		b = protowire.AppendBytes(b, op.UpdateStorageEntry.appendTo(nil))
	case op.DeactivateStorageEntry != nil:
		b = protowire.AppendTag(b, 7, protowire.BytesType)
		b = protowire.AppendBytes(b, op.DeactivateStorageEntry.appendTo(nil))
	}
	return b
}

// Digest returns the SHA-256 operation hash: the identifier used for
// chaining via previous_operation_hash.
func (op WirePrismOperation) Digest() prismcrypto.Sha256Digest {
	return prismcrypto.Sha256Sum(op.CanonicalBytes())
}

// ParseWirePrismOperation decodes the oneof envelope from its canonical
// bytes.
func ParseWirePrismOperation(b []byte) (WirePrismOperation, error) {
	var out WirePrismOperation
	num, _, n := protowire.ConsumeTag(b)
	if n < 0 {
		return out, consumeFieldErr("prism_operation.tag", n)
	}
	b = b[n:]
	payload, m := protowire.ConsumeBytes(b)
	if m < 0 {
		return out, consumeFieldErr("prism_operation.payload", m)
	}
	switch num {
	case 1:
		v, err := parseCreateDID(payload)
		if err != nil {
			return out, err
		}
		out.CreateDid = &v
	case 2:
		v, err := parseUpdateDID(payload)
		if err != nil {
			return out, err
		}
		out.UpdateDid = &v
	case 3:
		v, err := parseDeactivateDID(payload)
		if err != nil {
			return out, err
		}
		out.DeactivateDid = &v
	case 4:
		v, err := parseProtocolVersionUpdate(payload)
		if err != nil {
			return out, err
		}
		out.ProtocolVersionUpdate = &v
	case 5:
		v, err := parseCreateStorageEntry(payload)
		if err != nil {
			return out, err
		}
		out.CreateStorageEntry = &v
	case 6:
		v, err := parseUpdateStorageEntry(payload)
		if err != nil {
			return out, err
		}
		out.UpdateStorageEntry = &v
	case 7:
		v, err := parseDeactivateStorageEntry(payload)
		if err != nil {
			return out, err
		}
		out.DeactivateStorageEntry = &v
	default:
		return out, fmt.Errorf("prismop: unknown operation variant tag %d", num)
	}
	return out, nil
}

// WireSignedPrismOperation is the wire-level envelope signed operations
// arrive in: a key id, a signature over the inner operation's canonical
// bytes, and the operation itself.
type WireSignedPrismOperation struct {
	SignedWith string
	Signature  []byte
	Operation  WirePrismOperation
}

func (s WireSignedPrismOperation) appendTo(b []byte) []byte {
	if s.SignedWith != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, s.SignedWith)
	}
	if len(s.Signature) > 0 {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, s.Signature)
	}
	opBytes := s.Operation.CanonicalBytes()
	if len(opBytes) > 0 {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, opBytes)
	}
	return b
}

// Encode returns the canonical bytes of the signed operation envelope,
// as submitted to the submitter and stored by the repository.
func (s WireSignedPrismOperation) Encode() []byte {
	return s.appendTo(nil)
}

// DecodeSignedPrismOperation parses a SignedPrismOperation envelope from
// its canonical bytes.
func DecodeSignedPrismOperation(b []byte) (WireSignedPrismOperation, error) {
	var out WireSignedPrismOperation
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, consumeFieldErr("signed_operation.tag", n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return out, consumeFieldErr("signed_operation.signed_with", m)
			}
			out.SignedWith = v
			b = b[m:]
		case 2:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("signed_operation.signature", m)
			}
			out.Signature = append([]byte{}, v...)
			b = b[m:]
		case 3:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("signed_operation.operation", m)
			}
			op, err := ParseWirePrismOperation(v)
			if err != nil {
				return out, err
			}
			out.Operation = op
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return out, consumeFieldErr("signed_operation.unknown", m)
			}
			b = b[m:]
		}
	}
	return out, nil
}
