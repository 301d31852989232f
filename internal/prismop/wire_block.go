package prismop

import "google.golang.org/protobuf/encoding/protowire"

// WireBlock is the on-wire envelope for a batch of signed operations
// carried by a single ledger transaction: ProtocolBlock in the protocol
// grammar, a plain list of SignedPrismOperation.
type WireBlock struct {
	Operations []WireSignedPrismOperation
}

func (blk WireBlock) appendTo(b []byte) []byte {
	for _, op := range blk.Operations {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, op.appendTo(nil))
	}
	return b
}

func parseWireBlock(b []byte) (WireBlock, error) {
	var out WireBlock
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, consumeFieldErr("block.tag", n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("block.operations", m)
			}
			op, err := DecodeSignedPrismOperation(v)
			if err != nil {
				return out, err
			}
			out.Operations = append(out.Operations, op)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return out, consumeFieldErr("block.unknown", m)
			}
			b = b[m:]
		}
	}
	return out, nil
}

// WireObject is the outermost envelope written to ledger metadata:
// ProtocolObject in the protocol grammar, a oneof of which only
// block_content is defined in v1.
type WireObject struct {
	BlockContent *WireBlock
}

// Encode returns the canonical protobuf bytes of the object, as embedded
// (in 64-byte chunks) in ledger metadata under label 21325.
func (o WireObject) Encode() []byte {
	var b []byte
	if o.BlockContent != nil {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, o.BlockContent.appendTo(nil))
	}
	return b
}

// DecodeWireObject parses a ProtocolObject from its canonical protobuf
// bytes, as reassembled from a ledger metadata chunk list.
func DecodeWireObject(b []byte) (WireObject, error) {
	var out WireObject
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, consumeFieldErr("object.tag", n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("object.block_content", m)
			}
			blk, err := parseWireBlock(v)
			if err != nil {
				return out, err
			}
			out.BlockContent = &blk
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return out, consumeFieldErr("object.unknown", m)
			}
			b = b[m:]
		}
	}
	return out, nil
}
