package chainfollower

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/prism-network/prism-index/internal/prismop"
)

// prismMetadataLabel is the ledger transaction-metadata tag this method
// publishes operations under.
const prismMetadataLabel = 21325

var errWrongLabel = errors.New("chainfollower: metadata does not carry the prism label")

// metadataEnvelope is the CBOR shape found under label 21325: a version
// marker and an ordered list of byte chunks whose concatenation is the
// protobuf encoding of a WireObject.
type metadataEnvelope struct {
	V uint64   `cbor:"v"`
	C [][]byte `cbor:"c"`
}

// decodeMetadata reassembles and parses one transaction's prism metadata.
// Any transaction not carrying the prism label is reported via
// errWrongLabel so callers can filter it out without treating it as a
// decode failure worth logging.
func decodeMetadata(labels map[uint64][]byte) (prismop.WireObject, error) {
	raw, ok := labels[prismMetadataLabel]
	if !ok {
		return prismop.WireObject{}, errWrongLabel
	}

	var env metadataEnvelope
	if err := cbor.Unmarshal(raw, &env); err != nil {
		return prismop.WireObject{}, fmt.Errorf("chainfollower: decode metadata envelope: %w", err)
	}

	var buf []byte
	for _, chunk := range env.C {
		buf = append(buf, chunk...)
	}

	obj, err := prismop.DecodeWireObject(buf)
	if err != nil {
		return prismop.WireObject{}, fmt.Errorf("chainfollower: decode protocol object: %w", err)
	}
	return obj, nil
}
