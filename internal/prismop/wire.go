package prismop

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// This file hand-rolls the canonical protobuf wire encoding for the seven
// operation variants: fields are always emitted in ascending tag order,
// scalar fields are omitted entirely when zero/empty (protobuf's default
// "don't emit the default value" rule), and oneof members are encoded as
// ordinary length-delimited submessages. Two independent implementations
// of this file must produce byte-identical output for the same logical
// operation, since that output is both the hash and the signature input.

// wireECKeyData mirrors the uncompressed (x,y) curve point encoding.
type wireECKeyData struct {
	Curve string
	X, Y  []byte
}

func (k wireECKeyData) appendTo(b []byte) []byte {
	if k.Curve != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, k.Curve)
	}
	if len(k.X) > 0 {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, k.X)
	}
	if len(k.Y) > 0 {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, k.Y)
	}
	return b
}

func parseECKeyData(b []byte) (wireECKeyData, error) {
	var out wireECKeyData
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return out, protowire.ParseError(m)
			}
			out.Curve = v
			b = b[m:]
		case 2:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, protowire.ParseError(m)
			}
			out.X = append([]byte{}, v...)
			b = b[m:]
		case 3:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, protowire.ParseError(m)
			}
			out.Y = append([]byte{}, v...)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return out, protowire.ParseError(m)
			}
			b = b[m:]
		}
	}
	return out, nil
}

// wireCompressedECKeyData mirrors the compressed-point key encoding.
type wireCompressedECKeyData struct {
	Curve string
	Data  []byte
}

func (k wireCompressedECKeyData) appendTo(b []byte) []byte {
	if k.Curve != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, k.Curve)
	}
	if len(k.Data) > 0 {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, k.Data)
	}
	return b
}

func parseCompressedECKeyData(b []byte) (wireCompressedECKeyData, error) {
	var out wireCompressedECKeyData
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return out, protowire.ParseError(m)
			}
			out.Curve = v
			b = b[m:]
		case 2:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, protowire.ParseError(m)
			}
			out.Data = append([]byte{}, v...)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return out, protowire.ParseError(m)
			}
			b = b[m:]
		}
	}
	return out, nil
}

// wirePublicKey is the on-wire PublicKey submessage: an id, a usage enum
// and exactly one of the two key-data encodings.
type wirePublicKey struct {
	ID               string
	Usage            int32
	ECKeyData        *wireECKeyData
	CompressedKeyData *wireCompressedECKeyData
}

func (k wirePublicKey) appendTo(b []byte) []byte {
	if k.ID != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, k.ID)
	}
	if k.Usage != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(k.Usage))
	}
	if k.ECKeyData != nil {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, k.ECKeyData.appendTo(nil))
	}
	if k.CompressedKeyData != nil {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendBytes(b, k.CompressedKeyData.appendTo(nil))
	}
	return b
}

func parsePublicKey(b []byte) (wirePublicKey, error) {
	var out wirePublicKey
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return out, protowire.ParseError(m)
			}
			out.ID = v
			b = b[m:]
		case 2:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return out, protowire.ParseError(m)
			}
			out.Usage = int32(v)
			b = b[m:]
		case 3:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, protowire.ParseError(m)
			}
			inner, err := parseECKeyData(v)
			if err != nil {
				return out, err
			}
			out.ECKeyData = &inner
			b = b[m:]
		case 4:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, protowire.ParseError(m)
			}
			inner, err := parseCompressedECKeyData(v)
			if err != nil {
				return out, err
			}
			out.CompressedKeyData = &inner
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return out, protowire.ParseError(m)
			}
			b = b[m:]
		}
	}
	return out, nil
}

// wireService is the on-wire Service submessage.
type wireService struct {
	ID              string
	Type            string
	ServiceEndpoint string
}

func (s wireService) appendTo(b []byte) []byte {
	if s.ID != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, s.ID)
	}
	if s.Type != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, s.Type)
	}
	if s.ServiceEndpoint != "" {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendString(b, s.ServiceEndpoint)
	}
	return b
}

func parseService(b []byte) (wireService, error) {
	var out wireService
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return out, protowire.ParseError(m)
			}
			out.ID = v
			b = b[m:]
		case 2:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return out, protowire.ParseError(m)
			}
			out.Type = v
			b = b[m:]
		case 3:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return out, protowire.ParseError(m)
			}
			out.ServiceEndpoint = v
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return out, protowire.ParseError(m)
			}
			b = b[m:]
		}
	}
	return out, nil
}

func appendStringList(b []byte, tag protowire.Number, items []string) []byte {
	for _, item := range items {
		b = protowire.AppendTag(b, tag, protowire.BytesType)
		b = protowire.AppendString(b, item)
	}
	return b
}

func appendMessageList[T any](b []byte, tag protowire.Number, items []T, enc func(T) []byte) []byte {
	for _, item := range items {
		b = protowire.AppendTag(b, tag, protowire.BytesType)
		b = protowire.AppendBytes(b, enc(item))
	}
	return b
}

// consumeFieldErr formats a protowire negative-length parse failure.
func consumeFieldErr(field string, n int) error {
	return fmt.Errorf("prismop: malformed field %s: %w", field, protowire.ParseError(n))
}
