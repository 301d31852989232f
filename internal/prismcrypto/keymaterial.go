package prismcrypto

import "fmt"

// Curve identifies which concrete key type a KeyMaterial wraps.
type Curve uint8

const (
	CurveSecp256k1 Curve = iota
	CurveEd25519
	CurveX25519
)

func (c Curve) String() string {
	switch c {
	case CurveSecp256k1:
		return "secp256k1"
	case CurveEd25519:
		return "Ed25519"
	case CurveX25519:
		return "X25519"
	default:
		return "unknown"
	}
}

// KeyMaterial is a curve-tagged union over the three supported public key
// types, mirroring the Sign/Verify algorithm-dispatch idiom used for the
// wallet and validator keys elsewhere in this stack.
type KeyMaterial struct {
	curve     Curve
	secp256k1 Secp256k1PublicKey
	ed25519   Ed25519PublicKey
	x25519    X25519PublicKey
}

func NewSecp256k1KeyMaterial(k Secp256k1PublicKey) KeyMaterial {
	return KeyMaterial{curve: CurveSecp256k1, secp256k1: k}
}

func NewEd25519KeyMaterial(k Ed25519PublicKey) KeyMaterial {
	return KeyMaterial{curve: CurveEd25519, ed25519: k}
}

func NewX25519KeyMaterial(k X25519PublicKey) KeyMaterial {
	return KeyMaterial{curve: CurveX25519, x25519: k}
}

func (k KeyMaterial) Curve() Curve { return k.curve }

// Verifiable reports whether this key type supports signature
// verification at all (X25519 is key-agreement only).
func (k KeyMaterial) Verifiable() bool { return k.curve != CurveX25519 }

// Verify dispatches to the underlying curve's verification routine.
// X25519 keys always return false: they can never sign.
func (k KeyMaterial) Verify(message, signature []byte) bool {
	switch k.curve {
	case CurveSecp256k1:
		return k.secp256k1.Verify(message, signature)
	case CurveEd25519:
		return k.ed25519.Verify(message, signature)
	default:
		return false
	}
}

func (k KeyMaterial) ToJWK() Jwk {
	switch k.curve {
	case CurveSecp256k1:
		return k.secp256k1.ToJWK()
	case CurveEd25519:
		return k.ed25519.ToJWK()
	case CurveX25519:
		return k.x25519.ToJWK()
	default:
		panic(fmt.Sprintf("unhandled curve %v", k.curve))
	}
}

// RawBytes returns the compressed/raw encoding used as the operation's
// on-wire key_data payload.
func (k KeyMaterial) RawBytes() []byte {
	switch k.curve {
	case CurveSecp256k1:
		arr := k.secp256k1.EncodeCompressed()
		return arr[:]
	case CurveEd25519:
		arr := k.ed25519.EncodeArray()
		return arr[:]
	case CurveX25519:
		arr := k.x25519.EncodeArray()
		return arr[:]
	default:
		panic(fmt.Sprintf("unhandled curve %v", k.curve))
	}
}
