package prismcrypto

import (
	"crypto/ed25519"

	"github.com/hdevalence/ed25519consensus"
)

// Ed25519PublicKey is a 32-byte Ed25519 verifying key.
type Ed25519PublicKey struct {
	key ed25519.PublicKey
}

// ParseEd25519PublicKey validates the 32-byte raw encoding.
func ParseEd25519PublicKey(raw []byte) (Ed25519PublicKey, error) {
	if len(raw) != ed25519.PublicKeySize {
		return Ed25519PublicKey{}, &InvalidKeySizeError{Expected: ed25519.PublicKeySize, Actual: len(raw)}
	}
	key := make([]byte, ed25519.PublicKeySize)
	copy(key, raw)
	return Ed25519PublicKey{key: key}, nil
}

func (k Ed25519PublicKey) EncodeArray() [32]byte {
	var out [32]byte
	copy(out[:], k.key)
	return out
}

// Verify uses the strict (consensus) variant: non-canonical signature
// encodings and small-order/zero scalar points are rejected, unlike the
// permissive batching mode some libraries default to.
func (k Ed25519PublicKey) Verify(message, signature []byte) bool {
	if len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519consensus.Verify(k.key, message, signature)
}

func (k Ed25519PublicKey) ToJWK() Jwk {
	x := k.EncodeArray()
	xs := Base64URLEncode(x[:])
	return Jwk{Kty: "OKP", Crv: "Ed25519", X: xs}
}
