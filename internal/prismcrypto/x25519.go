package prismcrypto

import "golang.org/x/crypto/curve25519"

// X25519PublicKey is a 32-byte key-agreement key. It never signs or
// verifies; it is only projected into the DID document as a JWK.
type X25519PublicKey struct {
	key [32]byte
}

// ParseX25519PublicKey validates the 32-byte raw encoding and rejects
// low-order points: performing a scalar multiplication against them
// always yields the all-zero shared secret, which curve25519.X25519
// surfaces as an error.
func ParseX25519PublicKey(raw []byte) (X25519PublicKey, error) {
	if len(raw) != 32 {
		return X25519PublicKey{}, &InvalidKeySizeError{Expected: 32, Actual: len(raw)}
	}
	var k X25519PublicKey
	copy(k.key[:], raw)
	probeScalar := make([]byte, curve25519.ScalarSize)
	probeScalar[0] = 9
	if _, err := curve25519.X25519(probeScalar, k.key[:]); err != nil {
		return X25519PublicKey{}, &KeyParseError{Curve: "x25519", Cause: err}
	}
	return k, nil
}

func (k X25519PublicKey) EncodeArray() [32]byte { return k.key }

func (k X25519PublicKey) ToJWK() Jwk {
	x := Base64URLEncode(k.key[:])
	return Jwk{Kty: "OKP", Crv: "X25519", X: x}
}
