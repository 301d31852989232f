package prismcrypto

import (
	"crypto/sha256"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Secp256k1PublicKey is a point on the secp256k1 curve. MasterKey and
// VdrKey usages are always this curve.
type Secp256k1PublicKey struct {
	key *secp256k1.PublicKey
}

// ParseSecp256k1PublicKey accepts a 33-byte compressed or 65-byte
// uncompressed SEC1 encoding.
func ParseSecp256k1PublicKey(raw []byte) (Secp256k1PublicKey, error) {
	if len(raw) != 33 && len(raw) != 65 {
		return Secp256k1PublicKey{}, &InvalidKeySizeError{Expected: 33, Actual: len(raw)}
	}
	pk, err := secp256k1.ParsePubKey(raw)
	if err != nil {
		return Secp256k1PublicKey{}, &KeyParseError{Curve: "secp256k1", Cause: err}
	}
	return Secp256k1PublicKey{key: pk}, nil
}

// EncodeCompressed returns the 33-byte compressed SEC1 encoding.
func (k Secp256k1PublicKey) EncodeCompressed() [33]byte {
	var out [33]byte
	copy(out[:], k.key.SerializeCompressed())
	return out
}

// EncodeUncompressed returns the 65-byte uncompressed SEC1 encoding.
func (k Secp256k1PublicKey) EncodeUncompressed() [65]byte {
	var out [65]byte
	copy(out[:], k.key.SerializeUncompressed())
	return out
}

// Verify checks a DER-encoded ECDSA signature over SHA-256(message).
func (k Secp256k1PublicKey) Verify(message, signature []byte) bool {
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(message)
	return sig.Verify(digest[:], k.key)
}

// curvePoint splits the uncompressed encoding into its X and Y coordinates,
// used to build the EC-style JWK projection.
func (k Secp256k1PublicKey) curvePoint() (x, y [32]byte) {
	uncompressed := k.EncodeUncompressed()
	copy(x[:], uncompressed[1:33])
	copy(y[:], uncompressed[33:65])
	return x, y
}

// ToJWK projects the key as an EC JWK (kty="EC", crv="secp256k1").
func (k Secp256k1PublicKey) ToJWK() Jwk {
	x, y := k.curvePoint()
	xs := Base64URLEncode(x[:])
	ys := Base64URLEncode(y[:])
	return Jwk{Kty: "EC", Crv: "secp256k1", X: xs, Y: &ys}
}
