package prismcrypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Sha256Digest is a 32-byte SHA-256 output. It wraps bytes rather than
// hashing them; use Sha256Sum to hash a message.
type Sha256Digest [32]byte

// Sha256Sum hashes b and wraps the result.
func Sha256Sum(b []byte) Sha256Digest {
	return Sha256Digest(sha256.Sum256(b))
}

// DigestFromBytes validates and wraps raw bytes as a digest. It does not hash.
func DigestFromBytes(b []byte) (Sha256Digest, error) {
	var d Sha256Digest
	if len(b) != len(d) {
		return d, &InvalidKeySizeError{Expected: len(d), Actual: len(b)}
	}
	copy(d[:], b)
	return d, nil
}

// DigestFromHex parses a digest from its hex representation.
func DigestFromHex(s string) (Sha256Digest, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Sha256Digest{}, fmt.Errorf("decode hex digest: %w", err)
	}
	return DigestFromBytes(b)
}

func (d Sha256Digest) Bytes() []byte { return d[:] }

func (d Sha256Digest) Hex() string { return hex.EncodeToString(d[:]) }

func (d Sha256Digest) String() string { return d.Hex() }

func (d Sha256Digest) IsZero() bool { return d == Sha256Digest{} }
