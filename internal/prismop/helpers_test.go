package prismop

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/prism-network/prism-index/internal/prismcrypto"
)

func edKeyPair(t *testing.T) (pub []byte, priv ed25519.PrivateKey, err error) {
	t.Helper()
	p, s, err := ed25519.GenerateKey(rand.Reader)
	return p, s, err
}

func signDigest(t *testing.T, priv *secp256k1.PrivateKey, digest prismcrypto.Sha256Digest) []byte {
	t.Helper()
	sig := ecdsa.Sign(priv, digest.Bytes())
	return sig.Serialize()
}
