package prismcrypto

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

func TestDigestRoundTrip(t *testing.T) {
	d := Sha256Sum([]byte("hello"))
	d2, err := DigestFromHex(d.Hex())
	if err != nil {
		t.Fatalf("DigestFromHex: %v", err)
	}
	if d != d2 {
		t.Fatalf("digest round trip mismatch: %x != %x", d, d2)
	}
}

func TestDigestFromBytesRejectsWrongSize(t *testing.T) {
	if _, err := DigestFromBytes(make([]byte, 31)); err == nil {
		t.Fatal("expected error for short digest")
	}
}

func TestBase64URLCodecRoundTrip(t *testing.T) {
	raw := []byte{0x00, 0xff, 0x11, 0xaa, 0xbb}
	enc := Base64URLEncode(raw)
	dec, err := Base64URLDecode(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(raw, dec) {
		t.Fatalf("round trip mismatch: %x != %x", raw, dec)
	}
}

func TestSecp256k1VerifyValidAndTamperedSignature(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	pub, err := ParseSecp256k1PublicKey(priv.PubKey().SerializeCompressed())
	if err != nil {
		t.Fatalf("parse pub key: %v", err)
	}

	msg := []byte("canonical operation bytes")
	digest := Sha256Sum(msg)
	sig := ecdsa.Sign(priv, digest[:])
	der := sig.Serialize()

	if !pub.Verify(msg, der) {
		t.Fatal("expected valid signature to verify")
	}

	tampered := append([]byte{}, der...)
	tampered[len(tampered)-1] ^= 0xff
	if pub.Verify(msg, tampered) {
		t.Fatal("expected tampered signature to fail verification")
	}
}

func TestEd25519StrictVerifyRejectsBadSignature(t *testing.T) {
	pubRaw, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	pub, err := ParseEd25519PublicKey(pubRaw)
	if err != nil {
		t.Fatalf("parse pub key: %v", err)
	}

	msg := []byte("canonical operation bytes")
	sig := ed25519.Sign(priv, msg)
	if !pub.Verify(msg, sig) {
		t.Fatal("expected valid signature to verify")
	}

	tampered := append([]byte{}, sig...)
	tampered[0] ^= 0xff
	if pub.Verify(msg, tampered) {
		t.Fatal("expected tampered signature to fail verification")
	}
}

func TestX25519RejectsZeroPoint(t *testing.T) {
	if _, err := ParseX25519PublicKey(make([]byte, 32)); err == nil {
		t.Fatal("expected all-zero X25519 point to be rejected")
	}
}

func TestKeyMaterialRawBytesAndJWK(t *testing.T) {
	pubRaw, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	pub, err := ParseEd25519PublicKey(pubRaw)
	if err != nil {
		t.Fatalf("parse pub key: %v", err)
	}
	km := NewEd25519KeyMaterial(pub)
	if !bytes.Equal(km.RawBytes(), pubRaw) {
		t.Fatal("raw bytes mismatch")
	}
	jwk := km.ToJWK()
	if jwk.Kty != "OKP" || jwk.Crv != "Ed25519" || jwk.Y != nil {
		t.Fatalf("unexpected jwk: %+v", jwk)
	}
}
