package prismop

import (
	"bytes"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/prism-network/prism-index/internal/prismcrypto"
)

func mustMasterKeyWire(t *testing.T, id string) wirePublicKey {
	t.Helper()
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	compressed := priv.PubKey().SerializeCompressed()
	return wirePublicKey{
		ID:    id,
		Usage: int32(KeyUsageMaster),
		CompressedKeyData: &wireCompressedECKeyData{
			Curve: "secp256k1",
			Data:  compressed,
		},
	}
}

func TestParseCreateDidOperationRequiresMasterKey(t *testing.T) {
	param := ParametersV1()
	w := wireCreateDID{DidData: &wireDIDData{PublicKeys: nil}}
	if _, err := ParseCreateDidOperation(w, param); err == nil {
		t.Fatal("expected error when no public keys are present")
	}

	nonMaster := mustMasterKeyWire(t, "key-1")
	nonMaster.Usage = int32(KeyUsageIssuing)
	w = wireCreateDID{DidData: &wireDIDData{PublicKeys: []wirePublicKey{nonMaster}}}
	if _, err := ParseCreateDidOperation(w, param); err == nil {
		t.Fatal("expected error when no master key is present")
	}
}

func TestParseCreateDidOperationAcceptsMasterAndVdrKeys(t *testing.T) {
	param := ParametersV1()
	master := mustMasterKeyWire(t, "master-1")
	vdr := mustMasterKeyWire(t, "vdr-1")
	vdr.Usage = int32(KeyUsageVdr)

	w := wireCreateDID{DidData: &wireDIDData{PublicKeys: []wirePublicKey{master, vdr}}}
	op, err := ParseCreateDidOperation(w, param)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(op.PublicKeys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(op.PublicKeys))
	}
}

func TestParseCreateDidOperationRejectsVdrKeyOnEd25519(t *testing.T) {
	param := ParametersV1()
	pubRaw, _, err := edKeyPair(t)
	if err != nil {
		t.Fatalf("generate ed25519 key: %v", err)
	}
	vdr := wirePublicKey{
		ID:    "vdr-1",
		Usage: int32(KeyUsageVdr),
		CompressedKeyData: &wireCompressedECKeyData{
			Curve: "Ed25519",
			Data:  pubRaw,
		},
	}
	master := mustMasterKeyWire(t, "master-1")
	w := wireCreateDID{DidData: &wireDIDData{PublicKeys: []wirePublicKey{master, vdr}}}
	if _, err := ParseCreateDidOperation(w, param); err == nil {
		t.Fatal("expected error: vdr key must be secp256k1")
	}
}

func TestCanonicalBytesDeterministic(t *testing.T) {
	param := ParametersV1()
	master := mustMasterKeyWire(t, "master-1")
	w := wireCreateDID{DidData: &wireDIDData{PublicKeys: []wirePublicKey{master}}}
	if _, err := ParseCreateDidOperation(w, param); err != nil {
		t.Fatalf("parse: %v", err)
	}

	op := WirePrismOperation{CreateDid: &w}
	b1 := op.CanonicalBytes()
	b2 := op.CanonicalBytes()
	if !bytes.Equal(b1, b2) {
		t.Fatal("canonical bytes must be deterministic across calls")
	}
}

func TestSignedOperationEncodeDecodeRoundTrip(t *testing.T) {
	param := ParametersV1()
	master := mustMasterKeyWire(t, "master-1")
	createWire := wireCreateDID{DidData: &wireDIDData{PublicKeys: []wirePublicKey{master}}}

	signed := WireSignedPrismOperation{
		SignedWith: "master-1",
		Signature:  []byte{0x01, 0x02, 0x03},
		Operation:  WirePrismOperation{CreateDid: &createWire},
	}
	encoded := signed.Encode()

	decoded, err := DecodeSignedPrismOperation(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.SignedWith != "master-1" {
		t.Fatalf("signed_with mismatch: %q", decoded.SignedWith)
	}
	if !bytes.Equal(decoded.Signature, signed.Signature) {
		t.Fatal("signature mismatch")
	}
	if decoded.Operation.CreateDid == nil {
		t.Fatal("expected decoded operation to carry CreateDid")
	}

	parsedOp, err := ParseOperation(decoded.Operation, param)
	if err != nil {
		t.Fatalf("parse decoded operation: %v", err)
	}
	if parsedOp.Kind != OpCreateDid {
		t.Fatalf("expected OpCreateDid, got %v", parsedOp.Kind)
	}
	if parsedOp.RequiredKeyUsage() != KeyUsageMaster {
		t.Fatal("create did operation should require a master key signer")
	}
}

func TestSignedOperationVerifySignature(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	pk, err := prismcrypto.ParseSecp256k1PublicKey(priv.PubKey().SerializeCompressed())
	if err != nil {
		t.Fatalf("parse pub key: %v", err)
	}
	km := prismcrypto.NewSecp256k1KeyMaterial(pk)

	param := ParametersV1()
	master := mustMasterKeyWire(t, "master-1")
	createWire := wireCreateDID{DidData: &wireDIDData{PublicKeys: []wirePublicKey{master}}}
	wireOp := WirePrismOperation{CreateDid: &createWire}
	op, err := ParseOperation(wireOp, param)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	digest := prismcrypto.Sha256Sum(op.CanonicalBytes())
	sig := signDigest(t, priv, digest)

	signed := SignedOperation{SignedWith: "master-1", Signature: sig, Operation: op}
	if !signed.VerifySignature(km) {
		t.Fatal("expected valid signature to verify")
	}

	tampered := append([]byte{}, sig...)
	tampered[len(tampered)-1] ^= 0xff
	signed.Signature = tampered
	if signed.VerifySignature(km) {
		t.Fatal("expected tampered signature to fail")
	}
}
