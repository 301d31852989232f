package prismstate_test

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/prism-network/prism-index/internal/prismop"
	"github.com/prism-network/prism-index/internal/prismstate"
)

func sign(priv *secp256k1.PrivateKey, message []byte) []byte {
	digest := sha256.Sum256(message)
	return ecdsa.Sign(priv, digest[:]).Serialize()
}

func buildSigned(t *testing.T, param prismop.Parameters, wire prismop.WirePrismOperation, signedWith string, priv *secp256k1.PrivateKey) prismop.SignedOperation {
	t.Helper()
	op, err := prismop.ParseOperation(wire, param)
	if err != nil {
		t.Fatalf("parse operation: %v", err)
	}
	sig := sign(priv, op.CanonicalBytes())
	signed, err := prismop.ParseSignedOperation(prismop.WireSignedPrismOperation{
		SignedWith: signedWith,
		Signature:  sig,
		Operation:  wire,
	}, param)
	if err != nil {
		t.Fatalf("parse signed operation: %v", err)
	}
	return signed
}

func metaAt(blockNumber uint64, absn, osn uint32) prismstate.OperationMetadata {
	return prismstate.OperationMetadata{
		Block: prismstate.BlockMetadata{BlockNumber: blockNumber, Absn: absn},
		Osn:   osn,
	}
}

// createTestDid builds and applies a CreateDid operation with one master
// key (id "master0") and one VDR key (id "vdr0"), returning the resulting
// state, both private keys, and the DID suffix in hex.
func createTestDid(t *testing.T, param prismop.Parameters) (prismstate.State, *secp256k1.PrivateKey, *secp256k1.PrivateKey, string) {
	t.Helper()
	masterPriv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate master key: %v", err)
	}
	vdrPriv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate vdr key: %v", err)
	}

	wire := prismop.NewCreateDidOperation(
		[]prismop.NewKeyInput{
			{ID: "master0", Usage: prismop.KeyUsageMaster, Curve: "secp256k1", CompressedKeyData: masterPriv.PubKey().SerializeCompressed()},
			{ID: "vdr0", Usage: prismop.KeyUsageVdr, Curve: "secp256k1", CompressedKeyData: vdrPriv.PubKey().SerializeCompressed()},
		},
		nil,
		[]string{"https://www.w3.org/ns/did/v1"},
	)
	signed := buildSigned(t, param, wire, "master0", masterPriv)

	machine := prismstate.NewMachine(param)
	state, err := machine.InitPublished(signed, metaAt(100, 0, 0))
	if err != nil {
		t.Fatalf("InitPublished: %v", err)
	}
	return state, masterPriv, vdrPriv, signed.Operation.Digest().Hex()
}

func TestMachineInitPublishedCreatesState(t *testing.T) {
	param := prismop.ParametersV1()
	state, _, _, didSuffixHex := createTestDid(t, param)

	final := state.Finalize()
	if len(final.PublicKeys) != 2 {
		t.Fatalf("expected 2 public keys, got %d", len(final.PublicKeys))
	}
	if len(final.Context) != 1 || final.Context[0] != "https://www.w3.org/ns/did/v1" {
		t.Fatalf("unexpected context: %+v", final.Context)
	}
	if final.LastOperationHash.Hex() != didSuffixHex {
		t.Fatalf("expected last operation hash to equal did suffix, got %s want %s", final.LastOperationHash.Hex(), didSuffixHex)
	}
}

func TestMachineInitPublishedRejectsNonCreateOperation(t *testing.T) {
	param := prismop.ParametersV1()
	masterPriv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate master key: %v", err)
	}
	wire := prismop.NewDeactivateDidOperation(strings.Repeat("a", 64), make([]byte, 32))
	signed := buildSigned(t, param, wire, "master0", masterPriv)

	machine := prismstate.NewMachine(param)
	if _, err := machine.InitPublished(signed, metaAt(100, 0, 0)); !errors.Is(err, prismstate.ErrInitFromNonCreateOperation) {
		t.Fatalf("expected ErrInitFromNonCreateOperation, got %v", err)
	}
}

func TestMachineInitUnpublishedSkipsSignatureCheck(t *testing.T) {
	param := prismop.ParametersV1()
	masterPriv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate master key: %v", err)
	}

	wire := prismop.NewCreateDidOperation([]prismop.NewKeyInput{
		{ID: "master0", Usage: prismop.KeyUsageMaster, Curve: "secp256k1", CompressedKeyData: masterPriv.PubKey().SerializeCompressed()},
	}, nil, nil)
	op, err := prismop.ParseOperation(wire, param)
	if err != nil {
		t.Fatalf("parse operation: %v", err)
	}

	machine := prismstate.NewMachine(param)
	state, err := machine.InitUnpublished(op)
	if err != nil {
		t.Fatalf("InitUnpublished: %v", err)
	}

	final := state.Finalize()
	if len(final.PublicKeys) != 1 {
		t.Fatalf("expected 1 public key, got %d", len(final.PublicKeys))
	}
	if final.LastOperationHash != op.Digest() {
		t.Fatal("expected unpublished state's last operation hash to equal the create operation's own digest")
	}
}

func TestMachineApplyUpdateAddsKeyAndService(t *testing.T) {
	param := prismop.ParametersV1()
	state, masterPriv, _, didSuffixHex := createTestDid(t, param)
	machine := prismstate.NewMachine(param)

	issuingPriv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate issuing key: %v", err)
	}

	prevHash := state.Finalize().LastOperationHash
	wire := prismop.NewUpdateDidOperation(didSuffixHex, prevHash.Bytes(), []prismop.NewUpdateAction{
		{AddKey: &prismop.NewKeyInput{ID: "issuing0", Usage: prismop.KeyUsageIssuing, Curve: "secp256k1", CompressedKeyData: issuingPriv.PubKey().SerializeCompressed()}},
		{AddService: &prismop.NewServiceInput{ID: "svc0", Type: "LinkedDomains", ServiceEndpoint: "https://example.com"}},
	})
	signed := buildSigned(t, param, wire, "master0", masterPriv)

	next, err := machine.Apply(state, signed, metaAt(101, 0, 0))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	final := next.Finalize()
	if len(final.PublicKeys) != 3 {
		t.Fatalf("expected 3 public keys, got %d", len(final.PublicKeys))
	}
	if len(final.Services) != 1 {
		t.Fatalf("expected 1 service, got %d", len(final.Services))
	}
	if final.LastOperationHash != signed.Operation.Digest() {
		t.Fatal("expected last operation hash to advance to the update operation's digest")
	}
}

func TestMachineApplyUpdateRejectsWrongPreviousHash(t *testing.T) {
	param := prismop.ParametersV1()
	state, masterPriv, _, didSuffixHex := createTestDid(t, param)
	machine := prismstate.NewMachine(param)

	wrongHash := sha256.Sum256([]byte("not the real previous hash"))
	wire := prismop.NewUpdateDidOperation(didSuffixHex, wrongHash[:], []prismop.NewUpdateAction{
		{PatchContext: []string{"https://www.w3.org/ns/did/v1", "https://example.com/ctx"}},
	})
	signed := buildSigned(t, param, wire, "master0", masterPriv)

	next, err := machine.Apply(state, signed, metaAt(101, 0, 0))
	if err == nil {
		t.Fatal("expected error for mismatched previous operation hash")
	}
	var conflict *prismstate.ConflictError
	if !errors.As(err, &conflict) || conflict.Kind != prismstate.ConflictUnmatchedPreviousOperationHash {
		t.Fatalf("expected ConflictUnmatchedPreviousOperationHash, got %v", err)
	}
	if next.Finalize().LastOperationHash != state.Finalize().LastOperationHash {
		t.Fatal("expected state to be returned unchanged on error")
	}
}

func TestMachineApplyUpdateRejectsRemovingLastMasterKey(t *testing.T) {
	param := prismop.ParametersV1()
	state, masterPriv, _, didSuffixHex := createTestDid(t, param)
	machine := prismstate.NewMachine(param)

	prevHash := state.Finalize().LastOperationHash
	wire := prismop.NewUpdateDidOperation(didSuffixHex, prevHash.Bytes(), []prismop.NewUpdateAction{
		{RemoveKeyID: "master0"},
	})
	signed := buildSigned(t, param, wire, "master0", masterPriv)

	_, err := machine.Apply(state, signed, metaAt(101, 0, 0))
	if err == nil {
		t.Fatal("expected error removing the sole master key")
	}
	var conflict *prismstate.ConflictError
	if !errors.As(err, &conflict) || conflict.Kind != prismstate.ConflictAfterUpdateMissingMasterKey {
		t.Fatalf("expected ConflictAfterUpdateMissingMasterKey, got %v", err)
	}
}

func TestMachineApplyDeactivateRevokesKeysAndBlocksFurtherOperations(t *testing.T) {
	param := prismop.ParametersV1()
	state, masterPriv, _, didSuffixHex := createTestDid(t, param)
	machine := prismstate.NewMachine(param)

	prevHash := state.Finalize().LastOperationHash
	deactivateWire := prismop.NewDeactivateDidOperation(didSuffixHex, prevHash.Bytes())
	signedDeactivate := buildSigned(t, param, deactivateWire, "master0", masterPriv)

	deactivated, err := machine.Apply(state, signedDeactivate, metaAt(101, 0, 0))
	if err != nil {
		t.Fatalf("Apply deactivate: %v", err)
	}

	final := deactivated.Finalize()
	if len(final.PublicKeys) != 0 || len(final.Services) != 0 {
		t.Fatalf("expected all keys and services revoked, got %+v", final)
	}

	updateWire := prismop.NewUpdateDidOperation(didSuffixHex, final.LastOperationHash.Bytes(), []prismop.NewUpdateAction{
		{PatchContext: []string{"https://example.com/new"}},
	})
	signedUpdate := buildSigned(t, param, updateWire, "master0", masterPriv)

	_, err = machine.Apply(deactivated, signedUpdate, metaAt(102, 0, 0))
	if err == nil {
		t.Fatal("expected further operation on a deactivated did to fail")
	}
	var signedWithErr *prismstate.SignedWithError
	if !errors.As(err, &signedWithErr) {
		t.Fatalf("expected a revoked-signer error, got %v", err)
	}
}

func TestMachineStorageEntryLifecycle(t *testing.T) {
	param := prismop.ParametersV1()
	state, _, vdrPriv, didSuffixHex := createTestDid(t, param)
	machine := prismstate.NewMachine(param)

	didSuffixBytes, err := hex.DecodeString(didSuffixHex)
	if err != nil {
		t.Fatalf("decode did suffix: %v", err)
	}

	createWire := prismop.NewCreateStorageEntryOperation(didSuffixBytes, []byte("nonce-1"), prismop.NewStorageDataInput{Bytes: []byte("v1")})
	signedCreate := buildSigned(t, param, createWire, "vdr0", vdrPriv)

	withStorage, err := machine.Apply(state, signedCreate, metaAt(101, 0, 0))
	if err != nil {
		t.Fatalf("create storage entry: %v", err)
	}

	entryHash := signedCreate.Operation.Digest()
	finalWithStorage := withStorage.Finalize()
	if len(finalWithStorage.Storage) != 1 {
		t.Fatalf("expected 1 storage entry, got %d", len(finalWithStorage.Storage))
	}
	if finalWithStorage.Storage[0].InitOperationHash != entryHash || finalWithStorage.Storage[0].LastOperationHash != entryHash {
		t.Fatal("expected a fresh storage entry's init and last hashes to equal its own create digest")
	}

	updateWire := prismop.NewUpdateStorageEntryOperation(entryHash.Bytes(), prismop.NewStorageDataInput{Bytes: []byte("v2")})
	signedUpdate := buildSigned(t, param, updateWire, "vdr0", vdrPriv)

	updated, err := machine.Apply(withStorage, signedUpdate, metaAt(102, 0, 0))
	if err != nil {
		t.Fatalf("update storage entry: %v", err)
	}

	finalUpdated := updated.Finalize()
	if len(finalUpdated.Storage) != 1 {
		t.Fatalf("expected 1 storage entry after update, got %d", len(finalUpdated.Storage))
	}
	updatedEntry := finalUpdated.Storage[0]
	if updatedEntry.InitOperationHash != entryHash {
		t.Fatal("init hash must never change across updates")
	}
	if updatedEntry.LastOperationHash != signedUpdate.Operation.Digest() {
		t.Fatal("expected last hash to advance to the update operation's digest")
	}
	if updatedEntry.Data.Kind != prismop.StorageDataBytes || string(updatedEntry.Data.Bytes) != "v2" {
		t.Fatalf("expected updated payload, got %+v", updatedEntry.Data)
	}

	deactivateWire := prismop.NewDeactivateStorageEntryOperation(updatedEntry.LastOperationHash.Bytes())
	signedDeactivateEntry := buildSigned(t, param, deactivateWire, "vdr0", vdrPriv)

	deactivated, err := machine.Apply(updated, signedDeactivateEntry, metaAt(103, 0, 0))
	if err != nil {
		t.Fatalf("deactivate storage entry: %v", err)
	}
	if len(deactivated.Finalize().Storage) != 0 {
		t.Fatal("expected revoked storage entry to be dropped from the finalized projection")
	}
}

func TestMachineApplyRejectsSignerUsageMismatch(t *testing.T) {
	param := prismop.ParametersV1()
	state, masterPriv, _, didSuffixHex := createTestDid(t, param)
	machine := prismstate.NewMachine(param)

	didSuffixBytes, err := hex.DecodeString(didSuffixHex)
	if err != nil {
		t.Fatalf("decode did suffix: %v", err)
	}

	createWire := prismop.NewCreateStorageEntryOperation(didSuffixBytes, []byte("nonce-2"), prismop.NewStorageDataInput{Bytes: []byte("v1")})
	signed := buildSigned(t, param, createWire, "master0", masterPriv)

	_, err = machine.Apply(state, signed, metaAt(101, 0, 0))
	if err == nil {
		t.Fatal("expected error signing a storage operation with a master key")
	}
	var signedWithErr *prismstate.SignedWithError
	if !errors.As(err, &signedWithErr) {
		t.Fatalf("expected a signed-with error, got %v", err)
	}
}

func TestOperationMetadataLessOrdersByBlockThenAbsnThenOsn(t *testing.T) {
	a := prismstate.OperationMetadata{Block: prismstate.BlockMetadata{BlockNumber: 1, Absn: 0}, Osn: 5}
	b := prismstate.OperationMetadata{Block: prismstate.BlockMetadata{BlockNumber: 1, Absn: 1}, Osn: 0}
	if !a.Less(b) {
		t.Fatal("expected a before b by absn")
	}

	c := prismstate.OperationMetadata{Block: prismstate.BlockMetadata{BlockNumber: 2}, Osn: 0}
	if !b.Less(c) {
		t.Fatal("expected b before c by block number")
	}
	if c.Less(b) {
		t.Fatal("did not expect c before b")
	}
}
