package prismdid

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/prism-network/prism-index/internal/prismop"
)

// TestSuffixConsistencyAndLongFormRoundTrip exercises testable property
// 1 (suffix consistency) and 2 (round trip) from the method's resolution
// contract: a CreateDid operation's long-form DID, when parsed back,
// must report the same suffix and the same string.
func TestSuffixConsistencyAndLongFormRoundTrip(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	wireOp := prismop.NewCreateDidOperation([]prismop.NewKeyInput{
		{ID: "master-1", Usage: prismop.KeyUsageMaster, Curve: "secp256k1", CompressedKeyData: priv.PubKey().SerializeCompressed()},
	}, nil, nil)

	longForm, err := FromOperation(wireOp)
	if err != nil {
		t.Fatalf("from operation: %v", err)
	}

	expectedSuffix := longForm.Suffix.Hex()
	s := longForm.String()

	parsed, err := Parse(s)
	if err != nil {
		t.Fatalf("parse long form: %v", err)
	}
	if parsed.LongForm == nil {
		t.Fatal("expected a long-form did")
	}
	if parsed.Suffix().Hex() != expectedSuffix {
		t.Fatalf("suffix mismatch: got %q want %q", parsed.Suffix().Hex(), expectedSuffix)
	}
	if parsed.String() != s {
		t.Fatalf("round trip mismatch: got %q want %q", parsed.String(), s)
	}
	if parsed.Canonical.String() != "did:prism:"+expectedSuffix {
		t.Fatalf("canonical projection mismatch: %q", parsed.Canonical.String())
	}
}

func TestLongFormDetectsSuffixTampering(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	wireOp := prismop.NewCreateDidOperation([]prismop.NewKeyInput{
		{ID: "master-1", Usage: prismop.KeyUsageMaster, Curve: "secp256k1", CompressedKeyData: priv.PubKey().SerializeCompressed()},
	}, nil, nil)
	longForm, err := FromOperation(wireOp)
	if err != nil {
		t.Fatalf("from operation: %v", err)
	}

	tamperedSuffix := "0000000000000000000000000000000000000000000000000000000000000000"[:64]
	tampered := "did:prism:" + tamperedSuffix + ":" + longForm.EncodedState
	if _, err := Parse(tampered); err == nil {
		t.Fatal("expected suffix mismatch error")
	}
}

func TestParseCanonicalDidRoundTrip(t *testing.T) {
	suffix := "0000000000000000000000000000000000000000000000000000000000000001"[:64]
	s := "did:prism:" + suffix
	did, err := Parse(s)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if did.String() != s {
		t.Fatalf("round trip mismatch: got %q want %q", did.String(), s)
	}
	if did.LongForm != nil {
		t.Fatal("expected a canonical-only did")
	}
}

func TestParseRejectsMissingPrefix(t *testing.T) {
	if _, err := Parse("did:web:example.com"); err == nil {
		t.Fatal("expected error for non-prism method")
	}
}

func TestParseRejectsMalformedSuffix(t *testing.T) {
	if _, err := Parse("did:prism:not-hex"); err == nil {
		t.Fatal("expected error for non-hex suffix")
	}
}

func TestParseRejectsShortSuffix(t *testing.T) {
	if _, err := Parse("did:prism:deadbeef"); err == nil {
		t.Fatal("expected error for a suffix shorter than 64 hex chars")
	}
}

func TestFromSuffixHexRoundTrip(t *testing.T) {
	suffix := "abcd000000000000000000000000000000000000000000000000000000000abc"[:64]
	did, err := FromSuffixHex(suffix)
	if err != nil {
		t.Fatalf("from suffix: %v", err)
	}
	if did.Suffix.Hex() != suffix {
		t.Fatalf("suffix round trip mismatch: got %q want %q", did.Suffix.Hex(), suffix)
	}
}
