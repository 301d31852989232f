package prismdid

import (
	"regexp"
	"strings"

	"github.com/prism-network/prism-index/internal/prismcrypto"
	"github.com/prism-network/prism-index/internal/prismop"
)

const (
	method       = "prism"
	didPrefix    = "did:" + method + ":"
)

var (
	canonicalSuffixRe = regexp.MustCompile(`^[0-9a-f]{64}$`)
	longFormSuffixRe  = regexp.MustCompile(`^([0-9a-f]{64}):([A-Za-z0-9_-]+)$`)
)

// CanonicalPrismDid is a did:prism:<64 hex> identifier.
type CanonicalPrismDid struct {
	Suffix prismcrypto.Sha256Digest
}

// String renders the canonical DID form.
func (d CanonicalPrismDid) String() string {
	return didPrefix + d.Suffix.Hex()
}

// FromSuffixHex builds a canonical DID from a hex-encoded suffix string.
func FromSuffixHex(suffix string) (CanonicalPrismDid, error) {
	digest, err := prismcrypto.DigestFromHex(suffix)
	if err != nil {
		return CanonicalPrismDid{}, &SyntaxError{Reason: "invalid suffix hex", DID: suffix, Cause: err}
	}
	return CanonicalPrismDid{Suffix: digest}, nil
}

// LongFormPrismDid is a did:prism:<64 hex>:<base64url-nopad> identifier
// that embeds its own creating operation.
type LongFormPrismDid struct {
	Suffix       prismcrypto.Sha256Digest
	EncodedState string // base64url, no padding, of the creating PrismOperation's canonical bytes
}

// String renders the long-form DID, including its embedded operation.
func (d LongFormPrismDid) String() string {
	return didPrefix + d.Suffix.Hex() + ":" + d.EncodedState
}

// Canonical discards the embedded operation, keeping only the suffix.
func (d LongFormPrismDid) Canonical() CanonicalPrismDid {
	return CanonicalPrismDid{Suffix: d.Suffix}
}

// Operation decodes the embedded PrismOperation envelope.
func (d LongFormPrismDid) Operation() (prismop.WirePrismOperation, error) {
	raw, err := prismcrypto.Base64URLDecode(d.EncodedState)
	if err != nil {
		return prismop.WirePrismOperation{}, &SyntaxError{Reason: "invalid encoded state", DID: d.String(), Cause: err}
	}
	op, err := prismop.ParseWirePrismOperation(raw)
	if err != nil {
		return prismop.WirePrismOperation{}, &SyntaxError{Reason: "malformed encoded operation", DID: d.String(), Cause: err}
	}
	return op, nil
}

// FromOperation builds a long-form DID from a CreateDid operation
// envelope: the suffix is the SHA-256 of the envelope's canonical bytes
// and the embedded state is that same envelope, base64url-encoded.
func FromOperation(op prismop.WirePrismOperation) (LongFormPrismDid, error) {
	bytes := op.CanonicalBytes()
	if len(bytes) == 0 {
		return LongFormPrismDid{}, errOperationMissing
	}
	if op.CreateDid == nil {
		return LongFormPrismDid{}, errNotFromCreateOperation
	}
	suffix := prismcrypto.Sha256Sum(bytes)
	return LongFormPrismDid{Suffix: suffix, EncodedState: prismcrypto.Base64URLEncode(bytes)}, nil
}

// PrismDid is either a canonical or long-form identifier.
type PrismDid struct {
	Canonical CanonicalPrismDid
	LongForm  *LongFormPrismDid // nil for a canonical-only identifier
}

// Suffix returns the identifier's 32-byte suffix regardless of form.
func (d PrismDid) Suffix() prismcrypto.Sha256Digest { return d.Canonical.Suffix }

// String renders the identifier in whichever form it was parsed or
// constructed as.
func (d PrismDid) String() string {
	if d.LongForm != nil {
		return d.LongForm.String()
	}
	return d.Canonical.String()
}

// Parse parses either DID form and, for long-form, verifies that the
// embedded operation hashes to the literal suffix in the string.
func Parse(s string) (PrismDid, error) {
	if !strings.HasPrefix(s, didPrefix) {
		return PrismDid{}, &SyntaxError{Reason: "missing did:prism: prefix", DID: s}
	}
	rest := s[len(didPrefix):]

	if canonicalSuffixRe.MatchString(rest) {
		did, err := FromSuffixHex(rest)
		if err != nil {
			return PrismDid{}, err
		}
		return PrismDid{Canonical: did}, nil
	}

	m := longFormSuffixRe.FindStringSubmatch(rest)
	if m == nil {
		return PrismDid{}, &SyntaxError{Reason: "matches neither canonical nor long-form syntax", DID: s}
	}
	literalSuffix, encodedState := m[1], m[2]

	raw, err := prismcrypto.Base64URLDecode(encodedState)
	if err != nil {
		return PrismDid{}, &SyntaxError{Reason: "invalid encoded state", DID: s, Cause: err}
	}
	wireOp, err := prismop.ParseWirePrismOperation(raw)
	if err != nil {
		return PrismDid{}, &SyntaxError{Reason: "malformed encoded operation", DID: s, Cause: err}
	}
	longForm, err := FromOperation(wireOp)
	if err != nil {
		return PrismDid{}, &SyntaxError{Reason: "embedded operation is not a valid create", DID: s, Cause: err}
	}
	if longForm.Suffix.Hex() != literalSuffix {
		return PrismDid{}, &SuffixMismatchError{DID: s, ExpectedSuffix: longForm.Suffix.Hex(), LiteralSuffix: literalSuffix}
	}

	return PrismDid{Canonical: longForm.Canonical(), LongForm: &longForm}, nil
}
