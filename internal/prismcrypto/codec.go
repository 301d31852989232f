// Package prismcrypto implements the fixed-size key types, digests and
// codecs the prism DID method signs and hashes operations with.
package prismcrypto

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// HexEncode / HexDecode round-trip lower-case hex, mirroring the
// `HexStr` codec used throughout the reference implementation.
func HexEncode(b []byte) string { return hex.EncodeToString(b) }

func HexDecode(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return b, nil
}

// Base64URLEncode / Base64URLDecode use the unpadded URL-safe alphabet,
// the encoding prism uses for the long-form DID's embedded create
// operation.
func Base64URLEncode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func Base64URLDecode(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode base64url: %w", err)
	}
	return b, nil
}

// Base64URLEncodePadded / Base64URLDecodePadded use the padded URL-safe
// alphabet, used by the ledger-metadata chunk encoding in some producer
// implementations that pad their output.
func Base64URLEncodePadded(b []byte) string {
	return base64.URLEncoding.EncodeToString(b)
}

func Base64URLDecodePadded(s string) ([]byte, error) {
	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode padded base64url: %w", err)
	}
	return b, nil
}
