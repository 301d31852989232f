package prismop

import "github.com/prism-network/prism-index/internal/prismcrypto"

// PublicKey is a structurally validated entry from a DID's public key
// list: an id, the usage it was declared for, and the parsed key
// material appropriate to that usage.
type PublicKey struct {
	ID    PublicKeyID
	Usage KeyUsage
	Key   prismcrypto.KeyMaterial
}

// ParsePublicKey validates a wire PublicKey against param and the
// usage/curve pairing rule: MasterKey and VdrKey must be secp256k1,
// every other usage accepts any of the three supported curves.
func ParsePublicKey(w wirePublicKey, param Parameters) (PublicKey, error) {
	id, err := ParsePublicKeyID(w.ID, param.MaxIDSize)
	if err != nil {
		return PublicKey{}, &PublicKeyError{ID: w.ID, Reason: "invalid id", Cause: err}
	}

	usage := KeyUsage(w.Usage)
	if !usage.Valid() {
		return PublicKey{}, &PublicKeyError{ID: w.ID, Reason: "unknown key usage"}
	}

	km, curveName, err := parseKeyData(w)
	if err != nil {
		return PublicKey{}, &PublicKeyError{ID: w.ID, Reason: "invalid key data", Cause: err}
	}

	switch usage {
	case KeyUsageMaster:
		if km.Curve() != prismcrypto.CurveSecp256k1 {
			return PublicKey{}, &PublicKeyError{ID: w.ID, Reason: "master key must be secp256k1, got " + curveName}
		}
	case KeyUsageVdr:
		if km.Curve() != prismcrypto.CurveSecp256k1 {
			return PublicKey{}, &PublicKeyError{ID: w.ID, Reason: "vdr key must be secp256k1, got " + curveName}
		}
	}

	return PublicKey{ID: id, Usage: usage, Key: km}, nil
}

func parseKeyData(w wirePublicKey) (prismcrypto.KeyMaterial, string, error) {
	var curve string
	var raw []byte
	switch {
	case w.ECKeyData != nil:
		curve = w.ECKeyData.Curve
		raw = uncompressedPoint(w.ECKeyData.X, w.ECKeyData.Y)
	case w.CompressedKeyData != nil:
		curve = w.CompressedKeyData.Curve
		raw = w.CompressedKeyData.Data
	default:
		return prismcrypto.KeyMaterial{}, "", errMissingKeyData
	}

	// Ed25519/X25519 keys only ever carry an x coordinate; when they
	// arrive as EC key data, raw (x||y) must be narrowed back to just x.
	single := raw
	if w.ECKeyData != nil {
		single = w.ECKeyData.X
	}

	switch curve {
	case "secp256k1":
		pk, err := prismcrypto.ParseSecp256k1PublicKey(raw)
		if err != nil {
			return prismcrypto.KeyMaterial{}, curve, err
		}
		return prismcrypto.NewSecp256k1KeyMaterial(pk), curve, nil
	case "Ed25519":
		pk, err := prismcrypto.ParseEd25519PublicKey(single)
		if err != nil {
			return prismcrypto.KeyMaterial{}, curve, err
		}
		return prismcrypto.NewEd25519KeyMaterial(pk), curve, nil
	case "X25519":
		pk, err := prismcrypto.ParseX25519PublicKey(single)
		if err != nil {
			return prismcrypto.KeyMaterial{}, curve, err
		}
		return prismcrypto.NewX25519KeyMaterial(pk), curve, nil
	default:
		return prismcrypto.KeyMaterial{}, curve, errUnsupportedCurve
	}
}

// uncompressedPoint prepends the 0x04 SEC1 uncompressed-point prefix to
// an (x, y) pair, matching how secp256k1 EC key data arrives on the
// wire as separate coordinates.
func uncompressedPoint(x, y []byte) []byte {
	out := make([]byte, 0, 1+len(x)+len(y))
	out = append(out, 0x04)
	out = append(out, x...)
	out = append(out, y...)
	return out
}
