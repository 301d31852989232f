package prismcrypto

// Jwk is the minimal JSON Web Key projection used in DID document
// verification methods: {kty, crv, x[, y]}.
type Jwk struct {
	Kty string  `json:"kty"`
	Crv string  `json:"crv"`
	X   string  `json:"x"`
	Y   *string `json:"y,omitempty"`
}
