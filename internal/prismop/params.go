// Package prismop parses the wire-level operation variants into typed,
// structurally validated Go values and produces the canonical byte
// encoding used for hashing and signing.
package prismop

// Parameters bounds the structural limits enforced while parsing
// operations. v1 is the only protocol version this indexer understands;
// ProtocolVersionUpdate operations are accepted but never change these
// limits.
type Parameters struct {
	MaxPublicKeys          int
	MaxServices            int
	MaxIDSize              int
	MaxTypeSize            int
	MaxServiceEndpointSize int
}

// ParametersV1 returns the structural limits for protocol version 1.
func ParametersV1() Parameters {
	return Parameters{
		MaxPublicKeys:          50,
		MaxServices:            50,
		MaxIDSize:              50,
		MaxTypeSize:            100,
		MaxServiceEndpointSize: 300,
	}
}
