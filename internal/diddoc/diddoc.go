// Package diddoc projects a resolved DID state into a W3C DID Document.
package diddoc

import (
	"fmt"

	"github.com/prism-network/prism-index/internal/prismcrypto"
	"github.com/prism-network/prism-index/internal/prismop"
	"github.com/prism-network/prism-index/internal/prismstate"
)

const w3cContext = "https://www.w3.org/ns/did/v1"

// Document is the W3C DID Document shape returned by the resolution API.
type Document struct {
	Context              []string                `json:"@context"`
	ID                   string                  `json:"id"`
	VerificationMethod   []VerificationMethod    `json:"verificationMethod"`
	Authentication       []VerificationMethodRef `json:"authentication,omitempty"`
	AssertionMethod      []VerificationMethodRef `json:"assertionMethod,omitempty"`
	KeyAgreement         []VerificationMethodRef `json:"keyAgreement,omitempty"`
	CapabilityInvocation []VerificationMethodRef `json:"capabilityInvocation,omitempty"`
	CapabilityDelegation []VerificationMethodRef `json:"capabilityDelegation,omitempty"`
	Service              []Service               `json:"service,omitempty"`
}

// VerificationMethod is an embedded key entry in a document's
// verificationMethod list.
type VerificationMethod struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Controller   string          `json:"controller"`
	PublicKeyJwk *prismcrypto.Jwk `json:"publicKeyJwk,omitempty"`
}

// VerificationMethodRef is a bare "<did>#<key-id>" reference into the
// document's verificationMethod list, used in every relationship list.
type VerificationMethodRef string

// Service is a DID document service entry. Type and ServiceEndpoint are
// left as raw JSON-compatible values since both may be either a single
// value or a list, matching the wire encoding's own union shape.
type Service struct {
	ID              string `json:"id"`
	Type            any    `json:"type"`
	ServiceEndpoint any    `json:"serviceEndpoint"`
}

// FromDidState projects a resolved state into a DID document for did,
// following the verification-relationship mapping used throughout this
// method: MasterKey never appears in verificationMethod (it authorizes
// DID operations, not document-level capabilities); the Authentication,
// Issuing, KeyAgreement, CapabilityInvocation and CapabilityDelegation
// usages each populate both verificationMethod and their matching
// relationship list; VdrKey never appears in a document at all, since it
// only authorizes storage operations, and neither does RevocationKey.
func FromDidState(did string, state prismstate.DidState) Document {
	context := make([]string, 0, len(state.Context)+1)
	context = append(context, w3cContext)
	context = append(context, state.Context...)

	doc := Document{
		Context:              context,
		ID:                   did,
		Authentication:       relationship(did, state.PublicKeys, prismop.KeyUsageAuthentication),
		AssertionMethod:      relationship(did, state.PublicKeys, prismop.KeyUsageIssuing),
		KeyAgreement:         relationship(did, state.PublicKeys, prismop.KeyUsageKeyAgreement),
		CapabilityInvocation: relationship(did, state.PublicKeys, prismop.KeyUsageCapabilityInvocation),
		CapabilityDelegation: relationship(did, state.PublicKeys, prismop.KeyUsageCapabilityDelegation),
	}

	for _, pk := range state.PublicKeys {
		if vm, ok := toVerificationMethod(did, pk); ok {
			doc.VerificationMethod = append(doc.VerificationMethod, vm)
		}
	}
	for _, svc := range state.Services {
		doc.Service = append(doc.Service, toService(svc))
	}
	return doc
}

func relationship(did string, keys []prismop.PublicKey, usage prismop.KeyUsage) []VerificationMethodRef {
	var refs []VerificationMethodRef
	for _, k := range keys {
		if k.Usage == usage {
			refs = append(refs, VerificationMethodRef(fmt.Sprintf("%s#%s", did, k.ID)))
		}
	}
	return refs
}

// w3cKeyUsages lists the key usages that surface in verificationMethod.
// MasterKey and VdrKey authorize DID-method-internal operations only and
// are deliberately excluded from the document itself; RevocationKey has
// no verification relationship here and is excluded as well.
var w3cKeyUsages = map[prismop.KeyUsage]bool{
	prismop.KeyUsageAuthentication:       true,
	prismop.KeyUsageIssuing:              true,
	prismop.KeyUsageKeyAgreement:         true,
	prismop.KeyUsageCapabilityInvocation: true,
	prismop.KeyUsageCapabilityDelegation: true,
}

func toVerificationMethod(did string, pk prismop.PublicKey) (VerificationMethod, bool) {
	if !w3cKeyUsages[pk.Usage] {
		return VerificationMethod{}, false
	}
	jwk := pk.Key.ToJWK()
	return VerificationMethod{
		ID:           fmt.Sprintf("%s#%s", did, pk.ID),
		Type:         "JsonWebKey2020",
		Controller:   did,
		PublicKeyJwk: &jwk,
	}, true
}

func toService(svc prismop.Service) Service {
	return Service{
		ID:              string(svc.ID),
		Type:            serviceTypeValue(svc.Type),
		ServiceEndpoint: serviceEndpointValue(svc.ServiceEndpoint),
	}
}

func serviceTypeValue(t prismop.ServiceType) any {
	if t.IsList() {
		names := make([]string, len(t.List))
		for i, n := range t.List {
			names[i] = string(n)
		}
		return names
	}
	return string(t.Value)
}

func serviceEndpointValue(e prismop.ServiceEndpoint) any {
	if e.List != nil {
		values := make([]any, len(e.List))
		for i, v := range e.List {
			values[i] = serviceEndpointValueOf(v)
		}
		return values
	}
	return serviceEndpointValueOf(e.Value)
}

func serviceEndpointValueOf(v prismop.ServiceEndpointValue) any {
	if v.JSON != nil {
		return v.JSON
	}
	return v.URI
}
