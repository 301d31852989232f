package prismop

// This file builds wire envelopes from already-encoded key material, the
// inverse direction of parsing: used when constructing a new operation
// to sign and submit, and by tests that need a real CreateDid envelope
// without reaching into this package's unexported wire types.

// NewKeyInput describes a public key to embed in a new operation, using
// the compressed/raw encoding appropriate to its curve.
type NewKeyInput struct {
	ID                PublicKeyID
	Usage             KeyUsage
	Curve             string // "secp256k1", "Ed25519", or "X25519"
	CompressedKeyData []byte
}

func (k NewKeyInput) toWire() wirePublicKey {
	return wirePublicKey{
		ID:    string(k.ID),
		Usage: int32(k.Usage),
		CompressedKeyData: &wireCompressedECKeyData{
			Curve: k.Curve,
			Data:  k.CompressedKeyData,
		},
	}
}

// NewServiceInput describes a service to embed in a new operation.
type NewServiceInput struct {
	ID              ServiceID
	Type            string
	ServiceEndpoint string
}

func (s NewServiceInput) toWire() wireService {
	return wireService{ID: string(s.ID), Type: s.Type, ServiceEndpoint: s.ServiceEndpoint}
}

// NewCreateDidOperation builds the wire envelope for a CreateDid
// operation from its public keys, services and context entries.
func NewCreateDidOperation(keys []NewKeyInput, services []NewServiceInput, context []string) WirePrismOperation {
	wireKeys := make([]wirePublicKey, 0, len(keys))
	for _, k := range keys {
		wireKeys = append(wireKeys, k.toWire())
	}
	wireServices := make([]wireService, 0, len(services))
	for _, s := range services {
		wireServices = append(wireServices, s.toWire())
	}
	create := wireCreateDID{DidData: &wireDIDData{
		PublicKeys: wireKeys,
		Services:   wireServices,
		Context:    context,
	}}
	return WirePrismOperation{CreateDid: &create}
}

// NewDeactivateDidOperation builds the wire envelope for a DeactivateDid
// operation.
func NewDeactivateDidOperation(didSuffixHex string, prevOperationHash []byte) WirePrismOperation {
	deactivate := wireDeactivateDID{ID: didSuffixHex, PreviousOperationHash: prevOperationHash}
	return WirePrismOperation{DeactivateDid: &deactivate}
}

// NewUpdateAction builds one action of an UpdateDid operation's action
// list. Exactly one of the constructor's inputs should be set by the
// caller; this mirrors the wire oneof directly rather than offering six
// separate constructors.
type NewUpdateAction struct {
	AddKey                *NewKeyInput
	RemoveKeyID           string
	AddService            *NewServiceInput
	RemoveServiceID       string
	UpdateServiceID       string
	UpdateServiceType     string
	UpdateServiceEndpoint string
	PatchContext          []string
}

func (a NewUpdateAction) toWire() wireUpdateAction {
	switch {
	case a.AddKey != nil:
		wk := a.AddKey.toWire()
		return wireUpdateAction{AddKey: &wk}
	case a.RemoveKeyID != "":
		id := a.RemoveKeyID
		return wireUpdateAction{RemoveKeyID: &id}
	case a.AddService != nil:
		ws := a.AddService.toWire()
		return wireUpdateAction{AddService: &ws}
	case a.RemoveServiceID != "":
		id := a.RemoveServiceID
		return wireUpdateAction{RemoveServiceID: &id}
	case a.UpdateServiceID != "":
		return wireUpdateAction{UpdateService: &wireUpdateServiceAction{
			ServiceID:        a.UpdateServiceID,
			Type:             a.UpdateServiceType,
			ServiceEndpoints: a.UpdateServiceEndpoint,
		}}
	case a.PatchContext != nil:
		return wireUpdateAction{PatchContext: a.PatchContext}
	default:
		return wireUpdateAction{}
	}
}

// NewUpdateDidOperation builds the wire envelope for an UpdateDid
// operation.
func NewUpdateDidOperation(didSuffixHex string, prevOperationHash []byte, actions []NewUpdateAction) WirePrismOperation {
	wireActions := make([]wireUpdateAction, 0, len(actions))
	for _, a := range actions {
		wireActions = append(wireActions, a.toWire())
	}
	update := wireUpdateDID{ID: didSuffixHex, PreviousOperationHash: prevOperationHash, Actions: wireActions}
	return WirePrismOperation{UpdateDid: &update}
}

// NewStorageDataInput describes a storage entry's payload for use in the
// storage-operation constructors below.
type NewStorageDataInput struct {
	Bytes []byte
	Ipfs  string
}

func (d NewStorageDataInput) toWire() wireStorageData {
	if d.Ipfs != "" {
		ipfs := d.Ipfs
		return wireStorageData{Ipfs: &ipfs}
	}
	return wireStorageData{Bytes: d.Bytes}
}

// NewCreateStorageEntryOperation builds the wire envelope for a
// CreateStorageEntry operation.
func NewCreateStorageEntryOperation(didPrismHash, nonce []byte, data NewStorageDataInput) WirePrismOperation {
	create := wireCreateStorageEntry{DidPrismHash: didPrismHash, Nonce: nonce, Data: data.toWire()}
	return WirePrismOperation{CreateStorageEntry: &create}
}

// NewUpdateStorageEntryOperation builds the wire envelope for an
// UpdateStorageEntry operation.
func NewUpdateStorageEntryOperation(prevOperationHash []byte, data NewStorageDataInput) WirePrismOperation {
	update := wireUpdateStorageEntry{PreviousOperationHash: prevOperationHash, Data: data.toWire()}
	return WirePrismOperation{UpdateStorageEntry: &update}
}

// NewDeactivateStorageEntryOperation builds the wire envelope for a
// DeactivateStorageEntry operation.
func NewDeactivateStorageEntryOperation(prevOperationHash []byte) WirePrismOperation {
	deactivate := wireDeactivateStorageEntry{PreviousOperationHash: prevOperationHash}
	return WirePrismOperation{DeactivateStorageEntry: &deactivate}
}
