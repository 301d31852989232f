package prismstate

import (
	"github.com/prism-network/prism-index/internal/prismcrypto"
	"github.com/prism-network/prism-index/internal/prismdid"
	"github.com/prism-network/prism-index/internal/prismop"
)

// StorageState is one VDR storage entry's current fold state: the hash it
// was created under, the hash of the last operation that touched it, and
// its current payload.
type StorageState struct {
	InitOperationHash prismcrypto.Sha256Digest
	LastOperationHash prismcrypto.Sha256Digest
	Data              prismop.StorageData
}

// DidState is the finalized, read-only projection of a fold: only
// non-revoked keys, services and storage entries are visible, matching
// what a resolver would hand to a caller. Callers needing revocation
// history should consult the debug trace the resolver builds alongside
// this rather than the fold's internal bookkeeping.
type DidState struct {
	Did               prismdid.CanonicalPrismDid
	Context           []string
	LastOperationHash prismcrypto.Sha256Digest
	PublicKeys        []prismop.PublicKey
	Services          []prismop.Service
	Storage           []StorageState
}

// State is the mutable-per-candidate fold representation. Every
// mutating method is called on a clone, never the state a caller still
// holds a reference to: cloning copies each map wholesale rather than
// sharing structure, trading the reference implementation's persistent
// map for a plain one now that nothing in this codebase depends on
// sub-linear clone cost.
type State struct {
	did               prismdid.CanonicalPrismDid
	context           []string
	lastOperationHash prismcrypto.Sha256Digest
	publicKeys        map[prismop.PublicKeyID]Revocable[prismop.PublicKey]
	services          map[prismop.ServiceID]Revocable[prismop.Service]
	storage           map[prismcrypto.Sha256Digest]Revocable[StorageState]
}

func newState(did prismdid.CanonicalPrismDid) State {
	return State{
		did:               did,
		lastOperationHash: did.Suffix,
		publicKeys:        make(map[prismop.PublicKeyID]Revocable[prismop.PublicKey]),
		services:          make(map[prismop.ServiceID]Revocable[prismop.Service]),
		storage:           make(map[prismcrypto.Sha256Digest]Revocable[StorageState]),
	}
}

func (s State) clone() State {
	next := State{
		did:               s.did,
		context:           s.context,
		lastOperationHash: s.lastOperationHash,
		publicKeys:        make(map[prismop.PublicKeyID]Revocable[prismop.PublicKey], len(s.publicKeys)),
		services:          make(map[prismop.ServiceID]Revocable[prismop.Service], len(s.services)),
		storage:           make(map[prismcrypto.Sha256Digest]Revocable[StorageState], len(s.storage)),
	}
	for k, v := range s.publicKeys {
		next.publicKeys[k] = v
	}
	for k, v := range s.services {
		next.services[k] = v
	}
	for k, v := range s.storage {
		next.storage[k] = v
	}
	return next
}

func (s *State) withContext(context []string)                       { s.context = context }
func (s *State) withLastOperationHash(h prismcrypto.Sha256Digest)   { s.lastOperationHash = h }

func (s *State) addPublicKey(pk prismop.PublicKey, at OperationMetadata) error {
	if _, exists := s.publicKeys[pk.ID]; exists {
		return &ConflictError{Kind: ConflictAddPublicKeyExistingID, ID: string(pk.ID)}
	}
	s.publicKeys[pk.ID] = newRevocable(pk, at)
	return nil
}

func (s *State) revokePublicKey(id prismop.PublicKeyID, at OperationMetadata) error {
	entry, exists := s.publicKeys[id]
	if !exists {
		return &ConflictError{Kind: ConflictRevokePublicKeyNotExists, ID: string(id)}
	}
	if entry.IsRevoked() {
		return &ConflictError{Kind: ConflictRevokePublicKeyAlreadyRevoked, ID: string(id)}
	}
	s.publicKeys[id] = entry.revoke(at)
	return nil
}

func (s *State) addService(svc prismop.Service, at OperationMetadata) error {
	if _, exists := s.services[svc.ID]; exists {
		return &ConflictError{Kind: ConflictAddServiceExistingID, ID: string(svc.ID)}
	}
	s.services[svc.ID] = newRevocable(svc, at)
	return nil
}

func (s *State) revokeService(id prismop.ServiceID, at OperationMetadata) error {
	entry, exists := s.services[id]
	if !exists {
		return &ConflictError{Kind: ConflictRevokeServiceNotExists, ID: string(id)}
	}
	if entry.IsRevoked() {
		return &ConflictError{Kind: ConflictRevokeServiceAlreadyRevoked, ID: string(id)}
	}
	s.services[id] = entry.revoke(at)
	return nil
}

func (s *State) updateServiceType(id prismop.ServiceID, newType prismop.ServiceType) error {
	entry, exists := s.services[id]
	if !exists {
		return &ConflictError{Kind: ConflictUpdateServiceNotExists, ID: string(id)}
	}
	if entry.IsRevoked() {
		return &ConflictError{Kind: ConflictUpdateServiceIsRevoked, ID: string(id)}
	}
	entry.Item.Type = newType
	s.services[id] = entry
	return nil
}

func (s *State) updateServiceEndpoint(id prismop.ServiceID, newEndpoint prismop.ServiceEndpoint) error {
	entry, exists := s.services[id]
	if !exists {
		return &ConflictError{Kind: ConflictUpdateServiceNotExists, ID: string(id)}
	}
	if entry.IsRevoked() {
		return &ConflictError{Kind: ConflictUpdateServiceIsRevoked, ID: string(id)}
	}
	entry.Item.ServiceEndpoint = newEndpoint
	s.services[id] = entry
	return nil
}

func (s *State) addStorage(initHash prismcrypto.Sha256Digest, data prismop.StorageData, at OperationMetadata) error {
	if _, exists := s.storage[initHash]; exists {
		return &ConflictError{Kind: ConflictAddStorageEntryExistingHash, ID: initHash.Hex()}
	}
	s.storage[initHash] = newRevocable(StorageState{
		InitOperationHash: initHash,
		LastOperationHash: initHash,
		Data:              data,
	}, at)
	return nil
}

// findStorageByLastHash scans for the entry whose current chain tip
// equals prevHash, since storage entries are keyed by their (immutable)
// init hash rather than their (advancing) last hash.
func (s *State) findStorageByLastHash(prevHash prismcrypto.Sha256Digest) (prismcrypto.Sha256Digest, Revocable[StorageState], bool) {
	for k, v := range s.storage {
		if v.Item.LastOperationHash == prevHash {
			return k, v, true
		}
	}
	return prismcrypto.Sha256Digest{}, Revocable[StorageState]{}, false
}

func (s *State) updateStorage(prevHash, newHash prismcrypto.Sha256Digest, data prismop.StorageData) error {
	key, entry, found := s.findStorageByLastHash(prevHash)
	if !found {
		return &ConflictError{Kind: ConflictUpdateStorageEntryNotExists, ID: prevHash.Hex()}
	}
	if entry.IsRevoked() {
		return &ConflictError{Kind: ConflictUpdateStorageEntryAlreadyRevoked, ID: prevHash.Hex()}
	}
	entry.Item.Data = data
	entry.Item.LastOperationHash = newHash
	s.storage[key] = entry
	return nil
}

func (s *State) revokeStorage(prevHash, revokeHash prismcrypto.Sha256Digest, at OperationMetadata) error {
	key, entry, found := s.findStorageByLastHash(prevHash)
	if !found {
		return &ConflictError{Kind: ConflictRevokeStorageEntryNotExists, ID: prevHash.Hex()}
	}
	if entry.IsRevoked() {
		return &ConflictError{Kind: ConflictRevokeStorageEntryAlreadyRevoked, ID: prevHash.Hex()}
	}
	entry.Item.LastOperationHash = revokeHash
	s.storage[key] = entry.revoke(at)
	return nil
}

// nonRevokedMasterKeyCount reports how many non-revoked MasterKey entries
// the state currently holds, used to block revoking the last one.
func (s *State) nonRevokedMasterKeyCount() int {
	count := 0
	for _, v := range s.publicKeys {
		if !v.IsRevoked() && v.Item.Usage == prismop.KeyUsageMaster {
			count++
		}
	}
	return count
}

func (s State) Finalize() DidState {
	publicKeys := make([]prismop.PublicKey, 0, len(s.publicKeys))
	for _, v := range s.publicKeys {
		if !v.IsRevoked() {
			publicKeys = append(publicKeys, v.Item)
		}
	}
	services := make([]prismop.Service, 0, len(s.services))
	for _, v := range s.services {
		if !v.IsRevoked() {
			services = append(services, v.Item)
		}
	}
	storage := make([]StorageState, 0, len(s.storage))
	for _, v := range s.storage {
		if !v.IsRevoked() {
			storage = append(storage, v.Item)
		}
	}
	return DidState{
		Did:               s.did,
		Context:           s.context,
		LastOperationHash: s.lastOperationHash,
		PublicKeys:        publicKeys,
		Services:          services,
		Storage:           storage,
	}
}

// lookupSigningKey finds id among non-revoked public keys only: a
// revoked key must never authorize a further operation, even one that
// would otherwise be valid.
func (s State) lookupSigningKey(id prismop.PublicKeyID) (prismop.PublicKey, error) {
	entry, exists := s.publicKeys[id]
	if !exists {
		return prismop.PublicKey{}, &SignedWithError{Reason: "key not found", ID: id}
	}
	if entry.IsRevoked() {
		return prismop.PublicKey{}, &SignedWithError{Reason: "key is revoked", ID: id}
	}
	return entry.Item, nil
}
