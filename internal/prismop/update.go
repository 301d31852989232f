package prismop

import (
	"regexp"

	"github.com/prism-network/prism-index/internal/prismcrypto"
)

var didSuffixHexRe = regexp.MustCompile(`^[0-9a-f]{64}$`)

// UpdateDidOperation is the structurally validated form of an UpdateDid
// operation. Empty actions (an UpdateDIDAction with no inner action set)
// are dropped during parsing, matching the wire format's tolerance for
// forward-compatible no-ops.
type UpdateDidOperation struct {
	ID                 string
	PrevOperationHash  prismcrypto.Sha256Digest
	Actions            []UpdateOperationAction
}

// ParseUpdateDidOperation parses and validates a wire UpdateDid operation.
func ParseUpdateDidOperation(w wireUpdateDID, param Parameters) (UpdateDidOperation, error) {
	if len(w.Actions) == 0 {
		return UpdateDidOperation{}, &UpdateDidOperationError{Reason: "empty action list"}
	}
	if !didSuffixHexRe.MatchString(w.ID) {
		return UpdateDidOperation{}, &UpdateDidOperationError{Reason: "invalid did suffix"}
	}
	prevHash, err := prismcrypto.DigestFromBytes(w.PreviousOperationHash)
	if err != nil {
		return UpdateDidOperation{}, &UpdateDidOperationError{Reason: "invalid previous operation hash", Cause: err}
	}

	actions := make([]UpdateOperationAction, 0, len(w.Actions))
	for _, a := range w.Actions {
		parsed, ok, err := parseUpdateOperationAction(a, param)
		if err != nil {
			return UpdateDidOperation{}, &UpdateDidOperationError{Reason: "invalid action", Cause: err}
		}
		if ok {
			actions = append(actions, parsed)
		}
	}

	return UpdateDidOperation{ID: w.ID, PrevOperationHash: prevHash, Actions: actions}, nil
}

// UpdateActionKind distinguishes the six update-action variants.
type UpdateActionKind int

const (
	ActionAddKey UpdateActionKind = iota
	ActionRemoveKey
	ActionAddService
	ActionRemoveService
	ActionUpdateService
	ActionPatchContext
)

// UpdateOperationAction is one parsed action from an UpdateDid operation's
// action list.
type UpdateOperationAction struct {
	Kind UpdateActionKind

	AddKey          PublicKey
	RemoveKeyID     PublicKeyID
	AddService      Service
	RemoveServiceID ServiceID

	UpdateServiceID       ServiceID
	UpdateServiceType     *ServiceType
	UpdateServiceEndpoint *ServiceEndpoint

	PatchContext []string
}

func parseUpdateOperationAction(a wireUpdateAction, param Parameters) (UpdateOperationAction, bool, error) {
	switch {
	case a.AddKey != nil:
		pk, err := ParsePublicKey(*a.AddKey, param)
		if err != nil {
			return UpdateOperationAction{}, false, err
		}
		return UpdateOperationAction{Kind: ActionAddKey, AddKey: pk}, true, nil
	case a.RemoveKeyID != nil:
		id, err := ParsePublicKeyID(*a.RemoveKeyID, param.MaxIDSize)
		if err != nil {
			return UpdateOperationAction{}, false, err
		}
		return UpdateOperationAction{Kind: ActionRemoveKey, RemoveKeyID: id}, true, nil
	case a.AddService != nil:
		s, err := ParseService(*a.AddService, param)
		if err != nil {
			return UpdateOperationAction{}, false, err
		}
		return UpdateOperationAction{Kind: ActionAddService, AddService: s}, true, nil
	case a.RemoveServiceID != nil:
		id, err := ParseServiceID(*a.RemoveServiceID, param.MaxIDSize)
		if err != nil {
			return UpdateOperationAction{}, false, err
		}
		return UpdateOperationAction{Kind: ActionRemoveService, RemoveServiceID: id}, true, nil
	case a.UpdateService != nil:
		return parseUpdateServiceUpdateAction(*a.UpdateService, param)
	case a.PatchContext != nil:
		return UpdateOperationAction{Kind: ActionPatchContext, PatchContext: a.PatchContext}, true, nil
	default:
		return UpdateOperationAction{}, false, nil
	}
}

func parseUpdateServiceUpdateAction(u wireUpdateServiceAction, param Parameters) (UpdateOperationAction, bool, error) {
	id, err := ParseServiceID(u.ServiceID, param.MaxIDSize)
	if err != nil {
		return UpdateOperationAction{}, false, err
	}

	var typ *ServiceType
	if u.Type != "" {
		parsed, err := ParseServiceType(u.Type, param)
		if err != nil {
			return UpdateOperationAction{}, false, err
		}
		typ = &parsed
	}

	var endpoint *ServiceEndpoint
	if u.ServiceEndpoints != "" {
		parsed, err := ParseServiceEndpoint(u.ServiceEndpoints, param)
		if err != nil {
			return UpdateOperationAction{}, false, err
		}
		endpoint = &parsed
	}

	return UpdateOperationAction{
		Kind:                  ActionUpdateService,
		UpdateServiceID:       id,
		UpdateServiceType:     typ,
		UpdateServiceEndpoint: endpoint,
	}, true, nil
}
