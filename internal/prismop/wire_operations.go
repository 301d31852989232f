package prismop

import "google.golang.org/protobuf/encoding/protowire"

type wireDIDData struct {
	PublicKeys []wirePublicKey
	Services   []wireService
	Context    []string
}

func (d wireDIDData) appendTo(b []byte) []byte {
	b = appendMessageList(b, 1, d.PublicKeys, func(k wirePublicKey) []byte { return k.appendTo(nil) })
	b = appendMessageList(b, 2, d.Services, func(s wireService) []byte { return s.appendTo(nil) })
	b = appendStringList(b, 3, d.Context)
	return b
}

func parseDIDData(b []byte) (wireDIDData, error) {
	var out wireDIDData
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, consumeFieldErr("did_data.tag", n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("did_data.public_keys", m)
			}
			pk, err := parsePublicKey(v)
			if err != nil {
				return out, err
			}
			out.PublicKeys = append(out.PublicKeys, pk)
			b = b[m:]
		case 2:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("did_data.services", m)
			}
			s, err := parseService(v)
			if err != nil {
				return out, err
			}
			out.Services = append(out.Services, s)
			b = b[m:]
		case 3:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return out, consumeFieldErr("did_data.context", m)
			}
			out.Context = append(out.Context, v)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return out, consumeFieldErr("did_data.unknown", m)
			}
			b = b[m:]
		}
	}
	return out, nil
}

type wireCreateDID struct {
	DidData *wireDIDData
}

func (c wireCreateDID) appendTo(b []byte) []byte {
	if c.DidData != nil {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, c.DidData.appendTo(nil))
	}
	return b
}

func parseCreateDID(b []byte) (wireCreateDID, error) {
	var out wireCreateDID
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, consumeFieldErr("create_did.tag", n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("create_did.did_data", m)
			}
			data, err := parseDIDData(v)
			if err != nil {
				return out, err
			}
			out.DidData = &data
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return out, consumeFieldErr("create_did.unknown", m)
			}
			b = b[m:]
		}
	}
	return out, nil
}

// wireUpdateAction is the oneof over the six update-action kinds. Exactly
// one of these fields is populated per instance.
type wireUpdateAction struct {
	AddKey          *wirePublicKey
	RemoveKeyID     *string
	AddService      *wireService
	RemoveServiceID *string
	UpdateService   *wireUpdateServiceAction
	PatchContext    []string
}

type wireUpdateServiceAction struct {
	ServiceID        string
	Type             string
	ServiceEndpoints string
}

func (a wireUpdateServiceAction) appendTo(b []byte) []byte {
	if a.ServiceID != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, a.ServiceID)
	}
	if a.Type != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, a.Type)
	}
	if a.ServiceEndpoints != "" {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendString(b, a.ServiceEndpoints)
	}
	return b
}

func parseUpdateServiceAction(b []byte) (wireUpdateServiceAction, error) {
	var out wireUpdateServiceAction
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, consumeFieldErr("update_service.tag", n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return out, consumeFieldErr("update_service.service_id", m)
			}
			out.ServiceID = v
			b = b[m:]
		case 2:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return out, consumeFieldErr("update_service.type", m)
			}
			out.Type = v
			b = b[m:]
		case 3:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return out, consumeFieldErr("update_service.service_endpoints", m)
			}
			out.ServiceEndpoints = v
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return out, consumeFieldErr("update_service.unknown", m)
			}
			b = b[m:]
		}
	}
	return out, nil
}

func (a wireUpdateAction) appendTo(b []byte) []byte {
	switch {
	case a.AddKey != nil:
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, a.AddKey.appendTo(nil))
	case a.RemoveKeyID != nil:
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, *a.RemoveKeyID)
	case a.AddService != nil:
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, a.AddService.appendTo(nil))
	case a.RemoveServiceID != nil:
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendString(b, *a.RemoveServiceID)
	case a.UpdateService != nil:
		b = protowire.AppendTag(b, 5, protowire.BytesType)
		b = protowire.AppendBytes(b, a.UpdateService.appendTo(nil))
	case a.PatchContext != nil:
		inner := appendStringList(nil, 1, a.PatchContext)
		b = protowire.AppendTag(b, 6, protowire.BytesType)
		b = protowire.AppendBytes(b, inner)
	}
	return b
}

func parseUpdateAction(b []byte) (wireUpdateAction, error) {
	var out wireUpdateAction
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, consumeFieldErr("update_action.tag", n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("update_action.add_key", m)
			}
			pk, err := parsePublicKey(v)
			if err != nil {
				return out, err
			}
			out.AddKey = &pk
			b = b[m:]
		case 2:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return out, consumeFieldErr("update_action.remove_key", m)
			}
			out.RemoveKeyID = &v
			b = b[m:]
		case 3:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("update_action.add_service", m)
			}
			s, err := parseService(v)
			if err != nil {
				return out, err
			}
			out.AddService = &s
			b = b[m:]
		case 4:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return out, consumeFieldErr("update_action.remove_service", m)
			}
			out.RemoveServiceID = &v
			b = b[m:]
		case 5:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("update_action.update_service", m)
			}
			us, err := parseUpdateServiceAction(v)
			if err != nil {
				return out, err
			}
			out.UpdateService = &us
			b = b[m:]
		case 6:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("update_action.patch_context", m)
			}
			ctx, err := parseStringListMessage(v, 1)
			if err != nil {
				return out, err
			}
			out.PatchContext = ctx
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return out, consumeFieldErr("update_action.unknown", m)
			}
			b = b[m:]
		}
	}
	return out, nil
}

func parseStringListMessage(b []byte, wantTag protowire.Number) ([]string, error) {
	var out []string
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, consumeFieldErr("string_list.tag", n)
		}
		b = b[n:]
		if num == wantTag {
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return out, consumeFieldErr("string_list.value", m)
			}
			out = append(out, v)
			b = b[m:]
			continue
		}
		m := protowire.ConsumeFieldValue(num, typ, b)
		if m < 0 {
			return out, consumeFieldErr("string_list.unknown", m)
		}
		b = b[m:]
	}
	return out, nil
}

type wireUpdateDID struct {
	ID                    string
	PreviousOperationHash []byte
	Actions               []wireUpdateAction
}

func (u wireUpdateDID) appendTo(b []byte) []byte {
	if u.ID != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, u.ID)
	}
	if len(u.PreviousOperationHash) > 0 {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, u.PreviousOperationHash)
	}
	b = appendMessageList(b, 3, u.Actions, func(a wireUpdateAction) []byte { return a.appendTo(nil) })
	return b
}

func parseUpdateDID(b []byte) (wireUpdateDID, error) {
	var out wireUpdateDID
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, consumeFieldErr("update_did.tag", n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return out, consumeFieldErr("update_did.id", m)
			}
			out.ID = v
			b = b[m:]
		case 2:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("update_did.previous_operation_hash", m)
			}
			out.PreviousOperationHash = append([]byte{}, v...)
			b = b[m:]
		case 3:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("update_did.actions", m)
			}
			a, err := parseUpdateAction(v)
			if err != nil {
				return out, err
			}
			out.Actions = append(out.Actions, a)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return out, consumeFieldErr("update_did.unknown", m)
			}
			b = b[m:]
		}
	}
	return out, nil
}

type wireDeactivateDID struct {
	ID                    string
	PreviousOperationHash []byte
}

func (d wireDeactivateDID) appendTo(b []byte) []byte {
	if d.ID != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, d.ID)
	}
	if len(d.PreviousOperationHash) > 0 {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, d.PreviousOperationHash)
	}
	return b
}

func parseDeactivateDID(b []byte) (wireDeactivateDID, error) {
	var out wireDeactivateDID
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, consumeFieldErr("deactivate_did.tag", n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return out, consumeFieldErr("deactivate_did.id", m)
			}
			out.ID = v
			b = b[m:]
		case 2:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("deactivate_did.previous_operation_hash", m)
			}
			out.PreviousOperationHash = append([]byte{}, v...)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return out, consumeFieldErr("deactivate_did.unknown", m)
			}
			b = b[m:]
		}
	}
	return out, nil
}

type wireProtocolVersionUpdate struct {
	ProposerDid string
	Major       uint64
	Minor       uint64
}

func (p wireProtocolVersionUpdate) appendTo(b []byte) []byte {
	if p.ProposerDid != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, p.ProposerDid)
	}
	if p.Major != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, p.Major)
	}
	if p.Minor != 0 {
		b = protowire.AppendTag(b, 3, protowire.VarintType)
		b = protowire.AppendVarint(b, p.Minor)
	}
	return b
}

func parseProtocolVersionUpdate(b []byte) (wireProtocolVersionUpdate, error) {
	var out wireProtocolVersionUpdate
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, consumeFieldErr("protocol_version_update.tag", n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return out, consumeFieldErr("protocol_version_update.proposer_did", m)
			}
			out.ProposerDid = v
			b = b[m:]
		case 2:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return out, consumeFieldErr("protocol_version_update.major", m)
			}
			out.Major = v
			b = b[m:]
		case 3:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return out, consumeFieldErr("protocol_version_update.minor", m)
			}
			out.Minor = v
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return out, consumeFieldErr("protocol_version_update.unknown", m)
			}
			b = b[m:]
		}
	}
	return out, nil
}
