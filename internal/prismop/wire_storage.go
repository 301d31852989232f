package prismop

import "google.golang.org/protobuf/encoding/protowire"

type wireStatusListEntry struct {
	State   int64
	Name    string
	Details string
}

func (s wireStatusListEntry) appendTo(b []byte) []byte {
	if s.State != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(s.State))
	}
	if s.Name != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, s.Name)
	}
	if s.Details != "" {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendString(b, s.Details)
	}
	return b
}

func parseStatusListEntry(b []byte) (wireStatusListEntry, error) {
	var out wireStatusListEntry
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, consumeFieldErr("status_list_entry.tag", n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return out, consumeFieldErr("status_list_entry.state", m)
			}
			out.State = int64(v)
			b = b[m:]
		case 2:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return out, consumeFieldErr("status_list_entry.name", m)
			}
			out.Name = v
			b = b[m:]
		case 3:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return out, consumeFieldErr("status_list_entry.details", m)
			}
			out.Details = v
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return out, consumeFieldErr("status_list_entry.unknown", m)
			}
			b = b[m:]
		}
	}
	return out, nil
}

// wireStorageData is the oneof over the three storage-entry payload kinds.
type wireStorageData struct {
	Bytes      []byte
	Ipfs       *string
	StatusList *wireStatusListEntry
}

// appendTo writes the oneof using tags baseTag, baseTag+1, baseTag+2 for
// bytes/ipfs/status_list respectively, so Create and Update storage
// messages (which embed this oneof at different base offsets) stay
// collision-free.
func (d wireStorageData) appendTo(b []byte, baseTag protowire.Number) []byte {
	switch {
	case d.Bytes != nil:
		b = protowire.AppendTag(b, baseTag, protowire.BytesType)
		b = protowire.AppendBytes(b, d.Bytes)
	case d.Ipfs != nil:
		b = protowire.AppendTag(b, baseTag+1, protowire.BytesType)
		b = protowire.AppendString(b, *d.Ipfs)
	case d.StatusList != nil:
		b = protowire.AppendTag(b, baseTag+2, protowire.BytesType)
		b = protowire.AppendBytes(b, d.StatusList.appendTo(nil))
	}
	return b
}

type wireCreateStorageEntry struct {
	DidPrismHash []byte
	Nonce        []byte
	Data         wireStorageData
}

func (c wireCreateStorageEntry) appendTo(b []byte) []byte {
	if len(c.DidPrismHash) > 0 {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, c.DidPrismHash)
	}
	if len(c.Nonce) > 0 {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, c.Nonce)
	}
	b = c.Data.appendTo(b, 3)
	return b
}

func parseCreateStorageEntry(b []byte) (wireCreateStorageEntry, error) {
	var out wireCreateStorageEntry
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, consumeFieldErr("create_storage.tag", n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("create_storage.did_prism_hash", m)
			}
			out.DidPrismHash = append([]byte{}, v...)
			b = b[m:]
		case 2:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("create_storage.nonce", m)
			}
			out.Nonce = append([]byte{}, v...)
			b = b[m:]
		case 3:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("create_storage.bytes", m)
			}
			out.Data.Bytes = append([]byte{}, v...)
			b = b[m:]
		case 4:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return out, consumeFieldErr("create_storage.ipfs", m)
			}
			out.Data.Ipfs = &v
			b = b[m:]
		case 5:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("create_storage.status_list", m)
			}
			sl, err := parseStatusListEntry(v)
			if err != nil {
				return out, err
			}
			out.Data.StatusList = &sl
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return out, consumeFieldErr("create_storage.unknown", m)
			}
			b = b[m:]
		}
	}
	return out, nil
}

type wireUpdateStorageEntry struct {
	PreviousOperationHash []byte
	Data                  wireStorageData
}

func (u wireUpdateStorageEntry) appendTo(b []byte) []byte {
	if len(u.PreviousOperationHash) > 0 {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, u.PreviousOperationHash)
	}
	b = u.Data.appendTo(b, 2)
	return b
}

func parseUpdateStorageEntry(b []byte) (wireUpdateStorageEntry, error) {
	var out wireUpdateStorageEntry
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, consumeFieldErr("update_storage.tag", n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("update_storage.previous_operation_hash", m)
			}
			out.PreviousOperationHash = append([]byte{}, v...)
			b = b[m:]
		case 2:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("update_storage.bytes", m)
			}
			out.Data.Bytes = append([]byte{}, v...)
			b = b[m:]
		case 3:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return out, consumeFieldErr("update_storage.ipfs", m)
			}
			out.Data.Ipfs = &v
			b = b[m:]
		case 4:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("update_storage.status_list", m)
			}
			sl, err := parseStatusListEntry(v)
			if err != nil {
				return out, err
			}
			out.Data.StatusList = &sl
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return out, consumeFieldErr("update_storage.unknown", m)
			}
			b = b[m:]
		}
	}
	return out, nil
}

type wireDeactivateStorageEntry struct {
	PreviousOperationHash []byte
}

func (d wireDeactivateStorageEntry) appendTo(b []byte) []byte {
	if len(d.PreviousOperationHash) > 0 {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, d.PreviousOperationHash)
	}
	return b
}

func parseDeactivateStorageEntry(b []byte) (wireDeactivateStorageEntry, error) {
	var out wireDeactivateStorageEntry
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, consumeFieldErr("deactivate_storage.tag", n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, consumeFieldErr("deactivate_storage.previous_operation_hash", m)
			}
			out.PreviousOperationHash = append([]byte{}, v...)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return out, consumeFieldErr("deactivate_storage.unknown", m)
			}
			b = b[m:]
		}
	}
	return out, nil
}
