package prismop

// PublicKeyID identifies a key within a DID's key set. It is always a
// non-empty, bounded, percent-encoded URI fragment.
type PublicKeyID string

// ParsePublicKeyID validates id against maxLength and the URI-fragment
// grammar.
func ParsePublicKeyID(id string, maxLength int) (PublicKeyID, error) {
	if id == "" {
		return "", &PublicKeyIDError{Reason: "empty", ID: id}
	}
	if len(id) > maxLength {
		return "", &PublicKeyIDError{Reason: "too long", ID: id}
	}
	if !isURIFragment(id) {
		return "", &PublicKeyIDError{Reason: "not a valid uri fragment", ID: id}
	}
	return PublicKeyID(id), nil
}

// ServiceID identifies a service entry within a DID's service set.
type ServiceID string

// ParseServiceID validates id against maxLength and the URI-fragment
// grammar.
func ParseServiceID(id string, maxLength int) (ServiceID, error) {
	if id == "" {
		return "", &ServiceIDError{Reason: "empty", ID: id}
	}
	if len(id) > maxLength {
		return "", &ServiceIDError{Reason: "too long", ID: id}
	}
	if !isURIFragment(id) {
		return "", &ServiceIDError{Reason: "not a valid uri fragment", ID: id}
	}
	return ServiceID(id), nil
}
