package prismop

import (
	"encoding/json"
	"regexp"
)

var serviceTypeNameRe = regexp.MustCompile(`^[A-Za-z0-9\-_]+(\s*[A-Za-z0-9\-_])*$`)

// ServiceTypeName is a single validated service type token.
type ServiceTypeName string

func parseServiceTypeName(s string) (ServiceTypeName, error) {
	if !serviceTypeNameRe.MatchString(s) {
		return "", &ServiceTypeError{Reason: "invalid syntax"}
	}
	return ServiceTypeName(s), nil
}

// ServiceType is either a single type name or a JSON list of type names.
type ServiceType struct {
	Value ServiceTypeName
	List  []ServiceTypeName
}

// ParseServiceType accepts a bare type name or a JSON array-of-strings
// encoding of several type names. A JSON list must re-serialize to the
// exact input string, which rejects whitespace and key-order variance
// that would make two logically-different inputs hash identically.
func ParseServiceType(raw string, param Parameters) (ServiceType, error) {
	if len(raw) > param.MaxTypeSize {
		return ServiceType{}, &ServiceTypeError{Reason: "exceeds max size"}
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		if len(list) == 0 {
			return ServiceType{}, &ServiceTypeError{Reason: "empty list"}
		}
		reencoded, err := json.Marshal(list)
		if err != nil || string(reencoded) != raw {
			return ServiceType{}, &ServiceTypeError{Reason: "invalid syntax"}
		}
		names := make([]ServiceTypeName, 0, len(list))
		for _, item := range list {
			name, err := parseServiceTypeName(item)
			if err != nil {
				return ServiceType{}, err
			}
			names = append(names, name)
		}
		return ServiceType{List: names}, nil
	}

	name, err := parseServiceTypeName(raw)
	if err != nil {
		return ServiceType{}, err
	}
	return ServiceType{Value: name}, nil
}

// IsList reports whether the service type was encoded as a list.
func (t ServiceType) IsList() bool { return t.List != nil }

// ServiceEndpointValue is either a bare URI or an arbitrary JSON object.
type ServiceEndpointValue struct {
	URI  string
	JSON map[string]any
}

func parseServiceEndpointValue(raw string) (ServiceEndpointValue, error) {
	if isURI(raw) {
		return ServiceEndpointValue{URI: raw}, nil
	}
	return ServiceEndpointValue{}, &ServiceEndpointError{Reason: "invalid syntax"}
}

// ServiceEndpoint is either a single endpoint value or a list of them.
type ServiceEndpoint struct {
	Value ServiceEndpointValue
	List  []ServiceEndpointValue
}

// ParseServiceEndpoint accepts, in order of precedence: a JSON object, a
// non-empty JSON array of (string|object) entries, or a bare URI string.
func ParseServiceEndpoint(raw string, param Parameters) (ServiceEndpoint, error) {
	if len(raw) > param.MaxServiceEndpointSize {
		return ServiceEndpoint{}, &ServiceEndpointError{Reason: "exceeds max size"}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err == nil {
		return ServiceEndpoint{Value: ServiceEndpointValue{JSON: obj}}, nil
	}

	var arr []any
	if err := json.Unmarshal([]byte(raw), &arr); err == nil {
		if len(arr) == 0 {
			return ServiceEndpoint{}, &ServiceEndpointError{Reason: "empty list"}
		}
		values := make([]ServiceEndpointValue, 0, len(arr))
		for _, item := range arr {
			switch v := item.(type) {
			case string:
				val, err := parseServiceEndpointValue(v)
				if err != nil {
					return ServiceEndpoint{}, err
				}
				values = append(values, val)
			case map[string]any:
				values = append(values, ServiceEndpointValue{JSON: v})
			default:
				return ServiceEndpoint{}, &ServiceEndpointError{Reason: "invalid syntax"}
			}
		}
		return ServiceEndpoint{List: values}, nil
	}

	val, err := parseServiceEndpointValue(raw)
	if err != nil {
		return ServiceEndpoint{}, err
	}
	return ServiceEndpoint{Value: val}, nil
}

// Service is a fully parsed and validated service entry.
type Service struct {
	ID              ServiceID
	Type            ServiceType
	ServiceEndpoint ServiceEndpoint
}

// ParseService validates a wire Service against param.
func ParseService(w wireService, param Parameters) (Service, error) {
	id, err := ParseServiceID(w.ID, param.MaxIDSize)
	if err != nil {
		return Service{}, &ServiceError{ID: w.ID, Reason: "invalid id", Cause: err}
	}
	typ, err := ParseServiceType(w.Type, param)
	if err != nil {
		return Service{}, &ServiceError{ID: w.ID, Reason: "invalid type", Cause: err}
	}
	endpoint, err := ParseServiceEndpoint(w.ServiceEndpoint, param)
	if err != nil {
		return Service{}, &ServiceError{ID: w.ID, Reason: "invalid endpoint", Cause: err}
	}
	return Service{ID: id, Type: typ, ServiceEndpoint: endpoint}, nil
}
