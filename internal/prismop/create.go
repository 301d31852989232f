package prismop

// CreateDidOperation is the structurally validated form of a CreateDid
// operation: its public key and service lists obey the cardinality and
// syntax limits, and at least one MasterKey is present.
type CreateDidOperation struct {
	PublicKeys []PublicKey
	Services   []Service
	Context    []string
}

// ParseCreateDidOperation parses and validates a wire CreateDid operation.
func ParseCreateDidOperation(w wireCreateDID, param Parameters) (CreateDidOperation, error) {
	if w.DidData == nil {
		return CreateDidOperation{}, &CreateDidOperationError{Reason: "missing did_data"}
	}

	publicKeys := make([]PublicKey, 0, len(w.DidData.PublicKeys))
	for _, pk := range w.DidData.PublicKeys {
		parsed, err := ParsePublicKey(pk, param)
		if err != nil {
			return CreateDidOperation{}, &CreateDidOperationError{Reason: "invalid public key", Cause: err}
		}
		publicKeys = append(publicKeys, parsed)
	}

	services := make([]Service, 0, len(w.DidData.Services))
	for _, s := range w.DidData.Services {
		parsed, err := ParseService(s, param)
		if err != nil {
			return CreateDidOperation{}, &CreateDidOperationError{Reason: "invalid service", Cause: err}
		}
		services = append(services, parsed)
	}

	context := w.DidData.Context

	if err := validatePublicKeyList(publicKeys, param); err != nil {
		return CreateDidOperation{}, err
	}
	if err := validateServiceList(services, param); err != nil {
		return CreateDidOperation{}, err
	}
	if !isSliceUnique(context) {
		return CreateDidOperation{}, &CreateDidOperationError{Reason: "duplicate context entries"}
	}

	return CreateDidOperation{PublicKeys: publicKeys, Services: services, Context: context}, nil
}

func validatePublicKeyList(keys []PublicKey, param Parameters) error {
	if len(keys) > param.MaxPublicKeys {
		return &CreateDidOperationError{Reason: "too many public keys"}
	}
	hasMaster := false
	for _, k := range keys {
		if k.Usage == KeyUsageMaster {
			hasMaster = true
			break
		}
	}
	if !hasMaster {
		return &CreateDidOperationError{Reason: "missing master key"}
	}
	return nil
}

func validateServiceList(services []Service, param Parameters) error {
	if len(services) > param.MaxServices {
		return &CreateDidOperationError{Reason: "too many services"}
	}
	return nil
}
