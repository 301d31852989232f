package prismop

import (
	"errors"
	"fmt"
)

var (
	errMissingKeyData   = errors.New("missing key data")
	errUnsupportedCurve = errors.New("unsupported curve")
	errOperationMissing = errors.New("prismop: signed operation is missing its inner operation")
	errSignatureMissing = errors.New("prismop: signed operation is missing its signature")
)

// InvalidInputSizeError reports a cardinality or length limit violation.
type InvalidInputSizeError struct {
	Field  string
	Limit  int
	Actual int
}

func (e *InvalidInputSizeError) Error() string {
	return fmt.Sprintf("%s exceeds limit: limit=%d actual=%d", e.Field, e.Limit, e.Actual)
}

// PublicKeyIDError reports why a PublicKeyId string failed to parse.
type PublicKeyIDError struct {
	Reason string
	ID     string
}

func (e *PublicKeyIDError) Error() string {
	return fmt.Sprintf("invalid public key id %q: %s", e.ID, e.Reason)
}

// ServiceIDError reports why a ServiceId string failed to parse.
type ServiceIDError struct {
	Reason string
	ID     string
}

func (e *ServiceIDError) Error() string {
	return fmt.Sprintf("invalid service id %q: %s", e.ID, e.Reason)
}

// ServiceTypeError reports why a service type string failed to parse.
type ServiceTypeError struct {
	Reason string
}

func (e *ServiceTypeError) Error() string {
	return fmt.Sprintf("invalid service type: %s", e.Reason)
}

// ServiceEndpointError reports why a service endpoint string failed to parse.
type ServiceEndpointError struct {
	Reason string
}

func (e *ServiceEndpointError) Error() string {
	return fmt.Sprintf("invalid service endpoint: %s", e.Reason)
}

// PublicKeyError reports why a PublicKey sub-message failed to parse.
type PublicKeyError struct {
	ID     string
	Reason string
	Cause  error
}

func (e *PublicKeyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("public key %q: %s: %v", e.ID, e.Reason, e.Cause)
	}
	return fmt.Sprintf("public key %q: %s", e.ID, e.Reason)
}

func (e *PublicKeyError) Unwrap() error { return e.Cause }

// ServiceError reports why a Service sub-message failed to parse.
type ServiceError struct {
	ID     string
	Reason string
	Cause  error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("service %q: %s: %v", e.ID, e.Reason, e.Cause)
	}
	return fmt.Sprintf("service %q: %s", e.ID, e.Reason)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

// CreateDidOperationError reports why a CreateDid operation failed to parse.
type CreateDidOperationError struct {
	Reason string
	Cause  error
}

func (e *CreateDidOperationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("create did operation: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("create did operation: %s", e.Reason)
}

func (e *CreateDidOperationError) Unwrap() error { return e.Cause }

// UpdateDidOperationError reports why an UpdateDid operation failed to parse.
type UpdateDidOperationError struct {
	Reason string
	Cause  error
}

func (e *UpdateDidOperationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("update did operation: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("update did operation: %s", e.Reason)
}

func (e *UpdateDidOperationError) Unwrap() error { return e.Cause }

// DeactivateDidOperationError reports why a DeactivateDid operation failed
// to parse.
type DeactivateDidOperationError struct {
	Reason string
	Cause  error
}

func (e *DeactivateDidOperationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("deactivate did operation: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("deactivate did operation: %s", e.Reason)
}

func (e *DeactivateDidOperationError) Unwrap() error { return e.Cause }

// StorageOperationError reports why a storage-entry operation
// (Create/Update/DeactivateStorageEntry) failed to parse.
type StorageOperationError struct {
	Kind   string
	Reason string
	Cause  error
}

func (e *StorageOperationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s storage operation: %s: %v", e.Kind, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s storage operation: %s", e.Kind, e.Reason)
}

func (e *StorageOperationError) Unwrap() error { return e.Cause }
