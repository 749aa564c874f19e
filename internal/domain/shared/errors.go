package shared

// ErrorKind classifies domain errors so callers can map them to a
// transport-level response or decide whether a retry makes sense.
type ErrorKind string

const (
	KindValidation    ErrorKind = "VALIDATION"    // malformed input (bad code format, negative amount, ...)
	KindState         ErrorKind = "STATE"         // operation not permitted in the current lifecycle state
	KindConsistency   ErrorKind = "CONSISTENCY"   // accounting invariant violated (unbalanced entry, ...)
	KindReference     ErrorKind = "REFERENCE"     // referenced account/journal/period/counterparty missing
	KindConcurrency   ErrorKind = "CONCURRENCY"   // detected race (duplicate number, stale equilibrium)
	KindConfiguration ErrorKind = "CONFIGURATION" // fatal setup problem (chart of accounts not seeded)
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error
func NewValidationError(code, message string) *DomainError {
	return NewDomainError(KindValidation, code, message)
}

// NewStateError creates a lifecycle-state error
func NewStateError(code, message string) *DomainError {
	return NewDomainError(KindState, code, message)
}

// NewConsistencyError creates a consistency error
func NewConsistencyError(code, message string) *DomainError {
	return NewDomainError(KindConsistency, code, message)
}

// NewReferenceError creates a missing-reference error
func NewReferenceError(code, message string) *DomainError {
	return NewDomainError(KindReference, code, message)
}

// IsKind reports whether err is a DomainError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	de, ok := err.(*DomainError)
	return ok && de.Kind == kind
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(KindReference, "NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError(KindValidation, "ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError(KindValidation, "INVALID_INPUT", "Invalid input provided")
	ErrInvalidState        = NewDomainError(KindState, "INVALID_STATE", "Operation not allowed in current state")
	ErrConcurrencyConflict = NewDomainError(KindConcurrency, "CONCURRENCY_CONFLICT", "Resource was modified by another process")
)
