package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnknownReference    = NewDomainError("UNKNOWN_REFERENCE", "Referenced item, location or order does not exist")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrOverReceipt         = NewDomainError("OVER_RECEIPT", "Received quantity would exceed ordered quantity")
	ErrInvalidTransition   = NewDomainError("INVALID_TRANSITION", "Order state transition not allowed")
	ErrEndpointUnavailable = NewDomainError("ENDPOINT_UNAVAILABLE", "External endpoint is unreachable")
)
