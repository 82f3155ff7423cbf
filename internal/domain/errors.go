package domain

import "errors"

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrNotFound          = errors.New("customer not found")
	ErrDebtNotFound      = errors.New("debt not found")
	ErrDuplicateDocument = errors.New("a customer with this document already exists")

	ErrInvalidName       = errors.New("name must not be empty")
	ErrInvalidPhone      = errors.New("phone must not be empty")
	ErrInvalidDocument   = errors.New("document must not be empty")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInvalidDueDate    = errors.New("due date must not be empty")
	ErrInvalidCustomerID = errors.New("customer id must not be empty")
	ErrInvalidDebtID     = errors.New("debt id must not be empty")

	ErrQueueEmpty       = errors.New("charge queue is empty")
	ErrQueueUnavailable = errors.New("charge queue is unavailable")

	ErrNotConnected  = errors.New("whatsapp session is not connected")
	ErrSessionFailed = errors.New("whatsapp session failed: reconnect attempts exhausted")
)
