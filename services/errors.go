package services

import "fmt"

// ErrorKind classifies engine failures so the API layer can map them to a
// fixed status code.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindInvalidAmount
	KindInvalidInput
	KindPaymentRejected
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindInvalidAmount:
		return "InvalidAmount"
	case KindInvalidInput:
		return "InvalidInput"
	case KindPaymentRejected:
		return "PaymentRejected"
	default:
		return "Unknown"
	}
}

// EngineError is a business-rule failure. Message is safe to show to clients.
type EngineError struct {
	Kind    ErrorKind
	Message string
}

func (e *EngineError) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

// Is matches any EngineError of the same kind, so errors.Is(err, ErrNotFound) works.
func (e *EngineError) Is(target error) bool {
	t, ok := target.(*EngineError)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotFound        = &EngineError{Kind: KindNotFound}
	ErrInvalidAmount   = &EngineError{Kind: KindInvalidAmount}
	ErrInvalidInput    = &EngineError{Kind: KindInvalidInput}
	ErrPaymentRejected = &EngineError{Kind: KindPaymentRejected}
)

func newError(kind ErrorKind, format string, args ...any) *EngineError {
	return &EngineError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
