package domain

import "errors"

// Error taxonomy shared by the debate core and its transports
var (
	// ErrInvalidInput is returned for rejected debate requests (empty topic, bad turn count)
	ErrInvalidInput = errors.New("invalid input")

	// ErrModelInvocation wraps every failure reported by a model provider
	ErrModelInvocation = errors.New("model invocation failed")

	// ErrInternalFault marks an unexpected fault inside an orchestration run
	ErrInternalFault = errors.New("internal fault")

	// ErrSessionActive is returned when a debate is already running for a session ID
	ErrSessionActive = errors.New("debate session already active")

	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("not found")
)

// InputError is a validation failure with a message fit for the caller
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// Unwrap makes errors.Is(err, ErrInvalidInput) hold
func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// InvalidInput creates an InputError
func InvalidInput(message string) error {
	return &InputError{Message: message}
}
