package errors

// Error is a domain error carrying a machine-readable code and optional
// metadata for message formatting.
type Error struct {
	// Code identifies the error category.
	Code Code
	// Message is the developer-facing description.
	Message string
	// Metadata holds values interpolated into localized messages.
	Metadata map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// New creates a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMetadata creates a domain error carrying formatting metadata.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}
