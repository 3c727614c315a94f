package haggis

// ErrorType represents error categories for operations around the parser.
// Parsing itself never fails; these cover template construction, decoding and
// template loading.
type ErrorType string

const (
	ErrorTypeInvalidTemplate ErrorType = "invalid_template"
	ErrorTypeUnsupportedType ErrorType = "unsupported_type"
	ErrorTypeDecode          ErrorType = "decode"
	ErrorTypeIO              ErrorType = "io"
	ErrorTypeFormat          ErrorType = "format"
)

// Error is the error type returned by haggis and its companion packages
type Error struct {
	Type    ErrorType
	Message string
	Field   string // Template field involved, if any
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given type and message
func NewError(typ ErrorType, message string) *Error {
	return &Error{Type: typ, Message: message}
}

// WithField records the template field involved
func (e *Error) WithField(name string) *Error {
	e.Field = name
	return e
}

// WithCause adds an underlying cause to the error
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}
