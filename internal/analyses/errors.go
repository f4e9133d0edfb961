package analyses

import "errors"

// ErrNotFound is returned when no analysis has the requested id.
var ErrNotFound = errors.New("analysis not found")

// Kind classifies a pipeline failure. The HTTP boundary maps each kind to a status once.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindIntegration Kind = "integration"
	KindTimeout     Kind = "timeout"
	KindStorage     Kind = "storage"
)

// Error is a classified pipeline failure. For KindValidation, Message is safe to show
// to the client; for every other kind it is internal.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
