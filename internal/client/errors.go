package client

import (
	"errors"
)

// GenericFailureMessage is shown for every submit failure except a validation rejection.
const GenericFailureMessage = "Analysis failed. Please try again."

var (
	// ErrFetchHistory covers every history failure: transport, status and body shape.
	ErrFetchHistory = errors.New("failed to fetch history")
	// ErrAnalysisFailed is a non-400 failure response or a malformed success body.
	ErrAnalysisFailed = errors.New("analysis failed")
	// ErrTransport means the server could not be reached.
	ErrTransport = errors.New("server unreachable")
)

// SubmitError carries a validation message, from local checks or from a 400 response,
// that is safe to show verbatim.
type SubmitError struct {
	Message string
}

func (e *SubmitError) Error() string {
	return e.Message
}

// UserMessage returns the text to show for a Submit error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var se *SubmitError
	if errors.As(err, &se) {
		return se.Message
	}
	return GenericFailureMessage
}
