package errors

import stderr "errors"

// New returns an error that formats as the given text.
// Each call to New returns a distinct error value even if the text is identical.
func New(msg string) error {
	return stderr.New(msg)
}

var (
	// NoProjectArgumentError reports that a command was sent without a project argument.
	NoProjectArgumentError = New("project argument is required")
	// UnknownCommandError reports that a command name is not handled by this service.
	UnknownCommandError = New("unknown command")
)

// IsBadRequest reports whether the error is a bad request from the caller.
func IsBadRequest(e error) bool {
	return stderr.Is(e, NoProjectArgumentError) || stderr.Is(e, UnknownCommandError)
}
