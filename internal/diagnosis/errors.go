package diagnosis

import "errors"

// ErrInvalidQuery marks validation failures so the service boundary can map
// them to a 400 without inspecting message text.
var ErrInvalidQuery = errors.New("invalid_query")

type validationError struct {
	msg string
}

func (e validationError) Error() string {
	return e.msg
}

func (e validationError) Unwrap() error {
	return ErrInvalidQuery
}

func newValidationError(msg string) error {
	return validationError{msg: msg}
}
