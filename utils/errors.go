package utils

import "fmt"

// UserError is a handler failure whose message is safe to show to the caller.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

func UserErrorf(format string, args ...any) *UserError {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}
