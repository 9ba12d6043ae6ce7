package errors

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// New returns an error with the given message.
func New(msg string) error {
	return pkgerrors.New(msg)
}

// WithContext annotates `err` with a short description of what was being
// done when it occurred. The result prints as "context: err".
func WithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return pkgerrors.WithMessage(err, context)
}

// RootCause returns the innermost error wrapped by WithContext.
func RootCause(err error) error {
	return pkgerrors.Cause(err)
}

// FriendlyError is an error whose message is suitable for showing directly
// to the user, without any of the context that was added while it
// propagated.
type FriendlyError struct {
	Message string
}

// NewFriendlyError creates a FriendlyError from a format string.
func NewFriendlyError(format string, args ...interface{}) error {
	return FriendlyError{fmt.Sprintf(format, args...)}
}

func (err FriendlyError) Error() string {
	return err.Message
}

// FriendlyMessage returns the message to show to the user.
func (err FriendlyError) FriendlyMessage() string {
	return err.Message
}

type friendlyMessager interface {
	FriendlyMessage() string
}

// GetPrintableMessage returns the message that should be shown to the user
// for `err`. If the root cause of the error has a friendly message, only
// that message is shown. Otherwise, the full error chain is shown.
func GetPrintableMessage(err error) string {
	if friendly, ok := RootCause(err).(friendlyMessager); ok {
		return friendly.FriendlyMessage()
	}
	return err.Error()
}
