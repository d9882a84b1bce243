package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrLogNotFound        = errors.New("log not found")
	ErrMealNotFound       = errors.New("meal not found")
	ErrCorruptDocument    = errors.New("corrupt document")
	ErrUpstream           = errors.New("upstream service unavailable")
)

// InputError describes a rejected request payload. It matches ErrInvalidInput
// under errors.Is and its message is safe to show to the caller.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return e.Reason }

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

// Invalid returns an InputError with the given reason.
func Invalid(reason string) error {
	return &InputError{Reason: reason}
}
