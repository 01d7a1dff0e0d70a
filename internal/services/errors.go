package services

import (
	"errors"
	"strings"
)

var (
	ErrAlreadyRegistered    = errors.New("mobile number is already registered")
	ErrUsernameTaken        = errors.New("username is already registered")
	ErrCaptchaMismatch      = errors.New("image captcha is incorrect or expired")
	ErrRateLimited          = errors.New("sms code requested too often, try again later")
	ErrCodeMissingOrExpired = errors.New("sms code is expired or was not requested")
	ErrCodeMismatch         = errors.New("sms code is incorrect")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrAccountNotFound      = errors.New("account does not exist")
	ErrBadPassword          = errors.New("wrong password")
	ErrAccountDisabled      = errors.New("account is disabled")
	ErrSmsDelivery          = errors.New("sms delivery failed")
	ErrNotFound             = errors.New("not found")
	ErrDuplicate            = errors.New("already exists")
	ErrNoChange             = errors.New("nothing changed")
	ErrSessionExpired       = errors.New("session expired or invalid")
	ErrForbidden            = errors.New("permission denied")
)

// FieldError is one failed check, tagged with the input field it belongs to.
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string { return e.Err.Error() }
func (e FieldError) Unwrap() error { return e.Err }

func invalid(field, msg string) FieldError {
	return FieldError{Field: field, Err: errors.New(msg)}
}

// ValidationErrors keeps every failed check in the order they were found.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, "/")
}

func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(v))
	for _, fe := range v {
		errs = append(errs, fe)
	}
	return errs
}

// Fields returns the field names in order, mostly for tests and logs.
func (v ValidationErrors) Fields() []string {
	out := make([]string, 0, len(v))
	for _, fe := range v {
		out = append(out, fe.Field)
	}
	return out
}

// orNil turns an empty collection into a nil error.
func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// IsValidation reports whether err came from input checks rather than a collaborator.
func IsValidation(err error) bool {
	var v ValidationErrors
	if errors.As(err, &v) {
		return true
	}
	var fe FieldError
	return errors.As(err, &fe)
}
