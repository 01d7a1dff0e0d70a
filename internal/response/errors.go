package response

import (
	"errors"

	"newsportal/internal/repositories"
	"newsportal/internal/services"
)

type rule struct {
	code    Code
	targets []error
}

// порядок важен: первое совпадение выигрывает
var rules = []rule{
	{SESSIONERR, []error{services.ErrSessionExpired}},
	{ROLEERR, []error{services.ErrForbidden}},
	{REQERR, []error{services.ErrRateLimited}},
	{DATAEXIST, []error{services.ErrAlreadyRegistered, services.ErrUsernameTaken, services.ErrDuplicate, repositories.ErrConflict}},
	{SMSERROR, []error{services.ErrCodeMissingOrExpired, services.ErrCodeMismatch}},
	{DATAERR, []error{services.ErrCaptchaMismatch, services.ErrPasswordMismatch}},
	{USERERR, []error{services.ErrAccountNotFound}},
	{PWDERR, []error{services.ErrBadPassword}},
	{LOGINERR, []error{services.ErrAccountDisabled}},
	{NODATA, []error{services.ErrNotFound, repositories.ErrNotFound}},
	{PARAMERR, []error{services.ErrNoChange}},
}

// FromError maps a service error to an errno and a client-facing message.
// known reports whether err was classified; unknown errors get a generic message.
func FromError(err error) (code Code, msg string, known bool) {
	if err == nil {
		return OK, OK.Message(), true
	}
	if errors.Is(err, services.ErrSmsDelivery) {
		return SMSFAIL, services.ErrSmsDelivery.Error(), true
	}
	for _, r := range rules {
		for _, target := range r.targets {
			if errors.Is(err, target) {
				return r.code, err.Error(), true
			}
		}
	}
	if services.IsValidation(err) {
		return PARAMERR, err.Error(), true
	}
	return UNKOWNERR, UNKOWNERR.Message(), false
}
