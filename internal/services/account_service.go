package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"newsportal/internal/models"
	"newsportal/internal/repositories"
	"newsportal/internal/utils"
)

var mobileRe = regexp.MustCompile(`^1[3-9]\d{9}$`)

// AccountStore is the slice of the user repository the account flows need.
type AccountStore interface {
	AccountCounter
	Create(ctx context.Context, u *models.User) error
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id int) error
}

// SmsCodeChecker is satisfied by VerificationService.
type SmsCodeChecker interface {
	CheckSmsCode(ctx context.Context, phone, submitted string) error
}

type AccountOptions struct {
	SmsCodeDigits int
	RememberTTL   time.Duration
}

// AuthResult is what a successful Authenticate hands back to the caller,
// which is responsible for starting the session.
type AuthResult struct {
	User     *models.User
	Remember bool
	// 0 — сессия до закрытия браузера
	TTL time.Duration
}

type Registration struct {
	User    *models.User
	Session *Session
}

type AccountService interface {
	CompleteRegistration(ctx context.Context, req models.RegisterRequest) (*Registration, error)
	Authenticate(ctx context.Context, identifier, password string, remember bool) (*AuthResult, error)
}

type accountService struct {
	accounts AccountStore
	codes    SmsCodeChecker
	auth     AuthService
	sessions SessionService
	email    EmailService // может быть nil
	opts     AccountOptions
}

func NewAccountService(
	accounts AccountStore,
	codes SmsCodeChecker,
	auth AuthService,
	sessions SessionService,
	email EmailService,
	opts AccountOptions,
) AccountService {
	if opts.SmsCodeDigits <= 0 {
		opts.SmsCodeDigits = 6
	}
	if opts.RememberTTL <= 0 {
		opts.RememberTTL = 5 * 24 * time.Hour
	}
	return &accountService{
		accounts: accounts,
		codes:    codes,
		auth:     auth,
		sessions: sessions,
		email:    email,
		opts:     opts,
	}
}

func lengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CompleteRegistration runs every field check, collecting all failures;
// the SMS code is only consulted once everything else is valid.
func (s *accountService) CompleteRegistration(ctx context.Context, req models.RegisterRequest) (*Registration, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Mobile = strings.TrimSpace(req.Mobile)
	req.SmsCode = strings.TrimSpace(req.SmsCode)
	req.Email = strings.TrimSpace(req.Email)

	var errs ValidationErrors
	usernameOK := lengthBetween(req.Username, 5, 20)
	if !usernameOK {
		errs = append(errs, invalid("username", "username must be 5-20 characters"))
	}
	if !lengthBetween(req.Password, 6, 20) {
		errs = append(errs, invalid("password", "password must be 6-20 characters"))
	}
	if !lengthBetween(req.PasswordRepeat, 6, 20) {
		errs = append(errs, invalid("password_repeat", "repeated password must be 6-20 characters"))
	}
	mobileOK := len(req.Mobile) == 11
	if !mobileOK {
		errs = append(errs, invalid("mobile", "mobile number must be 11 digits"))
	}
	if len(req.SmsCode) != s.opts.SmsCodeDigits || !isDigits(req.SmsCode) {
		errs = append(errs, invalid("sms_code", fmt.Sprintf("sms code must be %d digits", s.opts.SmsCodeDigits)))
	}

	if mobileOK {
		if !mobileRe.MatchString(req.Mobile) {
			errs = append(errs, invalid("mobile", "mobile number format is incorrect"))
		} else {
			n, err := s.accounts.CountByMobile(ctx, req.Mobile)
			if err != nil {
				return nil, fmt.Errorf("count by mobile: %w", err)
			}
			if n > 0 {
				errs = append(errs, FieldError{Field: "mobile", Err: ErrAlreadyRegistered})
			}
		}
	}
	// логин принимает имя или телефон, поэтому имя не может выглядеть как номер
	if usernameOK && mobileRe.MatchString(req.Username) {
		usernameOK = false
		errs = append(errs, invalid("username", "username must not be a mobile number"))
	}
	if usernameOK {
		n, err := s.accounts.CountByUsername(ctx, req.Username)
		if err != nil {
			return nil, fmt.Errorf("count by username: %w", err)
		}
		if n > 0 {
			errs = append(errs, FieldError{Field: "username", Err: ErrUsernameTaken})
		}
	}
	if req.Password != req.PasswordRepeat {
		errs = append(errs, FieldError{Field: "password_repeat", Err: ErrPasswordMismatch})
	}
	if len(errs) > 0 {
		log.Printf("[account][register] rejected mobile=%s fields=%v", utils.MaskPhone(req.Mobile), errs.Fields())
		return nil, errs
	}

	if err := s.codes.CheckSmsCode(ctx, req.Mobile, req.SmsCode); err != nil {
		if errors.Is(err, ErrCodeMissingOrExpired) || errors.Is(err, ErrCodeMismatch) {
			return nil, ValidationErrors{{Field: "sms_code", Err: err}}
		}
		return nil, err
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     req.Username,
		Mobile:       req.Mobile,
		Email:        req.Email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.accounts.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, ValidationErrors{{Field: "mobile", Err: ErrAlreadyRegistered}}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	log.Printf("[account][register] created user_id=%d mobile=%s", user.ID, utils.MaskPhone(user.Mobile))

	if user.Email != "" && s.email != nil {
		if err := s.email.SendWelcomeEmail(user.Email, user.Username); err != nil {
			log.Printf("[account][register] warn: welcome email to user_id=%d failed: %v", user.ID, err)
		}
	}

	sess, err := s.sessions.Start(ctx, user.ID, false)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return &Registration{User: user, Session: sess}, nil
}

func (s *accountService) Authenticate(ctx context.Context, identifier, password string, remember bool) (*AuthResult, error) {
	identifier = strings.TrimSpace(identifier)

	var errs ValidationErrors
	if !mobileRe.MatchString(identifier) && !lengthBetween(identifier, 5, 20) {
		errs = append(errs, invalid("user_account", "account must be a mobile number or a 5-20 character username"))
	}
	if !lengthBetween(password, 6, 20) {
		errs = append(errs, invalid("password", "password must be 6-20 characters"))
	}
	if len(errs) > 0 {
		return nil, errs
	}

	user, err := s.accounts.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	if user == nil {
		log.Printf("[account][login] no account for identifier=%q", identifier)
		return nil, ErrAccountNotFound
	}
	if !s.auth.CheckPassword(user.PasswordHash, password) {
		log.Printf("[account][login] bad password user_id=%d", user.ID)
		return nil, ErrBadPassword
	}
	if !user.IsActive {
		log.Printf("[account][login] inactive user_id=%d", user.ID)
		return nil, ErrAccountDisabled
	}

	if err := s.accounts.TouchLastLogin(ctx, user.ID); err != nil {
		log.Printf("[account][login] warn: last_login update failed user_id=%d: %v", user.ID, err)
	}

	res := &AuthResult{User: user, Remember: remember}
	if remember {
		res.TTL = s.opts.RememberTTL
	}
	log.Printf("[account][login] success user_id=%d remember=%v", user.ID, remember)
	return res, nil
}
