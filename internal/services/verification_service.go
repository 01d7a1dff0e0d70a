package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"newsportal/internal/cache"
	"newsportal/internal/captcha"
	"newsportal/internal/models"
	"newsportal/internal/utils"
)

const (
	imageCodePrefix = "img_"
	smsCodePrefix   = "sms_"
	smsFlagPrefix   = "sms_flag_"
	smsFlagValue    = "1"
)

// Мобильный номер в форме запроса SMS.
var smsMobileRe = regexp.MustCompile(`^1[345789]\d{9}$`)

// SmsSender delivers a verification code; implemented by utils.Client.
type SmsSender interface {
	SendCode(ctx context.Context, phone, code string, templateID int) error
}

// AccountCounter answers the existence checks of the registration flow.
type AccountCounter interface {
	CountByUsername(ctx context.Context, username string) (int, error)
	CountByMobile(ctx context.Context, mobile string) (int, error)
}

type VerificationOptions struct {
	ImageCodeTTL    time.Duration
	SmsCodeDigits   int
	SmsCodeTTL      time.Duration
	SmsSendInterval time.Duration
	SmsTemplateID   int
}

func (o *VerificationOptions) withDefaults() {
	if o.ImageCodeTTL <= 0 {
		o.ImageCodeTTL = 300 * time.Second
	}
	if o.SmsCodeDigits <= 0 {
		o.SmsCodeDigits = 6
	}
	if o.SmsCodeTTL <= 0 {
		o.SmsCodeTTL = 300 * time.Second
	}
	if o.SmsSendInterval <= 0 {
		o.SmsSendInterval = 60 * time.Second
	}
	if o.SmsSendInterval > o.SmsCodeTTL {
		o.SmsSendInterval = o.SmsCodeTTL
	}
	if o.SmsTemplateID <= 0 {
		o.SmsTemplateID = 1
	}
}

type VerificationService struct {
	store    cache.Store
	captcha  captcha.Generator
	sms      SmsSender // может быть nil
	accounts AccountCounter
	opts     VerificationOptions

	newCode func(n int) (string, error)
}

func NewVerificationService(
	store cache.Store,
	gen captcha.Generator,
	sms SmsSender,
	accounts AccountCounter,
	opts VerificationOptions,
) *VerificationService {
	opts.withDefaults()
	return &VerificationService{
		store:    store,
		captcha:  gen,
		sms:      sms,
		accounts: accounts,
		opts:     opts,
		newCode:  utils.RandomDigits,
	}
}

func (s *VerificationService) Options() VerificationOptions { return s.opts }

// IssueImageCaptcha stores a fresh answer under challengeID (replacing any
// previous one) and returns the rendered image.
func (s *VerificationService) IssueImageCaptcha(ctx context.Context, challengeID string) ([]byte, error) {
	answer, img, err := s.captcha.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate captcha: %w", err)
	}
	if err := s.store.Set(ctx, imageCodePrefix+challengeID, answer, s.opts.ImageCodeTTL); err != nil {
		return nil, err
	}
	log.Printf("[verify][image] issued id=%s", challengeID)
	return img, nil
}

// ValidateImageCaptcha consumes the challenge and checks that phone may
// request an SMS code. Checks run in order and the first failure wins.
func (s *VerificationService) ValidateImageCaptcha(ctx context.Context, challengeID, text, phone string) error {
	n, err := s.accounts.CountByMobile(ctx, phone)
	if err != nil {
		return fmt.Errorf("count by mobile: %w", err)
	}
	if n > 0 {
		return ErrAlreadyRegistered
	}

	// GETDEL: попытка сжигает капчу независимо от результата
	answer, err := s.store.Take(ctx, imageCodePrefix+challengeID)
	if errors.Is(err, cache.ErrMiss) {
		log.Printf("[verify][image] id=%s missing or expired", challengeID)
		return ErrCaptchaMismatch
	}
	if err != nil {
		return err
	}
	if !strings.EqualFold(strings.TrimSpace(text), answer) {
		log.Printf("[verify][image] id=%s mismatch", challengeID)
		return ErrCaptchaMismatch
	}

	limited, err := s.store.Exists(ctx, smsFlagPrefix+phone)
	if err != nil {
		return err
	}
	if limited {
		return ErrRateLimited
	}
	return nil
}

// IssueSmsCode writes the send marker and the code in one atomic batch, then
// hands the code to the SMS provider. A failed delivery keeps the stored code.
func (s *VerificationService) IssueSmsCode(ctx context.Context, phone string) error {
	code, err := s.newCode(s.opts.SmsCodeDigits)
	if err != nil {
		return fmt.Errorf("generate sms code: %w", err)
	}

	flagKey := smsFlagPrefix + phone
	ok, err := s.store.SetBatchIfAbsent(ctx, flagKey,
		cache.Entry{Key: flagKey, Value: smsFlagValue, TTL: s.opts.SmsSendInterval},
		cache.Entry{Key: smsCodePrefix + phone, Value: code, TTL: s.opts.SmsCodeTTL},
	)
	if err != nil {
		return err
	}
	if !ok {
		log.Printf("[verify][sms] throttled phone=%s", utils.MaskPhone(phone))
		return ErrRateLimited
	}

	if s.sms != nil {
		if err := s.sms.SendCode(ctx, phone, code, s.opts.SmsTemplateID); err != nil {
			log.Printf("[verify][sms] delivery failed phone=%s: %v", utils.MaskPhone(phone), err)
			return fmt.Errorf("%w: %v", ErrSmsDelivery, err)
		}
	}
	log.Printf("[verify][sms] issued phone=%s", utils.MaskPhone(phone))
	return nil
}

// SendSmsCode is the HTTP-facing flow: form checks, captcha gate, then issue.
func (s *VerificationService) SendSmsCode(ctx context.Context, req models.SmsCodeRequest) error {
	if err := validateSmsCodeRequest(req); err != nil {
		return err
	}
	if err := s.ValidateImageCaptcha(ctx, req.ImageCodeID, req.Text, req.Mobile); err != nil {
		return err
	}
	return s.IssueSmsCode(ctx, req.Mobile)
}

// CheckSmsCode compares submitted against the live code for phone without consuming it.
func (s *VerificationService) CheckSmsCode(ctx context.Context, phone, submitted string) error {
	code, err := s.store.Get(ctx, smsCodePrefix+phone)
	if errors.Is(err, cache.ErrMiss) {
		return ErrCodeMissingOrExpired
	}
	if err != nil {
		return err
	}
	if code != strings.TrimSpace(submitted) {
		return ErrCodeMismatch
	}
	return nil
}

func (s *VerificationService) UsernameCount(ctx context.Context, username string) (int, error) {
	return s.accounts.CountByUsername(ctx, username)
}

func (s *VerificationService) MobileCount(ctx context.Context, mobile string) (int, error) {
	return s.accounts.CountByMobile(ctx, mobile)
}

func validateSmsCodeRequest(req models.SmsCodeRequest) error {
	var errs ValidationErrors
	switch {
	case len(req.Mobile) != 11:
		errs = append(errs, invalid("mobile", "mobile number must be 11 digits"))
	case !smsMobileRe.MatchString(req.Mobile):
		errs = append(errs, invalid("mobile", "mobile number format is incorrect"))
	}
	if len(req.Text) != 4 {
		errs = append(errs, invalid("text", "image captcha must be 4 characters"))
	}
	if _, err := uuid.Parse(req.ImageCodeID); err != nil {
		errs = append(errs, invalid("image_code_id", "image captcha id is invalid"))
	}
	return errs.orNil()
}
