package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"newsportal/internal/cache"
	"newsportal/internal/utils"
)

const sessionPrefix = "session_"

type SessionClaims struct {
	SessionID string `json:"sid"`
	UserID    int    `json:"user_id"`
	Remember  bool   `json:"remember"`
	jwt.RegisteredClaims
}

type Session struct {
	ID        string
	UserID    int
	Remember  bool
	ExpiresAt time.Time
	// подписанное значение cookie
	Token string
}

// CookieMaxAge is 0 for browser-close sessions, the remaining lifetime otherwise.
func (s *Session) CookieMaxAge() int {
	if !s.Remember {
		return 0
	}
	return int(time.Until(s.ExpiresAt).Seconds())
}

type SessionOptions struct {
	Secret      []byte
	RememberTTL time.Duration
	BrowserTTL  time.Duration
}

type SessionService interface {
	Start(ctx context.Context, userID int, remember bool) (*Session, error)
	Resolve(ctx context.Context, token string) (*Session, error)
	End(ctx context.Context, token string) error
}

type sessionService struct {
	store cache.Store
	opts  SessionOptions
}

func NewSessionService(store cache.Store, opts SessionOptions) SessionService {
	if opts.RememberTTL <= 0 {
		opts.RememberTTL = 5 * 24 * time.Hour
	}
	if opts.BrowserTTL <= 0 {
		opts.BrowserTTL = 24 * time.Hour
	}
	return &sessionService{store: store, opts: opts}
}

func (s *sessionService) Start(ctx context.Context, userID int, remember bool) (*Session, error) {
	sid, err := utils.NewSessionID(32)
	if err != nil {
		return nil, fmt.Errorf("new session id: %w", err)
	}
	ttl := s.opts.BrowserTTL
	if remember {
		ttl = s.opts.RememberTTL
	}
	exp := time.Now().Add(ttl)

	claims := &SessionClaims{
		SessionID: sid,
		UserID:    userID,
		Remember:  remember,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.opts.Secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	if err := s.store.Set(ctx, sessionPrefix+sid, strconv.Itoa(userID), ttl); err != nil {
		return nil, err
	}
	log.Printf("[session][start] user_id=%d remember=%v ttl=%s", userID, remember, ttl)
	return &Session{ID: sid, UserID: userID, Remember: remember, ExpiresAt: exp, Token: token}, nil
}

func (s *sessionService) parse(token string, validate bool) (*SessionClaims, error) {
	claims := &SessionClaims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if !validate {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.opts.Secret, nil
	}, opts...)
	if err != nil || !t.Valid {
		return nil, ErrSessionExpired
	}
	if claims.SessionID == "" {
		return nil, ErrSessionExpired
	}
	return claims, nil
}

func (s *sessionService) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionExpired
	}
	claims, err := s.parse(token, true)
	if err != nil {
		return nil, err
	}
	v, err := s.store.Get(ctx, sessionPrefix+claims.SessionID)
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, err
	}
	if v != strconv.Itoa(claims.UserID) {
		return nil, ErrSessionExpired
	}
	sess := &Session{
		ID:       claims.SessionID,
		UserID:   claims.UserID,
		Remember: claims.Remember,
		Token:    token,
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

// End revokes the session; an unknown or already expired token is not an error.
func (s *sessionService) End(ctx context.Context, token string) error {
	claims, err := s.parse(token, false)
	if err != nil {
		return nil
	}
	if err := s.store.Delete(ctx, sessionPrefix+claims.SessionID); err != nil {
		return err
	}
	log.Printf("[session][end] user_id=%d", claims.UserID)
	return nil
}
