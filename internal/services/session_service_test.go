package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSessionStartResolveEnd(t *testing.T) {
	m, store := newStoreForTest(t)
	svc := NewSessionService(store, SessionOptions{Secret: []byte("k"), RememberTTL: 120 * time.Hour, BrowserTTL: 24 * time.Hour})
	ctx := context.Background()

	sess, err := svc.Start(ctx, 7, true)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := m.TTL("session_" + sess.ID); got != 120*time.Hour {
		t.Fatalf("remembered ttl = %s", got)
	}
	if age := sess.CookieMaxAge(); age < int((119 * time.Hour).Seconds()) {
		t.Fatalf("cookie max age = %d", age)
	}

	got, err := svc.Resolve(ctx, sess.Token)
	if err != nil || got.UserID != 7 || !got.Remember {
		t.Fatalf("resolve = %+v, %v", got, err)
	}

	if err := svc.End(ctx, sess.Token); err != nil {
		t.Fatalf("end: %v", err)
	}
	if _, err := svc.Resolve(ctx, sess.Token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("resolve after end: %v", err)
	}
}

func TestSessionBrowserScoped(t *testing.T) {
	m, store := newStoreForTest(t)
	svc := NewSessionService(store, SessionOptions{Secret: []byte("k"), BrowserTTL: time.Hour})
	ctx := context.Background()

	sess, err := svc.Start(ctx, 3, false)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if sess.CookieMaxAge() != 0 {
		t.Fatalf("browser session cookie must have no max age, got %d", sess.CookieMaxAge())
	}
	if got := m.TTL("session_" + sess.ID); got != time.Hour {
		t.Fatalf("server ttl = %s", got)
	}
	m.FastForward(time.Hour + time.Second)
	if _, err := svc.Resolve(ctx, sess.Token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestSessionRejectsForeignTokens(t *testing.T) {
	_, store := newStoreForTest(t)
	svc := NewSessionService(store, SessionOptions{Secret: []byte("k")})
	other := NewSessionService(store, SessionOptions{Secret: []byte("other")})
	ctx := context.Background()

	sess, _ := other.Start(ctx, 1, false)
	if _, err := svc.Resolve(ctx, sess.Token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("foreign signature accepted: %v", err)
	}
	if _, err := svc.Resolve(ctx, "garbage"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("garbage accepted: %v", err)
	}
	if _, err := svc.Resolve(ctx, ""); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("empty accepted: %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &SessionClaims{SessionID: "x", UserID: 1})
	raw, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := svc.Resolve(ctx, raw); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("alg none accepted: %v", err)
	}
}

func TestSessionEndIgnoresGarbage(t *testing.T) {
	_, store := newStoreForTest(t)
	svc := NewSessionService(store, SessionOptions{Secret: []byte("k")})
	if err := svc.End(context.Background(), "not-a-token"); err != nil {
		t.Fatalf("end garbage: %v", err)
	}
}

func TestAuthServiceHashAndCheck(t *testing.T) {
	a := NewAuthServiceWithCost(4)
	h, err := a.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !a.CheckPassword(h, "secret123") || a.CheckPassword(h, "secret124") || a.CheckPassword("", "x") {
		t.Fatal("unexpected check results")
	}
	if _, err := a.HashPassword(""); err == nil {
		t.Fatal("empty password must fail")
	}
}
