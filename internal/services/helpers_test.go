package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"newsportal/internal/cache"
	"newsportal/internal/models"
	"newsportal/internal/repositories"
)

func newStoreForTest(t *testing.T) (*miniredis.Miniredis, *cache.RedisStore) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		m.Close()
	})
	return m, cache.NewRedisStore(client)
}

type fakeGenerator struct {
	answer string
	err    error
}

func (g *fakeGenerator) Generate() (string, []byte, error) {
	if g.err != nil {
		return "", nil, g.err
	}
	return g.answer, []byte("\x89PNG-fake"), nil
}

type sentSms struct {
	phone, code string
	template    int
}

type fakeSender struct {
	mu   sync.Mutex
	err  error
	sent []sentSms
}

func (f *fakeSender) SendCode(_ context.Context, phone, code string, templateID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentSms{phone: phone, code: code, template: templateID})
	return f.err
}

type fakeAccounts struct {
	mu     sync.Mutex
	nextID int
	users  []*models.User
}

func (f *fakeAccounts) CountByUsername(_ context.Context, username string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, u := range f.users {
		if u.Username == username {
			n++
		}
	}
	return n, nil
}

func (f *fakeAccounts) CountByMobile(_ context.Context, mobile string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, u := range f.users {
		if u.Mobile == mobile {
			n++
		}
	}
	return n, nil
}

func (f *fakeAccounts) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ex := range f.users {
		if ex.Mobile == u.Mobile || ex.Username == u.Username {
			return repositories.ErrConflict
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.DateJoined = time.Now()
	cp := *u
	f.users = append(f.users, &cp)
	return nil
}

func (f *fakeAccounts) GetByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == identifier || u.Mobile == identifier {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeAccounts) TouchLastLogin(context.Context, int) error { return nil }

func (f *fakeAccounts) add(t *testing.T, username, mobile, password string, active bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &models.User{Username: username, Mobile: mobile, PasswordHash: string(hash), IsActive: active}
	if err := f.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

type fakeEmail struct {
	sent []string
	err  error
}

func (f *fakeEmail) SendWelcomeEmail(email, username string) error {
	f.sent = append(f.sent, email+":"+username)
	return f.err
}

func isSixDigits(s string) bool {
	return len(s) == 6 && strings.Trim(s, "0123456789") == ""
}
