package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newStoreForTest(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		m.Close()
	})
	return m, NewRedisStore(client)
}

func TestRedisStoreSetGetExpire(t *testing.T) {
	m, s := newStoreForTest(t)
	ctx := context.Background()

	if err := s.Set(ctx, "img_a", "7Q2K", 300*time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := s.Get(ctx, "img_a")
	if err != nil || v != "7Q2K" {
		t.Fatalf("get = %q, %v", v, err)
	}
	m.FastForward(301 * time.Second)
	if _, err := s.Get(ctx, "img_a"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss after ttl, got %v", err)
	}
}

func TestRedisStoreTakeIsSingleUse(t *testing.T) {
	_, s := newStoreForTest(t)
	ctx := context.Background()

	_ = s.Set(ctx, "img_b", "ABCD", time.Minute)
	v, err := s.Take(ctx, "img_b")
	if err != nil || v != "ABCD" {
		t.Fatalf("first take = %q, %v", v, err)
	}
	if _, err := s.Take(ctx, "img_b"); !errors.Is(err, ErrMiss) {
		t.Fatalf("second take should miss, got %v", err)
	}
	if ok, _ := s.Exists(ctx, "img_b"); ok {
		t.Fatal("key must be gone after take")
	}
}

func TestRedisStoreTakeConcurrentOnlyOneWins(t *testing.T) {
	_, s := newStoreForTest(t)
	ctx := context.Background()
	_ = s.Set(ctx, "img_c", "WXYZ", time.Minute)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Take(ctx, "img_c"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("expected exactly one successful take, got %d", wins)
	}
}

func TestRedisStoreSetBatchIfAbsent(t *testing.T) {
	m, s := newStoreForTest(t)
	ctx := context.Background()

	ok, err := s.SetBatchIfAbsent(ctx, "sms_flag_13800000000",
		Entry{Key: "sms_flag_13800000000", Value: "1", TTL: 60 * time.Second},
		Entry{Key: "sms_13800000000", Value: "123456", TTL: 300 * time.Second},
	)
	if err != nil || !ok {
		t.Fatalf("first batch = %v, %v", ok, err)
	}
	if got := m.TTL("sms_flag_13800000000"); got != 60*time.Second {
		t.Fatalf("flag ttl = %s", got)
	}
	if got := m.TTL("sms_13800000000"); got != 300*time.Second {
		t.Fatalf("code ttl = %s", got)
	}

	ok, err = s.SetBatchIfAbsent(ctx, "sms_flag_13800000000",
		Entry{Key: "sms_flag_13800000000", Value: "1", TTL: 60 * time.Second},
		Entry{Key: "sms_13800000000", Value: "654321", TTL: 300 * time.Second},
	)
	if err != nil {
		t.Fatalf("second batch: %v", err)
	}
	if ok {
		t.Fatal("second batch must not apply while guard exists")
	}
	if v, _ := m.Get("sms_13800000000"); v != "123456" {
		t.Fatalf("code overwritten: %q", v)
	}

	m.FastForward(61 * time.Second)
	ok, err = s.SetBatchIfAbsent(ctx, "sms_flag_13800000000",
		Entry{Key: "sms_flag_13800000000", Value: "1", TTL: 60 * time.Second},
		Entry{Key: "sms_13800000000", Value: "654321", TTL: 300 * time.Second},
	)
	if err != nil || !ok {
		t.Fatalf("batch after window = %v, %v", ok, err)
	}
	if v, _ := m.Get("sms_13800000000"); v != "654321" {
		t.Fatalf("code not overwritten: %q", v)
	}
}

func TestRedisStoreTTL(t *testing.T) {
	_, s := newStoreForTest(t)
	ctx := context.Background()

	if _, err := s.TTL(ctx, "missing"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss, got %v", err)
	}
	_ = s.Set(ctx, "k", "v", 45*time.Second)
	d, err := s.TTL(ctx, "k")
	if err != nil {
		t.Fatalf("ttl: %v", err)
	}
	if d <= 0 || d > 45*time.Second {
		t.Fatalf("unexpected ttl %s", d)
	}
}

func TestRedisStoreBackendError(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 20 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })
	s := NewRedisStore(client)

	if _, err := s.Get(context.Background(), "k"); err == nil || errors.Is(err, ErrMiss) {
		t.Fatalf("expected backend error, got %v", err)
	}
}
