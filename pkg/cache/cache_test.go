package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Fatal("empty cache should miss")
	}

	buf := []byte("plan")
	if err := c.Set(ctx, "k", buf, 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	buf[0] = 'X'

	got, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v; want hit", hit, err)
	}
	if string(got) != "plan" {
		t.Errorf("Get = %q, caller mutation leaked into cache", got)
	}
	got[0] = 'Y'
	if again, _, _ := c.Get(ctx, "k"); string(again) != "plan" {
		t.Errorf("Get = %q, returned slice aliases the entry", again)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "short", []byte("a"), time.Minute)
	_ = c.Set(ctx, "forever", []byte("b"), 0)

	now = now.Add(30 * time.Second)
	if _, hit, _ := c.Get(ctx, "short"); !hit {
		t.Error("entry should live until its TTL")
	}

	now = now.Add(time.Minute)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, expired entry should be evicted on read", c.Len())
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without TTL should never expire")
	}
}

func TestMemoryCacheConcurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			for range 100 {
				_ = c.Set(ctx, key, []byte(key), time.Hour)
				if data, hit, _ := c.Get(ctx, key); hit && string(data) != key {
					t.Errorf("Get(%s) = %q", key, data)
				}
			}
		}()
	}
	wg.Wait()

	if c.Len() != 4 {
		t.Errorf("Len = %d, want 4", c.Len())
	}
	_ = c.Close()
	if c.Len() != 0 {
		t.Errorf("Len after Close = %d, want 0", c.Len())
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	key := k.PlanKey(16, "json")
	if !strings.HasPrefix(key, "plan:") || len(key) != len("plan:")+64 {
		t.Errorf("PlanKey unexpected: %s", key)
	}
	if key != k.PlanKey(16, "json") {
		t.Error("PlanKey should be deterministic")
	}
	if key == k.PlanKey(17, "json") {
		t.Error("Different terminal counts should produce different keys")
	}
	if key == k.PlanKey(16, "jsonl") {
		t.Error("Different formats should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "xbar:test:")

	want := "xbar:test:" + inner.PlanKey(8, "json")
	if got := scoped.PlanKey(8, "json"); got != want {
		t.Errorf("ScopedKeyer PlanKey = %s, want %s", got, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if got, want := scoped.PlanKey(3, "json"), "prefix:"+NewDefaultKeyer().PlanKey(3, "json"); got != want {
		t.Errorf("Unexpected key with nil inner: %s", got)
	}
}

func TestNewRedisCacheErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := NewRedisCache(ctx, RedisConfig{}); err == nil {
		t.Error("empty address should fail")
	}

	// Nothing listens on port 1.
	_, err := NewRedisCache(ctx, RedisConfig{
		Addr:         "127.0.0.1:1",
		DialTimeout:  200 * time.Millisecond,
		PingAttempts: 2,
		PingBackoff:  time.Millisecond,
	})
	if err == nil {
		t.Fatal("unreachable server should fail the ping")
	}
	if !strings.Contains(err.Error(), "127.0.0.1:1") {
		t.Errorf("error should name the address: %v", err)
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	transient := errors.New("connection refused")

	calls := 0
	err := retry(ctx, 3, time.Millisecond, func(context.Context) error {
		calls++
		if calls < 3 {
			return transient
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("retry = %v after %d calls, want success on the third", err, calls)
	}

	calls = 0
	err = retry(ctx, 2, time.Millisecond, func(context.Context) error {
		calls++
		return transient
	})
	if !errors.Is(err, transient) || calls != 2 {
		t.Errorf("retry = %v after %d calls, want last error after 2", err, calls)
	}

	calls = 0
	_ = retry(ctx, 0, time.Millisecond, func(context.Context) error {
		calls++
		return transient
	})
	if calls != 1 {
		t.Errorf("zero attempts should still call once, got %d", calls)
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retry(ctx, 5, time.Hour, func(context.Context) error {
		calls++
		cancel()
		return errors.New("down")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("retry = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, cancellation should stop retrying", calls)
	}
}

func TestRedisCacheFromClientReportsErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisCacheFromClient(client)
	defer c.Close()

	ctx := context.Background()
	data, hit, err := c.Get(ctx, "xbar:test:unreachable")
	if err == nil || hit || data != nil {
		t.Fatalf("Get = %q, %v, %v; want error", data, hit, err)
	}
	if !strings.Contains(err.Error(), "redis: get") {
		t.Errorf("error should name the operation: %v", err)
	}
}

// TestRedisCacheRoundTrip runs against a live server when XBAR_TEST_REDIS
// names one, e.g. XBAR_TEST_REDIS=localhost:6379.
func TestRedisCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("XBAR_TEST_REDIS")
	if addr == "" {
		t.Skip("XBAR_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	key := NewScopedKeyer(nil, "xbar:test:").PlanKey(5, "json")
	defer c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("Get before Set = %v, %v; want miss", hit, err)
	}
	if err := c.Set(ctx, key, []byte(`{"terminals":5}`), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != `{"terminals":5}` {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
}
