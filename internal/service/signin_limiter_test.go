package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestSignInRateLimiter_AllowWithinLimit(t *testing.T) {
	l := NewSignInRateLimiter(time.Minute, 3)
	for i := 0; i < 3; i++ {
		if !l.Allow("user@example.com") {
			t.Fatalf("attempt %d should be allowed", i)
		}
	}
	if l.Allow("user@example.com") {
		t.Fatalf("fourth attempt should be denied")
	}
}

func TestSignInRateLimiter_KeysAreIndependent(t *testing.T) {
	l := NewSignInRateLimiter(time.Minute, 1)
	if !l.Allow("a@example.com") {
		t.Fatalf("first key should be allowed")
	}
	if !l.Allow("b@example.com") {
		t.Fatalf("second key should be allowed")
	}
	if l.Allow("a@example.com") {
		t.Fatalf("first key should now be denied")
	}
}

func TestSignInRateLimiter_WindowExpires(t *testing.T) {
	l := NewSignInRateLimiter(20*time.Millisecond, 1)
	if !l.Allow("user@example.com") {
		t.Fatalf("first attempt should be allowed")
	}
	if l.Allow("user@example.com") {
		t.Fatalf("second attempt should be denied inside the window")
	}
	time.Sleep(30 * time.Millisecond)
	if !l.Allow("user@example.com") {
		t.Fatalf("attempt after window should be allowed")
	}
}

type mockRedisEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     int64
	err        error
}

func (m *mockRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func TestRedisSignInRateLimiterAllow(t *testing.T) {
	t.Run("nil receiver fail-open", func(t *testing.T) {
		var l *redisSignInRateLimiter
		if !l.Allow("user@example.com") {
			t.Fatalf("expected fail-open for nil limiter")
		}
	})

	t.Run("empty key rejected", func(t *testing.T) {
		l := &redisSignInRateLimiter{
			client: &mockRedisEvaler{result: 1},
			window: time.Minute,
			max:    3,
			prefix: "signin:rl:",
		}
		if l.Allow("   ") {
			t.Fatalf("expected empty key to be rejected")
		}
	})

	t.Run("allow when count within max", func(t *testing.T) {
		mock := &mockRedisEvaler{result: 2}
		l := &redisSignInRateLimiter{
			client: mock,
			window: 2 * time.Minute,
			max:    3,
			prefix: "signin:rl:",
		}
		if !l.Allow(" User@Example.com ") {
			t.Fatalf("expected allow when count <= max")
		}
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != "signin:rl:user@example.com" {
			t.Fatalf("unexpected key normalization, got %+v", mock.lastKeys)
		}
		if len(mock.lastArgs) != 1 || mock.lastArgs[0] != 120 {
			t.Fatalf("expected TTL seconds=120, got %+v", mock.lastArgs)
		}
		if mock.lastScript != redisSignInAllowScript {
			t.Fatalf("expected script to match")
		}
	})

	t.Run("deny when count exceeds max", func(t *testing.T) {
		l := &redisSignInRateLimiter{
			client: &mockRedisEvaler{result: 4},
			window: time.Minute,
			max:    3,
			prefix: "signin:rl:",
		}
		if l.Allow("user@example.com") {
			t.Fatalf("expected deny when count > max")
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		l := &redisSignInRateLimiter{
			client: &mockRedisEvaler{err: errors.New("redis down")},
			window: time.Minute,
			max:    3,
			prefix: "signin:rl:",
		}
		if !l.Allow("user@example.com") {
			t.Fatalf("expected fail-open on redis error")
		}
	})
}
