/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 18:40:12
 * @FilePath: \dashboard-catalog\backend\internal\infra\ratelimit\limiter_test.go
 * @LastEditTime: 2026-10-15 12:06:35
 */
package ratelimit

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisLimiterBlocksAfterLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	limiter := NewRedisLimiter(client, "test", Policy{Limit: 2, Window: time.Minute})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := limiter.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !d.Allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	d, err := limiter.Allow(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if d.Allowed {
		t.Fatalf("third request should be rejected")
	}
	if d.RetryAfter <= 0 || d.RetryAfter > time.Minute {
		t.Fatalf("unexpected retry-after: %s", d.RetryAfter)
	}

	other, err := limiter.Allow(ctx, "10.0.0.2")
	if err != nil || !other.Allowed {
		t.Fatalf("separate key should be allowed: %+v %v", other, err)
	}

	mr.FastForward(time.Minute + time.Second)
	d, err = limiter.Allow(ctx, "10.0.0.1")
	if err != nil || !d.Allowed {
		t.Fatalf("window should reset after expiry: %+v %v", d, err)
	}
}

func TestRedisLimiterDisabled(t *testing.T) {
	limiter := NewRedisLimiter(nil, "", Policy{Limit: 5})
	d, err := limiter.Allow(context.Background(), "k")
	if err != nil || !d.Allowed || d.Remaining != -1 {
		t.Fatalf("nil client should not limit: %+v %v", d, err)
	}
}

func TestMemoryLimiterWindow(t *testing.T) {
	limiter := NewMemoryLimiter(Policy{Limit: 1, Window: 10 * time.Second})
	current := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }
	ctx := context.Background()

	if d, _ := limiter.Allow(ctx, "a"); !d.Allowed || d.Remaining != 0 {
		t.Fatalf("first request should pass: %+v", d)
	}
	d, _ := limiter.Allow(ctx, "a")
	if d.Allowed {
		t.Fatalf("second request should be rejected")
	}
	if d.RetryAfter != 10*time.Second {
		t.Fatalf("expected retry-after 10s, got %s", d.RetryAfter)
	}

	current = current.Add(11 * time.Second)
	if d, _ := limiter.Allow(ctx, "a"); !d.Allowed {
		t.Fatalf("request after window should pass")
	}
	if len(limiter.store) != 1 {
		t.Fatalf("expected expired windows to be pruned, got %d keys", len(limiter.store))
	}
}

func TestMemoryLimiterUnlimited(t *testing.T) {
	limiter := NewMemoryLimiter(Policy{})
	for i := 0; i < 100; i++ {
		if d, _ := limiter.Allow(context.Background(), "a"); !d.Allowed {
			t.Fatalf("zero limit should never reject")
		}
	}
}
