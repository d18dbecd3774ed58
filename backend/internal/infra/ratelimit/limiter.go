/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 13:18:06
 * @FilePath: \dashboard-catalog\backend\internal\infra\ratelimit\limiter.go
 * @LastEditTime: 2026-10-14 13:18:06
 */
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Policy 描述固定窗口限流参数，Limit<=0 表示不限流。
type Policy struct {
	Limit  int
	Window time.Duration
}

// Decision 描述一次限流判断的结果。
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter 定义限流器的通用能力。
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

func (p Policy) normalised() Policy {
	if p.Window <= 0 {
		p.Window = time.Minute
	}
	return p
}

func unlimited() Decision {
	return Decision{Allowed: true, Remaining: -1}
}

// RedisLimiter 使用 Redis 计数器实现多实例共享的固定窗口限流。
type RedisLimiter struct {
	client *redis.Client
	prefix string
	policy Policy
}

// NewRedisLimiter 根据 Redis 客户端构造限流器，prefix 为空时使用 ratelimit。
func NewRedisLimiter(client *redis.Client, prefix string, policy Policy) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisLimiter{client: client, prefix: prefix, policy: policy.normalised()}
}

// Allow 自增窗口计数，超出上限时返回剩余等待时间。
func (r *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	if r == nil || r.client == nil || r.policy.Limit <= 0 {
		return unlimited(), nil
	}

	namespaced := r.prefix + ":" + key
	value, err := r.client.Incr(ctx, namespaced).Result()
	if err != nil {
		return Decision{}, err
	}
	// 只在窗口的第一次请求设置过期时间，被拒绝的请求不会延长窗口。
	if value == 1 {
		if err := r.client.Expire(ctx, namespaced, r.policy.Window).Err(); err != nil {
			return Decision{}, err
		}
	}

	count := int(value)
	if count <= r.policy.Limit {
		return Decision{Allowed: true, Remaining: r.policy.Limit - count}, nil
	}

	ttl, err := r.client.TTL(ctx, namespaced).Result()
	if err != nil {
		return Decision{}, err
	}
	if ttl < 0 {
		ttl = r.policy.Window
	}
	return Decision{Allowed: false, RetryAfter: ttl}, nil
}

// MemoryLimiter 是 Redis 未配置时的单实例替代方案。
type MemoryLimiter struct {
	mu     sync.Mutex
	policy Policy
	store  map[string]window
	now    func() time.Time
}

type window struct {
	count   int
	expires time.Time
}

// NewMemoryLimiter 构建内存版限流器。
func NewMemoryLimiter(policy Policy) *MemoryLimiter {
	return &MemoryLimiter{
		policy: policy.normalised(),
		store:  make(map[string]window),
		now:    time.Now,
	}
}

// Allow 通过内存 map 统计窗口内的请求次数，窗口过期后重新计数。
func (m *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	if m == nil || m.policy.Limit <= 0 {
		return unlimited(), nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.store[key]
	if !ok || !now.Before(w.expires) {
		m.prune(now)
		w = window{expires: now.Add(m.policy.Window)}
	}
	w.count++
	m.store[key] = w

	if w.count > m.policy.Limit {
		return Decision{Allowed: false, RetryAfter: w.expires.Sub(now)}, nil
	}
	return Decision{Allowed: true, Remaining: m.policy.Limit - w.count}, nil
}

// prune 清理已过期的窗口，防止 key 无限增长。
func (m *MemoryLimiter) prune(now time.Time) {
	for k, w := range m.store {
		if !now.Before(w.expires) {
			delete(m.store, k)
		}
	}
}
