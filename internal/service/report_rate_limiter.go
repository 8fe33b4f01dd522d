package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

var ErrRateLimited = errors.New("rate limited")

// RateLimiter decide si una clave (usuario) puede generar otro reporte.
type RateLimiter interface {
	Allow(key string) bool
}

const redisReportAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// redisRateLimiter cuenta solicitudes por ventana fija en Redis. Si Redis
// falla deja pasar la solicitud.
type redisRateLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

func NewRedisRateLimiter(client *redis.Client, window time.Duration, max int) RateLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisRateLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "vp:report:rl:",
	}
}

func (l *redisRateLimiter) Allow(key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	normalizedKey := strings.ToLower(strings.TrimSpace(key))
	if normalizedKey == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := l.client.Eval(ctx, redisReportAllowScript, []string{l.prefix + normalizedKey}, seconds).Int()
	if err != nil {
		return true
	}
	return count <= l.max
}

type keyLimiter struct {
	limiter    *rate.Limiter
	lastActive time.Time
}

// memoryRateLimiter mantiene un token bucket por clave con x/time/rate.
// Las claves inactivas se descartan en Allow cuando pasan idleTTL.
type memoryRateLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
	keys    map[string]*keyLimiter
}

// NewMemoryRateLimiter permite max solicitudes por window y clave.
func NewMemoryRateLimiter(window time.Duration, max int) RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &memoryRateLimiter{
		limit:   rate.Every(window / time.Duration(max)),
		burst:   max,
		idleTTL: 2 * window,
		now:     time.Now,
		keys:    make(map[string]*keyLimiter),
	}
}

func (l *memoryRateLimiter) Allow(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return false
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	for k, kl := range l.keys {
		if now.Sub(kl.lastActive) > l.idleTTL {
			delete(l.keys, k)
		}
	}
	kl, ok := l.keys[key]
	if !ok {
		kl = &keyLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.keys[key] = kl
	}
	kl.lastActive = now
	return kl.limiter.AllowN(now, 1)
}
