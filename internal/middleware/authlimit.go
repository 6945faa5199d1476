package middleware

import (
	"net/http"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/budgetwise/budgetwise-go/internal/audit"
	"github.com/budgetwise/budgetwise-go/internal/config"
	"github.com/budgetwise/budgetwise-go/internal/redis"
)

var authLimitScript = goredis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

local windowStart = now - window

redis.call('ZREMRANGEBYSCORE', key, '-inf', windowStart)

local count = redis.call('ZCARD', key)

if count >= limit then
    return 0
end

redis.call('ZADD', key, now, now .. '-' .. math.random())
redis.call('EXPIRE', key, window + 10)

return 1
`)

// AuthRateLimitMiddleware throttles credential-guessing attempts per client
// IP with a redis sliding window. Redis failures fail open: a rate-limiter
// outage must not lock every user out of login.
type AuthRateLimitMiddleware struct {
	client *redis.Client
	route  string
	limit  int

	// check decides whether a request passes; swapped out in tests to
	// exercise the rejection path without a redis backend.
	check func(r *http.Request) bool
}

func NewAuthRateLimitMiddleware(client *redis.Client, route string, limit int) *AuthRateLimitMiddleware {
	m := &AuthRateLimitMiddleware{client: client, route: route, limit: limit}
	m.check = m.allowed
	return m
}

func (m *AuthRateLimitMiddleware) allowed(r *http.Request) bool {
	key := redis.AuthAttemptKey(m.route, clientIP(r))
	now := time.Now().Unix()
	window := int64(config.AuthRateLimitWindow.Seconds())

	result, err := authLimitScript.Run(r.Context(), m.client, []string{key}, now, window, m.limit).Int64()
	if err != nil {
		log.Warn().Err(err).Str("route", m.route).Msg("auth rate limit check failed, allowing request")
		return true
	}

	return result == 1
}

func (m *AuthRateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.check(r) {
			log.Warn().Str("route", m.route).Str("ip", clientIP(r)).Msg("auth rate limit exceeded")
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventRateLimited,
				Details: map[string]interface{}{"route": m.route},
			})
			w.Header().Set("Retry-After", strconv.Itoa(int(config.AuthRateLimitWindow.Seconds())))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "Too many attempts. Please try again later.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
