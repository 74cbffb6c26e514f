package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/SONU-ux-it/knhaji/internal/metrics"
)

// RateLimit is a request budget for one route family.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// RateLimiterConfig carries the limiter's tunables.
type RateLimiterConfig struct {
	Whitelist        []string // exempt IPs or CIDR ranges
	AutoBlockEnabled bool     // block IPs after repeated violations
}

// decision is the outcome of charging one request against a budget.
type decision struct {
	allowed   bool
	remaining int
	resetAt   time.Time
}

// RateLimiter charges requests against per-IP sliding windows kept in
// Redis. Listings are posted anonymously, so the client IP is the only
// identity a budget can hang off. Counters are per route family: an IP
// that exhausts its posting budget can still read.
type RateLimiter struct {
	client    *redis.Client
	limits    map[string]RateLimit
	allow     ipWhitelist
	blocker   *IPBlocker
	logger    zerolog.Logger
	autoBlock bool
}

// NewRateLimiter builds the limiter with its standing budgets. Writes get
// tight hourly allowances, reads generous per-minute ones, and the admin
// login a deliberately small one to slow credential guessing.
func NewRateLimiter(client *redis.Client, logger zerolog.Logger, cfg RateLimiterConfig) *RateLimiter {
	return &RateLimiter{
		client:    client,
		blocker:   NewIPBlocker(client),
		logger:    logger,
		allow:     parseWhitelist(cfg.Whitelist, logger),
		autoBlock: cfg.AutoBlockEnabled,
		limits: map[string]RateLimit{
			"POST /rooms":       {10, time.Hour},
			"GET /rooms":        {120, time.Minute},
			"POST /roommates":   {20, time.Hour},
			"GET /roommates":    {120, time.Minute},
			"PATCH /roommates":  {30, time.Minute},
			"PUT /roommates":    {30, time.Minute},
			"POST /chats/":      {60, time.Minute},
			"GET /chats/":       {120, time.Minute},
			"POST /admin/login": {10, 15 * time.Minute},
		},
	}
}

// ipWhitelist holds exempt addresses, exact IPs apart from CIDR ranges.
type ipWhitelist struct {
	exact map[string]bool
	nets  []*net.IPNet
}

func parseWhitelist(entries []string, logger zerolog.Logger) ipWhitelist {
	wl := ipWhitelist{exact: make(map[string]bool)}
	for _, entry := range entries {
		if !strings.Contains(entry, "/") {
			wl.exact[entry] = true
			continue
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			logger.Warn().Str("entry", entry).Err(err).Msg("invalid CIDR in whitelist")
			continue
		}
		wl.nets = append(wl.nets, ipNet)
	}
	if len(entries) > 0 {
		logger.Info().
			Int("ips", len(wl.exact)).
			Int("cidrs", len(wl.nets)).
			Msg("rate limit whitelist configured")
	}
	return wl
}

func (wl ipWhitelist) contains(ipStr string) bool {
	if wl.exact[ipStr] {
		return true
	}
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	for _, n := range wl.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// isWhitelisted reports whether an IP is exempt from rate limiting.
func (rl *RateLimiter) isWhitelisted(ip string) bool {
	return rl.allow.contains(ip)
}

// RealIP returns the client address a request should be attributed to.
// Proxy headers win over the socket peer; in a forwarded chain the first
// hop is the original client.
func RealIP(r *http.Request) string {
	for _, h := range [...]string{"X-Forwarded-For", "X-Real-IP"} {
		if v := r.Header.Get(h); v != "" {
			return strings.TrimSpace(strings.Split(v, ",")[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// take charges one request to the counter behind key and reports the
// verdict. The counter is a sorted set of request timestamps; entries
// older than the window are dropped before counting.
func (rl *RateLimiter) take(ctx context.Context, key string, lim RateLimit) decision {
	now := time.Now()
	bucket := now.Unix() / int64(lim.Window/time.Second)
	setKey := key + ":" + strconv.FormatInt(bucket, 10)
	cutoff := strconv.FormatInt(now.Add(-lim.Window).UnixMilli(), 10)

	pipe := rl.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, setKey, "-inf", cutoff)
	seen := pipe.ZCard(ctx, setKey)
	pipe.ZAdd(ctx, setKey, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: strconv.FormatInt(now.UnixNano(), 10),
	})
	// TTL outlives the bucket so stale sets age out on their own.
	pipe.Expire(ctx, setKey, 2*lim.Window)
	_, _ = pipe.Exec(ctx)

	prior := int(seen.Val())
	remaining := lim.Requests - prior - 1
	if remaining < 0 {
		remaining = 0
	}
	return decision{
		allowed:   prior < lim.Requests,
		remaining: remaining,
		resetAt:   now.Add(lim.Window),
	}
}

// match finds the budget covering a request, keyed by "METHOD /path"
// prefix. Route families are disjoint, so at most one pattern applies.
func (rl *RateLimiter) match(r *http.Request) (string, RateLimit, bool) {
	want := r.Method + " " + r.URL.Path
	for pattern, lim := range rl.limits {
		if strings.HasPrefix(want, pattern) {
			return pattern, lim, true
		}
	}
	return "", RateLimit{}, false
}

// Middleware enforces the budgets. Whitelisted IPs bypass everything;
// blocked IPs are refused before any counter is touched.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := RealIP(r)

		if rl.isWhitelisted(ip) {
			next.ServeHTTP(w, r)
			return
		}

		if rl.blocker.IsBlocked(r.Context(), ip) {
			metrics.BlockedRequests.WithLabelValues("ip_blocked").Inc()
			rl.logger.Warn().
				Str("type", "security").
				Str("event", "blocked_request").
				Str("ip", ip).
				Str("endpoint", r.URL.Path).
				Msg("blocked IP attempted request")
			writeJSONError(w, http.StatusForbidden, "temporarily blocked")
			return
		}

		pattern, lim, ok := rl.match(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		key := "ratelimit:" + strings.ReplaceAll(pattern, " ", "") + ":" + ip
		d := rl.take(r.Context(), key, lim)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(lim.Requests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.resetAt.Unix(), 10))

		if !d.allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(time.Until(d.resetAt).Seconds())))
			metrics.RateLimitHits.WithLabelValues(normalizePath(r.URL.Path)).Inc()
			rl.noteViolation(r.Context(), ip)
			rl.logger.Warn().
				Str("type", "security").
				Str("event", "rate_limit_exceeded").
				Str("ip", ip).
				Str("endpoint", r.URL.Path).
				Str("key", key).
				Msg("rate limit exceeded")
			writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// noteViolation counts a 429 against the offending IP. Ten violations
// inside an hour earn a 24h block when auto-blocking is on.
func (rl *RateLimiter) noteViolation(ctx context.Context, ip string) {
	if !rl.autoBlock {
		return
	}
	key := "violations:ip:" + ip
	n, _ := rl.client.Incr(ctx, key).Result()
	rl.client.Expire(ctx, key, time.Hour)
	if n < 10 {
		return
	}
	rl.blocker.Block(ctx, ip, 24*time.Hour, "repeated rate limit violations")
	rl.logger.Warn().
		Str("type", "security").
		Str("event", "ip_auto_blocked").
		Str("ip", ip).
		Int64("violations", n).
		Msg("IP auto-blocked for repeated violations")
}

// IPBlocker keeps temporary IP blocks in Redis, one key per address.
// Blocks expire via TTL; Unblock lifts one early.
type IPBlocker struct {
	client *redis.Client
}

// NewIPBlocker wraps a Redis client for block bookkeeping.
func NewIPBlocker(client *redis.Client) *IPBlocker {
	return &IPBlocker{client: client}
}

func blockKey(ip string) string { return "blocked:ip:" + ip }

// IsBlocked reports whether an IP is currently blocked.
func (b *IPBlocker) IsBlocked(ctx context.Context, ip string) bool {
	n, _ := b.client.Exists(ctx, blockKey(ip)).Result()
	return n > 0
}

// Block blocks an IP for the given duration, recording the reason.
func (b *IPBlocker) Block(ctx context.Context, ip string, d time.Duration, reason string) {
	b.client.Set(ctx, blockKey(ip), reason, d)
}

// Unblock lifts a block before its TTL runs out.
func (b *IPBlocker) Unblock(ctx context.Context, ip string) {
	b.client.Del(ctx, blockKey(ip))
}
