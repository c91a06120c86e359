// Package ratelimit throttles reservation attempts per apartment and per client IP.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Padelicious/internal/config"
)

// Config holds rate limit configuration.
type Config struct {
	BookingCooldown     time.Duration // Minimum time between attempts by one apartment (default: 5s)
	BookingMaxPerHour   int           // Max attempts per apartment per hour (default: 20)
	BookingMaxIPPerHour int           // Max attempts per IP per hour (default: 60)

	// TrustProxy makes ClientIP honor X-Forwarded-For and X-Real-IP.
	TrustProxy bool

	// Clock for testing (nil uses real time)
	Clock clockwork.Clock
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		BookingCooldown:     5 * time.Second,
		BookingMaxPerHour:   20,
		BookingMaxIPPerHour: 60,
	}
}

// FromConfig maps the rate_limit section of the app config.
func FromConfig(cfg config.RateLimitConfig) *Config {
	return &Config{
		BookingCooldown:     cfg.BookingCooldown,
		BookingMaxPerHour:   cfg.BookingMaxPerHour,
		BookingMaxIPPerHour: cfg.BookingMaxIPPerHour,
	}
}

// LimitResult contains the result of a rate limit check.
type LimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string // For logging
}

// entry tracks request counts and timestamps.
type entry struct {
	count   int
	firstAt time.Time // First request in window
	lastAt  time.Time // Most recent request (for cooldown)
}

// Limiter implements two-layer rate limiting for reservation attempts.
type Limiter struct {
	config *Config
	clock  clockwork.Clock
	mu     sync.RWMutex
	// Keyed by hash of apartment code or IP
	byApartment map[string]*entry
	byIP        map[string]*entry

	// Cleanup goroutine management
	cleanupCtx    context.Context
	cleanupCancel context.CancelFunc
	cleanupOnce   sync.Once
	cleanupWg     sync.WaitGroup
}

// New creates a new rate limiter with the given config.
func New(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Limiter{
		config:        cfg,
		clock:         clock,
		byApartment:   make(map[string]*entry),
		byIP:          make(map[string]*entry),
		cleanupCtx:    ctx,
		cleanupCancel: cancel,
	}
}

// Close stops the cleanup goroutine and releases resources.
func (l *Limiter) Close() {
	l.cleanupCancel()
	l.cleanupWg.Wait()
}

// CheckBooking checks if a reservation attempt is allowed.
// Does NOT record the attempt - call RecordBooking once the request is accepted for processing.
func (l *Limiter) CheckBooking(apartment, ip string) LimitResult {
	l.startCleanup()
	now := l.clock.Now()
	aptKey := l.hashKey("booking:apt:", normalizeApartment(apartment))
	ipKey := l.hashKey("booking:ip:", ip)

	l.mu.RLock()
	defer l.mu.RUnlock()

	if e := l.byApartment[aptKey]; e != nil {
		elapsed := now.Sub(e.lastAt)
		if elapsed < l.config.BookingCooldown {
			return LimitResult{
				Allowed:    false,
				RetryAfter: l.config.BookingCooldown - elapsed,
				Reason:     "cooldown",
			}
		}

		if now.Sub(e.firstAt) < time.Hour && e.count >= l.config.BookingMaxPerHour {
			return LimitResult{
				Allowed:    false,
				RetryAfter: time.Hour - now.Sub(e.firstAt),
				Reason:     "hourly_limit",
			}
		}
	}

	if e := l.byIP[ipKey]; e != nil {
		if now.Sub(e.firstAt) < time.Hour && e.count >= l.config.BookingMaxIPPerHour {
			return LimitResult{
				Allowed:    false,
				RetryAfter: time.Hour - now.Sub(e.firstAt),
				Reason:     "ip_hourly_limit",
			}
		}
	}

	return LimitResult{Allowed: true}
}

// RecordBooking records a reservation attempt for both the apartment and the IP.
func (l *Limiter) RecordBooking(apartment, ip string) {
	now := l.clock.Now()
	aptKey := l.hashKey("booking:apt:", normalizeApartment(apartment))
	ipKey := l.hashKey("booking:ip:", ip)

	l.mu.Lock()
	defer l.mu.Unlock()

	record(l.byApartment, aptKey, now)
	record(l.byIP, ipKey, now)
}

func record(entries map[string]*entry, key string, now time.Time) {
	e := entries[key]
	if e == nil || now.Sub(e.firstAt) >= time.Hour {
		entries[key] = &entry{count: 1, firstAt: now, lastAt: now}
		return
	}
	e.count++
	e.lastAt = now
}

func (l *Limiter) hashKey(prefix, value string) string {
	hash := sha256.Sum256([]byte(value))
	return prefix + hex.EncodeToString(hash[:8])
}

// normalizeApartment uppercases the code to prevent case-based bypass.
func normalizeApartment(apartment string) string {
	return strings.ToUpper(strings.TrimSpace(apartment))
}

func (l *Limiter) startCleanup() {
	l.cleanupOnce.Do(func() {
		l.cleanupWg.Add(1)
		go func() {
			defer l.cleanupWg.Done()
			ticker := l.clock.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-l.cleanupCtx.Done():
					return
				case <-ticker.Chan():
					l.cleanup()
				}
			}
		}()
	})
}

func (l *Limiter) cleanup() {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	maxAge := time.Hour
	if l.config.BookingCooldown > maxAge {
		maxAge = l.config.BookingCooldown
	}
	for k, e := range l.byApartment {
		if now.Sub(e.lastAt) > maxAge {
			delete(l.byApartment, k)
		}
	}
	for k, e := range l.byIP {
		if now.Sub(e.lastAt) > time.Hour {
			delete(l.byIP, k)
		}
	}
}

// size reports tracked keys; used by tests.
func (l *Limiter) size() (apartments, ips int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byApartment), len(l.byIP)
}

// ClientIP extracts the client IP using the limiter's proxy setting.
func (l *Limiter) ClientIP(r *http.Request) string {
	return GetClientIP(r, l.config.TrustProxy)
}

// GetClientIP extracts the client IP from a request.
// When trustProxy is true, uses the rightmost public IP from X-Forwarded-For (added by your proxy).
// When trustProxy is false, ignores X-Forwarded-For entirely (prevents spoofing).
func GetClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			for i := len(parts) - 1; i >= 0; i-- {
				ip := strings.TrimSpace(parts[i])
				if ip != "" && !isPrivateIP(ip) {
					return ip
				}
			}
			// All IPs are private, use the last one
			return strings.TrimSpace(parts[len(parts)-1])
		}

		// Check X-Real-IP (set by nginx)
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port (e.g., Unix socket or malformed)
		return r.RemoteAddr
	}
	return ip
}

// privateNetworks holds parsed CIDR ranges for private/reserved IPs.
var privateNetworks []*net.IPNet

func init() {
	privateRanges := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		"::1/128",
		"fc00::/7",
		"fe80::/10", // Link-local
	}
	for _, cidr := range privateRanges {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic("invalid private CIDR: " + cidr)
		}
		privateNetworks = append(privateNetworks, network)
	}
}

// isPrivateIP checks if an IP is in a private/reserved range.
// Handles both IPv4 and IPv4-mapped IPv6 addresses (e.g., ::ffff:192.168.1.1).
func isPrivateIP(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	if ipv4 := ip.To4(); ipv4 != nil {
		ip = ipv4
	}
	for _, network := range privateNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// LogRateLimitExceeded logs a throttled reservation attempt.
func LogRateLimitExceeded(ctx context.Context, apartment, ip string, result LimitResult) {
	log.Ctx(ctx).Warn().
		Str("event", "rate_limit_exceeded").
		Str("apartment", normalizeApartment(apartment)).
		Str("ip", ip).
		Str("reason", result.Reason).
		Dur("retry_after", result.RetryAfter).
		Msg("Reservation rate limit exceeded")
}
