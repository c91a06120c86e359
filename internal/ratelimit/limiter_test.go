package ratelimit

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/codr1/Padelicious/internal/config"
)

func newFakeClock() clockwork.FakeClock {
	return clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
}

func TestCheckBooking_Cooldown(t *testing.T) {
	clock := newFakeClock()
	limiter := New(&Config{
		BookingCooldown:     10 * time.Second,
		BookingMaxPerHour:   5,
		BookingMaxIPPerHour: 20,
		Clock:               clock,
	})
	defer limiter.Close()

	apartment := "1A"
	ip := "192.168.1.1"

	// First request should be allowed
	result := limiter.CheckBooking(apartment, ip)
	if !result.Allowed {
		t.Errorf("First request should be allowed, got blocked: %s", result.Reason)
	}
	limiter.RecordBooking(apartment, ip)

	// Second request within cooldown should be blocked
	clock.Advance(4 * time.Second)
	result = limiter.CheckBooking(apartment, ip)
	if result.Allowed {
		t.Error("Second request within cooldown should be blocked")
	}
	if result.Reason != "cooldown" {
		t.Errorf("Expected reason 'cooldown', got '%s'", result.Reason)
	}
	if result.RetryAfter != 6*time.Second {
		t.Errorf("Expected RetryAfter 6s, got %v", result.RetryAfter)
	}

	// After cooldown expires, should be allowed
	clock.Advance(7 * time.Second)
	result = limiter.CheckBooking(apartment, ip)
	if !result.Allowed {
		t.Errorf("Request after cooldown should be allowed, got blocked: %s", result.Reason)
	}
}

func TestCheckBooking_HourlyLimit(t *testing.T) {
	clock := newFakeClock()
	limiter := New(&Config{
		BookingCooldown:     time.Second,
		BookingMaxPerHour:   3,
		BookingMaxIPPerHour: 20,
		Clock:               clock,
	})
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		if result := limiter.CheckBooking("1A", "192.168.1.1"); !result.Allowed {
			t.Fatalf("Attempt %d should be allowed, got blocked: %s", i+1, result.Reason)
		}
		limiter.RecordBooking("1A", "192.168.1.1")
		clock.Advance(2 * time.Second)
	}

	result := limiter.CheckBooking("1A", "192.168.1.1")
	if result.Allowed {
		t.Fatal("Fourth attempt within the hour should be blocked")
	}
	if result.Reason != "hourly_limit" {
		t.Errorf("Expected reason 'hourly_limit', got '%s'", result.Reason)
	}
	if result.RetryAfter != time.Hour-6*time.Second {
		t.Errorf("Expected RetryAfter %v, got %v", time.Hour-6*time.Second, result.RetryAfter)
	}

	// The window resets an hour after the first attempt.
	clock.Advance(time.Hour)
	if result := limiter.CheckBooking("1A", "192.168.1.1"); !result.Allowed {
		t.Errorf("Attempt after window should be allowed, got blocked: %s", result.Reason)
	}
}

func TestCheckBooking_IPLimit(t *testing.T) {
	clock := newFakeClock()
	limiter := New(&Config{
		BookingCooldown:     time.Second,
		BookingMaxPerHour:   100,
		BookingMaxIPPerHour: 2,
		Clock:               clock,
	})
	defer limiter.Close()

	ip := "203.0.113.7"
	limiter.RecordBooking("1A", ip)
	limiter.RecordBooking("2B", ip)

	// A different apartment from the same IP is still throttled.
	result := limiter.CheckBooking("3C", ip)
	if result.Allowed {
		t.Fatal("Third apartment from the same IP should be blocked")
	}
	if result.Reason != "ip_hourly_limit" {
		t.Errorf("Expected reason 'ip_hourly_limit', got '%s'", result.Reason)
	}

	// Other IPs are unaffected.
	if result := limiter.CheckBooking("3C", "203.0.113.8"); !result.Allowed {
		t.Errorf("Different IP should be allowed, got blocked: %s", result.Reason)
	}
}

func TestCheckBooking_ApartmentNormalization(t *testing.T) {
	clock := newFakeClock()
	limiter := New(&Config{
		BookingCooldown:     time.Minute,
		BookingMaxPerHour:   5,
		BookingMaxIPPerHour: 20,
		Clock:               clock,
	})
	defer limiter.Close()

	limiter.RecordBooking(" 1a ", "192.168.1.1")

	if result := limiter.CheckBooking("1A", "192.168.1.2"); result.Allowed {
		t.Error("Case and whitespace variants should share the same cooldown")
	}
}

func TestCheckAndRecord_SeparateOps(t *testing.T) {
	// Check doesn't consume quota - only Record does
	clock := newFakeClock()
	limiter := New(&Config{
		BookingCooldown:     time.Minute,
		BookingMaxPerHour:   1,
		BookingMaxIPPerHour: 100,
		Clock:               clock,
	})
	defer limiter.Close()

	for i := 0; i < 10; i++ {
		if result := limiter.CheckBooking("1A", "192.168.1.1"); !result.Allowed {
			t.Errorf("Check %d should be allowed without prior Record", i+1)
		}
	}

	limiter.RecordBooking("1A", "192.168.1.1")

	if result := limiter.CheckBooking("1A", "192.168.1.1"); result.Allowed {
		t.Error("Check after Record should be blocked")
	}
}

func TestCleanup_RemovesStaleEntries(t *testing.T) {
	clock := newFakeClock()
	limiter := New(&Config{
		BookingCooldown:     time.Second,
		BookingMaxPerHour:   5,
		BookingMaxIPPerHour: 20,
		Clock:               clock,
	})
	defer limiter.Close()

	limiter.RecordBooking("1A", "192.168.1.1")
	clock.Advance(30 * time.Minute)
	limiter.RecordBooking("2B", "192.168.1.2")
	clock.Advance(31 * time.Minute)

	limiter.cleanup()

	apartments, ips := limiter.size()
	if apartments != 1 || ips != 1 {
		t.Errorf("Expected 1 apartment and 1 IP after cleanup, got %d and %d", apartments, ips)
	}
}

func TestGetClientIP_TrustProxy(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		trustProxy bool
		expected   string
	}{
		{
			name:       "TrustProxy=true, XFF rightmost public IP",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.50, 10.0.0.1"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "203.0.113.50",
		},
		{
			name:       "TrustProxy=true, XFF all private",
			headers:    map[string]string{"X-Forwarded-For": "192.168.1.1, 10.0.0.1"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "10.0.0.1",
		},
		{
			name:       "TrustProxy=true, X-Real-IP",
			headers:    map[string]string{"X-Real-IP": "203.0.113.51"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "203.0.113.51",
		},
		{
			name:       "TrustProxy=false, ignores XFF",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.50"},
			remoteAddr: "192.168.1.100:54321",
			trustProxy: false,
			expected:   "192.168.1.100",
		},
		{
			name:       "RemoteAddr without port",
			headers:    map[string]string{},
			remoteAddr: "192.168.1.100",
			trustProxy: false,
			expected:   "192.168.1.100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := http.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			got := GetClientIP(r, tt.trustProxy)
			if got != tt.expected {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip       string
		expected bool
	}{
		{"10.0.0.1", true},
		{"172.16.0.1", true},
		{"192.168.1.1", true},
		{"127.0.0.1", true},
		{"::1", true},
		{"fe80::1", true},
		{"::ffff:192.168.1.1", true},
		{"::ffff:8.8.8.8", false},
		{"203.0.113.50", false},
		{"2001:4860:4860::8888", false},
		{"invalid", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := isPrivateIP(tt.ip); got != tt.expected {
				t.Errorf("isPrivateIP(%q) = %v, want %v", tt.ip, got, tt.expected)
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.Default().RateLimit)

	if cfg.BookingCooldown != 5*time.Second {
		t.Errorf("Expected BookingCooldown 5s, got %v", cfg.BookingCooldown)
	}
	if cfg.BookingMaxPerHour != 20 {
		t.Errorf("Expected BookingMaxPerHour 20, got %d", cfg.BookingMaxPerHour)
	}
	if cfg.BookingMaxIPPerHour != 60 {
		t.Errorf("Expected BookingMaxIPPerHour 60, got %d", cfg.BookingMaxIPPerHour)
	}
}

func TestNew_NilConfig(t *testing.T) {
	limiter := New(nil)
	defer limiter.Close()

	if limiter.config.BookingMaxPerHour != DefaultConfig().BookingMaxPerHour {
		t.Error("New(nil) should use DefaultConfig")
	}
}

func TestLimiter_Close(t *testing.T) {
	limiter := New(&Config{Clock: newFakeClock()})
	limiter.CheckBooking("1A", "192.168.1.1") // starts cleanup goroutine

	done := make(chan struct{})
	go func() {
		limiter.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("Close() should not hang")
	}
}

func TestConcurrentAccess(t *testing.T) {
	limiter := New(&Config{
		BookingCooldown:     time.Millisecond,
		BookingMaxPerHour:   1000,
		BookingMaxIPPerHour: 1000,
		Clock:               newFakeClock(),
	})
	defer limiter.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if result := limiter.CheckBooking("1A", "192.168.1.1"); result.Allowed {
					limiter.RecordBooking("1A", "192.168.1.1")
				}
			}
		}()
	}
	wg.Wait()
}
