package service

import (
	"testing"
	"time"
)

func TestMemoryRateLimiter_BlocksAfterLimit(t *testing.T) {
	limiter := NewMemoryRateLimiter(time.Minute, 3)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("1.2.3.4") {
			t.Fatalf("expected request %d to be allowed", i+1)
		}
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatalf("expected request over the limit to be blocked")
	}
}

func TestMemoryRateLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewMemoryRateLimiter(time.Minute, 1)

	if !limiter.Allow("1.2.3.4") {
		t.Fatalf("expected first key to be allowed")
	}
	if !limiter.Allow("5.6.7.8") {
		t.Fatalf("expected second key to be allowed")
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatalf("expected first key to be blocked")
	}
}

func TestMemoryRateLimiter_WindowExpires(t *testing.T) {
	limiter := NewMemoryRateLimiter(50*time.Millisecond, 1)

	if !limiter.Allow("1.2.3.4") {
		t.Fatalf("expected first request to be allowed")
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatalf("expected second request to be blocked")
	}
	time.Sleep(60 * time.Millisecond)
	if !limiter.Allow("1.2.3.4") {
		t.Fatalf("expected request after window to be allowed")
	}
}
