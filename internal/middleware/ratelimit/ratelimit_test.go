package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	l := New(3, time.Minute)
	defer l.Close()

	for i := 0; i < 3; i++ {
		if ok, _ := l.Allow("10.0.0.1"); !ok {
			t.Fatalf("request %d rejected, want allowed", i+1)
		}
	}
	ok, retryAfter := l.Allow("10.0.0.1")
	if ok {
		t.Fatal("request over the limit was allowed")
	}
	if retryAfter <= 0 || retryAfter > time.Minute {
		t.Fatalf("retryAfter = %v, want within (0, 1m]", retryAfter)
	}
}

func TestAllowIsPerClient(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Close()

	l.Allow("10.0.0.1")
	if ok, _ := l.Allow("10.0.0.2"); !ok {
		t.Fatal("second client rejected by first client's quota")
	}
}

func TestWindowReset(t *testing.T) {
	l := New(1, 10*time.Millisecond)
	defer l.Close()

	l.Allow("10.0.0.1")
	if ok, _ := l.Allow("10.0.0.1"); ok {
		t.Fatal("request over the limit was allowed")
	}
	time.Sleep(20 * time.Millisecond)
	if ok, _ := l.Allow("10.0.0.1"); !ok {
		t.Fatal("request after window reset was rejected")
	}
}

func TestMiddleware(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Close()

	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:54321"

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After header")
	}
}
