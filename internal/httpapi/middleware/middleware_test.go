package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimit_AllowsThenBlocks(t *testing.T) {
	h := RateLimit(60, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "1.2.3.4:1234"

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("want 200 got %d", rr.Code)
		}
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != 429 {
		t.Fatalf("want 429 got %d", rr.Code)
	}

	time.Sleep(1100 * time.Millisecond)
	rr2 := httptest.NewRecorder()
	h.ServeHTTP(rr2, req)
	if rr2.Code != 200 {
		t.Fatalf("want 200 after refill got %d", rr2.Code)
	}
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	h := RateLimit(0, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	for i := 0; i < 50; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
		if rr.Code != 200 {
			t.Fatalf("disabled limiter blocked request %d", i)
		}
	}
}

func TestRequireAdmin(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	keys := []string{"adm_key"}

	// admin key -> 200
	req := httptest.NewRequest(http.MethodPost, "/config/endpoints", nil)
	req.Header.Set("X-API-Key", "adm_key")
	rec := httptest.NewRecorder()
	RequireAdmin(keys)(okHandler).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin key should pass; got %d", rec.Code)
	}

	// bearer form
	reqB := httptest.NewRequest(http.MethodPost, "/config/endpoints", nil)
	reqB.Header.Set("Authorization", "Bearer adm_key")
	recB := httptest.NewRecorder()
	RequireAdmin(keys)(okHandler).ServeHTTP(recB, reqB)
	if recB.Code != http.StatusOK {
		t.Fatalf("bearer admin key should pass; got %d", recB.Code)
	}

	// wrong key -> 401
	reqW := httptest.NewRequest(http.MethodPost, "/config/endpoints", nil)
	reqW.Header.Set("X-API-Key", "nope")
	recW := httptest.NewRecorder()
	RequireAdmin(keys)(okHandler).ServeHTTP(recW, reqW)
	if recW.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key should be 401; got %d", recW.Code)
	}

	// no keys configured -> open
	reqO := httptest.NewRequest(http.MethodPost, "/config/endpoints", nil)
	recO := httptest.NewRecorder()
	RequireAdmin(nil)(okHandler).ServeHTTP(recO, reqO)
	if recO.Code != http.StatusOK {
		t.Fatalf("unconfigured keys should allow; got %d", recO.Code)
	}
}
