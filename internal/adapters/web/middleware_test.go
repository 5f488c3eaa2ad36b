package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestIDRejectsUnsafeCallerValue(t *testing.T) {
	tests := []struct {
		name     string
		supplied string
		keep     bool
	}{
		{"absent", "", false},
		{"safe", "abc-123-DEF", true},
		{"unsafe characters", "x; DROP TABLE", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			if tt.supplied != "" {
				req.Header.Set("X-Request-ID", tt.supplied)
			}
			rec := httptest.NewRecorder()
			RequestID(okHandler()).ServeHTTP(rec, req)

			got := rec.Header().Get("X-Request-ID")
			if got == "" {
				t.Fatal("response missing X-Request-ID")
			}
			if tt.keep && got != tt.supplied {
				t.Errorf("safe caller id replaced: got %q", got)
			}
			if !tt.keep && got == tt.supplied {
				t.Errorf("unsafe caller id %q passed through", tt.supplied)
			}
		})
	}
}

func TestCORSOnlyForConfiguredOrigins(t *testing.T) {
	mw := CORS("https://dash.example.com, https://ops.example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Origin", "https://dash.example.com")
	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://dash.example.com" {
		t.Errorf("configured origin not allowed: %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unlisted origin allowed: %q", got)
	}

	// Empty configuration disables CORS even for well-formed origins.
	req = httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Origin", "https://dash.example.com")
	rec = httptest.NewRecorder()
	CORS("")(okHandler()).ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("CORS active with empty configuration: %q", got)
	}
}
