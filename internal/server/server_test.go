package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cvlens/internal/config"
	cvlensErrors "cvlens/internal/errors"
)

func testServer(apiKeys []string, rateLimit *config.RateLimitConfig) *Server {
	return NewServer(&config.Config{}, ServerConfig{
		Host:           "localhost",
		Port:           "8080",
		Version:        "test",
		APIKeys:        apiKeys,
		MaxRequestSize: 1024,
		RateLimit:      rateLimit,
	}, cvlensErrors.NewLogger(slog.LevelError))
}

func TestAuthMiddleware(t *testing.T) {
	okHandler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	tests := []struct {
		name       string
		apiKeys    []string
		headers    map[string]string
		wantStatus int
	}{
		{
			name:       "no keys configured skips auth",
			apiKeys:    nil,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing key rejected",
			apiKeys:    []string{"secret-key-12345"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid X-API-Key accepted",
			apiKeys:    []string{"secret-key-12345"},
			headers:    map[string]string{"X-API-Key": "secret-key-12345"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid bearer token accepted",
			apiKeys:    []string{"secret-key-12345"},
			headers:    map[string]string{"Authorization": "Bearer secret-key-12345"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid key rejected",
			apiKeys:    []string{"secret-key-12345"},
			headers:    map[string]string{"X-API-Key": "wrong-key"},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testServer(tt.apiKeys, nil)
			handler := s.authMiddleware(okHandler)

			req := httptest.NewRequest(http.MethodPost, "/parse", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"short", "****"},
		{"12345678", "****"},
		{"123456789abcdef", "12345678****"},
	}

	for _, tt := range tests {
		if got := maskAPIKey(tt.key); got != tt.want {
			t.Errorf("maskAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestStatusForPipelineError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "validation error maps to 422",
			err:  cvlensErrors.NewQuestionsError(cvlensErrors.CodeEmptySkills, "no skills", nil),
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "entity shape error maps to 422",
			err:  cvlensErrors.NewEntitiesError(cvlensErrors.CodeBadShape, "bad payload", nil),
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "extraction failure maps to 500",
			err:  cvlensErrors.NewExtractionError(cvlensErrors.CodeExtractionFailed, "model down", nil),
			want: http.StatusInternalServerError,
		},
		{
			name: "plain error maps to 500",
			err:  fmt.Errorf("boom"),
			want: http.StatusInternalServerError,
		},
		{
			name: "wrapped pipeline error still detected",
			err:  fmt.Errorf("outer: %w", cvlensErrors.NewIngestionError(cvlensErrors.CodeFileNotFound, "gone", nil)),
			want: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForPipelineError(tt.err); got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(&config.RateLimitConfig{
		Enabled:        true,
		RequestsPerMin: 60,
		BurstCapacity:  2,
		ByIP:           true,
		Window:         time.Minute,
	})
	defer rl.Close()

	if !rl.Allow("ip:10.0.0.1") {
		t.Fatal("first request should be allowed")
	}
	if !rl.Allow("ip:10.0.0.1") {
		t.Fatal("second request within burst should be allowed")
	}
	if rl.Allow("ip:10.0.0.1") {
		t.Error("third request should exceed burst capacity")
	}

	// A different client has its own bucket
	if !rl.Allow("ip:10.0.0.2") {
		t.Error("separate client should not share a bucket")
	}

	stats := rl.GetStats()
	if stats["active_clients"].(int) != 2 {
		t.Errorf("active_clients = %v, want 2", stats["active_clients"])
	}
}

func TestRateLimitMiddlewareDisabled(t *testing.T) {
	s := testServer(nil, nil)
	handler := s.rateLimitMiddleware()(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/parse", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when rate limiting disabled", rec.Code)
	}
}

func TestRateLimitMiddlewareEnforced(t *testing.T) {
	s := testServer(nil, &config.RateLimitConfig{
		Enabled:        true,
		RequestsPerMin: 60,
		BurstCapacity:  1,
		ByIP:           true,
		Window:         time.Minute,
	})
	defer s.RateLimiter.Close()

	handler := s.rateLimitMiddleware()(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/parse", nil)
	req.RemoteAddr = "192.168.1.5:4242"

	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 response should carry Retry-After")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr fallback",
			remoteAddr: "203.0.113.7:51234",
			want:       "203.0.113.7",
		},
		{
			name:       "x-forwarded-for takes first entry",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.9, 10.0.0.2"},
			want:       "198.51.100.9",
		},
		{
			name:       "x-real-ip when no forwarded header",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "198.51.100.10"},
			want:       "198.51.100.10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseJSONRequest(t *testing.T) {
	t.Run("rejects non-json content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/questions", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "text/plain")

		var body QuestionsRequest
		if err := parseJSONRequest(req, &body); err == nil {
			t.Error("expected content-type error")
		}
	})

	t.Run("parses valid body", func(t *testing.T) {
		payload := `{"skills":"Go, SQL","numQuestions":3,"yearsOfExp":"5"}`
		req := httptest.NewRequest(http.MethodPost, "/questions", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		var body QuestionsRequest
		if err := parseJSONRequest(req, &body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if body.Skills != "Go, SQL" || body.NumQuestions != 3 || body.YearsOfExp != "5" {
			t.Errorf("unexpected body: %+v", body)
		}
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/questions", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")

		var body QuestionsRequest
		if err := parseJSONRequest(req, &body); err == nil {
			t.Error("expected JSON parse error")
		}
	})
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	s := testServer(nil, nil)
	handler := s.requestSizeLimitMiddleware()(func(w http.ResponseWriter, r *http.Request) {
		var body QuestionsRequest
		if err := parseJSONRequest(r, &body); err != nil {
			writeErrorResponse(w, "too large", err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	big := `{"skills":"` + strings.Repeat("x", 4096) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/questions", strings.NewReader(big))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413 for oversized body", rec.Code)
	}
}
