package httpprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idverify/internal/ocr"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc, mutate func(*Config)) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := Config{ID: "test-ocr", Endpoint: srv.URL, APIKey: "secret"}
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, WithHTTPClient(srv.Client()))
}

func TestRecognize(t *testing.T) {
	t.Run("sends signed url with bearer key and returns text", func(t *testing.T) {
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			var body recognizeRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "https://files.example/front.jpg?sig=abc", body.ImageURL)
			_, _ = w.Write([]byte(`{"text":"REPUBLIC OF THE PHILIPPINES"}`))
		}, nil)

		text, err := p.Recognize(context.Background(), "https://files.example/front.jpg?sig=abc")
		require.NoError(t, err)
		assert.Equal(t, "REPUBLIC OF THE PHILIPPINES", text)
	})

	t.Run("empty text is a valid answer", func(t *testing.T) {
		p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"text":""}`))
		}, nil)

		text, err := p.Recognize(context.Background(), "u")
		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("deadline maps to timeout", func(t *testing.T) {
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}, nil)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := p.Recognize(ctx, "u")
		require.Error(t, err)
		assert.Equal(t, ocr.ErrorTimeout, ocr.GetCategory(err))
	})
}

func TestRecognizeErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected ocr.ErrorCategory
	}{
		{"missing text field", http.StatusOK, `{"result":"x"}`, ocr.ErrorBadData},
		{"text of wrong type", http.StatusOK, `{"text":42}`, ocr.ErrorBadData},
		{"not json", http.StatusOK, `<html>oops</html>`, ocr.ErrorBadData},
		{"rejected input", http.StatusUnprocessableEntity, `{"error":"bad image"}`, ocr.ErrorBadData},
		{"unauthorized", http.StatusUnauthorized, ``, ocr.ErrorAuthentication},
		{"forbidden", http.StatusForbidden, ``, ocr.ErrorAuthentication},
		{"rate limited", http.StatusTooManyRequests, ``, ocr.ErrorRateLimited},
		{"server error", http.StatusBadGateway, `upstream down`, ocr.ErrorProviderOutage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, nil)

			text, err := p.Recognize(context.Background(), "u")
			require.Error(t, err)
			assert.Empty(t, text)
			assert.Equal(t, tt.expected, ocr.GetCategory(err))

			var pe *ocr.ProviderError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "test-ocr", pe.ProviderID)
		})
	}
}

func TestCircuitBreaker(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, func(cfg *Config) {
		cfg.BreakerMinRequests = 3
		cfg.BreakerFailureRatio = 1
		cfg.BreakerOpenTimeout = time.Minute
	})

	for range 3 {
		_, err := p.Recognize(context.Background(), "u")
		require.Error(t, err)
	}
	require.Equal(t, int32(3), calls.Load())

	_, err := p.Recognize(context.Background(), "u")
	require.Error(t, err)
	assert.Equal(t, ocr.ErrorProviderOutage, ocr.GetCategory(err))
	assert.Equal(t, int32(3), calls.Load(), "open breaker must not reach the provider")
}

func TestBadDataDoesNotTripBreaker(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}, func(cfg *Config) {
		cfg.BreakerMinRequests = 2
		cfg.BreakerFailureRatio = 1
	})

	for range 5 {
		_, err := p.Recognize(context.Background(), "u")
		assert.Equal(t, ocr.ErrorBadData, ocr.GetCategory(err))
	}
	assert.Equal(t, int32(5), calls.Load())
}

func TestLocalRateLimit(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"text":"ok"}`))
	}, func(cfg *Config) {
		cfg.RatePerSecond = 0.001
		cfg.Burst = 1
	})

	_, err := p.Recognize(context.Background(), "u")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = p.Recognize(ctx, "u")
	require.Error(t, err)
	category := ocr.GetCategory(err)
	assert.Contains(t, []ocr.ErrorCategory{ocr.ErrorRateLimited, ocr.ErrorTimeout}, category)
}
