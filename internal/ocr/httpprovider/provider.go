// Package httpprovider calls a remote OCR service over HTTP.
//
// Wire contract:
//
//	POST {endpoint}
//	Authorization: Bearer {api key}
//	{"image_url": "<signed url>"}
//
//	200 {"text": "<extracted text>"}
//
// The response is decoded against an explicit schema. Anything that does not
// fit it is reported as bad data, which the gateway turns into empty text.
package httpprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"idverify/internal/ocr"
)

// maxResponseBytes bounds provider bodies; ID cards carry a few hundred characters.
const maxResponseBytes = 1 << 20

// Config configures the HTTP provider.
type Config struct {
	ID       string
	Endpoint string
	APIKey   string

	// RatePerSecond limits outgoing calls; zero disables limiting.
	RatePerSecond float64
	Burst         int

	BreakerMinRequests  uint32
	BreakerFailureRatio float64
	BreakerOpenTimeout  time.Duration
}

func (c Config) normalize() Config {
	out := c
	if out.ID == "" {
		out.ID = "http-ocr"
	}
	if out.Burst <= 0 {
		out.Burst = 1
	}
	if out.BreakerMinRequests == 0 {
		out.BreakerMinRequests = 10
	}
	if out.BreakerFailureRatio <= 0 || out.BreakerFailureRatio > 1 {
		out.BreakerFailureRatio = 0.5
	}
	if out.BreakerOpenTimeout <= 0 {
		out.BreakerOpenTimeout = 30 * time.Second
	}
	return out
}

// Provider implements ocr.Provider against an HTTP endpoint.
type Provider struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[string]
	logger     *slog.Logger
}

type Option func(*Provider)

func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		if c != nil {
			p.httpClient = c
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// New constructs a Provider. Per-call deadlines come from the caller's context.
func New(cfg Config, opts ...Option) *Provider {
	cfg = cfg.normalize()
	p := &Provider{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	if cfg.RatePerSecond > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst)
	}
	for _, opt := range opts {
		opt(p)
	}
	p.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    cfg.ID,
		Timeout: cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.BreakerFailureRatio
		},
		// Only provider-side trouble should trip the breaker.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			switch ocr.GetCategory(err) {
			case ocr.ErrorProviderOutage, ocr.ErrorTimeout:
				return false
			default:
				return true
			}
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			p.logger.Warn("ocr circuit breaker state change", "provider", name, "from", from.String(), "to", to.String())
		},
	})
	return p
}

// ID returns the configured provider identifier.
func (p *Provider) ID() string {
	return p.cfg.ID
}

type recognizeRequest struct {
	ImageURL string `json:"image_url"`
}

type recognizeResponse struct {
	Text *string `json:"text"`
}

// Recognize submits imageURL and returns the extracted text.
func (p *Provider) Recognize(ctx context.Context, imageURL string) (string, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return "", ocr.NewProviderError(ocr.ErrorTimeout, p.cfg.ID, "waiting for rate limiter", ctx.Err())
			}
			return "", ocr.NewProviderError(ocr.ErrorRateLimited, p.cfg.ID, "local quota exceeded", err)
		}
	}

	text, err := p.breaker.Execute(func() (string, error) {
		return p.call(ctx, imageURL)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", ocr.NewProviderError(ocr.ErrorProviderOutage, p.cfg.ID, "circuit open", err)
	}
	return text, err
}

func (p *Provider) call(ctx context.Context, imageURL string) (string, error) {
	body, err := json.Marshal(recognizeRequest{ImageURL: imageURL})
	if err != nil {
		return "", ocr.NewProviderError(ocr.ErrorInternal, p.cfg.ID, "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", ocr.NewProviderError(ocr.ErrorInternal, p.cfg.ID, "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if p.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ocr.NewProviderError(ocr.ErrorTimeout, p.cfg.ID, "request deadline exceeded", ctx.Err())
		}
		return "", ocr.NewProviderError(ocr.ErrorProviderOutage, p.cfg.ID, "request failed", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if ctx.Err() != nil {
			return "", ocr.NewProviderError(ocr.ErrorTimeout, p.cfg.ID, "reading response", ctx.Err())
		}
		return "", ocr.NewProviderError(ocr.ErrorProviderOutage, p.cfg.ID, "reading response", err)
	}

	return parseResponse(p.cfg.ID, resp.StatusCode, payload)
}

// parseResponse maps a provider response onto text or a categorized error.
func parseResponse(providerID string, status int, body []byte) (string, error) {
	switch {
	case status == http.StatusTooManyRequests:
		return "", ocr.NewProviderError(ocr.ErrorRateLimited, providerID, "provider rate limit", nil)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "", ocr.NewProviderError(ocr.ErrorAuthentication, providerID, fmt.Sprintf("status %d", status), nil)
	case status >= 500:
		return "", ocr.NewProviderError(ocr.ErrorProviderOutage, providerID, fmt.Sprintf("status %d: %s", status, snippet(body)), nil)
	case status < 200 || status >= 300:
		return "", ocr.NewProviderError(ocr.ErrorBadData, providerID, fmt.Sprintf("status %d: %s", status, snippet(body)), nil)
	}

	var parsed recognizeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", ocr.NewProviderError(ocr.ErrorBadData, providerID, "malformed response body", err)
	}
	if parsed.Text == nil {
		return "", ocr.NewProviderError(ocr.ErrorBadData, providerID, "response missing text field", nil)
	}
	return *parsed.Text, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
