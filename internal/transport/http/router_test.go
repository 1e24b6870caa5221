package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"idverify/pkg/platform/middleware/auth"
	"idverify/pkg/requestcontext"
	"idverify/pkg/testutil"
)

type stubValidator struct{ userID string }

func (v stubValidator) ValidateToken(token string) (*auth.JWTClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &auth.JWTClaims{UserID: v.userID}, nil
}

type routes func(r chi.Router)

func (f routes) Register(r chi.Router) { f(r) }

func newTestRouter(checks map[string]HealthCheck) http.Handler {
	userID := uuid.NewString()
	protected := routes(func(r chi.Router) {
		r.Get("/v1/whoami", func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			_, _ = io.WriteString(w, requestcontext.UserID(ctx).String()+"|"+requestcontext.RequestID(ctx))
		})
	})
	public := routes(func(r chi.Router) {
		r.Get("/files/ping", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})
	return NewRouter(RouterConfig{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Validator: stubValidator{userID: userID},
		Public:    []Registrar{public},
		Protected: []Registrar{protected},
		Checks:    checks,
	})
}

func TestRouter(t *testing.T) {
	testutil.Given(t, "a router with one public and one protected route", func(t *testing.T) {
		router := newTestRouter(nil)

		testutil.When(t, "the protected route is called without a token", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/v1/whoami", ""))
			testutil.Then(t, "it is rejected", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusUnauthorized)
				testutil.AssertErrorCode(t, rr, "unauthorized")
			})
		})

		testutil.When(t, "the protected route is called with a valid token", func(t *testing.T) {
			req := testutil.NewRequestWithBody(t, http.MethodGet, "/v1/whoami", "")
			req.Header.Set("Authorization", "Bearer good")
			rr := testutil.DoRequest(router, req)
			testutil.Then(t, "the caller and request id reach the handler", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusOK)
				body := string(testutil.ReadBody(t, rr))
				assert.NotContains(t, body, uuid.Nil.String())
				assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
				assert.Contains(t, body, rr.Header().Get("X-Request-ID"))
			})
		})

		testutil.When(t, "the public route is called without a token", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/files/ping", ""))
			testutil.Then(t, "it is served", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusNoContent)
			})
		})
	})
}

func TestHealthz(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		router := newTestRouter(map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
		})
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/healthz", ""))
		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[healthResponse](t, rr)
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "ok", resp.Checks["postgres"])
	})

	t.Run("failing dependency", func(t *testing.T) {
		router := newTestRouter(map[string]HealthCheck{
			"redis": func(context.Context) error { return errors.New("connection refused") },
		})
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/healthz", ""))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		resp := testutil.UnmarshalResponse[healthResponse](t, rr)
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "unavailable", resp.Checks["redis"])
	})

	t.Run("metrics endpoint is public", func(t *testing.T) {
		rr := testutil.DoRequest(newTestRouter(nil), testutil.NewRequestWithBody(t, http.MethodGet, "/metrics", ""))
		testutil.AssertStatus(t, rr, http.StatusOK)
	})
}
