package middleware

import (
	"context"
	"net/http"

	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

const TokenHeader = "X-FIT-TOKEN"

type tokenChecker interface {
	Enabled() bool
	IsAuthorized(ctx context.Context, token string) (bool, error)
}

type AuthMiddlewareHandler struct {
	tokenChecker tokenChecker
	allowedPaths map[string]bool
}

func NewAuthMiddlewareHandler(tokenChecker tokenChecker) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		tokenChecker: tokenChecker,
		allowedPaths: map[string]bool{
			"/health": true,
		},
	}
}

// isMutating tells whether the request changes stored data. Reads are never protected.
func isMutating(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if !h.tokenChecker.Enabled() || h.allowedPaths[r.URL.Path] || !isMutating(r) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			authToken := r.Header.Get(TokenHeader)
			if authToken == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized", nil)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			authorized, err := h.tokenChecker.IsAuthorized(ctx, authToken)
			if err != nil {
				log.Errorf("[failed token check] => %s: %s", r.URL.Path, err)
				pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized", nil)
				span.SetStatus(codes.Error, "check-token-err")
				span.RecordError(err)
				return
			}
			if !authorized {
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized", nil)
				span.SetStatus(codes.Error, "invalid-token")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
