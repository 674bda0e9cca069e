package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"systems-console/internal/domain"
	"systems-console/internal/domain/model"
	"systems-console/internal/domain/ports/repository"
	"systems-console/internal/infra/logging"
)

// TraceIDHeader is echoed back so clients can quote it in bug reports.
const TraceIDHeader = "X-Trace-Id"

func TraceID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tid := r.Header.Get(TraceIDHeader)
			if _, err := uuid.Parse(tid); err != nil {
				tid = uuid.NewString()
			}
			w.Header().Set(TraceIDHeader, tid)
			ctx := logging.WithTraceID(r.Context(), tid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequestLog(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			// Authenticate stores the enriched context on ww.
			l := logging.With(ww.ctx(r), logger)
			l.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.status).
				Dur("duration", time.Since(start)).
				Msg("http_request")
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
	reqCtx context.Context
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *respWriter) ctx(r *http.Request) context.Context {
	if w.reqCtx != nil {
		return w.reqCtx
	}
	return r.Context()
}

func Recover(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					l := logging.With(r.Context(), logger)
					l.Error().Interface("panic", rec).Msg("panic recovered")
					http.Error(w, "internal error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type userCtxKey struct{}

// CurrentUser returns the authenticated user of the request.
func CurrentUser(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(*model.User)
	return u, ok && u != nil
}

func withUser(ctx context.Context, u *model.User) context.Context {
	ctx = context.WithValue(ctx, userCtxKey{}, u)
	ctx = logging.WithUserID(ctx, u.ID)
	return logging.WithOrgID(ctx, u.OrgID)
}

// Authenticate resolves the session token into the current user. Roles and the disabled
// flag are read from the user store, so revocations apply before the token expires.
func (s *Server) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			s.renderError(w, r, "auth", err)
			return
		}
		u, err := s.userRepo.FindByID(r.Context(), repository.NoTX, claims.UserID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			s.renderError(w, r, "auth", domain.ErrUnauthenticated)
			return
		case err != nil:
			s.renderError(w, r, "auth", err)
			return
		}
		if u.Disabled || u.OrgID != claims.OrgID {
			s.renderError(w, r, "auth", domain.ErrUnauthenticated)
			return
		}

		ctx := withUser(r.Context(), u)
		if ww, ok := w.(*respWriter); ok {
			ww.reqCtx = ctx
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
