package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"systems-console/internal/domain"
	"systems-console/internal/infra/logging"
	"systems-console/internal/infra/metrics"
)

// Problem types, RFC 7807 style.
const (
	TypeValidation   = "/errors/validation"
	TypeBadParameter = "/errors/bad-parameter"
	TypeNotFound     = "/errors/not-found"
	TypeConflict     = "/errors/conflict"
	TypeUnauthorized = "/errors/unauthorized"
	TypeForbidden    = "/errors/forbidden"
	TypeRateLimit    = "/errors/rate-limit"
	TypeTimeout      = "/errors/timeout"
	TypeInternal     = "/errors/internal"
)

// Problem is the JSON body of every failed request.
type Problem struct {
	Type     string        `json:"type"`
	Title    string        `json:"title"`
	Status   int           `json:"status"`
	Detail   string        `json:"detail,omitempty"`
	Instance string        `json:"instance,omitempty"`
	TraceID  string        `json:"trace_id,omitempty"`
	Errors   []messageView `json:"errors,omitempty"`
}

// Render implements the render.Renderer interface
func (p *Problem) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, p.Status)
	return nil
}

// paramError reports a missing or malformed request parameter.
type paramError struct{ Name string }

func (e *paramError) Error() string { return fmt.Sprintf("bad parameter %q", e.Name) }
func (e *paramError) Unwrap() error { return domain.ErrBadParameter }

func badParameter(name string) error { return &paramError{Name: name} }

// outcome classifies err for the request counter.
func outcome(err error) string {
	var perr *domain.PermissionError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &perr):
		return "denied"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrBadParameter):
		return "bad_request"
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		if _, ok := domain.IsValidation(err); ok {
			return "invalid"
		}
		return "error"
	}
}

func (s *Server) problem(r *http.Request, err error) *Problem {
	p := &Problem{Instance: r.URL.Path, TraceID: logging.TraceID(r.Context())}

	var (
		perr  *domain.PermissionError
		param *paramError
	)
	switch {
	case errors.As(err, &perr):
		p.Status, p.Type = http.StatusForbidden, TypeForbidden
		p.Title, p.Detail = s.tr.T(perr.Title), s.tr.T(perr.Summary)
	case errors.As(err, &param):
		p.Status, p.Type = http.StatusBadRequest, TypeBadParameter
		p.Title, p.Detail = "Bad Request", s.tr.T(domain.MsgBadParameter, param.Name)
	case errors.Is(err, domain.ErrBadParameter):
		p.Status, p.Type, p.Title = http.StatusBadRequest, TypeBadParameter, "Bad Request"
	case errors.Is(err, domain.ErrNotFound):
		p.Status, p.Type = http.StatusNotFound, TypeNotFound
		p.Title, p.Detail = "Not Found", s.tr.T(domain.MsgNotFound)
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrConflict):
		p.Status, p.Type = http.StatusConflict, TypeConflict
		p.Title, p.Detail = "Conflict", s.tr.T(domain.MsgConflict)
	case errors.Is(err, domain.ErrUnauthenticated):
		p.Status, p.Type, p.Title = http.StatusUnauthorized, TypeUnauthorized, "Unauthorized"
	case errors.Is(err, domain.ErrRateLimited):
		p.Status, p.Type = http.StatusTooManyRequests, TypeRateLimit
		p.Title, p.Detail = "Too Many Requests", s.tr.T(domain.MsgRateLimited)
	case errors.Is(err, context.DeadlineExceeded):
		p.Status, p.Type, p.Title = http.StatusGatewayTimeout, TypeTimeout, "Request Timeout"
	default:
		if ve, ok := domain.IsValidation(err); ok {
			p.Status, p.Type, p.Title = http.StatusUnprocessableEntity, TypeValidation, "Validation Failed"
			p.Errors = s.messages(ve.Messages)
			break
		}
		p.Status, p.Type = http.StatusInternalServerError, TypeInternal
		p.Title, p.Detail = "Internal Server Error", s.tr.T(domain.MsgInternal)
	}
	return p
}

// renderError responds with the problem matching err and records the outcome of action.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, action string, err error) {
	p := s.problem(r, err)
	metrics.IncActionRequest(action, outcome(err))

	l := logging.With(r.Context(), s.log)
	if p.Status >= http.StatusInternalServerError {
		l.Error().Err(err).Str("action", action).Msg("request failed")
	} else {
		l.Debug().Err(err).Str("action", action).Int("status", p.Status).Msg("request rejected")
	}
	_ = render.Render(w, r, p)
}
