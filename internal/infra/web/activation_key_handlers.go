package web

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"systems-console/internal/domain"
	"systems-console/internal/infra/metrics"
)

const (
	actionKeyCreate = "activationkey.create"
	actionKeyEdit   = "activationkey.edit"
)

func (s *Server) handleKeyCreateSetup(w http.ResponseWriter, r *http.Request) {
	actor, _ := CurrentUser(r.Context())
	setup, err := s.keys.Setup(r.Context(), actor)
	if err != nil {
		s.renderError(w, r, actionKeyCreate, err)
		return
	}
	page := newKeyPage(setup)
	page.Create = true
	page.Form = emptyKeyForm()
	s.renderPage(w, r, actionKeyCreate, http.StatusOK, page)
}

func (s *Server) handleKeyCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := CurrentUser(r.Context())
	setup, err := s.keys.Setup(r.Context(), actor)
	if err != nil {
		s.renderError(w, r, actionKeyCreate, err)
		return
	}
	page := newKeyPage(setup)
	page.Create = true

	form, err := parseKeyForm(r)
	if err != nil {
		s.renderError(w, r, actionKeyCreate, err)
		return
	}
	page.Form = form.view()
	if err := s.validateKeyForm(form); err != nil {
		s.renderInvalid(w, r, actionKeyCreate, page, err)
		return
	}

	res, err := s.keys.Create(r.Context(), actor, form.input())
	if err != nil {
		s.renderInvalid(w, r, actionKeyCreate, page, err)
		return
	}
	page.Create = false
	page.fillFromKey(res.Key)
	page.Messages = s.messages(res.Messages)
	w.Header().Set("Location", fmt.Sprintf("/activationkeys/edit?tid=%d", res.Key.ID))
	s.renderPage(w, r, actionKeyCreate, http.StatusCreated, page)
}

func (s *Server) handleKeyEditSetup(w http.ResponseWriter, r *http.Request) {
	actor, _ := CurrentUser(r.Context())
	setup, err := s.keys.Setup(r.Context(), actor)
	if err != nil {
		s.renderError(w, r, actionKeyEdit, err)
		return
	}
	tid, err := idParam(r, "tid")
	if err != nil {
		s.renderError(w, r, actionKeyEdit, err)
		return
	}
	key, err := s.keys.Get(r.Context(), actor, tid)
	if err != nil {
		s.renderError(w, r, actionKeyEdit, err)
		return
	}
	page := newKeyPage(setup)
	page.fillFromKey(key)
	s.renderPage(w, r, actionKeyEdit, http.StatusOK, page)
}

func (s *Server) handleKeyUpdate(w http.ResponseWriter, r *http.Request) {
	actor, _ := CurrentUser(r.Context())
	setup, err := s.keys.Setup(r.Context(), actor)
	if err != nil {
		s.renderError(w, r, actionKeyEdit, err)
		return
	}
	tid, err := idParam(r, "tid")
	if err != nil {
		s.renderError(w, r, actionKeyEdit, err)
		return
	}
	page := newKeyPage(setup)
	page.TID = tid

	form, err := parseKeyForm(r)
	if err != nil {
		s.renderError(w, r, actionKeyEdit, err)
		return
	}
	page.Form = form.view()
	if err := s.validateKeyForm(form); err != nil {
		s.renderInvalid(w, r, actionKeyEdit, page, err)
		return
	}

	res, err := s.keys.Update(r.Context(), actor, tid, form.input())
	if err != nil {
		s.renderInvalid(w, r, actionKeyEdit, page, err)
		return
	}
	page.fillFromKey(res.Key)
	page.Messages = s.messages(res.Messages)
	s.renderPage(w, r, actionKeyEdit, http.StatusOK, page)
}

// renderInvalid redisplays page with the messages of a validation error. Any other error
// is rendered as a problem.
func (s *Server) renderInvalid(w http.ResponseWriter, r *http.Request, action string, page *keyPage, err error) {
	ve, ok := domain.IsValidation(err)
	if !ok {
		s.renderError(w, r, action, err)
		return
	}
	page.Errors = s.messages(ve.Messages)
	s.renderPage(w, r, action, http.StatusUnprocessableEntity, page)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, action string, status int, page render.Renderer) {
	if status == http.StatusUnprocessableEntity {
		metrics.IncActionRequest(action, "invalid")
	} else {
		metrics.IncActionRequest(action, "ok")
	}
	render.Status(r, status)
	if err := render.Render(w, r, page); err != nil {
		l := s.log.With().Str("action", action).Logger()
		l.Error().Err(err).Msg("render page")
	}
}

func emptyKeyForm() keyFormView {
	return keyFormView{
		SelectedEntitlements: []string{},
		ChildChannels:        []string{},
	}
}
