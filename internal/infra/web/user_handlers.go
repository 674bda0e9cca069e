package web

import (
	"context"
	"net/http"

	"systems-console/internal/domain/model"
	"systems-console/internal/usecase"
)

const actionEnableUser = "user.enable"

// handleEnableUserSetup shows the enable confirmation for uid. The org admin check runs
// before uid is read.
func (s *Server) handleEnableUserSetup(w http.ResponseWriter, r *http.Request) {
	s.enableUser(w, r, s.users.EnableSetup)
}

func (s *Server) handleEnableUser(w http.ResponseWriter, r *http.Request) {
	s.enableUser(w, r, s.users.Enable)
}

func (s *Server) enableUser(w http.ResponseWriter, r *http.Request, run func(ctx context.Context, actor *model.User, uid int64) (*usecase.EnableResult, error)) {
	actor, _ := CurrentUser(r.Context())
	if err := usecase.RequireOrgAdmin(actor); err != nil {
		s.renderError(w, r, actionEnableUser, err)
		return
	}
	uid, err := idParam(r, "uid")
	if err != nil {
		s.renderError(w, r, actionEnableUser, err)
		return
	}
	res, err := run(r.Context(), actor, uid)
	if err != nil {
		s.renderError(w, r, actionEnableUser, err)
		return
	}
	s.renderPage(w, r, actionEnableUser, http.StatusOK, s.newEnableUserPage(res))
}
