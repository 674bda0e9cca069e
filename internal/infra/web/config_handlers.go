package web

import (
	"mime"
	"net/http"
	"strconv"

	"systems-console/internal/infra/metrics"
)

const actionConfigDownload = "config.download"

// handleConfigDownload streams revision crid of config file cfid as an attachment.
func (s *Server) handleConfigDownload(w http.ResponseWriter, r *http.Request) {
	actor, _ := CurrentUser(r.Context())
	cfid, err := idParam(r, "cfid")
	if err != nil {
		s.renderError(w, r, actionConfigDownload, err)
		return
	}
	crid, err := idParam(r, "crid")
	if err != nil {
		s.renderError(w, r, actionConfigDownload, err)
		return
	}

	dl, err := s.configs.Download(r.Context(), actor, cfid, crid)
	if err != nil {
		s.renderError(w, r, actionConfigDownload, err)
		return
	}

	body := dl.Contents()
	h := w.Header()
	h.Set("Content-Type", dl.ContentType())
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": dl.FileName()}))
	h.Set("Content-Length", strconv.Itoa(len(body)))
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		l := s.log.With().Str("action", actionConfigDownload).Logger()
		l.Warn().Err(err).Msg("write download")
	}
	metrics.IncActionRequest(actionConfigDownload, "ok")
}
