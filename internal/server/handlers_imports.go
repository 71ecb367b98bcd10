package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/HIkaru827/musclegram/internal/ingest"
	"github.com/HIkaru827/musclegram/internal/ingest/alpha"
)

func (s *Server) handleAlphaIngest(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	start := time.Now()

	logID, err := ingest.Begin(r.Context(), s.imports, uid, alpha.Source)
	if err != nil {
		s.writeError(w, "alpha ingest", err)
		return
	}

	result, err := s.alpha.Ingest(r.Context(), r.Body, uid)
	ingest.Finish(s.imports, s.log, logID, uid, alpha.Source, result, err, time.Since(start))
	if err != nil {
		s.log.Error("alpha ingest error", "user", uid, "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	logs, err := s.imports.QueryImportLogs(r.Context(), userIDFromContext(r), limit)
	if err != nil {
		s.writeError(w, "import logs", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(logs))
}
