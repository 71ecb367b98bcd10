package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/HIkaru827/musclegram/internal/models"
	"github.com/HIkaru827/musclegram/internal/records"
	"github.com/HIkaru827/musclegram/internal/workouts"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const defaultTrendLimit = 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePostWorkout(w http.ResponseWriter, r *http.Request) {
	var post models.WorkoutPost
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	post.UserID = userIDFromContext(r)
	// Workout IDs are assigned server-side.
	post.ID = uuid.Nil

	result, err := s.svc.Post(r.Context(), &post)
	if err != nil {
		s.writeError(w, "post workout", err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := workoutID(w, r)
	if !ok {
		return
	}
	post, err := s.svc.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, "get workout", err)
		return
	}
	if post.UserID != userIDFromContext(r) {
		s.writeError(w, "get workout", workouts.ErrForbidden)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := workoutID(w, r)
	if !ok {
		return
	}
	if _, err := s.svc.Delete(r.Context(), userIDFromContext(r), id); err != nil {
		s.writeError(w, "delete workout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePRs(w http.ResponseWriter, r *http.Request) {
	prType, ok := optionalPRType(w, r)
	if !ok {
		return
	}
	f := models.PRFilter{Exercise: r.URL.Query().Get("exercise"), Type: prType}
	recs, err := s.svc.PRs(r.Context(), userIDFromContext(r), f)
	if err != nil {
		s.writeError(w, "list records", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(recs))
}

func (s *Server) handleWeeklyPRs(w http.ResponseWriter, r *http.Request) {
	recs, err := s.svc.WeeklyPRs(r.Context(), userIDFromContext(r))
	if err != nil {
		s.writeError(w, "weekly records", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(recs))
}

func (s *Server) handlePRTrend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	exercise := q.Get("exercise")
	if exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}
	prType := models.PRType(q.Get("type"))
	if !prType.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "valid type parameter required"})
		return
	}
	limit := defaultTrendLimit
	if l := q.Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	recs, err := s.svc.PRTrend(r.Context(), userIDFromContext(r), exercise, prType, limit)
	if err != nil {
		s.writeError(w, "record trend", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(recs))
}

func (s *Server) handleGroupedPRs(w http.ResponseWriter, r *http.Request) {
	g, err := s.svc.GroupedPRs(r.Context(), userIDFromContext(r))
	if err != nil {
		s.writeError(w, "grouped records", err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.svc.Recommendations(r.Context(), userIDFromContext(r))
	if err != nil {
		s.writeError(w, "recommendations", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(recs))
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}
	view, err := s.svc.Analytics(r.Context(), userIDFromContext(r), exercise)
	if err != nil {
		s.writeError(w, "analytics", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}
	prType, ok := optionalPRType(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, records.Classify(exercise, prType))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Stats(r.Context(), userIDFromContext(r))
	if err != nil {
		s.writeError(w, "stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// writeError maps service errors to status codes. Unexpected errors are
// logged and reported as 500.
func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, workouts.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, workouts.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, workouts.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	default:
		s.log.Error(op+" failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func workoutID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return uuid.Nil, false
	}
	return id, true
}

func optionalPRType(w http.ResponseWriter, r *http.Request) (models.PRType, bool) {
	t := models.PRType(r.URL.Query().Get("type"))
	if t != "" && !t.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown PR type: " + string(t)})
		return "", false
	}
	return t, true
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
