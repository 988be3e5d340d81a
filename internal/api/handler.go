package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/samui/samui/backend-go/internal/auth"
	"github.com/samui/samui/backend-go/internal/games"
	"github.com/samui/samui/backend-go/internal/progress"
)

const maxSnapshotBytes = 1 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes registers the handlers on r. r is expected to carry the auth
// middleware.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/games", h.ListGames).Methods("GET")
	r.HandleFunc("/games/{gameId}/score", h.ScoreGame).Methods("POST")
	r.HandleFunc("/progress", h.ListProgress).Methods("GET")
	r.HandleFunc("/progress/{gameId}", h.GetProgress).Methods("GET")
	r.HandleFunc("/progress/{gameId}", h.PutProgress).Methods("PUT")
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	learnerID := auth.LearnerIDFromContext(r.Context())

	list, err := h.service.Games(r.Context(), learnerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) ScoreGame(w http.ResponseWriter, r *http.Request) {
	learnerID := auth.LearnerIDFromContext(r.Context())
	gameID := mux.Vars(r)["gameId"]

	body, ok := readSnapshot(w, r)
	if !ok {
		return
	}

	score, err := h.service.Score(r.Context(), learnerID, gameID, body)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, score)
}

func (h *Handler) ListProgress(w http.ResponseWriter, r *http.Request) {
	learnerID := auth.LearnerIDFromContext(r.Context())

	list, err := h.service.Completions(r.Context(), learnerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// GetProgress accepts an optional startedAt query parameter in Unix
// milliseconds for the skip countdown.
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	learnerID := auth.LearnerIDFromContext(r.Context())
	gameID := mux.Vars(r)["gameId"]

	var started time.Time
	if v := r.URL.Query().Get("startedAt"); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "startedAt must be unix milliseconds"})
			return
		}
		started = time.UnixMilli(ms)
	}

	p, err := h.service.Progress(r.Context(), learnerID, gameID, started)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// PutProgress sets the completion flag. The body is the finished game's
// snapshot.
func (h *Handler) PutProgress(w http.ResponseWriter, r *http.Request) {
	learnerID := auth.LearnerIDFromContext(r.Context())
	gameID := mux.Vars(r)["gameId"]

	body, ok := readSnapshot(w, r)
	if !ok {
		return
	}

	p, err := h.service.Complete(r.Context(), learnerID, gameID, body)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func readSnapshot(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSnapshotBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "snapshot too large"})
		return nil, false
	}
	if len(body) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "snapshot is required"})
		return nil, false
	}
	return body, true
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, games.ErrUnknownGame):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown game"})
	case errors.Is(err, games.ErrInvalidState):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrNotComplete):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, progress.ErrStoreClosed):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "progress store unavailable"})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
