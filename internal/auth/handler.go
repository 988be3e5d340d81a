package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type guestRequest struct {
	// Token, when still valid, keeps the learner id and only extends expiry.
	Token string `json:"token"`
}

// Guest issues a learner token. An empty body creates a new learner.
func (h *Handler) Guest(w http.ResponseWriter, r *http.Request) {
	var req guestRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}

	var (
		result *GuestResult
		err    error
	)
	if req.Token != "" {
		var learnerID string
		learnerID, err = h.service.ValidateToken(req.Token)
		if err == nil {
			result, err = h.service.Renew(learnerID)
		}
	} else {
		result, err = h.service.Guest()
	}
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		slog.Error("issue guest token failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	status := http.StatusOK
	if req.Token == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
