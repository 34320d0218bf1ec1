package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/drpaneas/gitroast/internal/roaster"
)

// User-facing error messages.
const (
	msgUsernameRequired = "Username is required"
	msgNoRepositories   = "No repositories found. Did you mistake GitHub for Instagram?"
	msgRoastFailed      = "Failed to roast. Your code is so bad it broke our roaster."
)

// Roaster produces a roast for a username.
type Roaster interface {
	Roast(ctx context.Context, username string) (*roaster.Result, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

type roastHandler struct {
	roaster Roaster
	logger  *slog.Logger
}

func (h *roastHandler) handleRoast(w http.ResponseWriter, r *http.Request) {
	res, err := h.roaster.Roast(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// writeError maps pipeline errors to a status and a flat message. Upstream
// details are logged, never returned.
func (h *roastHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, roaster.ErrUsernameRequired):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgUsernameRequired})
	case errors.Is(err, roaster.ErrNoRepositories):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: msgNoRepositories})
	default:
		h.logger.Error("roast failed",
			"request_id", chimiddleware.GetReqID(r.Context()),
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgRoastFailed})
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}
