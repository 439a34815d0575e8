package api

import (
	"context"
	"net/http"

	"github.com/okian/shotform/internal/domain/corpus"
	"github.com/okian/shotform/pkg/logger"
)

// ShooterDependencies reads the reference corpus.
type ShooterDependencies interface {
	Shooters(ctx context.Context) []corpus.ShooterReference
	Shooter(ctx context.Context, id string) (corpus.ShooterReference, error)
}

// ShootersHandler serves the reference corpus.
type ShootersHandler struct {
	deps ShooterDependencies
}

// NewShootersHandler creates a new shooters handler.
func NewShootersHandler(deps ShooterDependencies) *ShootersHandler {
	return &ShootersHandler{deps: deps}
}

// HandleList handles GET /shooters.
func (h *ShootersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Shooters(r.Context()))
}

// HandleGet handles GET /shooters/{id}.
func (h *ShootersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_shooter"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id, ok := pathParam(r.URL.Path, "/shooters/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", newKind(op, ErrBadRequest))
		return
	}
	ref, err := h.deps.Shooter(r.Context(), id)
	if err != nil {
		writeServiceError(r.Context(), w, logger.Nop(), op, err)
		return
	}
	writeJSON(w, http.StatusOK, ref)
}
