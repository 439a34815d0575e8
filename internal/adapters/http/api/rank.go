package api

import (
	"context"
	"net/http"

	"github.com/okian/shotform/pkg/logger"
)

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	Rank(ctx context.Context, athleteID string) (Entry, error)
}

// RankHandler handles rank requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetRank handles GET /rank/{athlete_id} requests.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id, ok := pathParam(r.URL.Path, "/rank/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", newKind(op, ErrBadRequest))
		return
	}
	entry, err := h.deps.Rank(r.Context(), id)
	if err != nil {
		writeServiceError(r.Context(), w, logger.Nop(), op, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
