package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/shotform/pkg/logger"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	TopN(ctx context.Context, n int) ([]Entry, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetLeaderboard handles GET /leaderboard?limit=N requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, fmt.Errorf("limit must be an integer in [1,%d]", h.maxLimit)))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", wrapKind(op, ErrBadRequest, fmt.Errorf("limit %d exceeds %d", n, h.maxLimit)))
		return
	}
	entries, err := h.deps.TopN(r.Context(), n)
	if err != nil {
		writeServiceError(r.Context(), w, logger.Nop(), op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
