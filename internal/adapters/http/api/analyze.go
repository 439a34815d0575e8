package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/shotform/internal/app"
	"github.com/okian/shotform/internal/domain/model"
	"github.com/okian/shotform/pkg/logger"
)

// AnalyzeDependencies runs a synchronous analysis.
type AnalyzeDependencies interface {
	Analyze(ctx context.Context, req service.AnalyzeRequest) (model.Report, error)
}

// AnalyzeHandler handles POST /analyze.
type AnalyzeHandler struct {
	deps   AnalyzeDependencies
	logger logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps AnalyzeDependencies, l logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps, logger: l}
}

// HandleAnalyze scores one keypoint set. An unusable frame is a 422, never a
// zero score.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req service.AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Keypoints) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, errors.New("missing keypoints")))
		return
	}

	report, err := h.deps.Analyze(r.Context(), req)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
