package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/shotform/internal/domain/model"
	"github.com/okian/shotform/pkg/logger"
)

// AnalysesDependencies submits jobs and reads their results.
type AnalysesDependencies interface {
	// Submit enqueues job. duplicate is true when the analysis id was seen.
	Submit(ctx context.Context, job model.Job) (duplicate bool, err error)
	Result(ctx context.Context, analysisID string) (model.JobResult, error)
}

// jobRequest mirrors the OpenAPI schema for POST /analyses.
type jobRequest struct {
	AnalysisID string        `json:"analysis_id"`
	AthleteID  string        `json:"athlete_id"`
	Frames     []model.Frame `json:"frames"`
}

type ackResponse struct {
	Status     string `json:"status"`
	Duplicate  bool   `json:"duplicate"`
	AnalysisID string `json:"analysis_id"`
}

// AnalysesHandler handles the async job endpoints.
type AnalysesHandler struct {
	deps   AnalysesDependencies
	logger logger.Logger
}

// NewAnalysesHandler creates a new analyses handler.
func NewAnalysesHandler(deps AnalysesDependencies, l logger.Logger) *AnalysesHandler {
	return &AnalysesHandler{deps: deps, logger: l}
}

// HandleSubmit handles POST /analyses.
func (h *AnalysesHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_analysis"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req jobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.AnalysisID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, errMissing("analysis_id")))
		return
	}

	dup, err := h.deps.Submit(r.Context(), model.Job{
		AnalysisID: req.AnalysisID,
		AthleteID:  req.AthleteID,
		Frames:     req.Frames,
	})
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	if dup {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true, AnalysisID: req.AnalysisID})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", AnalysisID: req.AnalysisID})
}

// HandleGetResult handles GET /analyses/{analysis_id}.
func (h *AnalysesHandler) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_analysis"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id, ok := pathParam(r.URL.Path, "/analyses/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", newKind(op, ErrBadRequest))
		return
	}
	res, err := h.deps.Result(r.Context(), id)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
