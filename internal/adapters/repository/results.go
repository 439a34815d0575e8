package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/shotform/internal/domain/model"
	"github.com/okian/shotform/pkg/metrics"
)

// MemoryResults implements ResultStore with a map.
type MemoryResults struct {
	mu   sync.RWMutex
	byID map[string]model.JobResult
}

// NewMemoryResults returns an empty result store.
func NewMemoryResults() *MemoryResults {
	metrics.UpdateRepositoryResults(0)
	return &MemoryResults{byID: make(map[string]model.JobResult)}
}

// Put stores r, replacing any previous result for the same analysis.
func (m *MemoryResults) Put(_ context.Context, r model.JobResult) error { //nolint:gocritic // hugeParam: stored by value
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	if strings.TrimSpace(r.AnalysisID) == "" {
		return fmt.Errorf("%w: missing analysis id", ErrInvalidEntry)
	}

	m.mu.Lock()
	m.byID[r.AnalysisID] = r
	n := len(m.byID)
	m.mu.Unlock()

	metrics.UpdateRepositoryResults(n)
	return nil
}

// Get returns the stored result.
func (m *MemoryResults) Get(_ context.Context, analysisID string) (model.JobResult, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.byID[analysisID]
	if !ok {
		return model.JobResult{}, fmt.Errorf("%w: analysis %s", ErrNotFound, analysisID)
	}
	return r, nil
}

// Delete forgets the result for analysisID. Unknown ids are a no-op.
func (m *MemoryResults) Delete(_ context.Context, analysisID string) {
	m.mu.Lock()
	delete(m.byID, analysisID)
	n := len(m.byID)
	m.mu.Unlock()

	metrics.UpdateRepositoryResults(n)
}

// Count returns the number of stored results.
func (m *MemoryResults) Count(_ context.Context) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}
