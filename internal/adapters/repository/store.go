// Package repository holds analysis results and the athlete leaderboard.
package repository

import (
	"context"

	"github.com/okian/shotform/internal/domain/model"
)

// Entry is a leaderboard row.
type Entry = model.LeaderboardEntry

// Leaderboard ranks athletes by their best form score.
type Leaderboard interface {
	// UpdateBest records e if its score beats the athlete's current best.
	// Equal scores keep the earlier entry. Returns true when the board changed.
	UpdateBest(ctx context.Context, e Entry) (bool, error)

	// Rank returns the athlete's current entry. Returns ErrNotFound for an
	// unknown athlete.
	Rank(ctx context.Context, athleteID string) (Entry, error)

	// TopN returns up to n entries ordered by score desc, athlete id asc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of ranked athletes.
	Count(ctx context.Context) int
}

// ResultStore keeps job results by analysis id.
type ResultStore interface {
	Put(ctx context.Context, r model.JobResult) error
	Get(ctx context.Context, analysisID string) (model.JobResult, error)
	Delete(ctx context.Context, analysisID string)
	Count(ctx context.Context) int
}
