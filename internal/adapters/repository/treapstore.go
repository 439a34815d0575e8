package repository

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/okian/shotform/internal/domain/scoring"
	"github.com/okian/shotform/pkg/metrics"
)

// Treap-based, in-memory Leaderboard.
//
// Ordering: score DESC, then athleteID ASC. "less" means ranks earlier, so an
// in-order walk yields the board from best to worst. Ranks are dense: equal
// scores share a rank and the next score takes the next integer.

const defaultMetricsUpdateInterval = 5 * time.Second

// record is an athlete's best entry.
type record struct {
	score      int
	category   scoring.Category
	analysisID string
}

type node struct {
	id    string
	score int
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func less(aScore int, aID string, bScore int, bID string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, id string, score int) *node {
	if n == nil {
		return &node{id: id, score: score, prio: rand.Uint64(), size: 1}
	}
	if less(score, id, n.score, n.id) {
		n.left = insert(n.left, id, score)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, score)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, score int) *node {
	if n == nil {
		return nil
	}
	switch {
	case score == n.score && id == n.id:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, score)
		}
	case less(score, id, n.score, n.id):
		n.left = deleteNode(n.left, id, score)
	default:
		n.right = deleteNode(n.right, id, score)
	}
	fix(n)
	return n
}

// collectTopN appends up to limit nodes in rank order.
func collectTopN(n *node, limit int, out *[]*node) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, n)
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// TreapStore implements Leaderboard.
type TreapStore struct {
	mu   sync.RWMutex
	root *node
	byID map[string]record
	// scoreCounts holds how many athletes sit on each score; dense ranks are
	// read from its keys.
	scoreCounts map[int]int

	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewTreapStore constructs a treap leaderboard and starts its metrics updater.
// Call Close to stop it.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		byID:                  make(map[string]record),
		scoreCounts:           make(map[int]int),
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	metrics.UpdateRepositoryAthletes(0)
	s.startMetricsUpdater(ctx)
	return s
}

// Close stops the background metrics updater.
func (s *TreapStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// UpdateBest implements Leaderboard.UpdateBest in O(log n) expected time.
func (s *TreapStore) UpdateBest(ctx context.Context, e Entry) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	if strings.TrimSpace(e.AthleteID) == "" {
		metrics.RecordErrorByComponent("repository", "invalid_entry")
		return false, fmt.Errorf("%w: missing athlete id", ErrInvalidEntry)
	}
	if e.Score < 0 || e.Score > 100 {
		metrics.RecordErrorByComponent("repository", "invalid_entry")
		return false, fmt.Errorf("%w: score %d outside [0,100]", ErrInvalidEntry, e.Score)
	}

	s.mu.Lock()
	old, existed := s.byID[e.AthleteID]
	if existed {
		if e.Score <= old.score {
			s.mu.Unlock()
			return false, nil
		}
		s.root = deleteNode(s.root, e.AthleteID, old.score)
		s.decScore(old.score)
	}
	s.byID[e.AthleteID] = record{score: e.Score, category: e.Category, analysisID: e.AnalysisID}
	s.scoreCounts[e.Score]++
	s.root = insert(s.root, e.AthleteID, e.Score)
	count := len(s.byID)
	s.mu.Unlock()

	metrics.RecordLeaderboardUpdate()
	if !existed {
		metrics.UpdateRepositoryAthletes(count)
	}
	return true, nil
}

// Rank returns the athlete's entry with its dense rank.
func (s *TreapStore) Rank(_ context.Context, athleteID string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[athleteID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, fmt.Errorf("%w: athlete %s", ErrNotFound, athleteID)
	}
	return s.entry(athleteID, rec, s.denseRank(rec.score)), nil
}

// TopN returns the top n entries.
func (s *TreapStore) TopN(_ context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]*node, 0, min(n, len(s.byID)))
	collectTopN(s.root, n, &nodes)

	out := make([]Entry, 0, len(nodes))
	rank := 0
	for i, nd := range nodes {
		if i == 0 || nd.score != nodes[i-1].score {
			rank++
		}
		out = append(out, s.entry(nd.id, s.byID[nd.id], rank))
	}
	return out, nil
}

// Count returns the number of ranked athletes.
func (s *TreapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func (s *TreapStore) entry(id string, rec record, rank int) Entry {
	return Entry{
		Rank:       rank,
		AthleteID:  id,
		Score:      rec.score,
		Category:   rec.category,
		AnalysisID: rec.analysisID,
	}
}

// denseRank is 1 + the number of distinct scores above score. Scores live in
// [0,100] so this is bounded by a constant.
func (s *TreapStore) denseRank(score int) int {
	rank := 1
	for sc := range s.scoreCounts {
		if sc > score {
			rank++
		}
	}
	return rank
}

func (s *TreapStore) decScore(score int) {
	if s.scoreCounts[score] <= 1 {
		delete(s.scoreCounts, score)
		return
	}
	s.scoreCounts[score]--
}

func (s *TreapStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateRepositoryAthletes(s.Count(ctx))
			}
		}
	}()
}
