package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/shotform/internal/domain/model"
)

func job(id string) model.Job {
	return model.Job{
		AnalysisID: id,
		AthleteID:  "athlete-" + id,
		Frames:     []model.Frame{{}},
	}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if c := q.Capacity(); c != 2 {
		t.Errorf("expected capacity 2, got %d", c)
	}

	if err := q.Enqueue(ctx, job("a1")); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Dequeue(ctx)
	if got.AnalysisID != "a1" || got.AthleteID != "athlete-a1" {
		t.Errorf("unexpected job %+v", got)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	for _, id := range []string{"a1", "a2"} {
		if err := q.Enqueue(ctx, job(id)); err != nil {
			t.Fatalf("expected enqueue of %s to succeed, got %v", id, err)
		}
	}

	err := q.Enqueue(ctx, job("a3"))
	if !errors.Is(err, ErrFull) {
		t.Errorf("expected ErrFull, got %v", err)
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Enqueue(ctx, job("a1")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if l := q.Len(context.Background()); l != 0 {
		t.Errorf("expected nothing queued, got %d", l)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const producers, perProducer = 10, 100

	var prod sync.WaitGroup
	for i := 0; i < producers; i++ {
		prod.Add(1)
		go func(id int) {
			defer prod.Done()
			for j := 0; j < perProducer; j++ {
				for q.Enqueue(ctx, job(fmt.Sprintf("a%d_%d", id, j))) != nil {
					time.Sleep(time.Millisecond)
				}
			}
		}(i)
	}

	var (
		mu   sync.Mutex
		seen = make(map[string]bool)
		cons sync.WaitGroup
	)
	for i := 0; i < 4; i++ {
		cons.Add(1)
		go func() {
			defer cons.Done()
			for j := range q.Dequeue(ctx) {
				mu.Lock()
				seen[j.AnalysisID] = true
				mu.Unlock()
			}
		}()
	}

	prod.Wait()
	_ = q.Close()
	cons.Wait()

	if len(seen) != producers*perProducer {
		t.Errorf("expected %d distinct jobs, got %d", producers*perProducer, len(seen))
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected final length 0, got %d", l)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	for _, id := range []string{"a1", "a2"} {
		if err := q.Enqueue(ctx, job(id)); err != nil {
			t.Fatalf("expected enqueue to succeed, got %v", err)
		}
	}
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if err := q.Enqueue(ctx, job("a3")); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	// Jobs queued before Close are still delivered, then the channel closes.
	var drained []string
	timeout := time.After(time.Second)
	ch := q.Dequeue(ctx)
	for done := false; !done; {
		select {
		case j, ok := <-ch:
			if !ok {
				done = true
				break
			}
			drained = append(drained, j.AnalysisID)
		case <-timeout:
			t.Fatal("expected dequeue channel to be closed within timeout")
		}
	}
	if len(drained) != 2 || drained[0] != "a1" || drained[1] != "a2" {
		t.Errorf("expected [a1 a2], got %v", drained)
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}
}
