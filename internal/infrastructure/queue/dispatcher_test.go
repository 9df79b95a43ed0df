package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/videocatalog/video-metadata-service/internal/core/domain"
)

type recordingRepo struct {
	mu      sync.Mutex
	events  []domain.AuthEvent
	failFor string
	block   chan struct{}
}

func (r *recordingRepo) InsertEvent(_ context.Context, e *domain.AuthEvent) error {
	if r.block != nil {
		<-r.block
	}
	if e.Username == r.failFor {
		return errors.New("write failed")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return nil
}

func (r *recordingRepo) snapshot() []domain.AuthEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuthEvent(nil), r.events...)
}

func TestDispatcher_WritesAllEventsInPerUserOrder(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(3, repo, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < 20; i++ {
		d.Record(domain.AuthEvent{Type: domain.AuthEventLoginFailed, Username: "alice", Detail: string(rune('a' + i))})
		d.Record(domain.AuthEvent{Type: domain.AuthEventLoginSucceeded, Username: "bob"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	events := repo.snapshot()
	if len(events) != 40 {
		t.Fatalf("expected 40 events written, got %d", len(events))
	}

	next := 'a'
	for _, e := range events {
		if e.Username != "alice" {
			continue
		}
		if e.Detail != string(next) {
			t.Fatalf("alice's events out of order: got %q, want %q", e.Detail, string(next))
		}
		next++
	}
}

func TestDispatcher_DropsWhenShardFull(t *testing.T) {
	repo := &recordingRepo{block: make(chan struct{})}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start(context.Background())

	// one event is held by the blocked worker, channelBuffer fill the shard
	for i := 0; i < channelBuffer+10; i++ {
		d.Record(domain.AuthEvent{Type: domain.AuthEventLoginFailed, Username: "mallory"})
	}

	close(repo.block)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	written := len(repo.snapshot())
	if written >= channelBuffer+10 {
		t.Fatalf("expected some events to be dropped, all %d were written", written)
	}
	if written < channelBuffer {
		t.Fatalf("expected at least a full shard to be written, got %d", written)
	}
}

func TestDispatcher_RecordAfterShutdownIsDropped(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(2, repo, zerolog.Nop())
	d.Start(context.Background())

	if err := d.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	d.Record(domain.AuthEvent{Type: domain.AuthEventLoginSucceeded, Username: "late"})

	if n := len(repo.snapshot()); n != 0 {
		t.Fatalf("expected nothing written after shutdown, got %d", n)
	}
	// second shutdown is a no-op
	if err := d.Shutdown(context.Background()); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
}

func TestDispatcher_WriteFailureDoesNotStopWorker(t *testing.T) {
	repo := &recordingRepo{failFor: "broken"}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start(context.Background())

	d.Record(domain.AuthEvent{Type: domain.AuthEventLoginFailed, Username: "broken"})
	d.Record(domain.AuthEvent{Type: domain.AuthEventLoginSucceeded, Username: "fine"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	events := repo.snapshot()
	if len(events) != 1 || events[0].Username != "fine" {
		t.Fatalf("expected only the healthy event, got %+v", events)
	}
}
