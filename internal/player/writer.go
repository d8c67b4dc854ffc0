package player

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Writer saves records in the background so gameplay never waits on the
// database. Snapshots queued for the same user before a flush collapse into
// the latest one.
type Writer struct {
	repo   Repository
	logger *log.Logger

	mu      sync.Mutex
	pending map[string]Record
	notify  chan struct{}
}

func NewWriter(repo Repository, logger *log.Logger) *Writer {
	return &Writer{
		repo:    repo,
		logger:  logger,
		pending: make(map[string]Record),
		notify:  make(chan struct{}, 1),
	}
}

// Enqueue never blocks.
func (w *Writer) Enqueue(rec Record) {
	if rec.UserID == "" {
		return
	}
	w.mu.Lock()
	w.pending[rec.UserID] = rec
	w.mu.Unlock()

	select {
	case w.notify <- struct{}{}:
	default:
	}
}

// Pending reports how many users have unsaved snapshots.
func (w *Writer) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// Run saves queued records until ctx is cancelled, then makes one last
// attempt to save whatever is left.
func (w *Writer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			w.Flush(flushCtx)
			cancel()
			return nil
		case <-w.notify:
			w.Flush(ctx)
		}
	}
}

// Flush saves every pending record now. Failures are logged and dropped;
// the next round queues a fresher snapshot anyway.
func (w *Writer) Flush(ctx context.Context) {
	w.mu.Lock()
	batch := w.pending
	w.pending = make(map[string]Record)
	w.mu.Unlock()

	for id, rec := range batch {
		if err := w.repo.Save(ctx, &rec); err != nil {
			w.logger.Error("Failed to save player", "user", id, "error", err)
			continue
		}
		w.logger.Debug("Saved player", "user", id, "hands", rec.HandsPlayed, "credits", rec.Credits)
	}
}
