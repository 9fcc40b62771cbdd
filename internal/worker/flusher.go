// Package worker drains the track-record queue into the storage backend so
// the capture loop never blocks on I/O.
package worker

import (
	"fmt"
	"sync"
	"time"

	"github.com/turretlab/arucotrack/internal/logging"
	"github.com/turretlab/arucotrack/internal/model"
	"github.com/turretlab/arucotrack/internal/queue"
	"github.com/turretlab/arucotrack/internal/storage"
)

// Flusher periodically writes queued track records to the backend.
type Flusher struct {
	queue    *queue.Queue[*model.TrackRecord]
	backend  storage.Backend
	log      *logging.SlogManager
	interval time.Duration

	mu           sync.Mutex
	lastDuration time.Duration
	flushedTotal uint64
	stopOnce     sync.Once
	stopChan     chan struct{}
	doneChan     chan struct{}
}

// NewFlusher creates a flusher draining q into backend every interval.
func NewFlusher(q *queue.Queue[*model.TrackRecord], backend storage.Backend, log *logging.SlogManager, interval time.Duration) *Flusher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Flusher{
		queue:    q,
		backend:  backend,
		log:      log,
		interval: interval,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start launches the flush goroutine.
func (f *Flusher) Start() {
	go f.run()
}

func (f *Flusher) run() {
	defer close(f.doneChan)
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-f.stopChan:
			return
		case <-ticker.C:
			if err := f.FlushOnce(); err != nil {
				f.log.WriteLog("flusher:run", fmt.Sprintf("Error flushing track records: %v", err), "ERROR")
			}
		}
	}
}

// FlushOnce drains the queue into the backend. Safe to call directly.
func (f *Flusher) FlushOnce() error {
	records := f.queue.GetAndEmpty()
	if len(records) == 0 {
		return nil
	}

	start := time.Now()
	var firstErr error
	for _, r := range records {
		if err := f.backend.RecordTrack(r); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	f.mu.Lock()
	f.lastDuration = time.Since(start)
	f.flushedTotal += uint64(len(records))
	f.mu.Unlock()

	return firstErr
}

// LastFlushDuration returns the duration of the last flush cycle.
func (f *Flusher) LastFlushDuration() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastDuration
}

// FlushedTotal returns the number of records handed to the backend.
func (f *Flusher) FlushedTotal() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flushedTotal
}

// Close stops the goroutine and performs a final drain.
func (f *Flusher) Close() error {
	f.stopOnce.Do(func() {
		close(f.stopChan)
	})
	<-f.doneChan
	return f.FlushOnce()
}
