package worker

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turretlab/arucotrack/internal/logging"
	"github.com/turretlab/arucotrack/internal/model"
	"github.com/turretlab/arucotrack/internal/queue"
)

// fakeBackend records everything handed to it.
type fakeBackend struct {
	mu      sync.Mutex
	records []model.TrackRecord
	failing bool
}

func (b *fakeBackend) Init() error { return nil }
func (b *fakeBackend) Close() error { return nil }

func (b *fakeBackend) RecordTrack(r *model.TrackRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failing {
		return fmt.Errorf("backend unavailable")
	}
	b.records = append(b.records, *r)
	return nil
}

func (b *fakeBackend) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}

func TestFlushOnce_DrainsQueue(t *testing.T) {
	q := queue.New[*model.TrackRecord]()
	backend := &fakeBackend{}
	f := NewFlusher(q, backend, logging.NewSlogManager(), time.Second)

	q.Push(&model.TrackRecord{MarkerID: 1}, &model.TrackRecord{MarkerID: 2})
	require.NoError(t, f.FlushOnce())

	assert.Equal(t, 2, backend.count())
	assert.True(t, q.Empty())
	assert.Equal(t, uint64(2), f.FlushedTotal())
}

func TestFlushOnce_EmptyQueueIsNoop(t *testing.T) {
	q := queue.New[*model.TrackRecord]()
	f := NewFlusher(q, &fakeBackend{}, logging.NewSlogManager(), time.Second)
	require.NoError(t, f.FlushOnce())
	assert.Equal(t, uint64(0), f.FlushedTotal())
}

func TestFlushOnce_PropagatesBackendError(t *testing.T) {
	q := queue.New[*model.TrackRecord]()
	f := NewFlusher(q, &fakeBackend{failing: true}, logging.NewSlogManager(), time.Second)

	q.Push(&model.TrackRecord{MarkerID: 1})
	assert.Error(t, f.FlushOnce())
}

func TestClose_FinalDrain(t *testing.T) {
	q := queue.New[*model.TrackRecord]()
	backend := &fakeBackend{}
	f := NewFlusher(q, backend, logging.NewSlogManager(), time.Hour) // ticker never fires
	f.Start()

	q.Push(&model.TrackRecord{MarkerID: 5})
	require.NoError(t, f.Close())

	assert.Equal(t, 1, backend.count())
}

func TestStart_PeriodicFlush(t *testing.T) {
	q := queue.New[*model.TrackRecord]()
	backend := &fakeBackend{}
	f := NewFlusher(q, backend, logging.NewSlogManager(), 10*time.Millisecond)
	f.Start()
	defer f.Close()

	q.Push(&model.TrackRecord{MarkerID: 1})

	assert.Eventually(t, func() bool {
		return backend.count() == 1
	}, 2*time.Second, 10*time.Millisecond)
}
