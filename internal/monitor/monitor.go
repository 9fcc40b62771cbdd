// Package monitor tracks capture-loop throughput and periodically reports
// program status.
package monitor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/turretlab/arucotrack/internal/logging"
	"github.com/turretlab/arucotrack/internal/mode"
	"github.com/turretlab/arucotrack/internal/model"
	"github.com/turretlab/arucotrack/internal/queue"
	"github.com/turretlab/arucotrack/internal/session"
	"github.com/turretlab/arucotrack/internal/worker"
)

// PerfWriter receives periodic performance snapshots. The influx sink
// implements this; a nil writer disables the export.
type PerfWriter interface {
	WritePerformance(Snapshot) error
}

// Snapshot is one sample of loop health.
type Snapshot struct {
	Time          time.Time `json:"time"`
	RunID         string    `json:"run_id"`
	Mode          string    `json:"mode"`
	FPS           float64   `json:"fps"`
	Frames        uint64    `json:"frames"`
	Detections    uint64    `json:"detections"`
	Sends         uint64    `json:"sends"`
	NoMarkerSends uint64    `json:"no_marker_sends"`
	QueueLen      int       `json:"queue_len"`
	LastFlushMs   float64   `json:"last_flush_ms"`
	UptimeSec     float64   `json:"uptime_sec"`
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	LogManager  *logging.SlogManager
	Session     *session.Context
	ModeContext *mode.Context
	Queue       *queue.Queue[*model.TrackRecord]
	Flusher     *worker.Flusher
	StatusDir   string
	Interval    time.Duration
	PerfWriter  PerfWriter
}

// Service samples the counters on a ticker and writes status.txt.
type Service struct {
	deps Dependencies

	frames        atomic.Uint64
	detections    atomic.Uint64
	sends         atomic.Uint64
	noMarkerSends atomic.Uint64

	mu         sync.RWMutex
	isRunning  bool
	lastSample Snapshot
	stopChan   chan struct{}
	doneChan   chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = 5 * time.Second
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// FrameDone is called by the capture loop once per grabbed frame.
func (s *Service) FrameDone() { s.frames.Add(1) }

// DetectionsDone adds the number of markers found in a frame.
func (s *Service) DetectionsDone(n int) {
	if n > 0 {
		s.detections.Add(uint64(n))
	}
}

// SendDone is called after a delta packet went out.
func (s *Service) SendDone() { s.sends.Add(1) }

// NoMarkerSendDone is called after a no-marker sentinel went out.
func (s *Service) NoMarkerSendDone() { s.noMarkerSends.Add(1) }

// Sample computes a snapshot of the current counters. FPS is derived from
// the frame count delta since the previous sample.
func (s *Service) Sample() Snapshot {
	now := time.Now()
	frames := s.frames.Load()

	s.mu.Lock()
	prev := s.lastSample
	s.mu.Unlock()

	fps := 0.0
	if !prev.Time.IsZero() {
		if dt := now.Sub(prev.Time).Seconds(); dt > 0 {
			fps = float64(frames-prev.Frames) / dt
		}
	}

	snap := Snapshot{
		Time:          now,
		FPS:           fps,
		Frames:        frames,
		Detections:    s.detections.Load(),
		Sends:         s.sends.Load(),
		NoMarkerSends: s.noMarkerSends.Load(),
	}
	if s.deps.Session != nil {
		snap.RunID = s.deps.Session.RunID().String()
		snap.UptimeSec = s.deps.Session.Uptime().Seconds()
	}
	if s.deps.ModeContext != nil {
		snap.Mode = s.deps.ModeContext.Get().String()
	}
	if s.deps.Queue != nil {
		snap.QueueLen = s.deps.Queue.Len()
	}
	if s.deps.Flusher != nil {
		snap.LastFlushMs = float64(s.deps.Flusher.LastFlushDuration().Microseconds()) / 1000.0
	}

	s.mu.Lock()
	s.lastSample = snap
	s.mu.Unlock()

	return snap
}

// LastSample returns the most recent snapshot for the overlay.
func (s *Service) LastSample() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSample
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
			close(s.doneChan)
		}()

		logger := s.deps.LogManager.Logger()
		logger.Debug("Starting status monitor goroutine", "function", "monitor:Start")

		var statusFile *os.File
		if s.deps.StatusDir != "" {
			var err error
			statusFile, err = os.Create(filepath.Join(s.deps.StatusDir, "status.txt"))
			if err != nil {
				logger.Error("Error creating status file", "error", err)
			}
		}
		if statusFile != nil {
			defer statusFile.Close()
		}

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				snap := s.Sample()

				logger.Debug("status",
					"mode", snap.Mode,
					"fps", fmt.Sprintf("%.1f", snap.FPS),
					"frames", snap.Frames,
					"detections", snap.Detections,
					"sends", snap.Sends,
					"queue", snap.QueueLen,
				)

				if statusFile != nil {
					data, err := json.MarshalIndent(snap, "", "  ")
					if err != nil {
						data = []byte(fmt.Sprintf(`{"error": "%s"}`, err))
					}
					statusFile.Truncate(0)
					statusFile.Seek(0, 0)
					statusFile.Write(data)
					statusFile.WriteString("\n")
				}

				if s.deps.PerfWriter != nil {
					if err := s.deps.PerfWriter.WritePerformance(snap); err != nil {
						logger.Error("Error writing performance snapshot", "error", err)
					}
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor
func (s *Service) Stop() {
	s.mu.Lock()
	running := s.isRunning
	done := s.doneChan
	if running {
		close(s.stopChan)
	}
	s.mu.Unlock()
	if running && done != nil {
		<-done
	}
}
