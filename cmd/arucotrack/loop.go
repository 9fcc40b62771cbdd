package main

import (
	"io"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"

	"github.com/turretlab/arucotrack/internal/dispatcher"
	"github.com/turretlab/arucotrack/internal/logging"
	"github.com/turretlab/arucotrack/internal/mode"
	"github.com/turretlab/arucotrack/internal/model"
	"github.com/turretlab/arucotrack/internal/monitor"
	"github.com/turretlab/arucotrack/internal/queue"
	"github.com/turretlab/arucotrack/internal/session"
	"github.com/turretlab/arucotrack/internal/target"
	"github.com/turretlab/arucotrack/internal/transmit"
	"github.com/turretlab/arucotrack/internal/vision"
)

// deltaSender is the slice of the UDP transmitter the loop needs.
// *transmit.Sender implements it; tests substitute a recorder.
type deltaSender interface {
	SendDelta(id int, delta, frameWidth float64) bool
	SendNoMarker() bool
	SendMode(m mode.Mode)
}

var _ deltaSender = (*transmit.Sender)(nil)

// app ties the capture loop to everything it feeds.
type app struct {
	logger      *slog.Logger
	slogManager *logging.SlogManager
	session     *session.Context
	modeCtx     *mode.Context
	sender      deltaSender
	queue       *queue.Queue[*model.TrackRecord]
	monitor     *monitor.Service
	camera      *vision.Camera
	detector    *vision.Detector
	poser       *vision.PoseEstimator
	dispatcher  *dispatcher.Dispatcher

	// targets is the operator's selection, seen collects IDs during a
	// selection scan.
	targets       *target.Set
	seen          *target.Set
	smoother      *target.Smoother
	killThreshold float64

	headless  bool
	stdin     io.Reader
	stdinKeys chan rune

	quit atomic.Bool
}

func (a *app) requestQuit() {
	a.quit.Store(true)
}

// run is the capture loop. One iteration per frame: grab, detect, pick the
// best marker, act on the current mode, draw, poll keys.
func (a *app) run() error {
	img := gocv.NewMat()
	defer img.Close()

	var window *gocv.Window
	if !a.headless {
		window = gocv.NewWindow(AppName)
		defer window.Close()
	} else {
		a.startStdinKeys()
	}

	readFailures := 0
	firstFrame := true

	for !a.quit.Load() {
		if err := a.camera.Read(&img); err != nil {
			readFailures++
			if readFailures >= 30 {
				return err
			}
			a.logger.Warn("Frame grab failed", "error", err)
			time.Sleep(100 * time.Millisecond)
			continue
		}
		readFailures = 0

		if firstFrame {
			a.session.SetGeometry(img.Cols(), img.Rows())
			a.logger.Info("Frame geometry", "width", img.Cols(), "height", img.Rows())
			firstFrame = false
		}
		a.monitor.FrameDone()

		a.processFrame(&img)

		if window != nil {
			window.IMShow(img)
			key := window.WaitKey(1)
			if key >= 0 {
				a.dispatcher.Dispatch(dispatcher.Event{Key: rune(key), Timestamp: time.Now()})
			}
		} else {
			a.pollStdinKey()
			time.Sleep(15 * time.Millisecond)
		}
	}

	return nil
}

func (a *app) processFrame(img *gocv.Mat) {
	m := a.modeCtx.Get()
	frameWidth := float64(img.Cols())

	var dets []vision.Detection
	if m.DetectionEnabled() {
		dets = a.detector.Detect(*img)
		a.monitor.DetectionsDone(len(dets))
	}

	observations := make([]target.Observation, 0, len(dets))
	for _, d := range dets {
		x, y := d.Centroid()
		obs := target.Observation{ID: d.ID, CentroidX: x, CentroidY: y}
		observations = append(observations, obs)
		// smoothing feeds the trails only; raw centroids go on the wire
		if _, err := a.smoother.Observe(obs); err != nil {
			a.logger.Warn("Smoother rejected observation", "id", d.ID, "error", err)
		}
	}

	cands, best, haveBest := a.track(m, observations, frameWidth)

	if !a.headless {
		a.drawOverlay(img, m, dets, cands, best, haveBest)
	}
}

// track applies the mode semantics to one frame's observations: candidate
// filtering, track logging, attack-mode sends and the kill rule.
func (a *app) track(m mode.Mode, observations []target.Observation, frameWidth float64) ([]target.Candidate, target.Candidate, bool) {
	// in attack mode only the selected targets compete; an empty selection
	// admits nothing
	var filter func(int) bool
	if m == mode.Attack {
		filter = a.targets.Contains
	}
	cands := target.Candidates(observations, frameWidth, filter)
	best, haveBest := target.Best(cands)

	// a track row for every frame that saw a best marker, selection included
	if haveBest {
		a.queue.Push(&model.TrackRecord{
			Timestamp: time.Now(),
			MarkerID:  best.ID,
			MarkerX:   best.CentroidX,
			DeltaX:    best.DeltaX,
		})
	}

	switch m {
	case mode.Selection:
		for _, obs := range observations {
			a.seen.Add(obs.ID)
		}
	case mode.Attack:
		switch {
		case haveBest:
			if a.sender.SendDelta(best.ID, best.DeltaX, frameWidth) {
				a.monitor.SendDone()
			}
			if math.Abs(best.DeltaX) < a.killThreshold {
				a.killTarget(best.ID)
			}
		case len(observations) == 0:
			// the sentinel means "nothing in frame"; markers that are
			// visible but unselected stay silent
			if a.sender.SendNoMarker() {
				a.monitor.NoMarkerSendDone()
			}
		}
	}

	return cands, best, haveBest
}

// killTarget removes a centered target from the selection. When the last
// one falls the engagement is over.
func (a *app) killTarget(id int) {
	if !a.targets.Remove(id) {
		return
	}
	a.smoother.Drop(id)
	a.logger.Info("Target eliminated", "id", id, "remaining", a.targets.Len())

	if a.targets.Len() == 0 {
		a.logger.Info("All targets eliminated")
		a.setMode(mode.End)
	}
}

func (a *app) drawOverlay(img *gocv.Mat, m mode.Mode, dets []vision.Detection, cands []target.Candidate, best target.Candidate, haveBest bool) {
	vision.DrawCenterLine(img)
	vision.DrawMarkers(img, dets)
	vision.DrawLabels(img, cands)

	for _, c := range cands {
		vision.DrawTrail(img, a.smoother.Trail(c.ID))
	}
	if haveBest {
		vision.DrawBest(img, best)
	}
	if a.poser != nil {
		for _, d := range dets {
			if pose, ok := a.poser.Estimate(d); ok {
				vision.DrawDistance(img, d, pose)
			}
		}
	}

	vision.DrawStatus(img, m, a.monitor.LastSample().FPS)
	switch m {
	case mode.Selection:
		vision.DrawSelection(img, a.seen.IDs())
	case mode.Attack:
		vision.DrawSelection(img, a.targets.IDs())
	}
}
