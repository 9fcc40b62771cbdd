package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/turretlab/arucotrack/internal/dispatcher"
	"github.com/turretlab/arucotrack/internal/mode"
)

// setupKeys registers the operator key bindings: number keys switch modes,
// 'q' confirms the selection scan, the quit key ends the run.
func (a *app) setupKeys() error {
	d, err := dispatcher.New(a.logger)
	if err != nil {
		return err
	}

	for _, m := range mode.All() {
		d.Register(rune('0'+m), func(e dispatcher.Event) (any, error) {
			if m, ok := mode.FromKey(e.Key); ok {
				a.setMode(m)
			}
			return nil, nil
		})
	}

	d.Register('q', func(e dispatcher.Event) (any, error) {
		if a.modeCtx.Get() != mode.Selection {
			return nil, nil
		}
		a.confirmSelection()
		return nil, nil
	}, dispatcher.Logged())

	d.Register(mode.QuitKey, func(e dispatcher.Event) (any, error) {
		a.logger.Info("Quit requested")
		a.requestQuit()
		return nil, nil
	})

	a.dispatcher = d
	return nil
}

// setMode switches modes and announces the change on the mode port.
func (a *app) setMode(m mode.Mode) {
	if !a.modeCtx.Set(m) {
		return
	}
	a.logger.Info("Mode changed", "mode", m.String())
	a.sender.SendMode(m)

	// a fresh selection scan forgets the previous one
	if m == mode.Selection {
		a.seen.Reset()
		a.targets.Reset()
	}
}

// confirmSelection prompts for target IDs and arms the attack. IDs never
// seen during the scan are accepted with a warning; the markers may simply
// be out of frame right now. Headless runs skip the prompt and take every
// seen ID, because the stdin key reader owns the stream.
func (a *app) confirmSelection() {
	if a.headless {
		for _, id := range a.seen.IDs() {
			a.targets.Add(id)
		}
		if a.targets.Len() == 0 {
			a.logger.Warn("No targets seen, staying in selection mode")
			return
		}
		a.logger.Info("Targets locked", "ids", a.targets.IDs())
		a.setMode(mode.Attack)
		return
	}

	fmt.Printf("Seen marker IDs: %v\n", a.seen.IDs())
	fmt.Print("Enter target IDs (comma separated, empty for all seen): ")

	reader := bufio.NewReader(a.stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		a.logger.Error("Reading target selection failed", "error", err)
		return
	}

	line = strings.TrimSpace(line)
	if line == "" {
		for _, id := range a.seen.IDs() {
			a.targets.Add(id)
		}
	} else {
		for _, part := range strings.Split(line, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.Atoi(part)
			if err != nil {
				a.logger.Warn("Ignoring invalid target ID", "input", part)
				continue
			}
			if !a.seen.Contains(id) {
				a.logger.Warn("Target ID was not seen during scan", "id", id)
			}
			a.targets.Add(id)
		}
	}

	if a.targets.Len() == 0 {
		a.logger.Warn("No targets selected, staying in selection mode")
		return
	}

	a.logger.Info("Targets locked", "ids", a.targets.IDs())
	a.setMode(mode.Attack)
}

// startStdinKeys feeds single-character stdin lines into a channel for
// headless runs, where there is no window to poll.
func (a *app) startStdinKeys() {
	a.stdinKeys = make(chan rune, 8)
	go func() {
		scanner := bufio.NewScanner(a.stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if len(line) != 1 {
				continue
			}
			a.stdinKeys <- rune(line[0])
		}
	}()
}

func (a *app) pollStdinKey() {
	select {
	case key := <-a.stdinKeys:
		a.dispatcher.Dispatch(dispatcher.Event{Key: key, Timestamp: time.Now()})
	default:
	}
}
