package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/turretlab/arucotrack/internal/mode"
	"github.com/turretlab/arucotrack/internal/protocol"
)

const historyLen = 18

// console is the live terminal view of the tracker's traffic.
type console struct {
	screen tcell.Screen

	currentMode mode.Mode
	haveMode    bool
	lastDelta   protocol.Packet
	lastDeltaAt time.Time

	deltaCount    uint64
	modeCount     uint64
	noMarkerCount uint64

	history []string
}

func runConsole(events <-chan packetEvent, addr string, deltaPort, modePort int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ui := &console{screen: screen}

	quit := make(chan struct{})
	go func() {
		for {
			ev := screen.PollEvent()
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					close(quit)
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		}
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return nil
		case e := <-events:
			ui.apply(e)
		case <-ticker.C:
			ui.draw(addr, deltaPort, modePort)
		}
	}
}

func (c *console) apply(e packetEvent) {
	switch e.port {
	case "mode":
		c.modeCount++
		if len(e.raw) == 1 {
			c.currentMode = mode.Mode(e.raw[0])
			c.haveMode = true
		}
	case "delta":
		c.deltaCount++
		pkt := protocol.Classify(e.raw)
		if pkt.NoMarker {
			c.noMarkerCount++
		}
		c.lastDelta = pkt
		c.lastDeltaAt = e.received
	}

	c.history = append(c.history, describe(e))
	if len(c.history) > historyLen {
		c.history = c.history[1:]
	}
}

func (c *console) draw(addr string, deltaPort, modePort int) {
	c.screen.Clear()

	title := tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	label := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	value := tcell.StyleDefault
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)

	c.drawText(0, 0, title, fmt.Sprintf("trackmon  %s  delta:%d  mode:%d", addr, deltaPort, modePort))
	c.drawText(0, 1, dim, "q / esc to quit")

	modeStr := "-"
	if c.haveMode {
		modeStr = fmt.Sprintf("%d (%s)", uint8(c.currentMode), c.currentMode)
	}
	c.drawText(0, 3, label, "mode:")
	c.drawText(10, 3, value, modeStr)

	deltaStr := "-"
	if !c.lastDeltaAt.IsZero() {
		switch {
		case c.lastDelta.NoMarker:
			deltaStr = "no marker"
		case c.lastDelta.Kind == protocol.KindUnknown:
			deltaStr = fmt.Sprintf("% x", c.lastDelta.Raw)
		default:
			deltaStr = fmt.Sprintf("%+.2f (%s)", c.lastDelta.Delta, kindName(c.lastDelta.Kind))
		}
		deltaStr += fmt.Sprintf("  @%s", c.lastDeltaAt.Format("15:04:05.000"))
	}
	c.drawText(0, 4, label, "delta:")
	c.drawText(10, 4, value, deltaStr)

	c.drawGauge(10, 5)

	c.drawText(0, 6, label, "packets:")
	c.drawText(10, 6, value, fmt.Sprintf("%d delta  %d mode  %d no-marker",
		c.deltaCount, c.modeCount, c.noMarkerCount))

	c.drawText(0, 8, dim, "recent:")
	for i, line := range c.history {
		c.drawText(2, 9+i, value, line)
	}

	c.screen.Show()
}

// gaugeHalf is the number of cells on each side of the zero mark.
const gaugeHalf = 20

// drawGauge renders the last delta as a horizontal bar centered on zero.
// Left of the mark is a negative delta (marker left of frame center).
func (c *console) drawGauge(x, y int) {
	if c.lastDeltaAt.IsZero() || c.lastDelta.NoMarker || c.lastDelta.Kind == protocol.KindUnknown {
		return
	}

	// uint8 payloads are already normalized; the pixel formats are scaled
	// against half of a 640px frame
	norm := c.lastDelta.Delta
	if c.lastDelta.Kind != protocol.KindUint8 {
		norm /= 320.0
	}
	if norm > 1 {
		norm = 1
	} else if norm < -1 {
		norm = -1
	}

	barStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	markStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)

	c.screen.SetContent(x, y, '[', nil, markStyle)
	c.screen.SetContent(x+2*gaugeHalf+2, y, ']', nil, markStyle)

	center := x + 1 + gaugeHalf
	cells := int(norm * gaugeHalf)
	for i := -gaugeHalf; i <= gaugeHalf; i++ {
		ch := ' '
		style := barStyle
		switch {
		case i == 0:
			ch = '|'
			style = markStyle
		case cells > 0 && i > 0 && i <= cells:
			ch = '█'
		case cells < 0 && i < 0 && i >= cells:
			ch = '█'
		}
		c.screen.SetContent(center+i, y, ch, nil, style)
	}
}

func (c *console) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range text {
		c.screen.SetContent(x+i, y, r, nil, style)
	}
}
