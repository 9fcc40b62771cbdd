// trackmon listens on the delta and mode ports and shows what the tracker
// is sending. Useful when bringing up a turret controller without hardware.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/turretlab/arucotrack/internal/mode"
	"github.com/turretlab/arucotrack/internal/protocol"
)

type packetEvent struct {
	port     string // "delta" or "mode"
	received time.Time
	from     net.Addr
	raw      []byte
}

func main() {
	var (
		addr      = flag.String("addr", "127.0.0.1", "address to bind")
		deltaPort = flag.Int("delta-port", 50002, "delta listen port")
		modePort  = flag.Int("mode-port", 50001, "mode listen port")
		plain     = flag.Bool("plain", false, "line output instead of the console UI")
	)
	flag.Parse()

	events := make(chan packetEvent, 64)

	deltaConn, err := listen(*addr, *deltaPort)
	if err != nil {
		fmt.Fprintf(os.Stderr, "trackmon: %v\n", err)
		os.Exit(1)
	}
	defer deltaConn.Close()

	modeConn, err := listen(*addr, *modePort)
	if err != nil {
		fmt.Fprintf(os.Stderr, "trackmon: %v\n", err)
		os.Exit(1)
	}
	defer modeConn.Close()

	go receive(deltaConn, "delta", events)
	go receive(modeConn, "mode", events)

	if *plain {
		runPlain(events)
		return
	}

	if err := runConsole(events, *addr, *deltaPort, *modePort); err != nil {
		fmt.Fprintf(os.Stderr, "trackmon: %v\n", err)
		os.Exit(1)
	}
}

func listen(addr string, port int) (*net.UDPConn, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", addr, port))
	if err != nil {
		return nil, fmt.Errorf("resolving %s:%d: %w", addr, port, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("binding %s:%d: %w", addr, port, err)
	}
	return conn, nil
}

func receive(conn *net.UDPConn, port string, events chan<- packetEvent) {
	buf := make([]byte, 512)
	for {
		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		raw := make([]byte, n)
		copy(raw, buf[:n])
		events <- packetEvent{
			port:     port,
			received: time.Now(),
			from:     from,
			raw:      raw,
		}
	}
}

// describe renders one packet as a human-readable line.
func describe(e packetEvent) string {
	ts := e.received.Format("15:04:05.000")

	if e.port == "mode" {
		if len(e.raw) == 1 {
			m := mode.Mode(e.raw[0])
			return fmt.Sprintf("%s  mode   %d (%s)", ts, e.raw[0], m)
		}
		return fmt.Sprintf("%s  mode   % x (unexpected length %d)", ts, e.raw, len(e.raw))
	}

	pkt := protocol.Classify(e.raw)
	switch {
	case pkt.NoMarker:
		return fmt.Sprintf("%s  delta  no marker (% x)", ts, e.raw)
	case pkt.Kind == protocol.KindText:
		return fmt.Sprintf("%s  delta  %q", ts, string(e.raw))
	case pkt.Kind == protocol.KindUnknown:
		return fmt.Sprintf("%s  delta  % x (unclassified)", ts, e.raw)
	default:
		return fmt.Sprintf("%s  delta  %+.2f (%s)", ts, pkt.Delta, kindName(pkt.Kind))
	}
}

func kindName(k protocol.PacketKind) string {
	switch k {
	case protocol.KindUint8:
		return "uint8"
	case protocol.KindFloat32:
		return "float32"
	case protocol.KindInt32:
		return "int32"
	case protocol.KindText:
		return "ascii"
	default:
		return "unknown"
	}
}

func runPlain(events <-chan packetEvent) {
	for e := range events {
		fmt.Println(describe(e))
	}
}
