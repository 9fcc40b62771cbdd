// Package transmit sends delta and mode datagrams to the turret controller.
// Fire-and-forget: there is no framing, acknowledgement or retry, and a
// failed send never stops the capture loop.
package transmit

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/turretlab/arucotrack/internal/mode"
	"github.com/turretlab/arucotrack/internal/protocol"
)

// Config holds transmitter settings.
type Config struct {
	Address   string
	DeltaPort int
	ModePort  int
	Format    protocol.Format
	// MinInterval throttles delta datagrams; sends inside the window are
	// skipped, not queued. Zero disables throttling.
	MinInterval time.Duration
}

// Sender owns the UDP sockets for the delta and mode destinations.
type Sender struct {
	cfg       Config
	deltaConn *net.UDPConn
	modeConn  *net.UDPConn
	log       zerolog.Logger

	mu           sync.Mutex
	lastSend     time.Time
	sentCount    uint64
	skippedCount uint64

	now func() time.Time
}

// New dials both destinations. DialUDP does not touch the network for UDP,
// so this only fails on bad addresses.
func New(cfg Config, log zerolog.Logger) (*Sender, error) {
	deltaConn, err := dial(cfg.Address, cfg.DeltaPort)
	if err != nil {
		return nil, fmt.Errorf("dialing delta destination: %w", err)
	}
	modeConn, err := dial(cfg.Address, cfg.ModePort)
	if err != nil {
		deltaConn.Close()
		return nil, fmt.Errorf("dialing mode destination: %w", err)
	}

	log.Info().
		Str("delta", deltaConn.RemoteAddr().String()).
		Str("mode", modeConn.RemoteAddr().String()).
		Str("format", string(cfg.Format)).
		Msg("UDP sender ready")

	return &Sender{
		cfg:       cfg,
		deltaConn: deltaConn,
		modeConn:  modeConn,
		log:       log,
		now:       time.Now,
	}, nil
}

func dial(address string, port int) (*net.UDPConn, error) {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", address, port))
	if err != nil {
		return nil, err
	}
	return net.DialUDP("udp", nil, addr)
}

// Close releases both sockets.
func (s *Sender) Close() error {
	var firstErr error
	if s.deltaConn != nil {
		firstErr = s.deltaConn.Close()
	}
	if s.modeConn != nil {
		if err := s.modeConn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SendDelta transmits the best marker's delta. Returns true when a datagram
// actually left (not throttled).
func (s *Sender) SendDelta(id int, delta, frameWidth float64) bool {
	if !s.allow() {
		return false
	}
	payload := protocol.EncodeDelta(s.cfg.Format, s.now(), id, delta, frameWidth)
	s.write(s.deltaConn, payload, "delta")
	return true
}

// SendNoMarker transmits the format's no-marker sentinel, subject to the
// same throttle as ordinary deltas.
func (s *Sender) SendNoMarker() bool {
	if !s.allow() {
		return false
	}
	s.write(s.deltaConn, protocol.EncodeNoMarker(s.cfg.Format), "delta sentinel")
	return true
}

// SendMode announces a mode switch on the mode port. Mode datagrams are
// never throttled.
func (s *Sender) SendMode(m mode.Mode) {
	s.write(s.modeConn, protocol.EncodeMode(uint8(m)), "mode")
	s.log.Debug().Str("mode", m.String()).Msg("mode announced")
}

// Stats returns how many delta datagrams were sent and skipped.
func (s *Sender) Stats() (sent, skipped uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sentCount, s.skippedCount
}

// allow applies the minimum send interval.
func (s *Sender) allow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.MinInterval > 0 {
		now := s.now()
		if !s.lastSend.IsZero() && now.Sub(s.lastSend) < s.cfg.MinInterval {
			s.skippedCount++
			return false
		}
		s.lastSend = now
	}
	s.sentCount++
	return true
}

func (s *Sender) write(conn *net.UDPConn, payload []byte, what string) {
	if _, err := conn.Write(payload); err != nil {
		// next frame just tries again
		s.log.Error().Err(err).Str("payload", what).Msg("UDP send failed")
	}
}
