package protocol

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// PacketKind classifies a received datagram.
type PacketKind int

const (
	KindUnknown PacketKind = iota
	KindUint8
	KindFloat32
	KindInt32
	KindText
)

// Packet is a decoded delta datagram.
type Packet struct {
	Kind     PacketKind
	Delta    float64
	MarkerID int  // only set for ascii payloads
	NoMarker bool // sentinel received
	Raw      []byte
}

// DecodeDelta decodes a datagram of a known format.
func DecodeDelta(f Format, data []byte) Packet {
	switch f {
	case FormatFloat32:
		return decodeFloat32(data)
	case FormatInt32:
		return decodeInt32(data)
	case FormatASCII:
		return decodeText(data)
	default:
		return decodeUint8(data)
	}
}

// Classify decodes a datagram without knowing the sender's format:
// printable text first, then one byte as uint8, then four bytes as float32
// falling back to int32 when the float is not plausible.
func Classify(data []byte) Packet {
	if len(data) == 1 {
		return decodeUint8(data)
	}
	if isText(data) {
		return decodeText(data)
	}
	if len(data) == 4 {
		p := decodeFloat32(data)
		if p.NoMarker || plausibleDelta(p.Delta) {
			return p
		}
		return decodeInt32(data)
	}
	return Packet{Kind: KindUnknown, Raw: data}
}

func decodeUint8(data []byte) Packet {
	p := Packet{Kind: KindUint8, Raw: data}
	if len(data) < 1 {
		p.Kind = KindUnknown
		return p
	}
	v := data[0]
	if v == Uint8NoMarker {
		p.NoMarker = true
		return p
	}
	// 128 is centered; the normalized delta is in [-1, ~0.99]
	p.Delta = (float64(v) - 128.0) / 127.0
	return p
}

func decodeFloat32(data []byte) Packet {
	p := Packet{Kind: KindFloat32, Raw: data}
	if len(data) < 4 {
		p.Kind = KindUnknown
		return p
	}
	f := math.Float32frombits(binary.BigEndian.Uint32(data[:4]))
	if f != f { // NaN
		p.NoMarker = true
		return p
	}
	p.Delta = float64(f)
	return p
}

func decodeInt32(data []byte) Packet {
	p := Packet{Kind: KindInt32, Raw: data}
	if len(data) < 4 {
		p.Kind = KindUnknown
		return p
	}
	v := int32(binary.BigEndian.Uint32(data[:4]))
	if v == Int32NoMarker {
		p.NoMarker = true
		return p
	}
	p.Delta = float64(v)
	return p
}

func decodeText(data []byte) Packet {
	p := Packet{Kind: KindText, Raw: data}
	s := strings.TrimSpace(string(data))
	if strings.EqualFold(s, "nan") {
		p.NoMarker = true
		return p
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		p.Kind = KindUnknown
		return p
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil {
		p.Kind = KindUnknown
		return p
	}
	delta, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		p.Kind = KindUnknown
		return p
	}
	p.MarkerID = id
	p.Delta = delta
	return p
}

func isText(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	for _, b := range data {
		if b < 0x20 && b != '\n' && b != '\r' && b != '\t' {
			return false
		}
	}
	return true
}

// plausibleDelta filters float32 interpretations of what is actually an
// int32 payload. Pixel deltas never reach these magnitudes.
func plausibleDelta(d float64) bool {
	return math.Abs(d) < 1e6
}
