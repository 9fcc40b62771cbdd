// Package protocol defines the UDP wire encodings for delta and mode
// datagrams. All multi-byte values are big-endian. Each format reserves a
// sentinel meaning "no marker found":
//
//	uint8:   255 (values clamp to 0..254, 128 = centered)
//	float32: NaN
//	int32:   0x7FFFFFFF
//	ascii:   the literal text "nan"
package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// Format names a delta wire encoding.
type Format string

const (
	FormatUint8   Format = "uint8"
	FormatFloat32 Format = "float32"
	FormatInt32   Format = "int32"
	FormatASCII   Format = "ascii"
)

const (
	// Uint8NoMarker is the reserved uint8 sentinel.
	Uint8NoMarker = 0xFF
	// Int32NoMarker is the reserved int32 sentinel.
	Int32NoMarker = int32(0x7FFFFFFF)
)

// ParseFormat maps a config string to a Format, defaulting to uint8.
func ParseFormat(s string) Format {
	switch Format(s) {
	case FormatFloat32, FormatInt32, FormatASCII:
		return Format(s)
	default:
		return FormatUint8
	}
}

// EncodeUint8 packs a pixel delta into a single byte centered at 128.
// The delta is normalized by half the frame width, scaled by 127 and
// clamped to [0,254]; 255 stays reserved for the no-marker sentinel.
func EncodeUint8(delta, frameWidth float64) []byte {
	halfWidth := frameWidth / 2.0
	if halfWidth == 0 {
		halfWidth = 1.0
	}
	scaled := int(math.Round(delta/halfWidth*127.0 + 128.0))
	if scaled < 0 {
		scaled = 0
	}
	if scaled > 254 {
		scaled = 254
	}
	return []byte{byte(scaled)}
}

// EncodeFloat32 packs a pixel delta as a big-endian IEEE-754 float32.
func EncodeFloat32(delta float64) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, math.Float32bits(float32(delta)))
	return buf
}

// EncodeInt32 packs a pixel delta as a rounded big-endian int32.
func EncodeInt32(delta float64) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(int32(math.Round(delta))))
	return buf
}

// EncodeASCII packs "timestamp,id,delta" as UTF-8 text.
func EncodeASCII(ts time.Time, id int, delta float64) []byte {
	return []byte(fmt.Sprintf("%.3f,%d,%.6f", float64(ts.UnixNano())/1e9, id, delta))
}

// EncodeDelta packs a delta in the given format.
func EncodeDelta(f Format, ts time.Time, id int, delta, frameWidth float64) []byte {
	switch f {
	case FormatFloat32:
		return EncodeFloat32(delta)
	case FormatInt32:
		return EncodeInt32(delta)
	case FormatASCII:
		return EncodeASCII(ts, id, delta)
	default:
		return EncodeUint8(delta, frameWidth)
	}
}

// EncodeNoMarker packs the format's no-marker sentinel.
func EncodeNoMarker(f Format) []byte {
	switch f {
	case FormatFloat32:
		return EncodeFloat32(math.NaN())
	case FormatInt32:
		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, uint32(Int32NoMarker))
		return buf
	case FormatASCII:
		return []byte("nan")
	default:
		return []byte{Uint8NoMarker}
	}
}

// EncodeMode packs a mode number as a single byte.
func EncodeMode(m uint8) []byte {
	return []byte{m}
}
