package wire

import (
	"encoding/binary"
	"fmt"
)

const (
	compactSizeMarker16 = 0xfd
	compactSizeMarker32 = 0xfe
	compactSizeMarker64 = 0xff

	// MaxCompactSizeLen is the widest encoding: marker byte plus 8 bytes.
	MaxCompactSizeLen = 9
)

// CompactSizeLen returns the number of bytes the canonical encoding of v occupies (1, 3, 5 or 9).
func CompactSizeLen(v uint64) int {
	switch {
	case v < compactSizeMarker16:
		return 1
	case v <= 0xffff:
		return 3
	case v <= 0xffffffff:
		return 5
	}

	return 9
}

// AppendCompactSize appends the canonical encoding of v to b.
func AppendCompactSize(b []byte, v uint64) []byte {
	switch {
	case v < compactSizeMarker16:
		return append(b, byte(v))
	case v <= 0xffff:
		b = append(b, compactSizeMarker16)
		return binary.LittleEndian.AppendUint16(b, uint16(v))
	case v <= 0xffffffff:
		b = append(b, compactSizeMarker32)
		return binary.LittleEndian.AppendUint32(b, uint32(v))
	}

	b = append(b, compactSizeMarker64)
	return binary.LittleEndian.AppendUint64(b, v)
}

// EncodeCompactSize returns the canonical encoding of v.
func EncodeCompactSize(v uint64) []byte {
	return AppendCompactSize(make([]byte, 0, CompactSizeLen(v)), v)
}

// DecodeCompactSize reads a CompactSize from the start of b and returns the
// value and the number of bytes it occupied. Only canonical encodings are
// accepted.
func DecodeCompactSize(b []byte) (uint64, int, error) {
	const field = "compact size"

	if len(b) < 1 {
		return 0, 0, truncated(field, 1, len(b))
	}

	var (
		v      uint64
		n      int
		lowest uint64
	)

	switch marker := b[0]; marker {
	case compactSizeMarker16:
		n, lowest = 3, compactSizeMarker16
	case compactSizeMarker32:
		n, lowest = 5, 0x10000
	case compactSizeMarker64:
		n, lowest = 9, 0x100000000
	default:
		return uint64(marker), 1, nil
	}

	if len(b) < n {
		return 0, 0, truncated(field, n, len(b))
	}

	switch n {
	case 3:
		v = uint64(binary.LittleEndian.Uint16(b[1:3]))
	case 5:
		v = uint64(binary.LittleEndian.Uint32(b[1:5]))
	default:
		v = binary.LittleEndian.Uint64(b[1:9])
	}

	if v < lowest {
		return 0, 0, &DecodeError{
			Kind:  KindNonCanonical,
			Field: field,
			Err:   fmt.Errorf("value %d encoded with marker 0x%02x, minimum for that marker is %d", v, b[0], lowest),
		}
	}

	return v, n, nil
}
