package protocol

import (
	"encoding/hex"
	"fmt"
)

// Decode1ByteRLI decodes a 2-hex-char RLI (record length indicator,
// expressed in 16-bit words) into a byte count. Max 510 bytes (0xFF words).
func Decode1ByteRLI(hexChars string) (int, error) {
	if len(hexChars) != 2 {
		return 0, fmt.Errorf("1-byte RLI must be exactly 2 hex chars, got %d", len(hexChars))
	}
	b, err := hex.DecodeString(hexChars)
	if err != nil {
		return 0, fmt.Errorf("invalid 1-byte RLI %q: %w", hexChars, err)
	}
	return int(b[0]) * 2, nil
}

// Encode1ByteRLI encodes a byte count (must be even, max 510) as a 2-hex-char
// RLI.
func Encode1ByteRLI(byteCount int) (string, error) {
	if byteCount < 0 || byteCount > 510 || byteCount%2 != 0 {
		return "", fmt.Errorf("byte count %d out of range for 1-byte RLI", byteCount)
	}
	words := byte(byteCount / 2)
	return encodeHexUpper([]byte{words}), nil
}

// Decode2ByteRLI decodes a 4-hex-char little-endian RLI into a byte count.
// The word count is little-endian: low byte is hex[0:2], high byte is
// hex[2:4]. Max 131070 bytes (0xFFFF words).
func Decode2ByteRLI(hexChars string) (int, error) {
	if len(hexChars) != 4 {
		return 0, fmt.Errorf("2-byte RLI must be exactly 4 hex chars, got %d", len(hexChars))
	}
	lowByte, err := hex.DecodeString(hexChars[0:2])
	if err != nil {
		return 0, fmt.Errorf("invalid 2-byte RLI low byte %q: %w", hexChars[0:2], err)
	}
	highByte, err := hex.DecodeString(hexChars[2:4])
	if err != nil {
		return 0, fmt.Errorf("invalid 2-byte RLI high byte %q: %w", hexChars[2:4], err)
	}
	words := (uint16(highByte[0]) << 8) | uint16(lowByte[0])
	return int(words) * 2, nil
}

// Encode2ByteRLI encodes a byte count (must be even, max 131070) as a
// 4-hex-char little-endian RLI.
func Encode2ByteRLI(byteCount int) (string, error) {
	if byteCount < 0 || byteCount > 131070 || byteCount%2 != 0 {
		return "", fmt.Errorf("byte count %d out of range for 2-byte RLI", byteCount)
	}
	words := uint16(byteCount / 2)
	low := byte(words)
	high := byte(words >> 8)
	return encodeHexUpper([]byte{low}) + encodeHexUpper([]byte{high}), nil
}

// DecodeVLI decodes a VLI (variable length indicator, expressed directly in
// bytes) of the given hex-character width (2 for 1-byte VLI, 4 for 2-byte
// VLI).
func DecodeVLI(hexChars string) (int, error) {
	switch len(hexChars) {
	case 2:
		b, err := hex.DecodeString(hexChars)
		if err != nil {
			return 0, fmt.Errorf("invalid 1-byte VLI %q: %w", hexChars, err)
		}
		return int(b[0]), nil
	case 4:
		b, err := hex.DecodeString(hexChars)
		if err != nil {
			return 0, fmt.Errorf("invalid 2-byte VLI %q: %w", hexChars, err)
		}
		return (int(b[0]) << 8) | int(b[1]), nil
	default:
		return 0, fmt.Errorf("VLI must be 2 or 4 hex chars, got %d", len(hexChars))
	}
}

// VLIWidth returns the number of hex characters (2 or 4) used by the VLI for
// the given command byte: 4 (2-byte VLI) for commands at or above
// VLICommandThreshold, 2 (1-byte VLI) otherwise.
func VLIWidth(command byte) int {
	if command >= VLICommandThreshold {
		return 4
	}
	return 2
}

func encodeHexUpper(b []byte) string {
	dst := make([]byte, hex.EncodedLen(len(b)))
	hex.Encode(dst, b)
	out := dst[:]
	for i, c := range out {
		if c >= 'a' && c <= 'f' {
			out[i] = c - ('a' - 'A')
		}
	}
	return string(out)
}
