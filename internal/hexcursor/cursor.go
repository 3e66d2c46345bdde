// Package hexcursor implements a stateful cursor over a normalized hex
// string, the reader every record parser consumes. It mirrors the original
// HexStringReader design: position is always even (byte-aligned), bounds
// checks fail with a recoverable parse error carrying the offending offset,
// and the endian strategy is bound once at construction rather than carried
// on the fly.
package hexcursor

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/agsys/pcmi-client/internal/pcmierr"
	"github.com/agsys/pcmi-client/internal/protocol"
)

// Cursor reads fixed- and variable-width fields from a hex string,
// advancing a byte-aligned position as it goes.
type Cursor struct {
	data     string // uppercase hex, even length
	position int    // hex-character offset, always even
	endian   protocol.Endian
}

// New creates a cursor over hexString using the given endian strategy. The
// string is uppercased; callers normalize before construction is not
// required.
func New(hexString string, endian protocol.Endian) *Cursor {
	return &Cursor{data: strings.ToUpper(hexString), endian: endian}
}

// Len returns the total number of bytes represented by the cursor's hex
// string.
func (c *Cursor) Len() int { return len(c.data) / 2 }

// Position returns the current byte offset.
func (c *Cursor) Position() int { return c.position / 2 }

// Remaining returns the number of bytes left unread.
func (c *Cursor) Remaining() int { return c.Len() - c.Position() }

// IsAtEnd reports whether every byte has been consumed.
func (c *Cursor) IsAtEnd() bool { return c.Remaining() == 0 }

// HasBytes reports whether at least n unread bytes remain.
func (c *Cursor) HasBytes(n int) bool { return c.Remaining() >= n }

func (c *Cursor) checkBounds(nBytes int, offsetBytes int) error {
	hexOffset := c.position + offsetBytes*2
	needed := nBytes * 2
	if hexOffset < 0 || hexOffset+needed > len(c.data) {
		return pcmierr.Parse("hex cursor read past end of buffer", "", c.Position(), c.data)
	}
	return nil
}

func (c *Cursor) bytesAt(hexOffset, nBytes int) ([]byte, error) {
	raw, err := hex.DecodeString(c.data[hexOffset : hexOffset+nBytes*2])
	if err != nil {
		return nil, pcmierr.Parse("invalid hex characters", "", c.Position(), c.data)
	}
	return raw, nil
}

// ReadByte reads one unsigned byte and advances the cursor.
func (c *Cursor) ReadByte() (byte, error) {
	if err := c.checkBounds(1, 0); err != nil {
		return 0, err
	}
	b, err := c.bytesAt(c.position, 1)
	if err != nil {
		return 0, err
	}
	c.position += 2
	return b[0], nil
}

// ReadSignedByte reads one signed byte and advances the cursor.
func (c *Cursor) ReadSignedByte() (int8, error) {
	b, err := c.ReadByte()
	if err != nil {
		return 0, err
	}
	return int8(b), nil
}

// ReadBytes reads n raw bytes and advances the cursor.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.checkBounds(n, 0); err != nil {
		return nil, err
	}
	b, err := c.bytesAt(c.position, n)
	if err != nil {
		return nil, err
	}
	c.position += n * 2
	return b, nil
}

// ReadUint16 reads an unsigned 16-bit value using the cursor's endian
// strategy and advances the cursor.
func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return c.endian.ReadUint16(b, 0), nil
}

// ReadInt16 reads a signed 16-bit value and advances the cursor.
func (c *Cursor) ReadInt16() (int16, error) {
	v, err := c.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads an unsigned 32-bit value and advances the cursor.
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return c.endian.ReadUint32(b, 0), nil
}

// ReadInt32 reads a signed 32-bit value and advances the cursor.
func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadUint32()
	return int32(v), err
}

// PeekByte returns the byte at the given forward offset (0 = next byte)
// without advancing the cursor.
func (c *Cursor) PeekByte(offset int) (byte, error) {
	if err := c.checkBounds(1, offset); err != nil {
		return 0, err
	}
	b, err := c.bytesAt(c.position+offset*2, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// PeekUint16 returns the unsigned 16-bit value at the given forward offset
// without advancing the cursor.
func (c *Cursor) PeekUint16(offset int) (uint16, error) {
	if err := c.checkBounds(2, offset); err != nil {
		return 0, err
	}
	b, err := c.bytesAt(c.position+offset*2, 2)
	if err != nil {
		return 0, err
	}
	return c.endian.ReadUint16(b, 0), nil
}

// PeekInt16 returns the signed 16-bit value at the given forward offset
// without advancing the cursor.
func (c *Cursor) PeekInt16(offset int) (int16, error) {
	v, err := c.PeekUint16(offset)
	return int16(v), err
}

// PeekSlice returns n bytes starting at the given forward offset as a hex
// substring, without advancing the cursor.
func (c *Cursor) PeekSlice(n, offset int) (string, error) {
	if err := c.checkBounds(n, offset); err != nil {
		return "", err
	}
	start := c.position + offset*2
	return c.data[start : start+n*2], nil
}

// Slice consumes n bytes and returns them as a hex substring.
func (c *Cursor) Slice(n int) (string, error) {
	s, err := c.PeekSlice(n, 0)
	if err != nil {
		return "", err
	}
	c.position += n * 2
	return s, nil
}

// Skip advances the cursor by nChars hex characters (must stay even).
func (c *Cursor) Skip(nChars int) error {
	if err := c.checkBounds(0, 0); err != nil {
		return err
	}
	if c.position+nChars < 0 || c.position+nChars > len(c.data) {
		return pcmierr.Parse("skip past end of buffer", "", c.Position(), c.data)
	}
	c.position += nChars
	return nil
}

// SkipBytes advances the cursor by n bytes.
func (c *Cursor) SkipBytes(n int) error {
	return c.Skip(n * 2)
}

// Seek moves the cursor to an absolute hex-character position.
func (c *Cursor) Seek(position int) error {
	if position < 0 || position > len(c.data) {
		return pcmierr.Parse("seek out of range", "", position/2, c.data)
	}
	c.position = position
	return nil
}

// SeekByte moves the cursor to an absolute byte offset.
func (c *Cursor) SeekByte(byteOffset int) error {
	return c.Seek(byteOffset * 2)
}

// Reset moves the cursor back to the start of the buffer.
func (c *Cursor) Reset() { c.position = 0 }

// CreateSubreader consumes n bytes and returns a new cursor over exactly
// that window, sharing the parent's endian strategy.
func (c *Cursor) CreateSubreader(n int) (*Cursor, error) {
	s, err := c.Slice(n)
	if err != nil {
		return nil, err
	}
	return New(s, c.endian), nil
}

// ReadRemaining returns every unread byte and advances the cursor to the
// end.
func (c *Cursor) ReadRemaining() ([]byte, error) {
	return c.ReadBytes(c.Remaining())
}

// ReadRemainingHex returns every unread byte as a hex string and advances
// the cursor to the end.
func (c *Cursor) ReadRemainingHex() (string, error) {
	return c.Slice(c.Remaining())
}

func (c *Cursor) String() string {
	return "Cursor(position=" + strconv.Itoa(c.Position()) + ", remaining=" + strconv.Itoa(c.Remaining()) + ")"
}
