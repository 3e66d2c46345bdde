package hexcursor

import (
	"testing"

	"github.com/agsys/pcmi-client/internal/protocol"
)

func TestReadByteAdvancesPosition(t *testing.T) {
	c := New("0102030405", protocol.Big)
	b, err := c.ReadByte()
	if err != nil {
		t.Fatal(err)
	}
	if b != 0x01 {
		t.Fatalf("got 0x%02X, want 0x01", b)
	}
	if c.Position() != 1 {
		t.Fatalf("position = %d, want 1", c.Position())
	}
	if c.Remaining() != 4 {
		t.Fatalf("remaining = %d, want 4", c.Remaining())
	}
}

func TestPeekByteLeavesPositionUnchanged(t *testing.T) {
	c := New("0102030405", protocol.Big)
	before := c.Position()
	b, err := c.PeekByte(2)
	if err != nil {
		t.Fatal(err)
	}
	if b != 0x03 {
		t.Fatalf("got 0x%02X, want 0x03", b)
	}
	if c.Position() != before {
		t.Fatalf("position changed: %d != %d", c.Position(), before)
	}
}

func TestReadInt16LittleEndian(t *testing.T) {
	c := New("E803", protocol.Little)
	v, err := c.ReadInt16()
	if err != nil {
		t.Fatal(err)
	}
	if v != 1000 {
		t.Fatalf("got %d, want 1000", v)
	}

	c2 := New("18FC", protocol.Little)
	v2, err := c2.ReadInt16()
	if err != nil {
		t.Fatal(err)
	}
	if v2 != -1000 {
		t.Fatalf("got %d, want -1000", v2)
	}
}

func TestBoundsCheckFails(t *testing.T) {
	c := New("01", protocol.Big)
	if _, err := c.ReadUint16(); err == nil {
		t.Fatal("expected bounds error reading 2 bytes from a 1-byte cursor")
	}
}

func TestSkipAndSeek(t *testing.T) {
	c := New("0102030405", protocol.Big)
	if err := c.SkipBytes(2); err != nil {
		t.Fatal(err)
	}
	b, err := c.ReadByte()
	if err != nil {
		t.Fatal(err)
	}
	if b != 0x03 {
		t.Fatalf("got 0x%02X, want 0x03", b)
	}
	if err := c.SeekByte(0); err != nil {
		t.Fatal(err)
	}
	if c.Position() != 0 {
		t.Fatalf("position after seek = %d, want 0", c.Position())
	}
}

func TestCreateSubreader(t *testing.T) {
	c := New("0102030405", protocol.Big)
	sub, err := c.CreateSubreader(2)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Len() != 2 {
		t.Fatalf("subreader len = %d, want 2", sub.Len())
	}
	if c.Position() != 2 {
		t.Fatalf("parent position = %d, want 2", c.Position())
	}
	b, err := sub.ReadByte()
	if err != nil {
		t.Fatal(err)
	}
	if b != 0x01 {
		t.Fatalf("subreader first byte = 0x%02X, want 0x01", b)
	}
}

func TestReadRemaining(t *testing.T) {
	c := New("0102030405", protocol.Big)
	if _, err := c.ReadByte(); err != nil {
		t.Fatal(err)
	}
	rest, err := c.ReadRemaining()
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 4 {
		t.Fatalf("remaining bytes = %d, want 4", len(rest))
	}
	if !c.IsAtEnd() {
		t.Fatal("expected cursor to be at end")
	}
}
