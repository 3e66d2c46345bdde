package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agsys/pcmi-client/internal/pcmierr"
)

func TestMockTransportWriteRecordsData(t *testing.T) {
	ctx := context.Background()
	m := NewMockTransport()
	if err := m.Open(ctx); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := m.Write(ctx, []byte{0x01, 0x02}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := m.AssertWriteCount(1); err != nil {
		t.Errorf("AssertWriteCount(1) = %v", err)
	}
	if err := m.AssertWritten([]byte{0x01, 0x02}, -1); err != nil {
		t.Errorf("AssertWritten() = %v", err)
	}
}

func TestMockTransportWriteWhenClosed(t *testing.T) {
	m := NewMockTransport()
	if err := m.Write(context.Background(), []byte{0x01}); err == nil {
		t.Fatalf("Write() on closed transport: want error, got nil")
	}
}

func TestMockTransportReadByte(t *testing.T) {
	ctx := context.Background()
	m := NewMockTransport()
	_ = m.Open(ctx)
	m.AddResponse([]byte{0x86})

	b, err := m.ReadByte(ctx, 0)
	if err != nil {
		t.Fatalf("ReadByte() error = %v", err)
	}
	if b != 0x86 {
		t.Errorf("ReadByte() = 0x%02X, want 0x86", b)
	}

	if _, err := m.ReadByte(ctx, 0); err == nil {
		t.Fatalf("ReadByte() with exhausted queue: want error, got nil")
	}
}

func TestMockTransportReadUntil(t *testing.T) {
	ctx := context.Background()
	m := NewMockTransport()
	_ = m.Open(ctx)
	m.AddResponses([]byte{0x41, 0x42}, []byte{0x0D, 0x99})

	got, err := m.ReadUntil(ctx, 0x0D, 0)
	if err != nil {
		t.Fatalf("ReadUntil() error = %v", err)
	}
	want := []byte{0x41, 0x42, 0x0D}
	if !bytesEqual(got, want) {
		t.Errorf("ReadUntil() = % X, want % X", got, want)
	}

	rest, err := m.Read(ctx, 1, 0)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if rest[0] != 0x99 {
		t.Errorf("Read() leftover = 0x%02X, want 0x99", rest[0])
	}
}

func TestMockTransportReadNotEnoughData(t *testing.T) {
	ctx := context.Background()
	m := NewMockTransport()
	_ = m.Open(ctx)
	m.AddResponse([]byte{0x01})

	if _, err := m.Read(ctx, 4, 0); err == nil {
		t.Fatalf("Read() with insufficient data: want error, got nil")
	}
}

func TestMockTransportResponseCallback(t *testing.T) {
	ctx := context.Background()
	m := NewMockTransport()
	_ = m.Open(ctx)
	m.SetResponseCallback(func(written []byte) []byte {
		if len(written) > 0 && written[0] == 0x01 {
			return []byte{0x86}
		}
		return nil
	})

	if err := m.Write(ctx, []byte{0x01}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	b, err := m.ReadByte(ctx, 0)
	if err != nil {
		t.Fatalf("ReadByte() error = %v", err)
	}
	if b != 0x86 {
		t.Errorf("ReadByte() = 0x%02X, want 0x86", b)
	}
}

func TestMockTransportClear(t *testing.T) {
	ctx := context.Background()
	m := NewMockTransport()
	_ = m.Open(ctx)
	m.AddResponse([]byte{0x01})
	_ = m.Write(ctx, []byte{0xFF})

	m.Clear()
	if len(m.WrittenData()) != 0 {
		t.Errorf("WrittenData() after Clear() = %v, want empty", m.WrittenData())
	}
	if _, err := m.ReadByte(ctx, 0); err == nil {
		t.Fatalf("ReadByte() after Clear(): want error, got nil")
	}
}

func TestMockTransportDiscardBuffers(t *testing.T) {
	ctx := context.Background()
	m := NewMockTransport()
	_ = m.Open(ctx)
	m.AddResponse([]byte{0x01, 0x02})
	_, _ = m.Read(ctx, 1, 0)

	m.DiscardBuffers()
	if _, err := m.ReadByte(ctx, 0); err == nil {
		t.Fatalf("ReadByte() after DiscardBuffers(): want error, got nil")
	}
}

func TestScriptedMockTransportMatchesRequest(t *testing.T) {
	ctx := context.Background()
	s := NewScriptedMockTransport()
	_ = s.Open(ctx)
	s.Expect([]byte{0x20, 0x82}, []byte{0x86})

	if err := s.Write(ctx, []byte{0x20, 0x82}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	b, err := s.ReadByte(ctx, 0)
	if err != nil {
		t.Fatalf("ReadByte() error = %v", err)
	}
	if b != 0x86 {
		t.Errorf("ReadByte() = 0x%02X, want 0x86", b)
	}
}

func TestScriptedMockTransportMismatch(t *testing.T) {
	ctx := context.Background()
	s := NewScriptedMockTransport()
	_ = s.Open(ctx)
	s.Expect([]byte{0x20, 0x82}, []byte{0x86})

	if err := s.Write(ctx, []byte{0x20, 0xFF}); err == nil {
		t.Fatalf("Write() with mismatched request: want error, got nil")
	}
}

func TestMockTransportTimeoutReflectsRequestedDuration(t *testing.T) {
	ctx := context.Background()
	m := NewMockTransport()
	_ = m.Open(ctx)

	_, err := m.ReadByte(ctx, 2*time.Second)
	if err == nil {
		t.Fatalf("ReadByte() with empty queue: want error, got nil")
	}
	var pe *pcmierr.Error
	if !errors.As(err, &pe) || pe.Kind != pcmierr.KindTimeout || pe.TimeoutSeconds != 2 {
		t.Fatalf("ReadByte() error = %v, want a timeout error reporting 2s", err)
	}
}
