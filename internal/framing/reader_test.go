package framing

import (
	"testing"

	"github.com/agsys/pcmi-client/internal/protocol"
)

func buildFrame(command byte, data []byte) []byte {
	payload := append([]byte{command}, data...)
	withChecksum := protocol.AppendChecksum(payload)
	out := append([]byte{protocol.STX}, withChecksum...)
	return append(out, protocol.ETX)
}

func TestParseAcknowledgment(t *testing.T) {
	r := New()
	result, frame, err := r.Parse([]byte{protocol.SnAck})
	if err != nil {
		t.Fatal(err)
	}
	if result != Success {
		t.Fatalf("result = %v, want Success", result)
	}
	if frame.CommandByte != protocol.SnAck {
		t.Fatalf("command = 0x%02X, want 0x%02X", frame.CommandByte, protocol.SnAck)
	}
	if len(frame.Payload) != 0 {
		t.Fatalf("expected empty payload, got %v", frame.Payload)
	}
}

func TestParse1ByteRLIFrame(t *testing.T) {
	// ZP_STRING_1 with an 8-byte hex payload (4 words -> RLI "04").
	payloadHex := "0102030405060708"
	body := append([]byte{protocol.ZpString1}, []byte("04")...)
	body = append(body, []byte(payloadHex)...)
	body = protocol.AppendChecksum(body)
	frame := append([]byte{protocol.STX}, body...)
	frame = append(frame, protocol.ETX)

	r := New()
	result, parsed, err := r.Parse(frame)
	if err != nil {
		t.Fatal(err)
	}
	if result != Success {
		t.Fatalf("result = %v, want Success", result)
	}
	if parsed.PayloadHex != payloadHex {
		t.Fatalf("payload hex = %q, want %q", parsed.PayloadHex, payloadHex)
	}
	if parsed.LengthIndicator != 8 {
		t.Fatalf("length indicator = %d, want 8", parsed.LengthIndicator)
	}
}

func TestParseDetectsChecksumCorruption(t *testing.T) {
	frame := buildFrame(protocol.SvString, []byte("3030"))
	frame[len(frame)-2] ^= 0xFF // corrupt a checksum byte
	r := New()
	result, _, err := r.Parse(frame)
	if result != InvalidChecksum {
		t.Fatalf("result = %v, want InvalidChecksum", result)
	}
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestParseCRDelimitedVersionString(t *testing.T) {
	versionASCII := []byte("V1.0.0       20240101 ")
	r := New()
	frame := buildFrame(protocol.SvString, versionASCII)
	result, parsed, err := r.Parse(frame)
	if err != nil {
		t.Fatal(err)
	}
	if result != Success {
		t.Fatalf("result = %v, want Success", result)
	}
	if string(parsed.Payload) != string(versionASCII) {
		t.Fatalf("payload = %q, want %q", parsed.Payload, versionASCII)
	}
	if parsed.PayloadHex != "" {
		t.Fatalf("expected non-hex ASCII payload to leave PayloadHex empty, got %q", parsed.PayloadHex)
	}
}

func TestParseEmptyBuffer(t *testing.T) {
	r := New()
	result, _, err := r.Parse(nil)
	if result != EmptyBuffer || err == nil {
		t.Fatalf("result = %v, err = %v, want EmptyBuffer with error", result, err)
	}
}

func TestParseIncompleteFrame(t *testing.T) {
	r := New()
	result, _, err := r.Parse([]byte{protocol.STX, protocol.ZpString1, '0'})
	if result != IncompleteFrame || err == nil {
		t.Fatalf("result = %v, err = %v, want IncompleteFrame with error", result, err)
	}
}

func TestParseSkipsLeadingSTX(t *testing.T) {
	r := New()
	bare := []byte{protocol.SnAck}
	withSTX := []byte{protocol.STX, protocol.SnAck}
	r1, f1, _ := r.Parse(bare)
	r2, f2, _ := r.Parse(withSTX)
	if r1 != Success || r2 != Success {
		t.Fatalf("expected both to succeed: %v %v", r1, r2)
	}
	if f1.CommandByte != f2.CommandByte {
		t.Fatalf("command mismatch: %v != %v", f1.CommandByte, f2.CommandByte)
	}
}
