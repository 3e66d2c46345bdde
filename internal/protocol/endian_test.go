package protocol

import "testing"

func TestEndianDuality(t *testing.T) {
	// Big-endian read_u16([hi, lo]) == little-endian read_u16([lo, hi]).
	hi, lo := byte(0x12), byte(0x34)
	big := Big.ReadUint16([]byte{hi, lo}, 0)
	little := Little.ReadUint16([]byte{lo, hi}, 0)
	if big != little {
		t.Fatalf("big=0x%04X little=0x%04X, want equal", big, little)
	}
	if big != 0x1234 {
		t.Fatalf("got 0x%04X, want 0x1234", big)
	}
}

func TestEndianWriteReadRoundTrip(t *testing.T) {
	for _, e := range []Endian{Big, Little} {
		buf := make([]byte, 4)
		for _, v := range []uint16{0, 1, 0x1234, 0xFFFF} {
			e.WriteUint16(v, buf, 0)
			if got := e.ReadUint16(buf, 0); got != v {
				t.Fatalf("endian=%v uint16 round trip: got 0x%04X, want 0x%04X", e, got, v)
			}
		}
		for _, v := range []uint32{0, 1, 0x12345678, 0xFFFFFFFF} {
			e.WriteUint32(v, buf, 0)
			if got := e.ReadUint32(buf, 0); got != v {
				t.Fatalf("endian=%v uint32 round trip: got 0x%08X, want 0x%08X", e, got, v)
			}
		}
	}
}

func TestReadInt16Hex(t *testing.T) {
	// Hex cursor over "E803" with little-endian reads read_i16() == 1000.
	if got := Little.ReadInt16([]byte{0xE8, 0x03}, 0); got != 1000 {
		t.Fatalf("got %d, want 1000", got)
	}
	// over "18FC" reads -1000.
	if got := Little.ReadInt16([]byte{0x18, 0xFC}, 0); got != -1000 {
		t.Fatalf("got %d, want -1000", got)
	}
}

func TestRecordFormatDispatch(t *testing.T) {
	if EndianForRecordFormat(0) != Big {
		t.Fatal("record_format 0 should select Big")
	}
	if EndianForRecordFormat(19) != Big {
		t.Fatal("record_format 19 should select Big")
	}
	if EndianForRecordFormat(20) != Little {
		t.Fatal("record_format 20 should select Little")
	}
	if EndianForRecordFormat(255) != Little {
		t.Fatal("record_format 255 should select Little")
	}
}
