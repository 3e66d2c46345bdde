package protocol

import "testing"

func TestDecode1ByteRLI(t *testing.T) {
	got, err := Decode1ByteRLI("FF")
	if err != nil {
		t.Fatal(err)
	}
	if got != 510 {
		t.Fatalf("got %d, want 510", got)
	}
}

func TestDecode2ByteRLI(t *testing.T) {
	cases := []struct {
		hex  string
		want int
	}{
		{"B800", 368},
		{"0001", 512},
	}
	for _, c := range cases {
		got, err := Decode2ByteRLI(c.hex)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Fatalf("Decode2ByteRLI(%q) = %d, want %d", c.hex, got, c.want)
		}
	}
}

func TestRLIRoundTrip(t *testing.T) {
	for n := 0; n <= 255; n++ {
		byteCount := n * 2
		enc, err := Encode1ByteRLI(byteCount)
		if err != nil {
			t.Fatal(err)
		}
		dec, err := Decode1ByteRLI(enc)
		if err != nil {
			t.Fatal(err)
		}
		if dec != byteCount {
			t.Fatalf("1-byte RLI round trip: got %d, want %d", dec, byteCount)
		}
	}
	for n := 0; n <= 0xFFFF; n += 997 {
		byteCount := n * 2
		enc, err := Encode2ByteRLI(byteCount)
		if err != nil {
			t.Fatal(err)
		}
		dec, err := Decode2ByteRLI(enc)
		if err != nil {
			t.Fatal(err)
		}
		if dec != byteCount {
			t.Fatalf("2-byte RLI round trip: got %d, want %d", dec, byteCount)
		}
	}
}

func TestVLIWidth(t *testing.T) {
	if VLIWidth(0x8F) != 2 {
		t.Fatal("commands below threshold should use 1-byte VLI")
	}
	if VLIWidth(0xB0) != 4 {
		t.Fatal("commands at/above threshold should use 2-byte VLI")
	}
}

func TestDecodeVLI(t *testing.T) {
	got, err := DecodeVLI("0A")
	if err != nil || got != 10 {
		t.Fatalf("DecodeVLI(0A) = (%d, %v), want (10, nil)", got, err)
	}
	got, err = DecodeVLI("0100")
	if err != nil || got != 256 {
		t.Fatalf("DecodeVLI(0100) = (%d, %v), want (256, nil)", got, err)
	}
}
