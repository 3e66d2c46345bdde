package records

import (
	"testing"

	"github.com/agsys/pcmi-client/internal/protocol"
)

func TestParseHistoryRecordTemperatureScaling(t *testing.T) {
	// zone=1 group=TEMPERATURE(1) interval=60 sample_count=2 start=0
	// samples: 725 (72.5F), 0x7FFF (invalid)
	hexData := "01" + "01" + "003C" + "0002" + "00000000" + "02D5" + "7FFF"

	record, err := ParseHistoryRecord(hexData, protocol.Big)
	if err != nil {
		t.Fatalf("ParseHistoryRecord() error = %v", err)
	}
	if record.Group != HistoryTemperature {
		t.Errorf("Group = %v, want HistoryTemperature", record.Group)
	}
	if len(record.Samples) != 2 {
		t.Fatalf("len(Samples) = %d, want 2", len(record.Samples))
	}
	if record.Samples[0].Value != 72.5 {
		t.Errorf("Samples[0].Value = %v, want 72.5", record.Samples[0].Value)
	}
	if record.Samples[1].IsValid() {
		t.Errorf("Samples[1].IsValid() = true, want false (0x7FFF sentinel)")
	}
}

func TestParseHistoryRecordHumidityScaling(t *testing.T) {
	hexData := "01" + "02" + "003C" + "0001" + "00000000" + "0032"

	record, err := ParseHistoryRecord(hexData, protocol.Big)
	if err != nil {
		t.Fatalf("ParseHistoryRecord() error = %v", err)
	}
	if record.Samples[0].Value != 50.0 {
		t.Errorf("humidity sample value = %v, want 50.0 (raw, unscaled)", record.Samples[0].Value)
	}
}

func TestParseHistoryRecordTruncatedSamples(t *testing.T) {
	// Declares 5 samples but only 1 is present; parser should stop early.
	hexData := "01" + "01" + "003C" + "0005" + "00000000" + "0064"

	record, err := ParseHistoryRecord(hexData, protocol.Big)
	if err != nil {
		t.Fatalf("ParseHistoryRecord() error = %v", err)
	}
	if len(record.Samples) != 1 {
		t.Errorf("len(Samples) = %d, want 1 (truncated)", len(record.Samples))
	}
}
