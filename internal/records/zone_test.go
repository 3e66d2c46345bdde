package records

import (
	"strings"
	"testing"

	"github.com/agsys/pcmi-client/internal/protocol"
)

func hexZeros(n int) string { return strings.Repeat("0", n) }

func TestParseZoneParametersBasic(t *testing.T) {
	// record_size(2) zone(1) record_type(1) format/temp(1)=0x05 reserved(1)
	// then 7 int16 temps, 2 uint16 bitmasks, humidity(1)+reserved(1),
	// 2 uint16 humidity timers, 6 uint16 animal fields = 42 bytes total.
	hexData := "0001" + "01" + "02" + "05" + "00" +
		hexZeros(14*2) + // 7 temperature int16 fields
		"0000" + "0000" + // interlock/zone bits
		"32" + "00" + // humidity setpoint + reserved
		"0000" + "0000" + // humidity timers
		"0000" + "0000" + "0000" + "0000" + "0000" + "0000" // animal fields

	zp, err := ParseZoneParameters(hexData, nil)
	if err != nil {
		t.Fatalf("ParseZoneParameters() error = %v", err)
	}
	if zp.ZoneNumber != 1 {
		t.Errorf("ZoneNumber = %d, want 1", zp.ZoneNumber)
	}
	if zp.RecordFormat != 0 {
		t.Errorf("RecordFormat = %d, want 0 (big-endian)", zp.RecordFormat)
	}
	if zp.TemperatureControl != 5 {
		t.Errorf("TemperatureControl = %d, want 5", zp.TemperatureControl)
	}
	if zp.HumiditySetpoint != 0x32 {
		t.Errorf("HumiditySetpoint = %d, want 0x32", zp.HumiditySetpoint)
	}
	if zp.UsesLongHeadCounts {
		t.Errorf("UsesLongHeadCounts = true, want false")
	}
}

func TestParseZoneParametersTooShort(t *testing.T) {
	_, err := ParseZoneParameters("0001", nil)
	if err == nil {
		t.Fatal("expected error for short zone parameter data")
	}
}

func TestParseZoneVariables(t *testing.T) {
	// record_size(2) zone(1) record_type(1) format(1) reserved(1)
	// actual/setpoint/outside temp int16 x3, humidity(1)+reserved(1),
	// 3 uint16 timers, 2 uint16 status = 24 bytes.
	hexData := "0001" + "01" + "02" + "00" + "00" +
		"02D0" + "0320" + "0000" + // actual=72.0F, setpoint=80.0F, outside=0
		"32" + "00" +
		"0000" + "0000" + "0000" +
		"0001" + "0002"

	zv, err := ParseZoneVariables(hexData, nil)
	if err != nil {
		t.Fatalf("ParseZoneVariables() error = %v", err)
	}
	f, ok := zv.ActualTemperature.Fahrenheit()
	if !ok || f != 72.0 {
		t.Errorf("ActualTemperature = (%v, %v), want (72.0, true)", f, ok)
	}
	if zv.AlarmStatus != 1 || zv.ZoneStatus != 2 {
		t.Errorf("AlarmStatus/ZoneStatus = %d/%d, want 1/2", zv.AlarmStatus, zv.ZoneStatus)
	}
}

func TestParseZoneVariablesEndianDuality(t *testing.T) {
	big := protocol.Big
	little := protocol.Little
	hexData := "0001" + "01" + "02" + "00" + "00" +
		"0000" + "0000" + "0000" +
		"32" + "00" +
		"0000" + "0000" + "0000" +
		"0001" + "0002"

	bigResult, err := ParseZoneVariables(hexData, &big)
	if err != nil {
		t.Fatalf("ParseZoneVariables(big) error = %v", err)
	}
	littleResult, err := ParseZoneVariables(hexData, &little)
	if err != nil {
		t.Fatalf("ParseZoneVariables(little) error = %v", err)
	}
	if bigResult.AlarmStatus != 1 {
		t.Errorf("big-endian AlarmStatus = %d, want 1", bigResult.AlarmStatus)
	}
	if littleResult.AlarmStatus != 256 {
		t.Errorf("little-endian AlarmStatus = %d, want 256", littleResult.AlarmStatus)
	}
}
