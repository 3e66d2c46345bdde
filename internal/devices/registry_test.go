package devices

import (
	"testing"

	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/protocol"
	"github.com/agsys/pcmi-client/internal/values"
)

// header builds an 8-byte device record header: record_size(2) zone(1)
// record_type(1) format/subtype(1) device_type(1) module(1) channel(1).
func header(recordSizeWords uint16, zone byte, recordType byte, format, subtype int, deviceType byte, module, channel byte) string {
	sizeHex := toHex16(recordSizeWords)
	formatByte := byte(format<<4) | byte(subtype&0x0F)
	return sizeHex + toHex8(zone) + toHex8(recordType) + toHex8(formatByte) + toHex8(deviceType) + toHex8(module) + toHex8(channel)
}

func toHex8(b byte) string {
	const hexDigits = "0123456789ABCDEF"
	return string([]byte{hexDigits[b>>4], hexDigits[b&0x0F]})
}

func toHex16(v uint16) string {
	return toHex8(byte(v>>8)) + toHex8(byte(v))
}

func TestParseDeviceRecordHeader(t *testing.T) {
	hexData := header(10, 2, 1, 0, 1, byte(values.DeviceAirSensor), 3, 4)
	cur := hexcursor.New(hexData, protocol.Big)

	h, err := ParseDeviceRecordHeader(cur, hexData)
	if err != nil {
		t.Fatalf("ParseDeviceRecordHeader() error = %v", err)
	}
	if h.ZoneNumber != 2 {
		t.Errorf("ZoneNumber = %d, want 2", h.ZoneNumber)
	}
	if h.DeviceType != values.DeviceAirSensor {
		t.Errorf("DeviceType = %v, want DeviceAirSensor", h.DeviceType)
	}
	if h.ModuleAddress != 3 || h.ChannelNumber != 4 {
		t.Errorf("ModuleAddress/ChannelNumber = %d/%d, want 3/4", h.ModuleAddress, h.ChannelNumber)
	}
}

func TestParseDeviceRecordHeaderTooShort(t *testing.T) {
	hexData := "0001"
	cur := hexcursor.New(hexData, protocol.Big)
	_, err := ParseDeviceRecordHeader(cur, hexData)
	if err == nil {
		t.Fatal("expected error for short header data")
	}
}

func TestRegistryParseParametersAirSensor(t *testing.T) {
	hexData := header(8, 1, 1, 0, 0, byte(values.DeviceAirSensor), 0, 1) +
		"0005" + // name_index
		"FFF6" + // calibration offset (-10)
		"02" + // sensor_type
		"00" // reserved

	r := NewDefaultRegistry()
	cur := hexcursor.New(hexData, protocol.Big)
	result, err := r.ParseParameters(hexData, cur)
	if err != nil {
		t.Fatalf("ParseParameters() error = %v", err)
	}
	p, ok := result.(AirSensorParameters)
	if !ok {
		t.Fatalf("result type = %T, want AirSensorParameters", result)
	}
	if p.NameIndex != 5 {
		t.Errorf("NameIndex = %d, want 5", p.NameIndex)
	}
	if p.SensorType != 2 {
		t.Errorf("SensorType = %d, want 2", p.SensorType)
	}
}

func TestRegistryParseVariablesUnknownDeviceFallsBackToGeneric(t *testing.T) {
	hexData := header(4, 1, 2, 0, 0, 200, 0, 0) + "0000"

	r := NewDefaultRegistry()
	cur := hexcursor.New(hexData, protocol.Big)
	result, err := r.ParseVariables(hexData, cur)
	if err != nil {
		t.Fatalf("ParseVariables() error = %v", err)
	}
	if _, ok := result.(GenericDeviceVariables); !ok {
		t.Fatalf("result type = %T, want GenericDeviceVariables", result)
	}
}

func TestRegistryHasStrategyForEveryBuiltinDeviceType(t *testing.T) {
	r := NewDefaultRegistry()
	deviceTypes := []values.DeviceType{
		values.DeviceAirSensor, values.DeviceHumiditySensor, values.DeviceStaticSensor,
		values.DeviceDigitalSensor, values.DevicePositionSensor, values.DeviceFeedSensor,
		values.DeviceWaterSensor, values.DeviceGasSensor,
		values.DeviceInlet, values.DeviceCurtain, values.DeviceRidgeVent, values.DeviceChimney,
		values.DeviceHeater, values.DeviceCoolPad, values.DeviceFan,
		values.DeviceVariableHeater, values.DeviceVfdFan,
		values.DeviceTimed, values.DeviceSwitch, values.DeviceV10Lights,
	}
	for _, dt := range deviceTypes {
		if !r.HasParameterStrategy(dt) {
			t.Errorf("no parameter strategy registered for %v", dt)
		}
		if !r.HasVariableStrategy(dt) {
			t.Errorf("no variable strategy registered for %v", dt)
		}
	}
}

func TestRegistryUnregisterAndClear(t *testing.T) {
	r := NewDefaultRegistry()
	if !r.UnregisterParameterStrategy(values.DeviceAirSensor) {
		t.Fatal("expected UnregisterParameterStrategy to report a prior registration")
	}
	if r.HasParameterStrategy(values.DeviceAirSensor) {
		t.Fatal("AirSensor parameter strategy still registered after unregister")
	}
	r.Clear()
	if r.HasVariableStrategy(values.DeviceHeater) {
		t.Fatal("expected Clear to remove every registered strategy")
	}
}
