// Package values holds the protocol's value objects: Temperature (with its
// NaN sentinel), SerialNumber, Humidity, and the DeviceType enumeration.
// They are shared by internal/records and internal/devices and re-exported
// from the root package as type aliases.
package values

import (
	"fmt"
	"regexp"
)

// TemperatureNaN is the sentinel raw value meaning "not available / sensor
// fault".
const TemperatureNaN int16 = 0x7FFF

// Temperature is a signed 16-bit value in tenths of a degree Fahrenheit.
type Temperature struct {
	Raw int16
}

// NewTemperature wraps a raw tenths-of-a-degree-F value.
func NewTemperature(raw int16) Temperature { return Temperature{Raw: raw} }

// NewTemperatureFromFahrenheit builds a Temperature from a float °F value,
// rejecting anything outside the representable range.
func NewTemperatureFromFahrenheit(f float64) (Temperature, error) {
	raw := f * 10.0
	if raw < -32768 || raw > 32767 {
		return Temperature{}, fmt.Errorf("temperature %.1f°F out of representable range", f)
	}
	return Temperature{Raw: int16(raw)}, nil
}

// TemperatureNaNValue returns the sentinel "not available" Temperature.
func TemperatureNaNValue() Temperature { return Temperature{Raw: TemperatureNaN} }

// IsNaN reports whether this temperature represents a sensor fault.
func (t Temperature) IsNaN() bool { return t.Raw == TemperatureNaN }

// Fahrenheit returns the temperature in °F, or ok=false if NaN.
func (t Temperature) Fahrenheit() (value float64, ok bool) {
	if t.IsNaN() {
		return 0, false
	}
	return float64(t.Raw) / 10.0, true
}

// Celsius returns the temperature in °C, or ok=false if NaN.
func (t Temperature) Celsius() (value float64, ok bool) {
	f, ok := t.Fahrenheit()
	if !ok {
		return 0, false
	}
	return (f - 32.0) * 5.0 / 9.0, true
}

func (t Temperature) String() string {
	f, ok := t.Fahrenheit()
	if !ok {
		return "NaN"
	}
	return fmt.Sprintf("%.1f°F", f)
}

var serialNumberPattern = regexp.MustCompile(`^[0-9]{8}$`)

// SerialNumber is an 8-digit ASCII decimal controller serial number.
type SerialNumber string

// ParseSerialNumber validates s is exactly 8 ASCII decimal digits.
func ParseSerialNumber(s string) (SerialNumber, error) {
	if !serialNumberPattern.MatchString(s) {
		return "", fmt.Errorf("serial number %q must be exactly 8 decimal digits", s)
	}
	return SerialNumber(s), nil
}

func (s SerialNumber) String() string { return string(s) }

// Humidity is a relative humidity percentage, 0..100.
type Humidity uint8

// NewHumidity validates pct is within 0..100.
func NewHumidity(pct int) (Humidity, error) {
	if pct < 0 || pct > 100 {
		return 0, fmt.Errorf("humidity %d out of range 0..100", pct)
	}
	return Humidity(pct), nil
}

// DeviceType is the controller's device-type enumeration. Codes 0, 1-16 and
// 25-28 are defined; 17-24 are unused and resolve to Unknown.
type DeviceType uint8

const (
	DeviceUnknown        DeviceType = 0
	DeviceAirSensor      DeviceType = 1
	DeviceHumiditySensor DeviceType = 2
	DeviceInlet          DeviceType = 3
	DeviceCurtain        DeviceType = 4
	DeviceRidgeVent      DeviceType = 5
	DeviceHeater         DeviceType = 6
	DeviceCoolPad        DeviceType = 7
	DeviceFan            DeviceType = 8
	DeviceTimed          DeviceType = 9
	DeviceFeedSensor     DeviceType = 10
	DeviceWaterSensor    DeviceType = 11
	DeviceStaticSensor   DeviceType = 12
	DeviceDigitalSensor  DeviceType = 13
	DevicePositionSensor DeviceType = 14
	DeviceChimney        DeviceType = 15
	DeviceSwitch         DeviceType = 16
	DeviceVariableHeater DeviceType = 25
	DeviceVfdFan         DeviceType = 26
	DeviceV10Lights      DeviceType = 27
	DeviceGasSensor      DeviceType = 28
)

func (d DeviceType) String() string {
	switch d {
	case DeviceUnknown:
		return "Unknown"
	case DeviceAirSensor:
		return "AirSensor"
	case DeviceHumiditySensor:
		return "HumiditySensor"
	case DeviceInlet:
		return "Inlet"
	case DeviceCurtain:
		return "Curtain"
	case DeviceRidgeVent:
		return "RidgeVent"
	case DeviceHeater:
		return "Heater"
	case DeviceCoolPad:
		return "CoolPad"
	case DeviceFan:
		return "Fan"
	case DeviceTimed:
		return "Timed"
	case DeviceFeedSensor:
		return "FeedSensor"
	case DeviceWaterSensor:
		return "WaterSensor"
	case DeviceStaticSensor:
		return "StaticSensor"
	case DeviceDigitalSensor:
		return "DigitalSensor"
	case DevicePositionSensor:
		return "PositionSensor"
	case DeviceChimney:
		return "Chimney"
	case DeviceSwitch:
		return "Switch"
	case DeviceVariableHeater:
		return "VariableHeater"
	case DeviceVfdFan:
		return "VfdFan"
	case DeviceV10Lights:
		return "V10Lights"
	case DeviceGasSensor:
		return "GasSensor"
	default:
		return "Unknown"
	}
}

// DeviceTypeFromByte maps a raw device-type byte to its enumeration value,
// resolving unregistered codes (including 17-24) to DeviceUnknown.
func DeviceTypeFromByte(b byte) DeviceType {
	switch DeviceType(b) {
	case DeviceAirSensor, DeviceHumiditySensor, DeviceInlet, DeviceCurtain, DeviceRidgeVent,
		DeviceHeater, DeviceCoolPad, DeviceFan, DeviceTimed, DeviceFeedSensor, DeviceWaterSensor,
		DeviceStaticSensor, DeviceDigitalSensor, DevicePositionSensor, DeviceChimney, DeviceSwitch,
		DeviceVariableHeater, DeviceVfdFan, DeviceV10Lights, DeviceGasSensor:
		return DeviceType(b)
	default:
		return DeviceUnknown
	}
}

// ClientState is the client connection lifecycle state.
type ClientState int

const (
	Disconnected ClientState = iota
	Connecting
	Connected
	Downloading
	Disconnecting
)

func (s ClientState) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case Connecting:
		return "Connecting"
	case Connected:
		return "Connected"
	case Downloading:
		return "Downloading"
	case Disconnecting:
		return "Disconnecting"
	default:
		return "Unknown"
	}
}
