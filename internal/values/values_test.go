package values

import "testing"

func TestTemperatureNaN(t *testing.T) {
	tests := []struct {
		name string
		raw  int16
		want bool
	}{
		{"sentinel", TemperatureNaN, true},
		{"zero", 0, false},
		{"positive", 725, false},
		{"negative", -400, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			temp := NewTemperature(tt.raw)
			if got := temp.IsNaN(); got != tt.want {
				t.Errorf("IsNaN() = %v, want %v", got, tt.want)
			}
			if _, ok := temp.Fahrenheit(); ok == tt.want {
				t.Errorf("Fahrenheit() ok = %v, want %v", ok, !tt.want)
			}
		})
	}
}

func TestTemperatureFahrenheit(t *testing.T) {
	temp := NewTemperature(725)
	f, ok := temp.Fahrenheit()
	if !ok || f != 72.5 {
		t.Errorf("Fahrenheit() = (%v, %v), want (72.5, true)", f, ok)
	}
}

func TestTemperatureCelsius(t *testing.T) {
	temp := NewTemperature(725)
	c, ok := temp.Celsius()
	if !ok {
		t.Fatalf("Celsius() ok = false, want true")
	}
	if c < 22.49 || c > 22.51 {
		t.Errorf("Celsius() = %v, want ~22.5", c)
	}
}

func TestParseSerialNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"too short", "123", true},
		{"non-digit", "0000ABCD", true},
		{"valid", "00009001", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSerialNumber(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseSerialNumber(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestNewHumidity(t *testing.T) {
	tests := []struct {
		name    string
		pct     int
		wantErr bool
	}{
		{"low boundary", 0, false},
		{"high boundary", 100, false},
		{"negative", -1, true},
		{"over", 101, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHumidity(tt.pct)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewHumidity(%d) err = %v, wantErr %v", tt.pct, err, tt.wantErr)
			}
		})
	}
}

func TestDeviceTypeFromByte(t *testing.T) {
	tests := []struct {
		name string
		b    byte
		want DeviceType
	}{
		{"air sensor", 1, DeviceAirSensor},
		{"gas sensor", 28, DeviceGasSensor},
		{"unused range", 20, DeviceUnknown},
		{"unknown code", 0, DeviceUnknown},
		{"out of range", 200, DeviceUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeviceTypeFromByte(tt.b); got != tt.want {
				t.Errorf("DeviceTypeFromByte(%d) = %v, want %v", tt.b, got, tt.want)
			}
		})
	}
}
