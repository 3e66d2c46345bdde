package devices

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/values"
)

// V10LightsMode enumerates a V10Lights dimmer's schedule mode.
type V10LightsMode int

const (
	V10LightsModeFixed V10LightsMode = iota
	V10LightsModeSunriseSunset
)

// V10LightsParameters is device type 27: a 0-10V dimmable lighting
// circuit with gradual sunrise/sunset ramps.
type V10LightsParameters struct {
	Header          DeviceRecordHeader
	NameIndex       uint16
	OnTime          uint16
	OffTime         uint16
	OnIntensity     byte
	OffIntensity    byte
	SunriseDuration uint16
	SunsetDuration  uint16
	Mode            byte
	ControlBits     uint16
	RawData         string
}

// V10LightsVariables is a lighting circuit's runtime state.
type V10LightsVariables struct {
	Header           DeviceRecordHeader
	Status           uint16
	CurrentIntensity byte
	TargetIntensity  byte
	RuntimeToday     uint16
	RawData          string
}

func (v V10LightsVariables) IsRamping() bool { return v.CurrentIntensity != v.TargetIntensity }

type V10LightsParameterStrategy struct{}

func (V10LightsParameterStrategy) DeviceType() values.DeviceType { return values.DeviceV10Lights }

func (V10LightsParameterStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "V10LightsParameters", rawData)
	nameIndex := f.uint16()
	onTime := f.uint16()
	offTime := f.uint16()
	onIntensity := f.byte()
	offIntensity := f.byte()
	sunriseDuration := f.uint16()
	sunsetDuration := f.uint16()
	mode := f.byte()
	f.skip(1) // reserved
	controlBits := f.uint16()
	p := V10LightsParameters{
		Header:          header,
		NameIndex:       nameIndex,
		OnTime:          onTime,
		OffTime:         offTime,
		OnIntensity:     onIntensity,
		OffIntensity:    offIntensity,
		SunriseDuration: sunriseDuration,
		SunsetDuration:  sunsetDuration,
		Mode:            mode,
		ControlBits:     controlBits,
		RawData:         rawData,
	}
	return p, f.Err()
}

type V10LightsVariableStrategy struct{}

func (V10LightsVariableStrategy) DeviceType() values.DeviceType { return values.DeviceV10Lights }

func (V10LightsVariableStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "V10LightsVariables", rawData)
	v := V10LightsVariables{
		Header:           header,
		Status:           f.uint16(),
		CurrentIntensity: f.byte(),
		TargetIntensity:  f.byte(),
		RuntimeToday:     f.uint16(),
		RawData:          rawData,
	}
	return v, f.Err()
}
