package devices

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/values"
)

// VfdFanMode enumerates a VfdFan's speed-control mode.
type VfdFanMode int

const (
	VfdFanModeThermostat VfdFanMode = iota
	VfdFanModeProportional
	VfdFanModeTunnel
)

// VfdFanParameters is device type 26: a variable-frequency-drive fan
// whose speed ramps linearly above its control temperature.
type VfdFanParameters struct {
	Header         DeviceRecordHeader
	NameIndex      uint16
	OnTempOffset   values.Temperature
	MinSpeed       byte
	MaxSpeed       byte
	SpeedPerDegree byte
	RampTime       uint16
	MinOnTime      uint16
	MinOffTime     uint16
	Mode           byte
	CfmAt100       uint16
	ControlBits    uint16
	RawData        string
}

// VfdFanVariables is a VFD fan's runtime state.
type VfdFanVariables struct {
	Header       DeviceRecordHeader
	Status       uint16
	CurrentSpeed byte
	TargetSpeed  byte
	RuntimeToday uint16
	RuntimeTotal uint16
	RawData      string
}

func (v VfdFanVariables) IsRamping() bool { return v.CurrentSpeed != v.TargetSpeed }

type VfdFanParameterStrategy struct{}

func (VfdFanParameterStrategy) DeviceType() values.DeviceType { return values.DeviceVfdFan }

func (VfdFanParameterStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "VfdFanParameters", rawData)
	nameIndex := f.uint16()
	onOffset := f.temperature()
	minSpeed := f.byte()
	maxSpeed := f.byte()
	speedPerDegree := f.byte()
	f.skip(1) // reserved
	rampTime := f.uint16()
	minOnTime := f.uint16()
	minOffTime := f.uint16()
	mode := f.byte()
	f.skip(1) // reserved
	cfmAt100 := f.uint16()
	controlBits := f.uint16()
	p := VfdFanParameters{
		Header:         header,
		NameIndex:      nameIndex,
		OnTempOffset:   onOffset,
		MinSpeed:       minSpeed,
		MaxSpeed:       maxSpeed,
		SpeedPerDegree: speedPerDegree,
		RampTime:       rampTime,
		MinOnTime:      minOnTime,
		MinOffTime:     minOffTime,
		Mode:           mode,
		CfmAt100:       cfmAt100,
		ControlBits:    controlBits,
		RawData:        rawData,
	}
	return p, f.Err()
}

type VfdFanVariableStrategy struct{}

func (VfdFanVariableStrategy) DeviceType() values.DeviceType { return values.DeviceVfdFan }

func (VfdFanVariableStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "VfdFanVariables", rawData)
	v := VfdFanVariables{
		Header:       header,
		Status:       f.uint16(),
		CurrentSpeed: f.byte(),
		TargetSpeed:  f.byte(),
		RuntimeToday: f.uint16(),
		RuntimeTotal: f.uint16(),
		RawData:      rawData,
	}
	return v, f.Err()
}
