package devices

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/values"
)

// InletControlMode enumerates how an Inlet's position is driven.
type InletControlMode int

const (
	InletControlManual InletControlMode = iota
	InletControlStatic
	InletControlTemperature
	InletControlCombined
)

// InletParameters is device type 3: a static-pressure or temperature
// driven air inlet.
type InletParameters struct {
	Header            DeviceRecordHeader
	NameIndex         uint16
	MinPosition       byte
	MaxPosition       byte
	OpenTime          uint16
	CloseTime         uint16
	ControlMode       byte
	StaticSetpoint    uint16
	TempOffset        values.Temperature
	PositionPerDegree byte
	ControlBits       uint16
	RawData           string
}

// InletVariables is an inlet's runtime state.
type InletVariables struct {
	Header          DeviceRecordHeader
	Status          uint16
	CurrentPosition byte
	TargetPosition  byte
	StaticReading   uint16
	RuntimeToday    uint16
	RawData         string
}

func (v InletVariables) IsMoving() bool   { return v.CurrentPosition != v.TargetPosition }
func (v InletVariables) IsAtTarget() bool { return v.CurrentPosition == v.TargetPosition }

type InletParameterStrategy struct{}

func (InletParameterStrategy) DeviceType() values.DeviceType { return values.DeviceInlet }

func (InletParameterStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "InletParameters", rawData)
	nameIndex := f.uint16()
	minPos := f.byte()
	maxPos := f.byte()
	openTime := f.uint16()
	closeTime := f.uint16()
	controlMode := f.byte()
	f.skip(1) // reserved
	staticSetpoint := f.uint16()
	tempOffset := f.temperature()
	positionPerDegree := f.byte()
	f.skip(1) // reserved
	controlBits := f.uint16()
	p := InletParameters{
		Header:            header,
		NameIndex:         nameIndex,
		MinPosition:       minPos,
		MaxPosition:       maxPos,
		OpenTime:          openTime,
		CloseTime:         closeTime,
		ControlMode:       controlMode,
		StaticSetpoint:    staticSetpoint,
		TempOffset:        tempOffset,
		PositionPerDegree: positionPerDegree,
		ControlBits:       controlBits,
		RawData:           rawData,
	}
	return p, f.Err()
}

type InletVariableStrategy struct{}

func (InletVariableStrategy) DeviceType() values.DeviceType { return values.DeviceInlet }

func (InletVariableStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "InletVariables", rawData)
	v := InletVariables{
		Header:          header,
		Status:          f.uint16(),
		CurrentPosition: f.byte(),
		TargetPosition:  f.byte(),
		StaticReading:   f.uint16(),
		RuntimeToday:    f.uint16(),
		RawData:         rawData,
	}
	return v, f.Err()
}
