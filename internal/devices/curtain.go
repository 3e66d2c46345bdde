package devices

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/values"
)

// CurtainControlMode enumerates how a Curtain's position is driven.
type CurtainControlMode int

const (
	CurtainControlManual CurtainControlMode = iota
	CurtainControlStatic
	CurtainControlTemperature
	CurtainControlCombined
)

// CurtainParameters is device type 4: a side-wall curtain with a
// wind-speed override that forces it closed.
type CurtainParameters struct {
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
	WindCloseSpeed    byte
	ControlBits       uint16
	RawData           string
}

// CurtainVariables is a curtain's runtime state.
type CurtainVariables struct {
	Header          DeviceRecordHeader
	Status          uint16
	CurrentPosition byte
	TargetPosition  byte
	RuntimeToday    uint16
	RawData         string
}

func (v CurtainVariables) IsMoving() bool   { return v.CurrentPosition != v.TargetPosition }
func (v CurtainVariables) IsAtTarget() bool { return v.CurrentPosition == v.TargetPosition }

type CurtainParameterStrategy struct{}

func (CurtainParameterStrategy) DeviceType() values.DeviceType { return values.DeviceCurtain }

func (CurtainParameterStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "CurtainParameters", rawData)
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
	windCloseSpeed := f.byte()
	controlBits := f.uint16()
	p := CurtainParameters{
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
		WindCloseSpeed:    windCloseSpeed,
		ControlBits:       controlBits,
		RawData:           rawData,
	}
	return p, f.Err()
}

type CurtainVariableStrategy struct{}

func (CurtainVariableStrategy) DeviceType() values.DeviceType { return values.DeviceCurtain }

func (CurtainVariableStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "CurtainVariables", rawData)
	v := CurtainVariables{
		Header:          header,
		Status:          f.uint16(),
		CurrentPosition: f.byte(),
		TargetPosition:  f.byte(),
		RuntimeToday:    f.uint16(),
		RawData:         rawData,
	}
	return v, f.Err()
}
