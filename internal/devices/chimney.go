package devices

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/values"
)

// ChimneyControlMode enumerates how a Chimney's position is driven.
type ChimneyControlMode int

const (
	ChimneyControlManual ChimneyControlMode = iota
	ChimneyControlTemperature
)

// ChimneyParameters is device type 15: a chimney/stack vent with a
// minimum vent position floor distinct from its absolute minimum.
type ChimneyParameters struct {
	Header            DeviceRecordHeader
	NameIndex         uint16
	MinPosition       byte
	MaxPosition       byte
	OpenTime          uint16
	CloseTime         uint16
	ControlMode       byte
	TempOffset        values.Temperature
	PositionPerDegree byte
	MinVentPosition   byte
	ControlBits       uint16
	RawData           string
}

// ChimneyVariables is a chimney vent's runtime state.
type ChimneyVariables struct {
	Header          DeviceRecordHeader
	Status          uint16
	CurrentPosition byte
	TargetPosition  byte
	RuntimeToday    uint16
	RawData         string
}

func (v ChimneyVariables) IsMoving() bool { return v.CurrentPosition != v.TargetPosition }

type ChimneyParameterStrategy struct{}

func (ChimneyParameterStrategy) DeviceType() values.DeviceType { return values.DeviceChimney }

func (ChimneyParameterStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "ChimneyParameters", rawData)
	nameIndex := f.uint16()
	minPos := f.byte()
	maxPos := f.byte()
	openTime := f.uint16()
	closeTime := f.uint16()
	controlMode := f.byte()
	f.skip(1) // reserved
	tempOffset := f.temperature()
	positionPerDegree := f.byte()
	minVentPosition := f.byte()
	controlBits := f.uint16()
	p := ChimneyParameters{
		Header:            header,
		NameIndex:         nameIndex,
		MinPosition:       minPos,
		MaxPosition:       maxPos,
		OpenTime:          openTime,
		CloseTime:         closeTime,
		ControlMode:       controlMode,
		TempOffset:        tempOffset,
		PositionPerDegree: positionPerDegree,
		MinVentPosition:   minVentPosition,
		ControlBits:       controlBits,
		RawData:           rawData,
	}
	return p, f.Err()
}

type ChimneyVariableStrategy struct{}

func (ChimneyVariableStrategy) DeviceType() values.DeviceType { return values.DeviceChimney }

func (ChimneyVariableStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "ChimneyVariables", rawData)
	v := ChimneyVariables{
		Header:          header,
		Status:          f.uint16(),
		CurrentPosition: f.byte(),
		TargetPosition:  f.byte(),
		RuntimeToday:    f.uint16(),
		RawData:         rawData,
	}
	return v, f.Err()
}
