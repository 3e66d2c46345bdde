package devices

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/values"
)

// RidgeVentControlMode enumerates how a RidgeVent's position is driven.
type RidgeVentControlMode int

const (
	RidgeVentControlManual RidgeVentControlMode = iota
	RidgeVentControlTemperature
)

// RidgeVentParameters is device type 5: a roof ridge vent, temperature
// driven only (no static pressure setpoint).
type RidgeVentParameters struct {
	Header            DeviceRecordHeader
	NameIndex         uint16
	MinPosition       byte
	MaxPosition       byte
	OpenTime          uint16
	CloseTime         uint16
	ControlMode       byte
	TempOffset        values.Temperature
	PositionPerDegree byte
	ControlBits       uint16
	RawData           string
}

// RidgeVentVariables is a ridge vent's runtime state.
type RidgeVentVariables struct {
	Header          DeviceRecordHeader
	Status          uint16
	CurrentPosition byte
	TargetPosition  byte
	RuntimeToday    uint16
	RawData         string
}

func (v RidgeVentVariables) IsMoving() bool { return v.CurrentPosition != v.TargetPosition }

type RidgeVentParameterStrategy struct{}

func (RidgeVentParameterStrategy) DeviceType() values.DeviceType { return values.DeviceRidgeVent }

func (RidgeVentParameterStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "RidgeVentParameters", rawData)
	nameIndex := f.uint16()
	minPos := f.byte()
	maxPos := f.byte()
	openTime := f.uint16()
	closeTime := f.uint16()
	controlMode := f.byte()
	f.skip(1) // reserved
	tempOffset := f.temperature()
	positionPerDegree := f.byte()
	f.skip(1) // reserved
	controlBits := f.uint16()
	p := RidgeVentParameters{
		Header:            header,
		NameIndex:         nameIndex,
		MinPosition:       minPos,
		MaxPosition:       maxPos,
		OpenTime:          openTime,
		CloseTime:         closeTime,
		ControlMode:       controlMode,
		TempOffset:        tempOffset,
		PositionPerDegree: positionPerDegree,
		ControlBits:       controlBits,
		RawData:           rawData,
	}
	return p, f.Err()
}

type RidgeVentVariableStrategy struct{}

func (RidgeVentVariableStrategy) DeviceType() values.DeviceType { return values.DeviceRidgeVent }

func (RidgeVentVariableStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "RidgeVentVariables", rawData)
	v := RidgeVentVariables{
		Header:          header,
		Status:          f.uint16(),
		CurrentPosition: f.byte(),
		TargetPosition:  f.byte(),
		RuntimeToday:    f.uint16(),
		RawData:         rawData,
	}
	return v, f.Err()
}
