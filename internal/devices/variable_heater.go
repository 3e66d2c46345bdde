package devices

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/values"
)

// VariableHeaterMode enumerates a VariableHeater's firing-rate control mode.
type VariableHeaterMode int

const (
	VariableHeaterModeThermostat VariableHeaterMode = iota
	VariableHeaterModeProportional
)

// VariableHeaterParameters is device type 25: a modulating fuel-fired
// heater whose output ramps between a minimum and maximum fire rate.
type VariableHeaterParameters struct {
	Header            DeviceRecordHeader
	NameIndex         uint16
	OnTempOffset      values.Temperature
	OffTempOffset     values.Temperature
	MinFireRate       byte
	MaxFireRate       byte
	DegreesPerPercent byte
	MinOnTime         uint16
	MinOffTime        uint16
	Mode              byte
	BtuRating         uint32
	ControlBits       uint16
	InterlockBits     uint16
	RawData           string
}

// VariableHeaterVariables is a variable heater's runtime state.
type VariableHeaterVariables struct {
	Header         DeviceRecordHeader
	Status         uint16
	CurrentOutput  byte
	TargetOutput   byte
	RuntimeToday   uint16
	FuelUsageToday uint16
	RawData        string
}

func (v VariableHeaterVariables) IsModulating() bool { return v.CurrentOutput != v.TargetOutput }

type VariableHeaterParameterStrategy struct{}

func (VariableHeaterParameterStrategy) DeviceType() values.DeviceType {
	return values.DeviceVariableHeater
}

func (VariableHeaterParameterStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "VariableHeaterParameters", rawData)
	nameIndex := f.uint16()
	onOffset := f.temperature()
	offOffset := f.temperature()
	minFireRate := f.byte()
	maxFireRate := f.byte()
	degreesPerPercent := f.byte()
	f.skip(1) // reserved
	minOnTime := f.uint16()
	minOffTime := f.uint16()
	mode := f.byte()
	f.skip(1) // reserved
	btuRating := f.uint32()
	controlBits := f.uint16()
	interlockBits := f.uint16()
	p := VariableHeaterParameters{
		Header:            header,
		NameIndex:         nameIndex,
		OnTempOffset:      onOffset,
		OffTempOffset:     offOffset,
		MinFireRate:       minFireRate,
		MaxFireRate:       maxFireRate,
		DegreesPerPercent: degreesPerPercent,
		MinOnTime:         minOnTime,
		MinOffTime:        minOffTime,
		Mode:              mode,
		BtuRating:         btuRating,
		ControlBits:       controlBits,
		InterlockBits:     interlockBits,
		RawData:           rawData,
	}
	return p, f.Err()
}

type VariableHeaterVariableStrategy struct{}

func (VariableHeaterVariableStrategy) DeviceType() values.DeviceType {
	return values.DeviceVariableHeater
}

func (VariableHeaterVariableStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "VariableHeaterVariables", rawData)
	v := VariableHeaterVariables{
		Header:         header,
		Status:         f.uint16(),
		CurrentOutput:  f.byte(),
		TargetOutput:   f.byte(),
		RuntimeToday:   f.uint16(),
		FuelUsageToday: f.uint16(),
		RawData:        rawData,
	}
	return v, f.Err()
}
