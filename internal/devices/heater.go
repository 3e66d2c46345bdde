package devices

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/values"
)

// HeaterMode enumerates a Heater's staging/control mode.
type HeaterMode int

const (
	HeaterModeThermostat HeaterMode = iota
	HeaterModeStaged
	HeaterModeContinuous
)

// HeaterParameters is device type 6: a fixed-output fuel-fired heater
// staged on a temperature deadband.
type HeaterParameters struct {
	Header        DeviceRecordHeader
	NameIndex     uint16
	OnTempOffset  values.Temperature
	OffTempOffset values.Temperature
	MinOnTime     uint16
	MinOffTime    uint16
	Mode          byte
	BtuRating     uint32
	ControlBits   uint16
	InterlockBits uint16
	RawData       string
}

// HeaterVariables is a heater's runtime state.
type HeaterVariables struct {
	Header         DeviceRecordHeader
	Status         uint16
	RuntimeToday   uint16
	RuntimeTotal   uint16
	CyclesToday    uint16
	FuelUsageToday uint16
	RawData        string
}

func (v HeaterVariables) IsRunning() bool { return v.Status&0x01 != 0 }

type HeaterParameterStrategy struct{}

func (HeaterParameterStrategy) DeviceType() values.DeviceType { return values.DeviceHeater }

func (HeaterParameterStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "HeaterParameters", rawData)
	nameIndex := f.uint16()
	onOffset := f.temperature()
	offOffset := f.temperature()
	minOnTime := f.uint16()
	minOffTime := f.uint16()
	mode := f.byte()
	f.skip(1) // reserved
	btuRating := f.uint32()
	controlBits := f.uint16()
	interlockBits := f.uint16()
	p := HeaterParameters{
		Header:        header,
		NameIndex:     nameIndex,
		OnTempOffset:  onOffset,
		OffTempOffset: offOffset,
		MinOnTime:     minOnTime,
		MinOffTime:    minOffTime,
		Mode:          mode,
		BtuRating:     btuRating,
		ControlBits:   controlBits,
		InterlockBits: interlockBits,
		RawData:       rawData,
	}
	return p, f.Err()
}

type HeaterVariableStrategy struct{}

func (HeaterVariableStrategy) DeviceType() values.DeviceType { return values.DeviceHeater }

func (HeaterVariableStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "HeaterVariables", rawData)
	v := HeaterVariables{
		Header:         header,
		Status:         f.uint16(),
		RuntimeToday:   f.uint16(),
		RuntimeTotal:   f.uint16(),
		CyclesToday:    f.uint16(),
		FuelUsageToday: f.uint16(),
		RawData:        rawData,
	}
	return v, f.Err()
}
