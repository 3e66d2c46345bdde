package devices

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/values"
)

// SwitchMode enumerates a Switch device's control mode.
type SwitchMode int

const (
	SwitchModeManual SwitchMode = iota
	SwitchModeAlarmRelay
)

// SwitchParameters is device type 16: a generic latching relay output
// with minimum on/off dwell times and an interlock mask.
type SwitchParameters struct {
	Header        DeviceRecordHeader
	NameIndex     uint16
	Mode          byte
	MinOnTime     uint16
	MinOffTime    uint16
	ControlBits   uint16
	InterlockBits uint16
	RawData       string
}

// SwitchVariables is a switch device's runtime state.
type SwitchVariables struct {
	Header       DeviceRecordHeader
	Status       uint16
	RuntimeToday uint16
	CyclesToday  uint16
	RawData      string
}

func (v SwitchVariables) IsOn() bool { return v.Status&0x01 != 0 }

type SwitchParameterStrategy struct{}

func (SwitchParameterStrategy) DeviceType() values.DeviceType { return values.DeviceSwitch }

func (SwitchParameterStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "SwitchParameters", rawData)
	nameIndex := f.uint16()
	mode := f.byte()
	f.skip(1) // reserved
	minOnTime := f.uint16()
	minOffTime := f.uint16()
	controlBits := f.uint16()
	interlockBits := f.uint16()
	p := SwitchParameters{
		Header:        header,
		NameIndex:     nameIndex,
		Mode:          mode,
		MinOnTime:     minOnTime,
		MinOffTime:    minOffTime,
		ControlBits:   controlBits,
		InterlockBits: interlockBits,
		RawData:       rawData,
	}
	return p, f.Err()
}

type SwitchVariableStrategy struct{}

func (SwitchVariableStrategy) DeviceType() values.DeviceType { return values.DeviceSwitch }

func (SwitchVariableStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "SwitchVariables", rawData)
	v := SwitchVariables{
		Header:       header,
		Status:       f.uint16(),
		RuntimeToday: f.uint16(),
		CyclesToday:  f.uint16(),
		RawData:      rawData,
	}
	return v, f.Err()
}
