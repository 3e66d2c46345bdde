package devices

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/values"
)

// TimedMode enumerates a Timed device's schedule mode.
type TimedMode int

const (
	TimedModeDaily TimedMode = iota
	TimedModeCycling
)

// TimedParameters is device type 9: a device run on up to two daily
// on/off windows plus an optional repeating cycle timer.
type TimedParameters struct {
	Header       DeviceRecordHeader
	NameIndex    uint16
	OnTime1      uint16
	OffTime1     uint16
	OnTime2      uint16
	OffTime2     uint16
	CycleOnTime  uint16
	CycleOffTime uint16
	Mode         byte
	ControlBits  uint16
	RawData      string
}

// TimedVariables is a timed device's runtime state.
type TimedVariables struct {
	Header        DeviceRecordHeader
	Status        uint16
	RuntimeToday  uint16
	CyclesToday   uint16
	TimeUntilNext uint16
	RawData       string
}

func (v TimedVariables) IsRunning() bool { return v.Status&0x01 != 0 }

type TimedParameterStrategy struct{}

func (TimedParameterStrategy) DeviceType() values.DeviceType { return values.DeviceTimed }

func (TimedParameterStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "TimedParameters", rawData)
	nameIndex := f.uint16()
	onTime1 := f.uint16()
	offTime1 := f.uint16()
	onTime2 := f.uint16()
	offTime2 := f.uint16()
	cycleOnTime := f.uint16()
	cycleOffTime := f.uint16()
	mode := f.byte()
	f.skip(1) // reserved
	controlBits := f.uint16()
	p := TimedParameters{
		Header:       header,
		NameIndex:    nameIndex,
		OnTime1:      onTime1,
		OffTime1:     offTime1,
		OnTime2:      onTime2,
		OffTime2:     offTime2,
		CycleOnTime:  cycleOnTime,
		CycleOffTime: cycleOffTime,
		Mode:         mode,
		ControlBits:  controlBits,
		RawData:      rawData,
	}
	return p, f.Err()
}

type TimedVariableStrategy struct{}

func (TimedVariableStrategy) DeviceType() values.DeviceType { return values.DeviceTimed }

func (TimedVariableStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "TimedVariables", rawData)
	v := TimedVariables{
		Header:        header,
		Status:        f.uint16(),
		RuntimeToday:  f.uint16(),
		CyclesToday:   f.uint16(),
		TimeUntilNext: f.uint16(),
		RawData:       rawData,
	}
	return v, f.Err()
}
