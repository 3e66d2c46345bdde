package devices

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/values"
)

// CoolPadMode enumerates a CoolPad's control mode.
type CoolPadMode int

const (
	CoolPadModeThermostat CoolPadMode = iota
	CoolPadModeContinuous
)

// CoolPadParameters is device type 7: an evaporative cooling pad with a
// periodic water purge cycle.
type CoolPadParameters struct {
	Header          DeviceRecordHeader
	NameIndex       uint16
	OnTempOffset    values.Temperature
	OffTempOffset   values.Temperature
	MinOnTime       uint16
	MinOffTime      uint16
	PurgeTime       uint16
	PurgeInterval   uint16
	Mode            byte
	HumidityLockout byte
	ControlBits     uint16
	RawData         string
}

// CoolPadVariables is a cool pad's runtime state.
type CoolPadVariables struct {
	Header          DeviceRecordHeader
	Status          uint16
	RuntimeToday    uint16
	CyclesToday     uint16
	WaterUsageToday uint16
	RawData         string
}

func (v CoolPadVariables) IsRunning() bool { return v.Status&0x01 != 0 }

type CoolPadParameterStrategy struct{}

func (CoolPadParameterStrategy) DeviceType() values.DeviceType { return values.DeviceCoolPad }

func (CoolPadParameterStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "CoolPadParameters", rawData)
	nameIndex := f.uint16()
	onOffset := f.temperature()
	offOffset := f.temperature()
	minOnTime := f.uint16()
	minOffTime := f.uint16()
	purgeTime := f.uint16()
	purgeInterval := f.uint16()
	mode := f.byte()
	humidityLockout := f.byte()
	controlBits := f.uint16()
	p := CoolPadParameters{
		Header:          header,
		NameIndex:       nameIndex,
		OnTempOffset:    onOffset,
		OffTempOffset:   offOffset,
		MinOnTime:       minOnTime,
		MinOffTime:      minOffTime,
		PurgeTime:       purgeTime,
		PurgeInterval:   purgeInterval,
		Mode:            mode,
		HumidityLockout: humidityLockout,
		ControlBits:     controlBits,
		RawData:         rawData,
	}
	return p, f.Err()
}

type CoolPadVariableStrategy struct{}

func (CoolPadVariableStrategy) DeviceType() values.DeviceType { return values.DeviceCoolPad }

func (CoolPadVariableStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "CoolPadVariables", rawData)
	v := CoolPadVariables{
		Header:          header,
		Status:          f.uint16(),
		RuntimeToday:    f.uint16(),
		CyclesToday:     f.uint16(),
		WaterUsageToday: f.uint16(),
		RawData:         rawData,
	}
	return v, f.Err()
}
