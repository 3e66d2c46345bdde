package devices

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/values"
)

// DigitalSensorType enumerates what a digital input is wired to.
type DigitalSensorType int

const (
	DigitalSensorGeneric DigitalSensorType = iota
	DigitalSensorDoorSwitch
	DigitalSensorMotion
	DigitalSensorFlow
	DigitalSensorLevel
)

// DigitalSensorParameters is device type 13: a generic binary input (door
// switch, motion detector, flow switch, level switch).
type DigitalSensorParameters struct {
	Header        DeviceRecordHeader
	NameIndex     uint16
	SensorType    byte
	InvertLogic   bool
	AlarmOnActive bool
	AlarmDelay    uint16
	RawData       string
}

// DigitalSensorVariables is a digital sensor's runtime state.
type DigitalSensorVariables struct {
	Header       DeviceRecordHeader
	CurrentState byte
	OnCountToday uint16
	TotalOnTime  uint16
	RawData      string
}

func (v DigitalSensorVariables) IsOn() bool { return v.CurrentState == 1 }

type DigitalSensorParameterStrategy struct{}

func (DigitalSensorParameterStrategy) DeviceType() values.DeviceType {
	return values.DeviceDigitalSensor
}

func (DigitalSensorParameterStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "DigitalSensorParameters", rawData)
	nameIndex := f.uint16()
	sensorType := f.byte()
	flags := f.byte()
	alarmDelay := f.uint16()
	p := DigitalSensorParameters{
		Header:        header,
		NameIndex:     nameIndex,
		SensorType:    sensorType,
		InvertLogic:   flags&0x01 != 0,
		AlarmOnActive: flags&0x02 != 0,
		AlarmDelay:    alarmDelay,
		RawData:       rawData,
	}
	return p, f.Err()
}

type DigitalSensorVariableStrategy struct{}

func (DigitalSensorVariableStrategy) DeviceType() values.DeviceType {
	return values.DeviceDigitalSensor
}

func (DigitalSensorVariableStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "DigitalSensorVariables", rawData)
	currentState := f.byte()
	f.skip(1) // reserved
	onCountToday := f.uint16()
	totalOnTime := f.uint16()
	v := DigitalSensorVariables{
		Header:       header,
		CurrentState: currentState,
		OnCountToday: onCountToday,
		TotalOnTime:  totalOnTime,
		RawData:      rawData,
	}
	return v, f.Err()
}
