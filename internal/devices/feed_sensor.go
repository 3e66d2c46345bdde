package devices

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/values"
)

// FeedSensorParameters is device type 10: a feed bin level/consumption
// monitor (ultrasonic, load cell, or flow meter).
type FeedSensorParameters struct {
	Header            DeviceRecordHeader
	NameIndex         uint16
	BinCapacity       uint32
	LowLevelAlarm     byte
	SensorType        byte
	CalibrationFactor uint16
	RawData           string
}

// FeedSensorVariables is a feed sensor's runtime reading.
type FeedSensorVariables struct {
	Header           DeviceRecordHeader
	CurrentLevel     byte
	ConsumptionToday uint32
	ConsumptionTotal uint32
	SensorStatus     uint16
	RawData          string
}

func (v FeedSensorVariables) IsLow() bool { return v.CurrentLevel < 10 }

type FeedSensorParameterStrategy struct{}

func (FeedSensorParameterStrategy) DeviceType() values.DeviceType { return values.DeviceFeedSensor }

func (FeedSensorParameterStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "FeedSensorParameters", rawData)
	p := FeedSensorParameters{
		Header:            header,
		NameIndex:         f.uint16(),
		BinCapacity:       f.uint32(),
		LowLevelAlarm:     f.byte(),
		SensorType:        f.byte(),
		CalibrationFactor: f.uint16(),
		RawData:           rawData,
	}
	return p, f.Err()
}

type FeedSensorVariableStrategy struct{}

func (FeedSensorVariableStrategy) DeviceType() values.DeviceType { return values.DeviceFeedSensor }

func (FeedSensorVariableStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "FeedSensorVariables", rawData)
	currentLevel := f.byte()
	f.skip(1) // reserved
	consumptionToday := f.uint32()
	consumptionTotal := f.uint32()
	status := f.uint16()
	v := FeedSensorVariables{
		Header:           header,
		CurrentLevel:     currentLevel,
		ConsumptionToday: consumptionToday,
		ConsumptionTotal: consumptionTotal,
		SensorStatus:     status,
		RawData:          rawData,
	}
	return v, f.Err()
}
