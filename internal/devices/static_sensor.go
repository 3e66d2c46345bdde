package devices

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/values"
)

// StaticSensorParameters is device type 12: a building static-pressure
// sensor, readings in hundredths of an inch of water column.
type StaticSensorParameters struct {
	Header            DeviceRecordHeader
	NameIndex         uint16
	CalibrationOffset int16
	HighAlarmSetpoint uint16
	LowAlarmSetpoint  uint16
	SensorType        byte
	RawData           string
}

// CalibrationInchesWC returns the calibration offset in inches WC.
func (p StaticSensorParameters) CalibrationInchesWC() float64 {
	return float64(p.CalibrationOffset) / 100.0
}

// StaticSensorVariables is a static pressure sensor's runtime reading.
type StaticSensorVariables struct {
	Header         DeviceRecordHeader
	CurrentReading int16
	SensorStatus   uint16
	RawData        string
}

// ReadingInchesWC returns the current reading in inches WC.
func (v StaticSensorVariables) ReadingInchesWC() float64 {
	return float64(v.CurrentReading) / 100.0
}

func (v StaticSensorVariables) IsOK() bool { return v.SensorStatus == 0 }

type StaticSensorParameterStrategy struct{}

func (StaticSensorParameterStrategy) DeviceType() values.DeviceType { return values.DeviceStaticSensor }

func (StaticSensorParameterStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "StaticSensorParameters", rawData)
	nameIndex := f.uint16()
	calOffset := f.int16()
	highAlarm := f.uint16()
	lowAlarm := f.uint16()
	sensorType := f.byte()
	f.skip(1) // reserved
	p := StaticSensorParameters{
		Header:            header,
		NameIndex:         nameIndex,
		CalibrationOffset: calOffset,
		HighAlarmSetpoint: highAlarm,
		LowAlarmSetpoint:  lowAlarm,
		SensorType:        sensorType,
		RawData:           rawData,
	}
	return p, f.Err()
}

type StaticSensorVariableStrategy struct{}

func (StaticSensorVariableStrategy) DeviceType() values.DeviceType { return values.DeviceStaticSensor }

func (StaticSensorVariableStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "StaticSensorVariables", rawData)
	v := StaticSensorVariables{
		Header:         header,
		CurrentReading: f.int16(),
		SensorStatus:   f.uint16(),
		RawData:        rawData,
	}
	return v, f.Err()
}
