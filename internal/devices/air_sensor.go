package devices

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/values"
)

// AirSensorParameters is device type 1: a plain temperature probe with a
// calibration offset.
type AirSensorParameters struct {
	Header            DeviceRecordHeader
	NameIndex         uint16
	CalibrationOffset values.Temperature
	SensorType        byte
	RawData           string
}

// AirSensorVariables is an air sensor's runtime reading.
type AirSensorVariables struct {
	Header             DeviceRecordHeader
	CurrentTemperature values.Temperature
	SensorStatus       uint16
	RawData            string
}

// IsOK reports whether the sensor reading is usable.
func (v AirSensorVariables) IsOK() bool {
	return v.SensorStatus == 0 && !v.CurrentTemperature.IsNaN()
}

type AirSensorParameterStrategy struct{}

func (AirSensorParameterStrategy) DeviceType() values.DeviceType { return values.DeviceAirSensor }

func (AirSensorParameterStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "AirSensorParameters", rawData)
	p := AirSensorParameters{
		Header:            header,
		NameIndex:         f.uint16(),
		CalibrationOffset: f.temperature(),
		SensorType:        f.byte(),
		RawData:           rawData,
	}
	return p, f.Err()
}

type AirSensorVariableStrategy struct{}

func (AirSensorVariableStrategy) DeviceType() values.DeviceType { return values.DeviceAirSensor }

func (AirSensorVariableStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "AirSensorVariables", rawData)
	v := AirSensorVariables{
		Header:             header,
		CurrentTemperature: f.temperature(),
		SensorStatus:       f.uint16(),
		RawData:            rawData,
	}
	return v, f.Err()
}
