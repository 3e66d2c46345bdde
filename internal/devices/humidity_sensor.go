package devices

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/values"
)

// HumiditySensorParameters is device type 2: a combined temperature and
// humidity probe.
type HumiditySensorParameters struct {
	Header                    DeviceRecordHeader
	NameIndex                 uint16
	TempCalibrationOffset     values.Temperature
	HumidityCalibrationOffset byte
	SensorType                byte
	RawData                   string
}

// HumiditySensorVariables is a humidity sensor's runtime reading.
type HumiditySensorVariables struct {
	Header             DeviceRecordHeader
	CurrentTemperature values.Temperature
	CurrentHumidity    values.Humidity
	SensorStatus       uint16
	RawData            string
}

func (v HumiditySensorVariables) IsOK() bool {
	return v.SensorStatus == 0 && !v.CurrentTemperature.IsNaN()
}

type HumiditySensorParameterStrategy struct{}

func (HumiditySensorParameterStrategy) DeviceType() values.DeviceType {
	return values.DeviceHumiditySensor
}

func (HumiditySensorParameterStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "HumiditySensorParameters", rawData)
	p := HumiditySensorParameters{
		Header:                    header,
		NameIndex:                 f.uint16(),
		TempCalibrationOffset:     f.temperature(),
		HumidityCalibrationOffset: f.byte(),
		SensorType:                f.byte(),
		RawData:                   rawData,
	}
	return p, f.Err()
}

type HumiditySensorVariableStrategy struct{}

func (HumiditySensorVariableStrategy) DeviceType() values.DeviceType {
	return values.DeviceHumiditySensor
}

func (HumiditySensorVariableStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "HumiditySensorVariables", rawData)
	temp := f.temperature()
	humidity := values.Humidity(f.byte())
	f.skip(1) // reserved
	status := f.uint16()
	v := HumiditySensorVariables{
		Header:             header,
		CurrentTemperature: temp,
		CurrentHumidity:    humidity,
		SensorStatus:       status,
		RawData:            rawData,
	}
	return v, f.Err()
}
