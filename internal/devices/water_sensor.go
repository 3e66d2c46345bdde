package devices

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/values"
)

// WaterSensorParameters is device type 11: a flow-meter based water
// consumption monitor.
type WaterSensorParameters struct {
	Header          DeviceRecordHeader
	NameIndex       uint16
	PulsesPerGallon uint16
	HighFlowAlarm   uint16
	NoFlowAlarmTime uint16
	SensorType      byte
	RawData         string
}

// WaterSensorVariables is a water sensor's runtime reading.
type WaterSensorVariables struct {
	Header           DeviceRecordHeader
	FlowRate         uint16
	ConsumptionToday uint32
	ConsumptionTotal uint32
	SensorStatus     uint16
	RawData          string
}

func (v WaterSensorVariables) HasFlow() bool { return v.FlowRate > 0 }

type WaterSensorParameterStrategy struct{}

func (WaterSensorParameterStrategy) DeviceType() values.DeviceType { return values.DeviceWaterSensor }

func (WaterSensorParameterStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "WaterSensorParameters", rawData)
	nameIndex := f.uint16()
	pulsesPerGallon := f.uint16()
	highFlowAlarm := f.uint16()
	noFlowAlarmTime := f.uint16()
	sensorType := f.byte()
	f.skip(1) // reserved
	p := WaterSensorParameters{
		Header:          header,
		NameIndex:       nameIndex,
		PulsesPerGallon: pulsesPerGallon,
		HighFlowAlarm:   highFlowAlarm,
		NoFlowAlarmTime: noFlowAlarmTime,
		SensorType:      sensorType,
		RawData:         rawData,
	}
	return p, f.Err()
}

type WaterSensorVariableStrategy struct{}

func (WaterSensorVariableStrategy) DeviceType() values.DeviceType { return values.DeviceWaterSensor }

func (WaterSensorVariableStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "WaterSensorVariables", rawData)
	v := WaterSensorVariables{
		Header:           header,
		FlowRate:         f.uint16(),
		ConsumptionToday: f.uint32(),
		ConsumptionTotal: f.uint32(),
		SensorStatus:     f.uint16(),
		RawData:          rawData,
	}
	return v, f.Err()
}
