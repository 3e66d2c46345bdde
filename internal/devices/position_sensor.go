package devices

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/values"
)

// PositionSensorParameters is device type 14: feedback for a mechanical
// device's actual position (potentiometer, encoder, or limit switches).
type PositionSensorParameters struct {
	Header       DeviceRecordHeader
	NameIndex    uint16
	MinRawValue  uint16
	MaxRawValue  uint16
	LinkedDevice uint16
	SensorType   byte
	RawData      string
}

// PositionSensorVariables is a position sensor's runtime reading.
type PositionSensorVariables struct {
	Header             DeviceRecordHeader
	RawValue           uint16
	CalculatedPosition byte
	SensorStatus       uint16
	RawData            string
}

func (v PositionSensorVariables) IsFullyOpen() bool   { return v.CalculatedPosition >= 95 }
func (v PositionSensorVariables) IsFullyClosed() bool { return v.CalculatedPosition <= 5 }

type PositionSensorParameterStrategy struct{}

func (PositionSensorParameterStrategy) DeviceType() values.DeviceType {
	return values.DevicePositionSensor
}

func (PositionSensorParameterStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "PositionSensorParameters", rawData)
	nameIndex := f.uint16()
	minRaw := f.uint16()
	maxRaw := f.uint16()
	linked := f.uint16()
	sensorType := f.byte()
	f.skip(1) // reserved
	p := PositionSensorParameters{
		Header:       header,
		NameIndex:    nameIndex,
		MinRawValue:  minRaw,
		MaxRawValue:  maxRaw,
		LinkedDevice: linked,
		SensorType:   sensorType,
		RawData:      rawData,
	}
	return p, f.Err()
}

type PositionSensorVariableStrategy struct{}

func (PositionSensorVariableStrategy) DeviceType() values.DeviceType {
	return values.DevicePositionSensor
}

func (PositionSensorVariableStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "PositionSensorVariables", rawData)
	rawValue := f.uint16()
	position := f.byte()
	f.skip(1) // reserved
	status := f.uint16()
	v := PositionSensorVariables{
		Header:             header,
		RawValue:           rawValue,
		CalculatedPosition: position,
		SensorStatus:       status,
		RawData:            rawData,
	}
	return v, f.Err()
}
