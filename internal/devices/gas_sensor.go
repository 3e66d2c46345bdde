package devices

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/values"
)

// GasType enumerates the gas a GasSensor is calibrated for.
type GasType int

const (
	GasTypeCarbonMonoxide GasType = iota
	GasTypeCarbonDioxide
	GasTypeAmmonia
	GasTypeHydrogenSulfide
)

// GasSensorParameters is device type 28: an air-quality gas concentration
// sensor with a ventilation-triggering alarm level.
type GasSensorParameters struct {
	Header             DeviceRecordHeader
	NameIndex          uint16
	GasType            byte
	HighAlarmLevel     uint16
	VentilationTrigger uint16
	CalibrationOffset  int16
	SensorType         byte
	RawData            string
}

// GasSensorVariables is a gas sensor's runtime reading.
type GasSensorVariables struct {
	Header         DeviceRecordHeader
	CurrentLevel   uint16
	PeakLevelToday uint16
	SensorStatus   uint16
	RawData        string
}

func (v GasSensorVariables) IsOK() bool { return v.SensorStatus == 0 }

type GasSensorParameterStrategy struct{}

func (GasSensorParameterStrategy) DeviceType() values.DeviceType { return values.DeviceGasSensor }

func (GasSensorParameterStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "GasSensorParameters", rawData)
	nameIndex := f.uint16()
	gasType := f.byte()
	f.skip(1) // reserved
	highAlarm := f.uint16()
	ventTrigger := f.uint16()
	calOffset := f.int16()
	sensorType := f.byte()
	f.skip(1) // reserved
	p := GasSensorParameters{
		Header:             header,
		NameIndex:          nameIndex,
		GasType:            gasType,
		HighAlarmLevel:     highAlarm,
		VentilationTrigger: ventTrigger,
		CalibrationOffset:  calOffset,
		SensorType:         sensorType,
		RawData:            rawData,
	}
	return p, f.Err()
}

type GasSensorVariableStrategy struct{}

func (GasSensorVariableStrategy) DeviceType() values.DeviceType { return values.DeviceGasSensor }

func (GasSensorVariableStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "GasSensorVariables", rawData)
	v := GasSensorVariables{
		Header:         header,
		CurrentLevel:   f.uint16(),
		PeakLevelToday: f.uint16(),
		SensorStatus:   f.uint16(),
		RawData:        rawData,
	}
	return v, f.Err()
}
