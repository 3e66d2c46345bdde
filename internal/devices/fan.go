package devices

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/values"
)

// FanMode enumerates a Fan's staging/control mode.
type FanMode int

const (
	FanModeThermostat FanMode = iota
	FanModeStaged
	FanModeContinuous
	FanModeTunnel
)

// FanParameters is device type 8: a single exhaust/tunnel fan belonging
// to a numbered ventilation stage.
type FanParameters struct {
	Header        DeviceRecordHeader
	NameIndex     uint16
	StageNumber   byte
	OnTempOffset  values.Temperature
	OffTempOffset values.Temperature
	MinOnTime     uint16
	MinOffTime    uint16
	StagingDelay  uint16
	Mode          byte
	CfmRating     uint16
	ControlBits   uint16
	RawData       string
}

// FanVariables is a fan's runtime state.
type FanVariables struct {
	Header         DeviceRecordHeader
	Status         uint16
	RuntimeToday   uint16
	RuntimeTotal   uint16
	CyclesToday    uint16
	CurrentStage   byte
	RemainingDelay uint16
	RawData        string
}

func (v FanVariables) IsRunning() bool { return v.Status&0x01 != 0 }

type FanParameterStrategy struct{}

func (FanParameterStrategy) DeviceType() values.DeviceType { return values.DeviceFan }

func (FanParameterStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "FanParameters", rawData)
	nameIndex := f.uint16()
	stageNumber := f.byte()
	f.skip(1) // reserved
	onOffset := f.temperature()
	offOffset := f.temperature()
	minOnTime := f.uint16()
	minOffTime := f.uint16()
	stagingDelay := f.uint16()
	mode := f.byte()
	f.skip(1) // reserved
	cfmRating := f.uint16()
	controlBits := f.uint16()
	p := FanParameters{
		Header:        header,
		NameIndex:     nameIndex,
		StageNumber:   stageNumber,
		OnTempOffset:  onOffset,
		OffTempOffset: offOffset,
		MinOnTime:     minOnTime,
		MinOffTime:    minOffTime,
		StagingDelay:  stagingDelay,
		Mode:          mode,
		CfmRating:     cfmRating,
		ControlBits:   controlBits,
		RawData:       rawData,
	}
	return p, f.Err()
}

type FanVariableStrategy struct{}

func (FanVariableStrategy) DeviceType() values.DeviceType { return values.DeviceFan }

func (FanVariableStrategy) Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error) {
	f := newFieldReader(cur, "FanVariables", rawData)
	status := f.uint16()
	runtimeToday := f.uint16()
	runtimeTotal := f.uint16()
	cyclesToday := f.uint16()
	currentStage := f.byte()
	f.skip(1) // reserved
	remainingDelay := f.uint16()
	v := FanVariables{
		Header:         header,
		Status:         status,
		RuntimeToday:   runtimeToday,
		RuntimeTotal:   runtimeTotal,
		CyclesToday:    cyclesToday,
		CurrentStage:   currentStage,
		RemainingDelay: remainingDelay,
		RawData:        rawData,
	}
	return v, f.Err()
}
