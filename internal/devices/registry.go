// Package devices implements the device-record header parser and the
// per-device-type strategy registry. Strategies are looked up by DeviceType
// byte value directly in a fixed-size array.
package devices

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/pcmierr"
	"github.com/agsys/pcmi-client/internal/values"
)

// registrySize covers device-type byte values 0..28 inclusive; codes 17-24
// are unused and remain nil.
const registrySize = 29

// DeviceRecordHeader is the 8-byte common prefix of every device
// parameter/variable record.
type DeviceRecordHeader struct {
	RecordSizeWords uint16
	ZoneNumber      byte
	RecordType      byte
	RecordFormat    int
	DeviceSubtype   int
	DeviceType      values.DeviceType
	ModuleAddress   byte
	ChannelNumber   byte
}

// ParseDeviceRecordHeader reads the 8-byte header and advances the cursor
// to the device-specific payload.
func ParseDeviceRecordHeader(cur *hexcursor.Cursor, rawData string) (DeviceRecordHeader, error) {
	recordSizeWords, err := cur.ReadUint16()
	if err != nil {
		return DeviceRecordHeader{}, pcmierr.Parse(err.Error(), "DeviceRecordHeader", cur.Position(), rawData)
	}
	zoneNumber, err := cur.ReadByte()
	if err != nil {
		return DeviceRecordHeader{}, pcmierr.Parse(err.Error(), "DeviceRecordHeader", cur.Position(), rawData)
	}
	recordType, err := cur.ReadByte()
	if err != nil {
		return DeviceRecordHeader{}, pcmierr.Parse(err.Error(), "DeviceRecordHeader", cur.Position(), rawData)
	}
	formatSubtypeByte, err := cur.ReadByte()
	if err != nil {
		return DeviceRecordHeader{}, pcmierr.Parse(err.Error(), "DeviceRecordHeader", cur.Position(), rawData)
	}
	deviceTypeByte, err := cur.ReadByte()
	if err != nil {
		return DeviceRecordHeader{}, pcmierr.Parse(err.Error(), "DeviceRecordHeader", cur.Position(), rawData)
	}
	moduleAddress, err := cur.ReadByte()
	if err != nil {
		return DeviceRecordHeader{}, pcmierr.Parse(err.Error(), "DeviceRecordHeader", cur.Position(), rawData)
	}
	channelNumber, err := cur.ReadByte()
	if err != nil {
		return DeviceRecordHeader{}, pcmierr.Parse(err.Error(), "DeviceRecordHeader", cur.Position(), rawData)
	}

	return DeviceRecordHeader{
		RecordSizeWords: recordSizeWords,
		ZoneNumber:      zoneNumber,
		RecordType:      recordType,
		RecordFormat:    int(formatSubtypeByte>>4) & 0x0F,
		DeviceSubtype:   int(formatSubtypeByte) & 0x0F,
		DeviceType:      values.DeviceTypeFromByte(deviceTypeByte),
		ModuleAddress:   moduleAddress,
		ChannelNumber:   channelNumber,
	}, nil
}

// fieldReader wraps a Cursor with a sticky error, so a device strategy's
// parse function can read its whole fixed layout without an if-err-return
// after every field. The first error short-circuits every subsequent read;
// callers check Err() once at the end.
type fieldReader struct {
	cur        *hexcursor.Cursor
	recordType string
	rawData    string
	err        error
}

func newFieldReader(cur *hexcursor.Cursor, recordType, rawData string) *fieldReader {
	return &fieldReader{cur: cur, recordType: recordType, rawData: rawData}
}

func (f *fieldReader) fail(err error) {
	if f.err == nil {
		f.err = pcmierr.Parse(err.Error(), f.recordType, f.cur.Position(), f.rawData)
	}
}

func (f *fieldReader) Err() error { return f.err }

func (f *fieldReader) byte() byte {
	if f.err != nil {
		return 0
	}
	b, err := f.cur.ReadByte()
	if err != nil {
		f.fail(err)
		return 0
	}
	return b
}

func (f *fieldReader) uint16() uint16 {
	if f.err != nil {
		return 0
	}
	v, err := f.cur.ReadUint16()
	if err != nil {
		f.fail(err)
		return 0
	}
	return v
}

func (f *fieldReader) int16() int16 {
	if f.err != nil {
		return 0
	}
	v, err := f.cur.ReadInt16()
	if err != nil {
		f.fail(err)
		return 0
	}
	return v
}

func (f *fieldReader) uint32() uint32 {
	if f.err != nil {
		return 0
	}
	v, err := f.cur.ReadUint32()
	if err != nil {
		f.fail(err)
		return 0
	}
	return v
}

func (f *fieldReader) temperature() values.Temperature {
	return values.NewTemperature(f.int16())
}

func (f *fieldReader) skip(n int) {
	if f.err != nil {
		return
	}
	if err := f.cur.SkipBytes(n); err != nil {
		f.fail(err)
	}
}

// GenericDeviceParameters is the fallback record for device types with no
// registered parameter strategy.
type GenericDeviceParameters struct {
	Header  DeviceRecordHeader
	RawData string
}

// GenericDeviceVariables is the fallback record for device types with no
// registered variable strategy.
type GenericDeviceVariables struct {
	Header  DeviceRecordHeader
	RawData string
}

// ParameterStrategy decodes the device-specific parameter fields that
// follow a DeviceRecordHeader. Implementations must not advance the cursor
// past their declared layout and must not retain it.
type ParameterStrategy interface {
	DeviceType() values.DeviceType
	Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error)
}

// VariableStrategy decodes the device-specific variable fields that follow
// a DeviceRecordHeader.
type VariableStrategy interface {
	DeviceType() values.DeviceType
	Parse(cur *hexcursor.Cursor, header DeviceRecordHeader, rawData string) (any, error)
}

// Registry holds the parameter and variable strategies, one slot per
// DeviceType byte value.
type Registry struct {
	parameterStrategies [registrySize]ParameterStrategy
	variableStrategies  [registrySize]VariableStrategy
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// RegisterParameterStrategy registers s under its own DeviceType,
// replacing any existing registration.
func (r *Registry) RegisterParameterStrategy(s ParameterStrategy) {
	r.parameterStrategies[s.DeviceType()] = s
}

// RegisterVariableStrategy registers s under its own DeviceType, replacing
// any existing registration.
func (r *Registry) RegisterVariableStrategy(s VariableStrategy) {
	r.variableStrategies[s.DeviceType()] = s
}

// ParameterStrategyFor returns the registered parameter strategy for dt, or
// nil if none is registered.
func (r *Registry) ParameterStrategyFor(dt values.DeviceType) ParameterStrategy {
	if int(dt) >= registrySize {
		return nil
	}
	return r.parameterStrategies[dt]
}

// VariableStrategyFor returns the registered variable strategy for dt, or
// nil if none is registered.
func (r *Registry) VariableStrategyFor(dt values.DeviceType) VariableStrategy {
	if int(dt) >= registrySize {
		return nil
	}
	return r.variableStrategies[dt]
}

// HasParameterStrategy reports whether a parameter strategy is registered
// for dt.
func (r *Registry) HasParameterStrategy(dt values.DeviceType) bool {
	return r.ParameterStrategyFor(dt) != nil
}

// HasVariableStrategy reports whether a variable strategy is registered
// for dt.
func (r *Registry) HasVariableStrategy(dt values.DeviceType) bool {
	return r.VariableStrategyFor(dt) != nil
}

// UnregisterParameterStrategy clears dt's parameter strategy slot,
// reporting whether one was present.
func (r *Registry) UnregisterParameterStrategy(dt values.DeviceType) bool {
	if !r.HasParameterStrategy(dt) {
		return false
	}
	r.parameterStrategies[dt] = nil
	return true
}

// UnregisterVariableStrategy clears dt's variable strategy slot, reporting
// whether one was present.
func (r *Registry) UnregisterVariableStrategy(dt values.DeviceType) bool {
	if !r.HasVariableStrategy(dt) {
		return false
	}
	r.variableStrategies[dt] = nil
	return true
}

// Clear removes every registered strategy.
func (r *Registry) Clear() {
	r.parameterStrategies = [registrySize]ParameterStrategy{}
	r.variableStrategies = [registrySize]VariableStrategy{}
}

// ParseParameters parses a full device parameter record: header plus
// device-specific fields via the registered strategy, or a
// GenericDeviceParameters fallback when none is registered.
func (r *Registry) ParseParameters(hexData string, cur *hexcursor.Cursor) (any, error) {
	header, err := ParseDeviceRecordHeader(cur, hexData)
	if err != nil {
		return nil, err
	}
	if strategy := r.ParameterStrategyFor(header.DeviceType); strategy != nil {
		return strategy.Parse(cur, header, hexData)
	}
	return GenericDeviceParameters{Header: header, RawData: hexData}, nil
}

// ParseVariables parses a full device variable record: header plus
// device-specific fields via the registered strategy, or a
// GenericDeviceVariables fallback when none is registered.
func (r *Registry) ParseVariables(hexData string, cur *hexcursor.Cursor) (any, error) {
	header, err := ParseDeviceRecordHeader(cur, hexData)
	if err != nil {
		return nil, err
	}
	if strategy := r.VariableStrategyFor(header.DeviceType); strategy != nil {
		return strategy.Parse(cur, header, hexData)
	}
	return GenericDeviceVariables{Header: header, RawData: hexData}, nil
}

// NewDefaultRegistry returns a Registry with all 20 built-in device
// strategies registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterAllStrategies(r)
	return r
}

// RegisterAllStrategies registers every built-in device strategy into r, in
// the same grouping order as the original strategy catalogue: sensors,
// positional devices, climate devices, then timed/switch/lighting.
func RegisterAllStrategies(r *Registry) {
	r.RegisterParameterStrategy(AirSensorParameterStrategy{})
	r.RegisterVariableStrategy(AirSensorVariableStrategy{})
	r.RegisterParameterStrategy(HumiditySensorParameterStrategy{})
	r.RegisterVariableStrategy(HumiditySensorVariableStrategy{})
	r.RegisterParameterStrategy(StaticSensorParameterStrategy{})
	r.RegisterVariableStrategy(StaticSensorVariableStrategy{})
	r.RegisterParameterStrategy(DigitalSensorParameterStrategy{})
	r.RegisterVariableStrategy(DigitalSensorVariableStrategy{})
	r.RegisterParameterStrategy(PositionSensorParameterStrategy{})
	r.RegisterVariableStrategy(PositionSensorVariableStrategy{})
	r.RegisterParameterStrategy(FeedSensorParameterStrategy{})
	r.RegisterVariableStrategy(FeedSensorVariableStrategy{})
	r.RegisterParameterStrategy(WaterSensorParameterStrategy{})
	r.RegisterVariableStrategy(WaterSensorVariableStrategy{})
	r.RegisterParameterStrategy(GasSensorParameterStrategy{})
	r.RegisterVariableStrategy(GasSensorVariableStrategy{})

	r.RegisterParameterStrategy(InletParameterStrategy{})
	r.RegisterVariableStrategy(InletVariableStrategy{})
	r.RegisterParameterStrategy(CurtainParameterStrategy{})
	r.RegisterVariableStrategy(CurtainVariableStrategy{})
	r.RegisterParameterStrategy(RidgeVentParameterStrategy{})
	r.RegisterVariableStrategy(RidgeVentVariableStrategy{})
	r.RegisterParameterStrategy(ChimneyParameterStrategy{})
	r.RegisterVariableStrategy(ChimneyVariableStrategy{})

	r.RegisterParameterStrategy(HeaterParameterStrategy{})
	r.RegisterVariableStrategy(HeaterVariableStrategy{})
	r.RegisterParameterStrategy(CoolPadParameterStrategy{})
	r.RegisterVariableStrategy(CoolPadVariableStrategy{})
	r.RegisterParameterStrategy(FanParameterStrategy{})
	r.RegisterVariableStrategy(FanVariableStrategy{})
	r.RegisterParameterStrategy(VariableHeaterParameterStrategy{})
	r.RegisterVariableStrategy(VariableHeaterVariableStrategy{})
	r.RegisterParameterStrategy(VfdFanParameterStrategy{})
	r.RegisterVariableStrategy(VfdFanVariableStrategy{})

	r.RegisterParameterStrategy(TimedParameterStrategy{})
	r.RegisterVariableStrategy(TimedVariableStrategy{})
	r.RegisterParameterStrategy(SwitchParameterStrategy{})
	r.RegisterVariableStrategy(SwitchVariableStrategy{})
	r.RegisterParameterStrategy(V10LightsParameterStrategy{})
	r.RegisterVariableStrategy(V10LightsVariableStrategy{})
}
