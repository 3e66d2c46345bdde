// Package records implements the zone, history, alarm, version, and
// auxiliary single-record parsers. The zone, history and alarm parsers
// consume an internal/hexcursor Cursor bound to an endian strategy: the zone
// parsers pick it from the record format field unless given one, and the
// history and alarm parsers take it from the caller. The single-record
// parsers wrap the payload without a cursor.
package records

import (
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/pcmierr"
	"github.com/agsys/pcmi-client/internal/protocol"
	"github.com/agsys/pcmi-client/internal/values"
)

const (
	minZoneParameterBytes = 42
	minZoneVariableBytes  = 24
)

// ZoneParameters holds a zone's configuration: temperature setpoints and
// alarm offsets, control bitmasks, humidity timers, and production stats.
type ZoneParameters struct {
	RecordSizeWords       uint16
	ZoneNumber            byte
	RecordType            byte
	RecordFormat          int
	TemperatureControl    int
	TempSetpoint          values.Temperature
	HighTempAlarmOffset   values.Temperature
	LowTempAlarmOffset    values.Temperature
	HighTempInhibitOffset values.Temperature
	LowTempInhibitOffset  values.Temperature
	FixedHighTempAlarm    values.Temperature
	FixedLowTempAlarm     values.Temperature
	InterlockBits         uint16
	ZoneBits              uint16
	HumiditySetpoint      byte
	HumidityOffTime       uint16
	HumidityPurgeTime     uint16
	AnimalAge             uint16
	ProjectedAge          uint16
	Weight                uint16
	BeginHeadCount        uint16
	MortalityCount        uint16
	SoldCount             uint16
	UsesLongHeadCounts    bool
	BeginHeadCountLong    uint32
	MortalityCountLong    uint32
	SoldCountLong         uint32
	RawData               string
}

// ZoneVariables holds a zone's runtime state: current readings, timers, and
// status bitmasks.
type ZoneVariables struct {
	RecordSizeWords     uint16
	ZoneNumber          byte
	RecordType          byte
	RecordFormat        int
	ActualTemperature   values.Temperature
	SetpointTemperature values.Temperature
	OutsideTemperature  values.Temperature
	ActualHumidity      byte
	CurrentAgeDays      uint16
	LightsOnMinutes     uint16
	LightsOffMinutes    uint16
	AlarmStatus         uint16
	ZoneStatus          uint16
	RawData             string
}

func peekRecordFormat(hexData string) (int, int, error) {
	if len(hexData) < 10 {
		return 0, 0, pcmierr.Parse("record too short to read format byte", "ZoneParameters", 4, hexData)
	}
	cur := hexcursor.New(hexData, protocol.Big)
	if err := cur.Skip(8); err != nil {
		return 0, 0, err
	}
	formatByte, err := cur.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	return int(formatByte>>4) & 0x0F, int(formatByte) & 0x0F, nil
}

// ParseZoneParameters parses a zone parameter record. If endian is nil, the
// strategy is chosen from the record format field (< 20 big-endian, >= 20
// little-endian).
func ParseZoneParameters(hexData string, endian *protocol.Endian) (*ZoneParameters, error) {
	if len(hexData) < minZoneParameterBytes*2 {
		return nil, pcmierr.Parse("zone parameter data too short", "ZoneParameters", 0, hexData)
	}

	recordFormat, tempControl, err := peekRecordFormat(hexData)
	if err != nil {
		return nil, err
	}

	strategy := endian
	if strategy == nil {
		e := protocol.EndianForRecordFormat(recordFormat)
		strategy = &e
	}

	cur := hexcursor.New(hexData, *strategy)

	recordSizeWords, err := cur.ReadUint16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneParameters", cur.Position(), hexData)
	}
	zoneNumber, err := cur.ReadByte()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneParameters", cur.Position(), hexData)
	}
	recordType, err := cur.ReadByte()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneParameters", cur.Position(), hexData)
	}
	if err := cur.SkipBytes(2); err != nil { // format byte + reserved
		return nil, pcmierr.Parse(err.Error(), "ZoneParameters", cur.Position(), hexData)
	}

	readTemp := func() (values.Temperature, error) {
		v, err := cur.ReadInt16()
		return values.NewTemperature(v), err
	}

	tempSetpoint, err := readTemp()
	highTempAlarmOffset, err2 := readTemp()
	lowTempAlarmOffset, err3 := readTemp()
	highTempInhibitOffset, err4 := readTemp()
	lowTempInhibitOffset, err5 := readTemp()
	fixedHighTempAlarm, err6 := readTemp()
	fixedLowTempAlarm, err7 := readTemp()
	for _, e := range []error{err, err2, err3, err4, err5, err6, err7} {
		if e != nil {
			return nil, pcmierr.Parse(e.Error(), "ZoneParameters", cur.Position(), hexData)
		}
	}

	interlockBits, err := cur.ReadUint16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneParameters", cur.Position(), hexData)
	}
	zoneBits, err := cur.ReadUint16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneParameters", cur.Position(), hexData)
	}

	humiditySetpoint, err := cur.ReadByte()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneParameters", cur.Position(), hexData)
	}
	if err := cur.SkipBytes(1); err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneParameters", cur.Position(), hexData)
	}
	humidityOffTime, err := cur.ReadUint16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneParameters", cur.Position(), hexData)
	}
	humidityPurgeTime, err := cur.ReadUint16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneParameters", cur.Position(), hexData)
	}

	animalAge, err := cur.ReadUint16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneParameters", cur.Position(), hexData)
	}
	projectedAge, err := cur.ReadUint16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneParameters", cur.Position(), hexData)
	}
	weight, err := cur.ReadUint16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneParameters", cur.Position(), hexData)
	}
	beginHeadCount, err := cur.ReadUint16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneParameters", cur.Position(), hexData)
	}
	mortalityCount, err := cur.ReadUint16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneParameters", cur.Position(), hexData)
	}
	soldCount, err := cur.ReadUint16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneParameters", cur.Position(), hexData)
	}

	zp := &ZoneParameters{
		RecordSizeWords:       recordSizeWords,
		ZoneNumber:            zoneNumber,
		RecordType:            recordType,
		RecordFormat:          recordFormat,
		TemperatureControl:    tempControl,
		TempSetpoint:          tempSetpoint,
		HighTempAlarmOffset:   highTempAlarmOffset,
		LowTempAlarmOffset:    lowTempAlarmOffset,
		HighTempInhibitOffset: highTempInhibitOffset,
		LowTempInhibitOffset:  lowTempInhibitOffset,
		FixedHighTempAlarm:    fixedHighTempAlarm,
		FixedLowTempAlarm:     fixedLowTempAlarm,
		InterlockBits:         interlockBits,
		ZoneBits:              zoneBits,
		HumiditySetpoint:      humiditySetpoint,
		HumidityOffTime:       humidityOffTime,
		HumidityPurgeTime:     humidityPurgeTime,
		AnimalAge:             animalAge,
		ProjectedAge:          projectedAge,
		Weight:                weight,
		BeginHeadCount:        beginHeadCount,
		MortalityCount:        mortalityCount,
		SoldCount:             soldCount,
		RawData:               hexData,
	}

	if recordFormat >= 3 && cur.Remaining() >= 12 {
		beginLong, e1 := cur.ReadUint32()
		mortalityLong, e2 := cur.ReadUint32()
		soldLong, e3 := cur.ReadUint32()
		if e1 != nil || e2 != nil || e3 != nil {
			return nil, pcmierr.Parse("failed reading extended head counts", "ZoneParameters", cur.Position(), hexData)
		}
		zp.UsesLongHeadCounts = true
		zp.BeginHeadCountLong = beginLong
		zp.MortalityCountLong = mortalityLong
		zp.SoldCountLong = soldLong
	}

	return zp, nil
}

// ParseZoneVariables parses a zone variable record, using the same
// endian-selection rule as ParseZoneParameters.
func ParseZoneVariables(hexData string, endian *protocol.Endian) (*ZoneVariables, error) {
	if len(hexData) < minZoneVariableBytes*2 {
		return nil, pcmierr.Parse("zone variable data too short", "ZoneVariables", 0, hexData)
	}

	recordFormat, _, err := peekRecordFormat(hexData)
	if err != nil {
		return nil, err
	}

	strategy := endian
	if strategy == nil {
		e := protocol.EndianForRecordFormat(recordFormat)
		strategy = &e
	}

	cur := hexcursor.New(hexData, *strategy)

	recordSizeWords, err := cur.ReadUint16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneVariables", cur.Position(), hexData)
	}
	zoneNumber, err := cur.ReadByte()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneVariables", cur.Position(), hexData)
	}
	recordType, err := cur.ReadByte()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneVariables", cur.Position(), hexData)
	}
	if err := cur.SkipBytes(2); err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneVariables", cur.Position(), hexData)
	}

	actualRaw, err := cur.ReadInt16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneVariables", cur.Position(), hexData)
	}
	setpointRaw, err := cur.ReadInt16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneVariables", cur.Position(), hexData)
	}
	outsideRaw, err := cur.ReadInt16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneVariables", cur.Position(), hexData)
	}

	actualHumidity, err := cur.ReadByte()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneVariables", cur.Position(), hexData)
	}
	if err := cur.SkipBytes(1); err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneVariables", cur.Position(), hexData)
	}

	currentAgeDays, err := cur.ReadUint16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneVariables", cur.Position(), hexData)
	}
	lightsOnMinutes, err := cur.ReadUint16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneVariables", cur.Position(), hexData)
	}
	lightsOffMinutes, err := cur.ReadUint16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneVariables", cur.Position(), hexData)
	}

	alarmStatus, err := cur.ReadUint16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneVariables", cur.Position(), hexData)
	}
	zoneStatus, err := cur.ReadUint16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "ZoneVariables", cur.Position(), hexData)
	}

	return &ZoneVariables{
		RecordSizeWords:     recordSizeWords,
		ZoneNumber:          zoneNumber,
		RecordType:          recordType,
		RecordFormat:        recordFormat,
		ActualTemperature:   values.NewTemperature(actualRaw),
		SetpointTemperature: values.NewTemperature(setpointRaw),
		OutsideTemperature:  values.NewTemperature(outsideRaw),
		ActualHumidity:      actualHumidity,
		CurrentAgeDays:      currentAgeDays,
		LightsOnMinutes:     lightsOnMinutes,
		LightsOffMinutes:    lightsOffMinutes,
		AlarmStatus:         alarmStatus,
		ZoneStatus:          zoneStatus,
		RawData:             hexData,
	}, nil
}
