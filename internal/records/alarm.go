package records

import (
	"time"

	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/pcmierr"
	"github.com/agsys/pcmi-client/internal/protocol"
	"github.com/agsys/pcmi-client/internal/values"
)

const alarmRecordBytes = 20

// AlarmType identifies the condition an alarm reports.
type AlarmType int

const (
	AlarmNone           AlarmType = 0
	AlarmHighTemp       AlarmType = 1
	AlarmLowTemp        AlarmType = 2
	AlarmFixedHighTemp  AlarmType = 3
	AlarmFixedLowTemp   AlarmType = 4
	AlarmHighHumidity   AlarmType = 5
	AlarmLowHumidity    AlarmType = 6
	AlarmPowerFailure   AlarmType = 7
	AlarmPowerRestored  AlarmType = 8
	AlarmSensorFailure  AlarmType = 9
	AlarmDeviceFault    AlarmType = 10
	AlarmHighStatic     AlarmType = 11
	AlarmLowStatic      AlarmType = 12
	AlarmHighGas        AlarmType = 13
	AlarmWaterFlow      AlarmType = 14
	AlarmFeedLevel      AlarmType = 15
	AlarmDoorOpen       AlarmType = 16
	AlarmGeneral        AlarmType = 99
)

// AlarmState is an alarm's lifecycle state.
type AlarmState int

const (
	AlarmInactive     AlarmState = 0
	AlarmActive       AlarmState = 1
	AlarmAcknowledged AlarmState = 2
	AlarmCleared      AlarmState = 3
)

// AlarmRecord is one alarm instance reported by the controller.
type AlarmRecord struct {
	AlarmID     uint16
	AlarmType   AlarmType
	ZoneNumber  byte
	DeviceIndex uint16
	State       AlarmState
	TriggeredAt time.Time
	ClearedAt   *time.Time
	Value       int16
	Threshold   int16
	RawData     string
}

// IsActive reports whether the alarm is currently active.
func (a AlarmRecord) IsActive() bool { return a.State == AlarmActive }

// IsTemperatureAlarm reports whether Value/Threshold should be interpreted
// as Temperature.
func (a AlarmRecord) IsTemperatureAlarm() bool {
	switch a.AlarmType {
	case AlarmHighTemp, AlarmLowTemp, AlarmFixedHighTemp, AlarmFixedLowTemp:
		return true
	default:
		return false
	}
}

// TemperatureValue returns Value as a Temperature, ok=false if this is not
// a temperature alarm.
func (a AlarmRecord) TemperatureValue() (values.Temperature, bool) {
	if !a.IsTemperatureAlarm() {
		return values.Temperature{}, false
	}
	return values.NewTemperature(a.Value), true
}

// TemperatureThreshold returns Threshold as a Temperature, ok=false if this
// is not a temperature alarm.
func (a AlarmRecord) TemperatureThreshold() (values.Temperature, bool) {
	if !a.IsTemperatureAlarm() {
		return values.Temperature{}, false
	}
	return values.NewTemperature(a.Threshold), true
}

// AlarmList is a zone's (or the controller's) full set of alarm records.
type AlarmList struct {
	ZoneNumber byte
	TotalCount uint16
	Alarms     []AlarmRecord
	RawData    string
}

// ActiveAlarms returns the subset of Alarms currently active.
func (l AlarmList) ActiveAlarms() []AlarmRecord {
	active := make([]AlarmRecord, 0, len(l.Alarms))
	for _, a := range l.Alarms {
		if a.IsActive() {
			active = append(active, a)
		}
	}
	return active
}

func readAlarmRecord(cur *hexcursor.Cursor, rawData string) (AlarmRecord, error) {
	alarmID, err := cur.ReadUint16()
	if err != nil {
		return AlarmRecord{}, pcmierr.Parse(err.Error(), "AlarmRecord", cur.Position(), rawData)
	}
	alarmTypeByte, err := cur.ReadByte()
	if err != nil {
		return AlarmRecord{}, pcmierr.Parse(err.Error(), "AlarmRecord", cur.Position(), rawData)
	}
	zoneNumber, err := cur.ReadByte()
	if err != nil {
		return AlarmRecord{}, pcmierr.Parse(err.Error(), "AlarmRecord", cur.Position(), rawData)
	}
	deviceIndex, err := cur.ReadUint16()
	if err != nil {
		return AlarmRecord{}, pcmierr.Parse(err.Error(), "AlarmRecord", cur.Position(), rawData)
	}
	stateByte, err := cur.ReadByte()
	if err != nil {
		return AlarmRecord{}, pcmierr.Parse(err.Error(), "AlarmRecord", cur.Position(), rawData)
	}
	if err := cur.SkipBytes(1); err != nil {
		return AlarmRecord{}, pcmierr.Parse(err.Error(), "AlarmRecord", cur.Position(), rawData)
	}
	triggeredMinutes, err := cur.ReadUint32()
	if err != nil {
		return AlarmRecord{}, pcmierr.Parse(err.Error(), "AlarmRecord", cur.Position(), rawData)
	}
	clearedMinutes, err := cur.ReadUint32()
	if err != nil {
		return AlarmRecord{}, pcmierr.Parse(err.Error(), "AlarmRecord", cur.Position(), rawData)
	}
	value, err := cur.ReadInt16()
	if err != nil {
		return AlarmRecord{}, pcmierr.Parse(err.Error(), "AlarmRecord", cur.Position(), rawData)
	}
	threshold, err := cur.ReadInt16()
	if err != nil {
		return AlarmRecord{}, pcmierr.Parse(err.Error(), "AlarmRecord", cur.Position(), rawData)
	}

	var clearedAt *time.Time
	if clearedMinutes > 0 {
		t := historyEpoch.Add(time.Duration(clearedMinutes) * time.Minute)
		clearedAt = &t
	}

	return AlarmRecord{
		AlarmID:     alarmID,
		AlarmType:   AlarmType(alarmTypeByte),
		ZoneNumber:  zoneNumber,
		DeviceIndex: deviceIndex,
		State:       AlarmState(stateByte),
		TriggeredAt: historyEpoch.Add(time.Duration(triggeredMinutes) * time.Minute),
		ClearedAt:   clearedAt,
		Value:       value,
		Threshold:   threshold,
		RawData:     rawData,
	}, nil
}

// ParseAlarmList parses a zone-scoped alarm list: header plus a run of
// 20-byte alarm records.
func ParseAlarmList(hexData string, endian protocol.Endian) (*AlarmList, error) {
	cur := hexcursor.New(hexData, endian)

	zoneNumber, err := cur.ReadByte()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "AlarmList", cur.Position(), hexData)
	}
	if err := cur.SkipBytes(1); err != nil {
		return nil, pcmierr.Parse(err.Error(), "AlarmList", cur.Position(), hexData)
	}
	totalCount, err := cur.ReadUint16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "AlarmList", cur.Position(), hexData)
	}

	var alarms []AlarmRecord
	for cur.Remaining() >= alarmRecordBytes {
		start := cur.Position()
		record, err := readAlarmRecord(cur, hexData)
		if err != nil {
			return nil, err
		}
		record.RawData = hexData[start*2 : cur.Position()*2]
		alarms = append(alarms, record)
	}

	return &AlarmList{
		ZoneNumber: zoneNumber,
		TotalCount: totalCount,
		Alarms:     alarms,
		RawData:    hexData,
	}, nil
}
