package records

import (
	"time"

	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/pcmierr"
	"github.com/agsys/pcmi-client/internal/protocol"
)

// historyEpoch is the base date against which all history/alarm timestamps
// are expressed, in minutes.
var historyEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// HistoryGroup identifies what a history sample measures.
type HistoryGroup int

const (
	HistoryTemperature    HistoryGroup = 1
	HistoryHumidity       HistoryGroup = 2
	HistorySetpoint       HistoryGroup = 3
	HistoryOutsideTemp    HistoryGroup = 4
	HistoryStaticPressure HistoryGroup = 5
	HistoryWaterUsage     HistoryGroup = 6
	HistoryFeedUsage      HistoryGroup = 7
	HistoryMortality      HistoryGroup = 8
	HistoryWeight         HistoryGroup = 9
)

// HistorySampleInvalid is the raw sentinel for an unavailable sample.
const HistorySampleInvalid int16 = 0x7FFF

// HistorySample is one timestamped reading in a HistoryRecord.
type HistorySample struct {
	Timestamp time.Time
	Value     float64
	RawValue  int16
}

// IsValid reports whether the sample carries real data.
func (s HistorySample) IsValid() bool { return s.RawValue != HistorySampleInvalid }

// HistoryRecord is a group of timestamped samples logged by the controller.
type HistoryRecord struct {
	ZoneNumber      byte
	Group           HistoryGroup
	IntervalMinutes uint16
	SampleCount     uint16
	StartTimestamp  time.Time
	Samples         []HistorySample
	RawData         string
}

// ParseHistoryRecord parses a history record using the given endian
// strategy (selected by the client from the response command code).
func ParseHistoryRecord(hexData string, endian protocol.Endian) (*HistoryRecord, error) {
	cur := hexcursor.New(hexData, endian)

	zoneNumber, err := cur.ReadByte()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "HistoryRecord", cur.Position(), hexData)
	}
	groupByte, err := cur.ReadByte()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "HistoryRecord", cur.Position(), hexData)
	}
	intervalMinutes, err := cur.ReadUint16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "HistoryRecord", cur.Position(), hexData)
	}
	sampleCount, err := cur.ReadUint16()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "HistoryRecord", cur.Position(), hexData)
	}
	startMinutes, err := cur.ReadUint32()
	if err != nil {
		return nil, pcmierr.Parse(err.Error(), "HistoryRecord", cur.Position(), hexData)
	}

	group := HistoryGroup(groupByte)
	startTimestamp := historyEpoch.Add(time.Duration(startMinutes) * time.Minute)

	samples := make([]HistorySample, 0, sampleCount)
	for i := 0; i < int(sampleCount); i++ {
		if cur.Remaining() < 2 {
			break
		}
		raw, err := cur.ReadInt16()
		if err != nil {
			return nil, pcmierr.Parse(err.Error(), "HistoryRecord", cur.Position(), hexData)
		}
		sampleTime := startTimestamp.Add(time.Duration(i) * time.Duration(intervalMinutes) * time.Minute)
		samples = append(samples, HistorySample{
			Timestamp: sampleTime,
			Value:     scaleHistoryValue(group, raw),
			RawValue:  raw,
		})
	}

	return &HistoryRecord{
		ZoneNumber:      zoneNumber,
		Group:           group,
		IntervalMinutes: intervalMinutes,
		SampleCount:     sampleCount,
		StartTimestamp:  startTimestamp,
		Samples:         samples,
		RawData:         hexData,
	}, nil
}

func scaleHistoryValue(group HistoryGroup, raw int16) float64 {
	switch group {
	case HistoryTemperature, HistorySetpoint, HistoryOutsideTemp:
		return float64(raw) / 10.0
	case HistoryHumidity:
		return float64(raw)
	case HistoryStaticPressure:
		return float64(raw) / 100.0
	default:
		return float64(raw)
	}
}
