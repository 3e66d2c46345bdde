package pcmiclient

import (
	"context"
	"fmt"
	"time"

	"github.com/agsys/pcmi-client/internal/devices"
	"github.com/agsys/pcmi-client/internal/framing"
	"github.com/agsys/pcmi-client/internal/hexcursor"
	"github.com/agsys/pcmi-client/internal/pcmierr"
	"github.com/agsys/pcmi-client/internal/protocol"
	"github.com/agsys/pcmi-client/internal/records"
	"github.com/agsys/pcmi-client/internal/values"
)

// Re-exported record types, so callers parse responses without importing
// internal/records or internal/devices directly.
type (
	ZoneParameters    = records.ZoneParameters
	ZoneVariables     = records.ZoneVariables
	HistoryRecord     = records.HistoryRecord
	HistorySample     = records.HistorySample
	AlarmList         = records.AlarmList
	AlarmRecord       = records.AlarmRecord
	VersionRecord     = records.VersionRecord
	DetailAlarmRecord = records.DetailAlarmRecord
	InfoRecord        = records.InfoRecord
	ScaleGlobalRecord = records.ScaleGlobalRecord
	BirdHouseRecord   = records.BirdHouseRecord
)

// frameConverter decides whether a ParsedFrame is the record type a
// download expects and, if so, decodes it. ok=false with a nil error means
// "not my record, keep pulling" -- the ack is still sent by RecordStream.
type frameConverter[T any] func(pf *framing.ParsedFrame) (value T, ok bool, err error)

// RecordStream pulls one decoded record per Next call from a multi-record
// PCMI download, replacing the async-generator shape of the original client
// with an explicit, context-cancellable iterator.
type RecordStream[T any] struct {
	client  *Client
	name    string
	timeout time.Duration
	convert frameConverter[T]

	done  bool
	err   error
	count int
}

func newRecordStream[T any](c *Client, name string, convert frameConverter[T]) *RecordStream[T] {
	return &RecordStream[T]{client: c, name: name, timeout: c.timeout, convert: convert}
}

// Next returns the next record. ok is false once the download has finished
// (err is nil) or failed (err is non-nil); the stream is exhausted either
// way and further calls return the same terminal result.
func (s *RecordStream[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if s.done {
		return zero, false, s.err
	}

	for {
		frame, err := s.client.readFrame(ctx, s.timeout)
		if err != nil {
			s.finish(err)
			return zero, false, err
		}

		if frame.CommandByte == protocol.EndOfRecord {
			s.finish(nil)
			return zero, false, nil
		}

		if pcmierr.IsErrorCode(frame.CommandByte) {
			if frame.CommandByte == protocol.ErNoZone {
				s.finish(nil)
				return zero, false, nil
			}
			err := pcmierr.Controller(frame.CommandByte)
			s.finish(err)
			return zero, false, err
		}

		value, ok, convErr := s.convert(frame)

		if ackErr := s.client.sendAck(ctx); ackErr != nil {
			s.finish(ackErr)
			return zero, false, ackErr
		}
		if convErr != nil {
			s.finish(convErr)
			return zero, false, convErr
		}
		if ok {
			s.count++
			return value, true, nil
		}
	}
}

// Count returns the number of records successfully yielded so far.
func (s *RecordStream[T]) Count() int { return s.count }

func (s *RecordStream[T]) finish(err error) {
	if s.done {
		return
	}
	s.done = true
	s.err = err
	if s.client.transport.IsOpen() {
		s.client.state = values.Connected
	} else {
		s.client.state = values.Disconnected
		s.client.serialNum = nil
	}
	s.client.log.Debug("downloaded %d %s", s.count, s.name)
}

// startDownload guards the Connected precondition, transitions to
// Downloading, and writes the request frame. A failed request write aborts
// to Disconnected before returning.
func (c *Client) startDownload(ctx context.Context, label string, frame []byte) error {
	if err := c.ensureConnected(); err != nil {
		return err
	}
	c.state = values.Downloading
	c.log.Debug("downloading %s", label)

	if err := c.transport.Write(ctx, frame); err != nil {
		c.state = values.Disconnected
		return err
	}
	return nil
}

// DownloadZoneParameters requests and streams every zone's parameter
// record.
func (c *Client) DownloadZoneParameters(ctx context.Context) (*RecordStream[ZoneParameters], error) {
	if err := c.startDownload(ctx, "zone parameters", c.buildSimpleFrame(protocol.SendZoneParm)); err != nil {
		return nil, err
	}
	return newRecordStream(c, "zone parameters", func(pf *framing.ParsedFrame) (ZoneParameters, bool, error) {
		if pf.CommandByte != protocol.ZpString1 && pf.CommandByte != protocol.ZpString2 {
			var zero ZoneParameters
			return zero, false, nil
		}
		zp, err := records.ParseZoneParameters(pf.PayloadHex, nil)
		if err != nil {
			var zero ZoneParameters
			return zero, false, err
		}
		return *zp, true, nil
	}), nil
}

// DownloadZoneVariables requests and streams every zone's variable record.
func (c *Client) DownloadZoneVariables(ctx context.Context) (*RecordStream[ZoneVariables], error) {
	if err := c.startDownload(ctx, "zone variables", c.buildSimpleFrame(protocol.SendZoneVar)); err != nil {
		return nil, err
	}
	return newRecordStream(c, "zone variables", func(pf *framing.ParsedFrame) (ZoneVariables, bool, error) {
		if pf.CommandByte != protocol.ZvString1 && pf.CommandByte != protocol.ZvString2 {
			var zero ZoneVariables
			return zero, false, nil
		}
		zv, err := records.ParseZoneVariables(pf.PayloadHex, nil)
		if err != nil {
			var zero ZoneVariables
			return zero, false, err
		}
		return *zv, true, nil
	}), nil
}

// DownloadHistory requests and streams history records for zoneNumber (0
// for all zones) and the given history group.
func (c *Client) DownloadHistory(ctx context.Context, zoneNumber, group byte) (*RecordStream[HistoryRecord], error) {
	request := c.buildFrame(protocol.SendHistory, []byte{zoneNumber, group})
	if err := c.startDownload(ctx, fmt.Sprintf("history zone=%d group=%d", zoneNumber, group), request); err != nil {
		return nil, err
	}
	return newRecordStream(c, "history records", func(pf *framing.ParsedFrame) (HistoryRecord, bool, error) {
		var endian protocol.Endian
		switch pf.CommandByte {
		case protocol.HaNonswapString:
			endian = protocol.Little
		case protocol.HaString:
			endian = protocol.Big
		default:
			var zero HistoryRecord
			return zero, false, nil
		}
		hr, err := records.ParseHistoryRecord(pf.PayloadHex, endian)
		if err != nil {
			var zero HistoryRecord
			return zero, false, err
		}
		return *hr, true, nil
	}), nil
}

// DownloadAlarms requests and streams alarm lists for zoneNumber (0 for all
// zones).
func (c *Client) DownloadAlarms(ctx context.Context, zoneNumber byte) (*RecordStream[AlarmList], error) {
	request := c.buildFrame(protocol.SendAlarm, []byte{zoneNumber})
	if err := c.startDownload(ctx, fmt.Sprintf("alarms zone=%d", zoneNumber), request); err != nil {
		return nil, err
	}
	return newRecordStream(c, "alarm lists", func(pf *framing.ParsedFrame) (AlarmList, bool, error) {
		var endian protocol.Endian
		switch pf.CommandByte {
		case protocol.SaNonswapString:
			endian = protocol.Little
		case protocol.SaString:
			endian = protocol.Big
		default:
			var zero AlarmList
			return zero, false, nil
		}
		al, err := records.ParseAlarmList(pf.PayloadHex, endian)
		if err != nil {
			var zero AlarmList
			return zero, false, err
		}
		return *al, true, nil
	}), nil
}

// DownloadDeviceParameters requests and streams device parameter records for
// zoneNumber (0 for all zones). Each yielded value is the registered
// device-specific parameter struct, or devices.GenericDeviceParameters when
// no strategy is registered for that device type.
func (c *Client) DownloadDeviceParameters(ctx context.Context, zoneNumber byte) (*RecordStream[any], error) {
	request := c.buildFrame(protocol.SendDeviceParm, []byte{zoneNumber})
	if err := c.startDownload(ctx, fmt.Sprintf("device parameters zone=%d", zoneNumber), request); err != nil {
		return nil, err
	}
	registry := devices.NewDefaultRegistry()
	return newRecordStream(c, "device parameters", func(pf *framing.ParsedFrame) (any, bool, error) {
		var endian protocol.Endian
		switch pf.CommandByte {
		case protocol.DpString2:
			endian = protocol.Little
		case protocol.DpString1:
			endian = protocol.Big
		default:
			return nil, false, nil
		}
		cur := hexcursor.New(pf.PayloadHex, endian)
		value, err := registry.ParseParameters(pf.PayloadHex, cur)
		if err != nil {
			return nil, false, err
		}
		return value, true, nil
	}), nil
}

// DownloadDeviceVariables requests and streams device variable records for
// zoneNumber (0 for all zones). Each yielded value is the registered
// device-specific variable struct, or devices.GenericDeviceVariables when no
// strategy is registered for that device type.
func (c *Client) DownloadDeviceVariables(ctx context.Context, zoneNumber byte) (*RecordStream[any], error) {
	request := c.buildFrame(protocol.SendDeviceVar, []byte{zoneNumber})
	if err := c.startDownload(ctx, fmt.Sprintf("device variables zone=%d", zoneNumber), request); err != nil {
		return nil, err
	}
	registry := devices.NewDefaultRegistry()
	return newRecordStream(c, "device variables", func(pf *framing.ParsedFrame) (any, bool, error) {
		var endian protocol.Endian
		switch pf.CommandByte {
		case protocol.DvString2:
			endian = protocol.Little
		case protocol.DvString1:
			endian = protocol.Big
		default:
			return nil, false, nil
		}
		cur := hexcursor.New(pf.PayloadHex, endian)
		value, err := registry.ParseVariables(pf.PayloadHex, cur)
		if err != nil {
			return nil, false, err
		}
		return value, true, nil
	}), nil
}

// singleRecordDownload guards the Connected precondition, writes the
// request frame, reads one framed response, and reverts to Connected
// afterward (or to Disconnected if the transport is no longer open) --
// unless the write itself failed, which per the transport failure semantics
// aborts unconditionally to Disconnected instead.
func (c *Client) singleRecordDownload(ctx context.Context, label string, frame []byte) (*framing.ParsedFrame, error) {
	if err := c.ensureConnected(); err != nil {
		return nil, err
	}
	c.state = values.Downloading
	c.log.Debug("downloading %s", label)

	if err := c.transport.Write(ctx, frame); err != nil {
		c.state = values.Disconnected
		return nil, err
	}
	defer func() {
		if c.state == values.Downloading {
			if c.transport.IsOpen() {
				c.state = values.Connected
			} else {
				c.state = values.Disconnected
				c.serialNum = nil
			}
		}
	}()
	return c.readFrame(ctx, c.timeout)
}

// DownloadVersion requests the controller's firmware version string.
func (c *Client) DownloadVersion(ctx context.Context) (*VersionRecord, error) {
	parsed, err := c.singleRecordDownload(ctx, "version info", c.buildSimpleFrame(protocol.SendVersion))
	if err != nil {
		return nil, err
	}
	if parsed.CommandByte != protocol.SvString {
		return nil, pcmierr.Protocol(fmt.Sprintf("unexpected response: 0x%02X", parsed.CommandByte))
	}
	return records.ParseVersionRecord(parsed.Payload), nil
}

// DownloadDetailAlarm requests the detail-alarm string for zoneNumber.
func (c *Client) DownloadDetailAlarm(ctx context.Context, zoneNumber byte) (*DetailAlarmRecord, error) {
	frame := c.buildFrame(protocol.SendDetailAlarm, []byte{zoneNumber})
	parsed, err := c.singleRecordDownload(ctx, fmt.Sprintf("detail alarm zone=%d", zoneNumber), frame)
	if err != nil {
		return nil, err
	}
	if parsed.CommandByte != protocol.DaString && parsed.CommandByte != protocol.DaNonswapString {
		return nil, pcmierr.Protocol(fmt.Sprintf("unexpected response: 0x%02X", parsed.CommandByte))
	}
	return records.ParseDetailAlarmRecord(zoneNumber, parsed.Payload), nil
}

// DownloadInfoRecord requests the controller's identification/info blob.
func (c *Client) DownloadInfoRecord(ctx context.Context) (*InfoRecord, error) {
	parsed, err := c.singleRecordDownload(ctx, "info record", c.buildSimpleFrame(protocol.GetInfoRecord))
	if err != nil {
		return nil, err
	}
	switch parsed.CommandByte {
	case protocol.SendInfoRecord, protocol.SendInfo1Record, protocol.Info1NonswapRecord:
		return records.ParseInfoRecord(parsed.Payload), nil
	default:
		return nil, pcmierr.Protocol(fmt.Sprintf("unexpected response: 0x%02X", parsed.CommandByte))
	}
}

// DownloadScaleGlobal requests zoneNumber's scale-global configuration blob.
func (c *Client) DownloadScaleGlobal(ctx context.Context, zoneNumber byte) (*ScaleGlobalRecord, error) {
	frame := c.buildFrame(protocol.SendScaleGlobal, []byte{zoneNumber})
	parsed, err := c.singleRecordDownload(ctx, fmt.Sprintf("scale global zone=%d", zoneNumber), frame)
	if err != nil {
		return nil, err
	}
	if parsed.CommandByte != protocol.SgString {
		return nil, pcmierr.Protocol(fmt.Sprintf("unexpected response: 0x%02X", parsed.CommandByte))
	}
	return records.ParseScaleGlobalRecord(zoneNumber, parsed.PayloadHex), nil
}

// DownloadBirdHouse requests zoneNumber's bird-house configuration blob.
func (c *Client) DownloadBirdHouse(ctx context.Context, zoneNumber byte) (*BirdHouseRecord, error) {
	frame := c.buildFrame(protocol.SendBirdHouse, []byte{zoneNumber})
	parsed, err := c.singleRecordDownload(ctx, fmt.Sprintf("bird house zone=%d", zoneNumber), frame)
	if err != nil {
		return nil, err
	}
	if parsed.CommandByte != protocol.BhString {
		return nil, pcmierr.Protocol(fmt.Sprintf("unexpected response: 0x%02X", parsed.CommandByte))
	}
	return records.ParseBirdHouseRecord(zoneNumber, parsed.PayloadHex), nil
}
