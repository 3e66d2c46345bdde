// Package pcmiclient implements a client for the PCMI protocol spoken by
// Valco agricultural climate controllers over RS-485 serial links: the
// connect/disconnect handshake and the single- and multi-record download
// operations layered on top of internal/protocol, internal/framing, and
// internal/records.
package pcmiclient

import (
	"context"
	"fmt"
	"time"

	"github.com/agsys/pcmi-client/internal/framing"
	"github.com/agsys/pcmi-client/internal/pcmierr"
	"github.com/agsys/pcmi-client/internal/pcmilog"
	"github.com/agsys/pcmi-client/internal/protocol"
	"github.com/agsys/pcmi-client/internal/transport"
	"github.com/agsys/pcmi-client/internal/values"
)

// Re-exported value and error types, so callers never need to import the
// internal packages directly.
type (
	// ClientState is the connection lifecycle state.
	ClientState = values.ClientState
	// SerialNumber is a validated 8-digit controller serial number.
	SerialNumber = values.SerialNumber
	// Temperature is a signed tenths-of-a-degree-F reading.
	Temperature = values.Temperature
	// Humidity is a relative humidity percentage.
	Humidity = values.Humidity
	// DeviceType is the controller's device-type enumeration.
	DeviceType = values.DeviceType
	// ErrorKind classifies a returned *Error.
	ErrorKind = pcmierr.Kind
	// Error is the error type returned by every client operation.
	Error = pcmierr.Error
)

const (
	Disconnected  = values.Disconnected
	Connecting    = values.Connecting
	Connected     = values.Connected
	Downloading   = values.Downloading
	Disconnecting = values.Disconnecting
)

const (
	KindTransport  = pcmierr.KindTransport
	KindTimeout    = pcmierr.KindTimeout
	KindConnection = pcmierr.KindConnection
	KindProtocol   = pcmierr.KindProtocol
	KindChecksum   = pcmierr.KindChecksum
	KindFrame      = pcmierr.KindFrame
	KindParse      = pcmierr.KindParse
	KindController = pcmierr.KindController
)

const retryDelay = 100 * time.Millisecond

// Client manages a connection to one controller and drives its download
// operations. A Client is not safe for concurrent use: it models one
// sequential RS-485 conversation, the way the protocol itself does.
type Client struct {
	transport  transport.Transport
	timeout    time.Duration
	maxRetries int
	state      values.ClientState
	serialNum  *values.SerialNumber
	reader     *framing.Reader
	log        *pcmilog.Logger
}

// New builds a Client over tr with the given response timeout and retry
// budget.
func New(tr transport.Transport, timeout time.Duration, maxRetries int) *Client {
	return &Client{
		transport:  tr,
		timeout:    timeout,
		maxRetries: maxRetries,
		state:      values.Disconnected,
		reader:     framing.New(),
		log:        pcmilog.NewDefault(""),
	}
}

// NewDefault builds a Client with the protocol's documented default timeout
// and retry budget.
func NewDefault(tr transport.Transport) *Client {
	return New(tr, time.Duration(protocol.DefaultReceiveTimeoutSeconds*float64(time.Second)), protocol.DefaultMaxRetries)
}

// SetLogger replaces the client's logger.
func (c *Client) SetLogger(l *pcmilog.Logger) { c.log = l }

// State returns the current connection state.
func (c *Client) State() values.ClientState { return c.state }

// SerialNumber returns the connected controller's serial number, or nil if
// not connected.
func (c *Client) SerialNumber() *values.SerialNumber { return c.serialNum }

// IsConnected reports whether the client is in the Connected state.
func (c *Client) IsConnected() bool { return c.state == values.Connected }

// Transport returns the underlying transport.
func (c *Client) Transport() transport.Transport { return c.transport }

// Connect opens the transport if needed and sends the serial-number
// handshake, retrying on timeout up to the client's retry budget.
func (c *Client) Connect(ctx context.Context, serialNumber string) error {
	if c.state != values.Disconnected {
		return pcmierr.Connection(fmt.Sprintf("cannot connect: client is in %s state", c.state))
	}

	if !c.transport.IsOpen() {
		c.log.Debug("opening transport for connection")
		if err := c.transport.Open(ctx); err != nil {
			return err
		}
	}

	sn, err := values.ParseSerialNumber(serialNumber)
	if err != nil {
		return pcmierr.Protocol(fmt.Sprintf("invalid serial number: %v", err))
	}

	c.state = values.Connecting
	c.log.Info("connecting to controller %s", serialNumber)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.log.Debug("connection attempt %d/%d", attempt+1, c.maxRetries+1)
			c.transport.DiscardBuffers()
		}

		lengthHex := fmt.Sprintf("%02X", len(serialNumber))
		data := append([]byte(lengthHex), []byte(serialNumber)...)
		frame := c.buildFrame(protocol.SerialNumber, data)

		if err := c.transport.Write(ctx, frame); err != nil {
			c.state = values.Disconnected
			return err
		}
		c.log.Debug("sent connection frame, waiting for response")

		response, err := c.readResponse(ctx, c.timeout)
		if err != nil {
			if isTimeoutErr(err) {
				lastErr = err
				c.log.Warn("connection timeout (attempt %d/%d)", attempt+1, c.maxRetries+1)
				if attempt < c.maxRetries {
					if err := sleepCtx(ctx, retryDelay); err != nil {
						c.state = values.Disconnected
						return err
					}
				}
				continue
			}
			c.state = values.Disconnected
			return err
		}

		if response == protocol.SnAck {
			c.state = values.Connected
			c.serialNum = &sn
			c.log.Info("connected to controller %s", serialNumber)
			return nil
		}

		if pcmierr.IsErrorCode(response) {
			c.log.Error("controller error: 0x%02X", response)
			c.state = values.Disconnected
			return pcmierr.Controller(response)
		}

		c.state = values.Disconnected
		return pcmierr.Protocol(fmt.Sprintf("unexpected response: 0x%02X", response))
	}

	c.state = values.Disconnected
	c.log.Error("connection failed after %d attempts", c.maxRetries+1)
	if lastErr != nil {
		return lastErr
	}
	return pcmierr.Timeout("connection timed out", c.timeout.Seconds())
}

// Attention sends the wake/attention command to the selected controller.
// Controllers answer with AT_ACK when listening; a missing acknowledgment
// is tolerated, since the command is a best-effort nudge on a shared bus.
func (c *Client) Attention(ctx context.Context) error {
	if c.state == values.Disconnected {
		return pcmierr.Connection("cannot send attention: client is disconnected")
	}

	if err := c.transport.Write(ctx, c.buildSimpleFrame(protocol.Attention)); err != nil {
		return err
	}

	ackTimeout := time.Duration(protocol.DisconnectAckTimeoutSeconds * float64(time.Second))
	response, err := c.readResponse(ctx, ackTimeout)
	if err != nil {
		if isTimeoutErr(err) {
			c.log.Debug("attention acknowledgment timed out")
			return nil
		}
		return err
	}
	if response != protocol.AtAck {
		return pcmierr.Protocol(fmt.Sprintf("unexpected response: 0x%02X", response))
	}
	return nil
}

// Disconnect sends the break command and waits briefly for acknowledgment.
// Safe to call even when not connected.
func (c *Client) Disconnect(ctx context.Context) error {
	if c.state == values.Disconnected {
		return nil
	}

	c.log.Info("disconnecting from controller %v", c.serialNum)
	c.state = values.Disconnecting

	var resultErr error
	frame := c.buildSimpleFrame(protocol.Break)
	if err := c.transport.Write(ctx, frame); err != nil {
		resultErr = err
	} else {
		disconnectTimeout := time.Duration(protocol.DisconnectAckTimeoutSeconds * float64(time.Second))
		if _, err := c.readResponse(ctx, disconnectTimeout); err != nil && !isTimeoutErr(err) {
			resultErr = err
		} else if err != nil {
			c.log.Debug("disconnect acknowledgment timed out (expected)")
		}
	}

	c.state = values.Disconnected
	c.serialNum = nil
	c.log.Debug("disconnected")
	return resultErr
}

// ensureConnected guards download operations against being called outside
// the Connected state.
func (c *Client) ensureConnected() error {
	if c.state != values.Connected {
		return pcmierr.Connection(fmt.Sprintf("not connected (state: %s)", c.state))
	}
	return nil
}

// buildFrame assembles STX + command + data + checksum + ETX.
func (c *Client) buildFrame(command byte, data []byte) []byte {
	payload := make([]byte, 0, 1+len(data))
	payload = append(payload, command)
	payload = append(payload, data...)
	withChecksum := protocol.AppendChecksum(payload)

	frame := make([]byte, 0, len(withChecksum)+2)
	frame = append(frame, protocol.STX)
	frame = append(frame, withChecksum...)
	frame = append(frame, protocol.ETX)
	return frame
}

// buildSimpleFrame assembles a frame carrying only a command byte.
func (c *Client) buildSimpleFrame(command byte) []byte {
	return c.buildFrame(command, nil)
}

// readResponse reads a single acknowledgment byte or, if the byte does not
// match a known acknowledgment code, the rest of a framed response up to
// ETX, and returns the response's command byte.
func (c *Client) readResponse(ctx context.Context, timeout time.Duration) (byte, error) {
	responseByte, err := c.transport.ReadByte(ctx, timeout)
	if err != nil {
		return 0, err
	}

	if protocol.AcknowledgmentCodes[responseByte] {
		return responseByte, nil
	}

	remaining, err := c.transport.ReadUntil(ctx, protocol.ETX, timeout)
	if err != nil {
		return 0, err
	}

	full := make([]byte, 0, 1+len(remaining))
	full = append(full, responseByte)
	full = append(full, remaining...)

	result, parsed, frameErr := c.reader.Parse(full)
	if result != framing.Success {
		reason := result.String()
		if frameErr != nil {
			reason = frameErr.Reason
		}
		return 0, pcmierr.Protocol(fmt.Sprintf("invalid response frame: %s", reason))
	}
	return parsed.CommandByte, nil
}

// readFrame reads one full framed record (read_until ETX + parse), the
// primitive every multi-record download loop repeats.
func (c *Client) readFrame(ctx context.Context, timeout time.Duration) (*framing.ParsedFrame, error) {
	response, err := c.transport.ReadUntil(ctx, protocol.ETX, timeout)
	if err != nil {
		return nil, err
	}
	result, parsed, frameErr := c.reader.Parse(response)
	if result != framing.Success {
		reason := result.String()
		if frameErr != nil {
			reason = frameErr.Reason
		}
		return nil, pcmierr.Protocol(fmt.Sprintf("frame parse failed: %s", reason))
	}
	return parsed, nil
}

// sendAck writes the OK_SEND_NEXT acknowledgment used to pull the next
// record in a multi-record download.
func (c *Client) sendAck(ctx context.Context) error {
	return c.transport.Write(ctx, c.buildSimpleFrame(protocol.OkSendNext))
}

func isTimeoutErr(err error) bool {
	pe, ok := err.(*pcmierr.Error)
	return ok && pe.Kind == pcmierr.KindTimeout
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
