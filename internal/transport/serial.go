package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/agsys/pcmi-client/internal/pcmierr"
	goserial "github.com/tarm/serial"
)

// pollInterval bounds how long a single underlying port.Read call blocks,
// so the Read and ReadUntil loops stay responsive to context cancellation.
const pollInterval = 100 * time.Millisecond

// SerialTransport is the real RS-485 transport, backed by tarm/serial.
type SerialTransport struct {
	mu sync.Mutex

	name           string
	baud           int
	defaultTimeout time.Duration
	port           *goserial.Port
}

// NewSerialTransport builds a transport for the named port at baud, not yet
// opened. defaultTimeout applies to any read call given a zero timeout.
func NewSerialTransport(name string, baud int, defaultTimeout time.Duration) *SerialTransport {
	return &SerialTransport{name: name, baud: baud, defaultTimeout: defaultTimeout}
}

// IsOpen reports whether the port is currently open.
func (s *SerialTransport) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port != nil
}

// PortName returns the configured device path, e.g. "/dev/ttyUSB0".
func (s *SerialTransport) PortName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Open opens the serial port at the configured baud rate with 8 data bits,
// mark parity, and 1 stop bit. Mark parity carries the controller bus's
// 9-bit RS-485 addressing.
func (s *SerialTransport) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port != nil {
		return pcmierr.Transport(fmt.Sprintf("serial port %s already open", s.name), nil)
	}

	cfg := &goserial.Config{
		Name:        s.name,
		Baud:        s.baud,
		Parity:      goserial.ParityMark,
		Size:        8,
		StopBits:    goserial.Stop1,
		ReadTimeout: pollInterval,
	}

	port, err := goserial.OpenPort(cfg)
	if err != nil {
		return pcmierr.Transport(fmt.Sprintf("open serial port %s", s.name), err)
	}
	s.port = port
	return nil
}

// Close closes the port. Idempotent.
func (s *SerialTransport) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	if err != nil {
		return pcmierr.Transport(fmt.Sprintf("close serial port %s", s.name), err)
	}
	return nil
}

// Write sends data in full, returning an error if the port writes short.
func (s *SerialTransport) Write(ctx context.Context, data []byte) error {
	port, err := s.openPort()
	if err != nil {
		return err
	}

	n, err := port.Write(data)
	if err != nil {
		return pcmierr.Transport(fmt.Sprintf("write to serial port %s", s.name), err)
	}
	if n != len(data) {
		return pcmierr.Transport(fmt.Sprintf("short write to serial port %s: wrote %d of %d bytes", s.name, n, len(data)), nil)
	}
	return nil
}

// ReadUntil polls the port in pollInterval slices until terminator is seen
// or timeout elapses.
func (s *SerialTransport) ReadUntil(ctx context.Context, terminator byte, timeout time.Duration) ([]byte, error) {
	timeout = s.resolveTimeout(timeout)
	deadline := time.Now().Add(timeout)

	port, err := s.openPort()
	if err != nil {
		return nil, err
	}

	var buf []byte
	one := make([]byte, 1)
	for {
		if err := ctx.Err(); err != nil {
			return nil, pcmierr.Transport(fmt.Sprintf("read from serial port %s", s.name), err)
		}
		n, err := port.Read(one)
		if err != nil {
			return nil, pcmierr.Transport(fmt.Sprintf("read from serial port %s", s.name), err)
		}
		if n == 1 {
			buf = append(buf, one[0])
			if one[0] == terminator {
				return buf, nil
			}
			continue
		}
		if time.Now().After(deadline) {
			return nil, pcmierr.Timeout(fmt.Sprintf("read_until 0x%02X timed out", terminator), timeout.Seconds())
		}
	}
}

// Read blocks until exactly size bytes have been received or timeout
// elapses.
func (s *SerialTransport) Read(ctx context.Context, size int, timeout time.Duration) ([]byte, error) {
	timeout = s.resolveTimeout(timeout)
	deadline := time.Now().Add(timeout)

	port, err := s.openPort()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, size)
	chunk := make([]byte, size)
	for len(buf) < size {
		if err := ctx.Err(); err != nil {
			return nil, pcmierr.Transport(fmt.Sprintf("read from serial port %s", s.name), err)
		}
		n, err := port.Read(chunk[:size-len(buf)])
		if err != nil {
			return nil, pcmierr.Transport(fmt.Sprintf("read from serial port %s", s.name), err)
		}
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			continue
		}
		if time.Now().After(deadline) {
			return nil, pcmierr.Timeout(fmt.Sprintf("read of %d bytes timed out", size), timeout.Seconds())
		}
	}
	return buf, nil
}

// ReadByte reads a single byte, waiting up to timeout.
func (s *SerialTransport) ReadByte(ctx context.Context, timeout time.Duration) (byte, error) {
	data, err := s.Read(ctx, 1, timeout)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// DiscardBuffers flushes the port's OS-level input and output buffers.
func (s *SerialTransport) DiscardBuffers() {
	s.mu.Lock()
	port := s.port
	s.mu.Unlock()
	if port != nil {
		_ = port.Flush()
	}
}

func (s *SerialTransport) openPort() (*goserial.Port, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return nil, pcmierr.Transport(fmt.Sprintf("serial port %s not open", s.name), nil)
	}
	return s.port, nil
}

func (s *SerialTransport) resolveTimeout(timeout time.Duration) time.Duration {
	if timeout > 0 {
		return timeout
	}
	return s.defaultTimeout
}
