// Package transport defines the byte-level link between a Client and a
// controller, plus the implementations that speak it: a real RS-485 serial
// port and an in-memory double for tests.
//
// Every blocking operation takes a context.Context so a caller can bound or
// cancel a read/write without the transport owning its own timer goroutine.
package transport

import (
	"context"
	"time"
)

// Transport is the link a Client drives to exchange PCMI frames with a
// controller. Implementations need not be safe for concurrent use; a Client
// owns its transport exclusively for the lifetime of a connection.
type Transport interface {
	// IsOpen reports whether the transport is currently connected.
	IsOpen() bool

	// PortName identifies the transport, e.g. "/dev/ttyUSB0" or "mock://test".
	PortName() string

	// Open establishes the underlying connection.
	Open(ctx context.Context) error

	// Close releases the connection. Idempotent.
	Close(ctx context.Context) error

	// Write sends a complete frame, including delimiters and checksum.
	Write(ctx context.Context, data []byte) error

	// ReadUntil reads until terminator is seen, terminator included in the
	// result. A zero timeout uses the transport's configured default.
	ReadUntil(ctx context.Context, terminator byte, timeout time.Duration) ([]byte, error)

	// Read reads exactly size bytes. A zero timeout uses the transport's
	// configured default.
	Read(ctx context.Context, size int, timeout time.Duration) ([]byte, error)

	// ReadByte reads a single byte. A zero timeout uses the transport's
	// configured default.
	ReadByte(ctx context.Context, timeout time.Duration) (byte, error)

	// DiscardBuffers drops any pending input and output data, for
	// resynchronizing after a protocol error.
	DiscardBuffers()
}
