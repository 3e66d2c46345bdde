package pcmiclient

import (
	"context"
	"testing"
	"time"

	"github.com/agsys/pcmi-client/internal/protocol"
	"github.com/agsys/pcmi-client/internal/transport"
	"github.com/agsys/pcmi-client/internal/values"
)

func newConnectedTestClient(t *testing.T) (*Client, *transport.MockTransport) {
	t.Helper()
	mock := transport.NewMockTransport()
	if err := mock.Open(context.Background()); err != nil {
		t.Fatalf("mock.Open() error = %v", err)
	}
	c := New(mock, 50*time.Millisecond, 2)
	mock.AddResponse([]byte{protocol.SnAck})
	if err := c.Connect(context.Background(), "00009001"); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	mock.ClearWritten()
	return c, mock
}

func TestClientConnectSuccess(t *testing.T) {
	mock := transport.NewMockTransport()
	_ = mock.Open(context.Background())
	mock.AddResponse([]byte{protocol.SnAck})

	c := New(mock, time.Second, 2)
	if err := c.Connect(context.Background(), "00009001"); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if c.State() != values.Connected {
		t.Errorf("State() = %v, want Connected", c.State())
	}
	if sn := c.SerialNumber(); sn == nil || sn.String() != "00009001" {
		t.Errorf("SerialNumber() = %v, want 00009001", sn)
	}
	if !c.IsConnected() {
		t.Errorf("IsConnected() = false, want true")
	}

	writes := mock.WrittenData()
	if len(writes) != 1 {
		t.Fatalf("write count = %d, want 1", len(writes))
	}
	wantPrefix := []byte{0x20, 0x85, '0', '8', '0', '0', '0', '0', '9', '0', '0', '1'}
	if len(writes[0]) < len(wantPrefix) || string(writes[0][:len(wantPrefix)]) != string(wantPrefix) {
		t.Errorf("connect frame = % X, want prefix % X", writes[0], wantPrefix)
	}
}

func TestClientConnectInvalidSerialNumber(t *testing.T) {
	mock := transport.NewMockTransport()
	_ = mock.Open(context.Background())
	c := New(mock, time.Second, 2)

	if err := c.Connect(context.Background(), "not-a-serial"); err == nil {
		t.Fatalf("Connect() with invalid serial: want error, got nil")
	}
	if c.State() != values.Disconnected {
		t.Errorf("State() after invalid serial = %v, want Disconnected", c.State())
	}
}

func TestClientConnectWrongState(t *testing.T) {
	c, _ := newConnectedTestClient(t)
	if err := c.Connect(context.Background(), "00009001"); err == nil {
		t.Fatalf("Connect() while already connected: want error, got nil")
	}
}

func TestClientConnectControllerError(t *testing.T) {
	mock := transport.NewMockTransport()
	_ = mock.Open(context.Background())
	mock.AddResponse([]byte{0xC3}) // invalid serial number

	c := New(mock, time.Second, 2)
	err := c.Connect(context.Background(), "00009001")
	if err == nil {
		t.Fatalf("Connect() with controller error: want error, got nil")
	}
	if c.State() != values.Disconnected {
		t.Errorf("State() after controller error = %v, want Disconnected", c.State())
	}
}

func TestClientConnectRetriesThenSucceeds(t *testing.T) {
	mock := transport.NewMockTransport()
	_ = mock.Open(context.Background())
	c := New(mock, 20*time.Millisecond, 2)

	// The callback drives the response stream directly: the first write
	// gets no response (ReadByte times out), the second gets SN_ACK.
	writes := 0
	mock.SetResponseCallback(func(written []byte) []byte {
		writes++
		if writes < 2 {
			return nil
		}
		return []byte{protocol.SnAck}
	})

	if err := c.Connect(context.Background(), "00009001"); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if writes != 2 {
		t.Errorf("write attempts = %d, want 2", writes)
	}
	if c.State() != values.Connected {
		t.Errorf("State() = %v, want Connected", c.State())
	}
}

func TestClientConnectExhaustsRetries(t *testing.T) {
	mock := transport.NewMockTransport()
	_ = mock.Open(context.Background())
	c := New(mock, 10*time.Millisecond, 2)

	err := c.Connect(context.Background(), "00009001")
	if err == nil {
		t.Fatalf("Connect() with no responses: want error, got nil")
	}
	if c.State() != values.Disconnected {
		t.Errorf("State() after exhausted retries = %v, want Disconnected", c.State())
	}
	if assertErr := mock.AssertWriteCount(3); assertErr != nil {
		t.Error(assertErr)
	}
}

func TestClientAttention(t *testing.T) {
	c, mock := newConnectedTestClient(t)
	mock.AddResponse([]byte{protocol.AtAck})

	if err := c.Attention(context.Background()); err != nil {
		t.Fatalf("Attention() error = %v", err)
	}
	if err := mock.AssertWriteCount(1); err != nil {
		t.Error(err)
	}
}

func TestClientAttentionToleratesMissingAck(t *testing.T) {
	c, _ := newConnectedTestClient(t)
	// No AT_ACK queued: the best-effort ack read times out and is ignored.
	if err := c.Attention(context.Background()); err != nil {
		t.Fatalf("Attention() error = %v, want nil (ack timeout tolerated)", err)
	}
}

func TestClientAttentionWhenDisconnected(t *testing.T) {
	mock := transport.NewMockTransport()
	_ = mock.Open(context.Background())
	c := New(mock, time.Second, 2)

	if err := c.Attention(context.Background()); err == nil {
		t.Fatalf("Attention() while disconnected: want error, got nil")
	}
}

func TestClientDisconnect(t *testing.T) {
	c, mock := newConnectedTestClient(t)
	mock.AddResponse([]byte{protocol.BrAck})

	if err := c.Disconnect(context.Background()); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}
	if c.State() != values.Disconnected {
		t.Errorf("State() = %v, want Disconnected", c.State())
	}
	if c.SerialNumber() != nil {
		t.Errorf("SerialNumber() after disconnect = %v, want nil", c.SerialNumber())
	}
}

func TestClientDisconnectWhenAlreadyDisconnected(t *testing.T) {
	mock := transport.NewMockTransport()
	_ = mock.Open(context.Background())
	c := New(mock, time.Second, 2)

	if err := c.Disconnect(context.Background()); err != nil {
		t.Fatalf("Disconnect() while already disconnected: error = %v, want nil", err)
	}
}

func TestClientDisconnectSurvivesAckTimeout(t *testing.T) {
	c, _ := newConnectedTestClient(t)
	// No BR_ACK queued: the best-effort ack read times out and is ignored.
	if err := c.Disconnect(context.Background()); err != nil {
		t.Fatalf("Disconnect() error = %v, want nil (ack timeout is expected)", err)
	}
	if c.State() != values.Disconnected {
		t.Errorf("State() = %v, want Disconnected", c.State())
	}
}

func TestClientEnsureConnectedGuardsDownloads(t *testing.T) {
	mock := transport.NewMockTransport()
	_ = mock.Open(context.Background())
	c := New(mock, time.Second, 2)

	if _, err := c.DownloadVersion(context.Background()); err == nil {
		t.Fatalf("DownloadVersion() while disconnected: want error, got nil")
	}
}
