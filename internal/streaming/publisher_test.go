package streaming

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-zeromq/zmq4"
)

func TestPublisherPublishRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	endpoint := "ipc://" + filepath.Join(t.TempDir(), "pcmi-stream.sock")

	pub, err := NewPublisher(ctx, endpoint)
	if err != nil {
		t.Fatalf("NewPublisher: %v", err)
	}
	defer pub.Close()

	sub := zmq4.NewSub(ctx)
	defer sub.Close()
	if err := sub.Dial(endpoint); err != nil {
		t.Fatalf("dial subscriber: %v", err)
	}
	if err := sub.SetOption(zmq4.OptionSubscribe, "zone_parameters"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	// Give the subscriber a moment to complete its connection handshake
	// before the publisher sends; PUB/SUB drops messages sent before a
	// subscriber attaches.
	time.Sleep(50 * time.Millisecond)

	type sample struct {
		Zone int `json:"zone"`
	}
	if err := pub.Publish("zone_parameters", "00009001", 3, sample{Zone: 3}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	recvCtx, recvCancel := context.WithTimeout(ctx, 2*time.Second)
	defer recvCancel()

	msgCh := make(chan zmq4.Msg, 1)
	errCh := make(chan error, 1)
	go func() {
		msg, err := sub.Recv()
		if err != nil {
			errCh <- err
			return
		}
		msgCh <- msg
	}()

	select {
	case msg := <-msgCh:
		if len(msg.Frames) != 2 {
			t.Fatalf("expected 2 frames, got %d", len(msg.Frames))
		}
		if string(msg.Frames[0]) != "zone_parameters" {
			t.Fatalf("unexpected topic frame: %s", msg.Frames[0])
		}
		var env Envelope
		if err := json.Unmarshal(msg.Frames[1], &env); err != nil {
			t.Fatalf("unmarshal envelope: %v", err)
		}
		if env.SerialNum != "00009001" || env.Zone != 3 || env.Sequence != 1 {
			t.Fatalf("unexpected envelope: %+v", env)
		}
	case err := <-errCh:
		t.Fatalf("sub.Recv: %v", err)
	case <-recvCtx.Done():
		t.Fatal("timed out waiting for published message")
	}

	if err := pub.Heartbeat("00009001"); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}
}
