// Package streaming publishes downloaded records onto a ZeroMQ PUB socket:
// a long-lived zmq4.Socket, one goroutine-free send path guarded by a
// mutex, and topic-framed messages built with zmq4.NewMsgFrom.
package streaming

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-zeromq/zmq4"
)

// Envelope is the JSON body published for every record. Topic doubles as
// the ZeroMQ subscription filter and the record's type tag.
type Envelope struct {
	Topic     string          `json:"topic"`
	SerialNum string          `json:"serial_number,omitempty"`
	Zone      int             `json:"zone,omitempty"`
	Sequence  uint64          `json:"sequence"`
	Record    json.RawMessage `json:"record"`
}

// Publisher binds a PUB socket and publishes one Envelope per record. It is
// safe for concurrent use by multiple download goroutines; the underlying
// socket is not.
type Publisher struct {
	mu       sync.Mutex
	sock     zmq4.Socket
	endpoint string
	seq      uint64
}

// NewPublisher binds a PUB socket at endpoint (e.g. "tcp://127.0.0.1:5556"
// or "ipc:///tmp/pcmi_records"). The socket is bound, not dialed: streaming
// consumers connect to this process.
func NewPublisher(ctx context.Context, endpoint string) (*Publisher, error) {
	sock := zmq4.NewPub(ctx)
	if err := sock.Listen(endpoint); err != nil {
		return nil, fmt.Errorf("bind publisher socket %s: %w", endpoint, err)
	}
	return &Publisher{sock: sock, endpoint: endpoint}, nil
}

// Endpoint returns the bound address.
func (p *Publisher) Endpoint() string { return p.endpoint }

// Close releases the underlying socket.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sock.Close()
}

// Publish marshals record as JSON and sends it under topic, tagged with the
// controller's serial number and zone (zone 0 if not zone-scoped).
func (p *Publisher) Publish(topic, serialNum string, zone int, record any) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", topic, err)
	}

	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	envelope := Envelope{
		Topic:     topic,
		SerialNum: serialNum,
		Zone:      zone,
		Sequence:  seq,
		Record:    body,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	msg := zmq4.NewMsgFrom([]byte(topic), data)

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sock.Send(msg)
}

// Heartbeat publishes an empty envelope under the "heartbeat" topic, so
// subscribers can distinguish a quiet bus from a dead publisher.
func (p *Publisher) Heartbeat(serialNum string) error {
	return p.Publish("heartbeat", serialNum, 0, struct {
		Time time.Time `json:"time"`
	}{Time: time.Now()})
}
