package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/agsys/pcmi-client/internal/pcmierr"
)

// ResponseCallback inspects written data and optionally produces a response
// to append to the read buffer. A nil return falls through to the next
// queued response.
type ResponseCallback func(written []byte) []byte

// MockTransport is an in-memory Transport double. It queues canned
// responses FIFO and records everything written to it, so a test can drive
// a Client through a whole conversation without a serial port.
type MockTransport struct {
	mu sync.Mutex

	portName       string
	defaultTimeout time.Duration
	isOpen         bool
	responses      [][]byte
	writtenData    [][]byte
	readBuffer     []byte
	callback       ResponseCallback
}

// NewMockTransport builds an unopened mock transport.
func NewMockTransport() *MockTransport {
	return &MockTransport{
		portName:       "mock://test",
		defaultTimeout: 5 * time.Second,
	}
}

// IsOpen reports whether Open has been called without a matching Close.
func (m *MockTransport) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isOpen
}

// PortName returns the mock's identifier.
func (m *MockTransport) PortName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.portName
}

// SetPortName overrides the mock's identifier, default "mock://test".
func (m *MockTransport) SetPortName(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.portName = name
}

// WrittenData returns a copy of every byte slice written to the mock.
func (m *MockTransport) WrittenData() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.writtenData))
	copy(out, m.writtenData)
	return out
}

// LastWritten returns the most recently written data, or nil if nothing has
// been written.
func (m *MockTransport) LastWritten() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.writtenData) == 0 {
		return nil
	}
	return m.writtenData[len(m.writtenData)-1]
}

// AddResponse queues one response, returned FIFO on the next read that needs
// it.
func (m *MockTransport) AddResponse(response []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, response)
}

// AddResponses queues several responses at once, preserving order.
func (m *MockTransport) AddResponses(responses ...[]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, responses...)
}

// SetResponseCallback installs a callback invoked on every Write with the
// written bytes. A non-nil return is appended to the read buffer immediately;
// a nil return leaves the queued responses as the source for subsequent
// reads. Pass nil to remove a previously set callback.
func (m *MockTransport) SetResponseCallback(cb ResponseCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callback = cb
}

// Clear resets written history, queued responses, and the read buffer.
func (m *MockTransport) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writtenData = nil
	m.responses = nil
	m.readBuffer = nil
}

// ClearWritten resets only the written-data history.
func (m *MockTransport) ClearWritten() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writtenData = nil
}

// Open marks the mock transport open.
func (m *MockTransport) Open(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.isOpen {
		return pcmierr.Transport("mock transport already open", nil)
	}
	m.isOpen = true
	return nil
}

// Close marks the mock transport closed. Idempotent.
func (m *MockTransport) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isOpen = false
	return nil
}

// Write records data and, if a callback is set, may append its response to
// the read buffer.
func (m *MockTransport) Write(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.isOpen {
		return pcmierr.Transport("mock transport not open", nil)
	}

	written := make([]byte, len(data))
	copy(written, data)
	m.writtenData = append(m.writtenData, written)

	if m.callback != nil {
		if response := m.callback(written); response != nil {
			m.readBuffer = append(m.readBuffer, response...)
		}
	}
	return nil
}

// ReadUntil returns buffered bytes through the first terminator, pulling
// queued responses into the buffer as needed.
func (m *MockTransport) ReadUntil(ctx context.Context, terminator byte, timeout time.Duration) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.isOpen {
		return nil, pcmierr.Transport("mock transport not open", nil)
	}

	if idx := indexOf(m.readBuffer, terminator); idx >= 0 {
		return m.takeLocked(idx + 1), nil
	}

	for len(m.responses) > 0 {
		m.readBuffer = append(m.readBuffer, m.responses[0]...)
		m.responses = m.responses[1:]
		if idx := indexOf(m.readBuffer, terminator); idx >= 0 {
			return m.takeLocked(idx + 1), nil
		}
	}

	return nil, pcmierr.Timeout("no mock response available", timeoutSeconds(timeout, m.defaultTimeout))
}

// Read returns exactly size bytes, pulling queued responses into the buffer
// as needed.
func (m *MockTransport) Read(ctx context.Context, size int, timeout time.Duration) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.isOpen {
		return nil, pcmierr.Transport("mock transport not open", nil)
	}

	for len(m.readBuffer) < size && len(m.responses) > 0 {
		m.readBuffer = append(m.readBuffer, m.responses[0]...)
		m.responses = m.responses[1:]
	}

	if len(m.readBuffer) < size {
		return nil, pcmierr.Timeout(
			fmt.Sprintf("not enough mock data: need %d, have %d", size, len(m.readBuffer)),
			timeoutSeconds(timeout, m.defaultTimeout),
		)
	}

	return m.takeLocked(size), nil
}

// ReadByte returns a single buffered byte, pulling a queued response into
// the buffer if it is empty.
func (m *MockTransport) ReadByte(ctx context.Context, timeout time.Duration) (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.isOpen {
		return 0, pcmierr.Transport("mock transport not open", nil)
	}

	if len(m.readBuffer) == 0 && len(m.responses) > 0 {
		m.readBuffer = append(m.readBuffer, m.responses[0]...)
		m.responses = m.responses[1:]
	}

	if len(m.readBuffer) == 0 {
		return 0, pcmierr.Timeout("no mock response available", timeoutSeconds(timeout, m.defaultTimeout))
	}

	b := m.readBuffer[0]
	m.readBuffer = m.readBuffer[1:]
	return b, nil
}

// DiscardBuffers drops any unread buffered data.
func (m *MockTransport) DiscardBuffers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readBuffer = nil
}

// AssertWritten reports an error if the write at index (negative counts from
// the end, -1 is the last write) does not equal expected.
func (m *MockTransport) AssertWritten(expected []byte, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.writtenData) == 0 {
		return fmt.Errorf("no data written to mock transport")
	}
	i := index
	if i < 0 {
		i += len(m.writtenData)
	}
	if i < 0 || i >= len(m.writtenData) {
		return fmt.Errorf("write index %d out of range (have %d writes)", index, len(m.writtenData))
	}
	actual := m.writtenData[i]
	if !bytesEqual(actual, expected) {
		return fmt.Errorf("written data mismatch at index %d: expected % X, got % X", index, expected, actual)
	}
	return nil
}

// AssertWriteCount reports an error if the number of writes does not match
// expected.
func (m *MockTransport) AssertWriteCount(expected int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.writtenData) != expected {
		return fmt.Errorf("write count mismatch: expected %d, got %d", expected, len(m.writtenData))
	}
	return nil
}

// takeLocked removes and returns the first n bytes of the read buffer. Caller
// must hold m.mu.
func (m *MockTransport) takeLocked(n int) []byte {
	out := make([]byte, n)
	copy(out, m.readBuffer[:n])
	m.readBuffer = m.readBuffer[n:]
	return out
}

func indexOf(buf []byte, b byte) int {
	for i, v := range buf {
		if v == b {
			return i
		}
	}
	return -1
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func timeoutSeconds(timeout, fallback time.Duration) float64 {
	if timeout <= 0 {
		timeout = fallback
	}
	return timeout.Seconds()
}

// ScriptedMockTransport extends MockTransport with ordered request/response
// expectations, for tests that want to assert the exact frame a Client sends
// at each step of a conversation rather than just queuing responses.
type ScriptedMockTransport struct {
	*MockTransport

	mu          sync.Mutex
	expectedReq [][]byte
	script      [][]byte
	scriptIndex int
}

// NewScriptedMockTransport builds an unopened scripted mock transport.
func NewScriptedMockTransport() *ScriptedMockTransport {
	s := &ScriptedMockTransport{MockTransport: NewMockTransport()}
	s.SetPortName("mock://scripted")
	return s
}

// Expect appends a request/response step. A nil request matches any write.
func (s *ScriptedMockTransport) Expect(request, response []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expectedReq = append(s.expectedReq, request)
	s.script = append(s.script, response)
}

// Write validates data against the next scripted request (if one was given)
// and queues that step's response.
func (s *ScriptedMockTransport) Write(ctx context.Context, data []byte) error {
	if err := s.MockTransport.Write(ctx, data); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scriptIndex >= len(s.script) {
		return nil
	}

	expected := s.expectedReq[s.scriptIndex]
	if expected != nil && !bytesEqual(data, expected) {
		return fmt.Errorf("script mismatch at step %d: expected % X, got % X", s.scriptIndex, expected, data)
	}

	response := s.script[s.scriptIndex]
	s.scriptIndex++
	s.MockTransport.mu.Lock()
	s.MockTransport.readBuffer = append(s.MockTransport.readBuffer, response...)
	s.MockTransport.mu.Unlock()
	return nil
}

// ResetScript rewinds to the first scripted step and clears the read buffer.
func (s *ScriptedMockTransport) ResetScript() {
	s.mu.Lock()
	s.scriptIndex = 0
	s.mu.Unlock()
	s.DiscardBuffers()
}

// ClearScript removes all scripted expectations.
func (s *ScriptedMockTransport) ClearScript() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expectedReq = nil
	s.script = nil
	s.scriptIndex = 0
}
