// Package framing classifies an inbound byte buffer by its command code
// into one of four frame shapes (acknowledgment, 1-byte-RLI, 2-byte-RLI, or
// VLI/CR-delimited), decodes its length indicator, validates its checksum,
// and yields a ParsedFrame. The reader never mutates or retains buffer
// state between calls.
package framing

import (
	"encoding/hex"
	"strings"

	"github.com/agsys/pcmi-client/internal/protocol"
)

// Result classifies the outcome of a Parse call.
type Result int

const (
	Success Result = iota
	EmptyBuffer
	IncompleteFrame
	InvalidFormat
	InvalidChecksum
	UnknownCommand
)

func (r Result) String() string {
	switch r {
	case Success:
		return "Success"
	case EmptyBuffer:
		return "EmptyBuffer"
	case IncompleteFrame:
		return "IncompleteFrame"
	case InvalidFormat:
		return "InvalidFormat"
	case InvalidChecksum:
		return "InvalidChecksum"
	case UnknownCommand:
		return "UnknownCommand"
	default:
		return "Unknown"
	}
}

// ParsedFrame is the decoded shape of one inbound frame.
type ParsedFrame struct {
	CommandByte     byte
	Payload         []byte
	PayloadHex      string
	LengthIndicator int // decoded byte count; 0 for acknowledgments and CR-delimited frames with no length field
	RawFrame        []byte
	BytesConsumed   int
}

// FrameError carries a human-readable reason and the byte offset at which
// parsing failed, when Result is not Success.
type FrameError struct {
	Result Result
	Reason string
	Offset int
}

func (e *FrameError) Error() string {
	return e.Result.String() + ": " + e.Reason
}

// Reader parses PCMI frames. It is stateless between calls.
type Reader struct{}

// New returns a Reader.
func New() *Reader { return &Reader{} }

// Parse classifies buffer by its command byte and decodes it into a
// ParsedFrame. An optional leading STX is skipped first.
func (r *Reader) Parse(buffer []byte) (Result, *ParsedFrame, *FrameError) {
	if len(buffer) == 0 {
		return EmptyBuffer, nil, &FrameError{Result: EmptyBuffer, Reason: "empty buffer", Offset: 0}
	}

	offset := 0
	if buffer[offset] == protocol.STX {
		offset++
	}
	if offset >= len(buffer) {
		return IncompleteFrame, nil, &FrameError{Result: IncompleteFrame, Reason: "buffer ends after STX", Offset: offset}
	}

	command := buffer[offset]

	if protocol.AcknowledgmentCodes[command] {
		return r.parseAcknowledgment(buffer, offset)
	}
	if protocol.TwoByteRLICommands[command] {
		return r.parseRLIFrame(buffer, offset, 4)
	}
	if protocol.OneByteRLICommands[command] {
		return r.parseRLIFrame(buffer, offset, 2)
	}
	if protocol.VLICommands[command] {
		return r.parseVLIFrame(buffer, offset)
	}
	return r.parseCRDelimited(buffer, offset)
}

func (r *Reader) parseAcknowledgment(buffer []byte, offset int) (Result, *ParsedFrame, *FrameError) {
	command := buffer[offset]
	consumed := offset + 1
	return Success, &ParsedFrame{
		CommandByte:   command,
		Payload:       nil,
		PayloadHex:    "",
		RawFrame:      buffer[:consumed],
		BytesConsumed: consumed,
	}, nil
}

// parseRLIFrame handles both the 1-byte (rliHexChars=2) and 2-byte
// (rliHexChars=4) RLI shapes: command + RLI + hex payload (rli*2 bytes) +
// 2-char checksum + ETX.
func (r *Reader) parseRLIFrame(buffer []byte, offset, rliHexChars int) (Result, *ParsedFrame, *FrameError) {
	command := buffer[offset]
	rliStart := offset + 1
	if rliStart+rliHexChars > len(buffer) {
		return IncompleteFrame, nil, &FrameError{Result: IncompleteFrame, Reason: "buffer too short for length indicator", Offset: rliStart}
	}
	rliHex := string(buffer[rliStart : rliStart+rliHexChars])

	var byteCount int
	var err error
	if rliHexChars == 4 {
		byteCount, err = protocol.Decode2ByteRLI(rliHex)
	} else {
		byteCount, err = protocol.Decode1ByteRLI(rliHex)
	}
	if err != nil {
		return InvalidFormat, nil, &FrameError{Result: InvalidFormat, Reason: err.Error(), Offset: rliStart}
	}

	payloadStart := rliStart + rliHexChars
	payloadHexChars := byteCount * 2
	checksumStart := payloadStart + payloadHexChars
	etxOffset := checksumStart + 2

	if etxOffset >= len(buffer) {
		return IncompleteFrame, nil, &FrameError{Result: IncompleteFrame, Reason: "buffer too short for payload/checksum/ETX", Offset: payloadStart}
	}
	if buffer[etxOffset] != protocol.ETX {
		return InvalidFormat, nil, &FrameError{Result: InvalidFormat, Reason: "missing ETX delimiter", Offset: etxOffset}
	}

	if !protocol.ValidateChecksum(buffer[offset:checksumStart+2], checksumStart-offset) {
		return InvalidChecksum, nil, &FrameError{Result: InvalidChecksum, Reason: "checksum mismatch", Offset: checksumStart}
	}

	payloadHex := strings.ToUpper(string(buffer[payloadStart:checksumStart]))
	payload, decErr := hex.DecodeString(payloadHex)
	if decErr != nil {
		return InvalidFormat, nil, &FrameError{Result: InvalidFormat, Reason: "payload is not valid hex", Offset: payloadStart}
	}

	consumed := etxOffset + 1
	return Success, &ParsedFrame{
		CommandByte:     command,
		Payload:         payload,
		PayloadHex:      payloadHex,
		LengthIndicator: byteCount,
		RawFrame:        buffer[:consumed],
		BytesConsumed:   consumed,
	}, nil
}

func (r *Reader) parseVLIFrame(buffer []byte, offset int) (Result, *ParsedFrame, *FrameError) {
	command := buffer[offset]
	vliHexChars := protocol.VLIWidth(command)
	vliStart := offset + 1
	if vliStart+vliHexChars > len(buffer) {
		return IncompleteFrame, nil, &FrameError{Result: IncompleteFrame, Reason: "buffer too short for VLI", Offset: vliStart}
	}
	vliHex := string(buffer[vliStart : vliStart+vliHexChars])
	byteCount, err := protocol.DecodeVLI(vliHex)
	if err != nil {
		return InvalidFormat, nil, &FrameError{Result: InvalidFormat, Reason: err.Error(), Offset: vliStart}
	}

	payloadStart := vliStart + vliHexChars
	payloadHexChars := byteCount * 2
	checksumStart := payloadStart + payloadHexChars
	etxOffset := checksumStart + 2

	if etxOffset >= len(buffer) {
		return IncompleteFrame, nil, &FrameError{Result: IncompleteFrame, Reason: "buffer too short for payload/checksum/ETX", Offset: payloadStart}
	}
	if buffer[etxOffset] != protocol.ETX {
		return InvalidFormat, nil, &FrameError{Result: InvalidFormat, Reason: "missing ETX delimiter", Offset: etxOffset}
	}

	if !protocol.ValidateChecksum(buffer[offset:checksumStart+2], checksumStart-offset) {
		return InvalidChecksum, nil, &FrameError{Result: InvalidChecksum, Reason: "checksum mismatch", Offset: checksumStart}
	}

	payloadHex := strings.ToUpper(string(buffer[payloadStart:checksumStart]))
	payload, decErr := hex.DecodeString(payloadHex)
	if decErr != nil {
		return InvalidFormat, nil, &FrameError{Result: InvalidFormat, Reason: "payload is not valid hex", Offset: payloadStart}
	}

	consumed := etxOffset + 1
	return Success, &ParsedFrame{
		CommandByte:     command,
		Payload:         payload,
		PayloadHex:      payloadHex,
		LengthIndicator: byteCount,
		RawFrame:        buffer[:consumed],
		BytesConsumed:   consumed,
	}, nil
}

// parseCRDelimited handles the fourth shape: commands with no declared
// length indicator (version string, error codes, the supplemented
// detail-alarm/info/scale-global/bird-house single-record responses before
// their VLI variants). Scans forward to ETX; the two bytes before ETX are
// the checksum, everything after the command byte up to the checksum is
// payload. Payload may be ASCII rather than hex (e.g. the version string);
// Payload always holds the raw bytes, and PayloadHex is set only when they
// form a valid hex string.
func (r *Reader) parseCRDelimited(buffer []byte, offset int) (Result, *ParsedFrame, *FrameError) {
	command := buffer[offset]

	etxOffset := -1
	for i := offset + 1; i < len(buffer); i++ {
		if buffer[i] == protocol.ETX {
			etxOffset = i
			break
		}
	}
	if etxOffset == -1 {
		return IncompleteFrame, nil, &FrameError{Result: IncompleteFrame, Reason: "no ETX found", Offset: offset}
	}

	checksumStart := etxOffset - 2
	if checksumStart < offset+1 {
		return InvalidFormat, nil, &FrameError{Result: InvalidFormat, Reason: "frame too short for checksum", Offset: offset}
	}

	if !protocol.ValidateChecksum(buffer[offset:etxOffset], checksumStart-offset) {
		return InvalidChecksum, nil, &FrameError{Result: InvalidChecksum, Reason: "checksum mismatch", Offset: checksumStart}
	}

	rawPayload := buffer[offset+1 : checksumStart]
	payloadHex := ""
	if isHex(rawPayload) {
		payloadHex = strings.ToUpper(string(rawPayload))
	}

	consumed := etxOffset + 1
	return Success, &ParsedFrame{
		CommandByte:   command,
		Payload:       rawPayload,
		PayloadHex:    payloadHex,
		RawFrame:      buffer[:consumed],
		BytesConsumed: consumed,
	}, nil
}

func isHex(b []byte) bool {
	if len(b)%2 != 0 {
		return false
	}
	for _, c := range b {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'A' && c <= 'F':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}
