// Package protocol implements the PCMI wire codec primitives: the 8-bit
// additive checksum, the big-endian/little-endian readers and writers, and
// the RLI/VLI length indicator encodings. Nothing in this package retains
// state between calls; everything is a pure function over a byte slice.
package protocol

// Frame delimiters.
const (
	STX byte = 0x20
	ETX byte = 0x0D
)

// Command codes. The set is closed: controllers never emit a data command
// outside this table.
const (
	Attention          byte = 0x81
	AtAck              byte = 0x82
	SerialNumber       byte = 0x85
	SnAck              byte = 0x86
	Break              byte = 0x87
	BrAck              byte = 0x88
	SendParmData       byte = 0x8F
	PdString1          byte = 0x90
	SendVarData        byte = 0x91
	VdString1          byte = 0x92
	SendHistory        byte = 0x93
	HaString           byte = 0x94
	SendZoneParm       byte = 0x95
	ZpString1          byte = 0x96
	SendZoneVar        byte = 0x97
	ZvString1          byte = 0x98
	OkSendNext         byte = 0x99
	EndOfRecord        byte = 0x9B
	SendVersion        byte = 0x9F
	SvString           byte = 0xA0
	SendDetailAlarm    byte = 0xA6
	DaString           byte = 0xA7
	SendAlarm          byte = 0xA4
	SaString           byte = 0xA5
	GetInfoRecord      byte = 0xAC
	SendInfoRecord     byte = 0xAD
	SendInfo1Record    byte = 0xAE
	SendScaleGlobal    byte = 0xAF
	SgString           byte = 0xB0
	SendBirdHouse      byte = 0xB1
	BhString           byte = 0xB2
	SaNonswapString    byte = 0xB3
	DaNonswapString    byte = 0xB6
	HaNonswapString    byte = 0xB5
	PdString2          byte = 0xB7
	ZpString2          byte = 0xB8
	VdString2          byte = 0xB9
	ZvString2          byte = 0xBA
	Info1NonswapRecord byte = 0xBC

	// Aliases used by the client for device parameter/variable requests;
	// same wire bytes as SendParmData/SendVarData and their responses.
	SendDeviceParm byte = SendParmData
	SendDeviceVar  byte = SendVarData
	DpString1      byte = PdString1
	DpString2      byte = PdString2
	DvString1      byte = VdString1
	DvString2      byte = VdString2

	ErNoZone byte = 0xC8
)

// AcknowledgmentCodes are single-byte responses carrying no payload, length,
// or checksum.
var AcknowledgmentCodes = map[byte]bool{
	AtAck:       true,
	SnAck:       true,
	BrAck:       true,
	OkSendNext:  true,
	EndOfRecord: true,
}

// TwoByteRLICommands is the closed set of response codes whose length
// indicator is the 4-hex-char little-endian 2-byte RLI form.
var TwoByteRLICommands = map[byte]bool{
	PdString2: true,
	ZpString2: true,
	VdString2: true,
	ZvString2: true,
}

// OneByteRLICommands is the closed set of response codes whose length
// indicator is the 2-hex-char 1-byte RLI form.
var OneByteRLICommands = map[byte]bool{
	PdString1: true,
	VdString1: true,
	ZpString1: true,
	ZvString1: true,
}

// VLICommandThreshold: command bytes at or above this value that carry a
// VLI (rather than an RLI or CR-delimited body) use the 2-byte VLI form.
const VLICommandThreshold byte = 0xB0

// VLICommands is the closed set of response codes whose length indicator is
// a VLI (byte count, not word count) rather than an RLI.
var VLICommands = map[byte]bool{
	SgString: true,
	BhString: true,
}

// NonswapCommands are response codes that always carry little-endian
// ("non-swap") payloads regardless of the record format field.
var NonswapCommands = map[byte]bool{
	SaNonswapString:    true,
	HaNonswapString:    true,
	DaNonswapString:    true,
	PdString2:          true,
	ZpString2:          true,
	VdString2:          true,
	ZvString2:          true,
	Info1NonswapRecord: true,
}

// DefaultReceiveTimeoutSeconds is the default timeout applied to reads.
const DefaultReceiveTimeoutSeconds = 5.0

// DisconnectAckTimeoutSeconds is the best-effort timeout used when waiting
// for a BR_ACK during disconnect.
const DisconnectAckTimeoutSeconds = 1.0

// DefaultMaxRetries is the default retry budget for Connect.
const DefaultMaxRetries = 3
