package protocol

import "encoding/binary"

// Endian selects the byte order used to decode multi-byte fields inside a
// record payload. Record format values below 20 use Big (the "swap"
// strategy in the original firmware documentation); values 20 and above,
// and a handful of response codes that always carry little-endian payloads
// regardless of record format, use Little ("non-swap"). The strategy is a
// two-case value bound once at parse entry, not a property of the cursor's
// type.
type Endian int

const (
	Big Endian = iota
	Little
)

// RecordFormatThreshold: record format values at or above this use Little.
const RecordFormatThreshold = 20

// EndianForRecordFormat returns Big for record_format < 20, Little
// otherwise.
func EndianForRecordFormat(recordFormat int) Endian {
	if recordFormat < RecordFormatThreshold {
		return Big
	}
	return Little
}

// ReadUint16 reads an unsigned 16-bit value at offset using e's byte order.
func (e Endian) ReadUint16(data []byte, offset int) uint16 {
	if e == Big {
		return (uint16(data[offset]) << 8) | uint16(data[offset+1])
	}
	return binary.LittleEndian.Uint16(data[offset:])
}

// ReadInt16 reads a signed 16-bit value at offset using e's byte order.
func (e Endian) ReadInt16(data []byte, offset int) int16 {
	return int16(e.ReadUint16(data, offset))
}

// ReadUint32 reads an unsigned 32-bit value at offset using e's byte order.
func (e Endian) ReadUint32(data []byte, offset int) uint32 {
	if e == Big {
		hi := e.ReadUint16(data, offset)
		lo := e.ReadUint16(data, offset+2)
		return (uint32(hi) << 16) | uint32(lo)
	}
	return binary.LittleEndian.Uint32(data[offset:])
}

// ReadInt32 reads a signed 32-bit value at offset using e's byte order.
func (e Endian) ReadInt32(data []byte, offset int) int32 {
	return int32(e.ReadUint32(data, offset))
}

// WriteUint16 writes an unsigned 16-bit value at offset using e's byte order.
func (e Endian) WriteUint16(value uint16, data []byte, offset int) {
	if e == Big {
		data[offset] = byte(value >> 8)
		data[offset+1] = byte(value)
		return
	}
	binary.LittleEndian.PutUint16(data[offset:], value)
}

// WriteInt16 writes a signed 16-bit value at offset using e's byte order.
func (e Endian) WriteInt16(value int16, data []byte, offset int) {
	e.WriteUint16(uint16(value), data, offset)
}

// WriteUint32 writes an unsigned 32-bit value at offset using e's byte order.
func (e Endian) WriteUint32(value uint32, data []byte, offset int) {
	if e == Big {
		e.WriteUint16(uint16(value>>16), data, offset)
		e.WriteUint16(uint16(value), data, offset+2)
		return
	}
	binary.LittleEndian.PutUint32(data[offset:], value)
}

// WriteInt32 writes a signed 32-bit value at offset using e's byte order.
func (e Endian) WriteInt32(value int32, data []byte, offset int) {
	e.WriteUint32(uint32(value), data, offset)
}
