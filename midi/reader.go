package midi

import (
	"encoding/binary"
	"fmt"
)

// FormatError reports an unusable container: a bad or missing header, or
// header fields that fail validation.
type FormatError struct {
	Offset int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("bad midi format at byte %d: %s", e.Offset, e.Reason)
}

// TruncatedDataError reports a read that would run past the end of the
// buffer or the current chunk.
type TruncatedDataError struct {
	Offset int
	Want   int
	Have   int
}

func (e *TruncatedDataError) Error() string {
	return fmt.Sprintf("truncated midi data at byte %d: want %d more bytes, have %d", e.Offset, e.Want, e.Have)
}

// reader walks a byte buffer with an explicit position. Reads past the end
// return TruncatedDataError.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *reader) readByte() (byte, error) {
	if r.remaining() < 1 {
		return 0, &TruncatedDataError{Offset: r.pos, Want: 1, Have: 0}
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// unread steps back one byte. Only valid right after a successful readByte.
func (r *reader) unread() {
	r.pos--
}

func (r *reader) readN(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, &TruncatedDataError{Offset: r.pos, Want: n, Have: r.remaining()}
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) skip(n int) error {
	if r.remaining() < n {
		return &TruncatedDataError{Offset: r.pos, Want: n, Have: r.remaining()}
	}
	r.pos += n
	return nil
}

func (r *reader) readUint16() (uint16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *reader) readUint32() (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// readVarLen decodes a MIDI variable-length quantity: 7 bits per byte,
// high bit set on every byte but the last.
func (r *reader) readVarLen() (uint64, error) {
	var value uint64
	for {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		value = value<<7 | uint64(b&0x7F)
		if b&0x80 == 0 {
			return value, nil
		}
	}
}
