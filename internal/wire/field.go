// Copyright 2017-25 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wire

import "fmt"

// Type is a protobuf wire type. OSM PBF messages use only two of them.
type Type int

const (
	Varint Type = 0
	Bytes  Type = 2
)

func (t Type) String() string {
	switch t {
	case Varint:
		return "varint"
	case Bytes:
		return "bytes"
	default:
		return fmt.Sprintf("wiretype(%d)", int(t))
	}
}

// Reader walks a protobuf-encoded message one field at a time. It never
// copies: Bytes() returns a slice borrowed from the buffer the Reader was
// constructed over, valid only as long as that buffer is retained.
type Reader struct {
	buf []byte
	pos int
}

// NewReader returns a Reader over buf. buf is not copied.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Done reports whether the reader has consumed the entire buffer.
func (r *Reader) Done() bool { return r.pos >= len(r.buf) }

// Field decodes the next field's tag, splitting it into a field number and
// a wire type (low 3 bits = wire type, the rest = field number).
func (r *Reader) Field() (number int, wireType Type, err error) {
	if r.pos >= len(r.buf) {
		return 0, 0, ErrTruncated
	}

	tag, n, err := ReadVarint(r.buf[r.pos:])
	if err != nil {
		return 0, 0, fmt.Errorf("wire: reading field tag: %w", err)
	}

	r.pos += n

	return int(tag >> 3), Type(tag & 0x7), nil
}

// Varint decodes a raw unsigned varint value from the current position.
func (r *Reader) Varint() (uint64, error) {
	u, n, err := ReadVarint(r.buf[r.pos:])
	if err != nil {
		return 0, fmt.Errorf("wire: reading varint: %w", err)
	}

	r.pos += n

	return u, nil
}

// Uint32 decodes a varint and truncates it to uint32 (proto's uint32/enum
// wire representation: varint-encoded, no ZigZag).
func (r *Reader) Uint32() (uint32, error) {
	u, err := r.Varint()
	if err != nil {
		return 0, err
	}

	return uint32(u), nil
}

// Int64 decodes a varint and reinterprets it as a plain (non-ZigZag) int64.
func (r *Reader) Int64() (int64, error) {
	u, err := r.Varint()
	if err != nil {
		return 0, err
	}

	return int64(u), nil
}

// Int32 decodes a varint and reinterprets it as a plain (non-ZigZag) int32.
func (r *Reader) Int32() (int32, error) {
	u, err := r.Varint()
	if err != nil {
		return 0, err
	}

	return int32(u), nil
}

// Sint32 decodes a ZigZag-encoded sint32.
func (r *Reader) Sint32() (int32, error) {
	u, err := r.Varint()
	if err != nil {
		return 0, err
	}

	return ZigZagDecode32(uint32(u)), nil
}

// Sint64 decodes a ZigZag-encoded sint64.
func (r *Reader) Sint64() (int64, error) {
	u, err := r.Varint()
	if err != nil {
		return 0, err
	}

	return ZigZagDecode64(u), nil
}

// Bool decodes a varint as a bool (zero is false, anything else true).
func (r *Reader) Bool() (bool, error) {
	u, err := r.Varint()
	if err != nil {
		return false, err
	}

	return u != 0, nil
}

// Bytes decodes a length-delimited field: a varint length followed by that
// many raw bytes, borrowed (not copied) from the reader's buffer.
func (r *Reader) Bytes() ([]byte, error) {
	length, err := r.Varint()
	if err != nil {
		return nil, fmt.Errorf("wire: reading length prefix: %w", err)
	}

	end := r.pos + int(length)
	if length > uint64(len(r.buf)) || end > len(r.buf) || end < r.pos {
		return nil, fmt.Errorf("wire: length-delimited field of %d bytes exceeds buffer: %w", length, ErrTruncated)
	}

	b := r.buf[r.pos:end]
	r.pos = end

	return b, nil
}

// String decodes a length-delimited field as a UTF-8 string, copying it out
// of the buffer (strings escape the block, byte slices from Bytes do not).
func (r *Reader) String() (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// Skip discards a field's value without interpreting it, used for field
// numbers the hint table does not recognize.
func (r *Reader) Skip(wireType Type) error {
	switch wireType {
	case Varint:
		_, err := r.Varint()
		return err
	case Bytes:
		_, err := r.Bytes()
		return err
	default:
		return fmt.Errorf("wire: cannot skip unknown wire type %s", wireType)
	}
}

// Expect validates that a field's wire type matches what the caller expects
// for that field id, rejecting the stream if it is not compatible.
func Expect(field int, got, want Type) error {
	if got != want {
		return fmt.Errorf("wire: field %d: expected wire type %s, got %s", field, want, got)
	}

	return nil
}
