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

// Package wire is a hand-written Protocol Buffers wire-format reader. It
// decodes exactly the two wire types OSM PBF messages use (varint and
// length-delimited) and nothing else: no message reflection, no generated
// descriptors, no google.golang.org/protobuf runtime.
package wire

import (
	"errors"
	"fmt"
)

// ErrTruncated is returned when a varint or a length-delimited field runs
// past the end of the buffer.
var ErrTruncated = errors.New("wire: truncated input")

// maxVarintLen64 is the maximum number of base-128 groups a 64-bit varint
// can occupy on the wire (ceil(64/7)).
const maxVarintLen64 = 10

// ReadVarint decodes a base-128 varint starting at buf[0], returning the
// raw unsigned value, the number of bytes consumed, and an error if the
// buffer ends mid-value or the varint exceeds 10 bytes.
func ReadVarint(buf []byte) (value uint64, n int, err error) {
	var shift uint

	for n = 0; n < len(buf); n++ {
		b := buf[n]
		if shift >= 64 {
			return 0, 0, fmt.Errorf("wire: varint overflows 64 bits")
		}

		value |= uint64(b&0x7f) << shift

		if b&0x80 == 0 {
			return value, n + 1, nil
		}

		shift += 7

		if n+1 >= maxVarintLen64 {
			return 0, 0, fmt.Errorf("wire: varint longer than %d bytes", maxVarintLen64)
		}
	}

	return 0, 0, ErrTruncated
}

// ZigZagDecode32 reverses the ZigZag encoding used for sint32 fields using
// the canonical form (u>>1)^-(u&1), rather than a "(u+1)/2 * sign" form that
// overflows at u==MaxUint32.
func ZigZagDecode32(u uint32) int32 {
	return int32(u>>1) ^ -int32(u&1)
}

// ZigZagDecode64 is ZigZagDecode32's 64-bit counterpart.
func ZigZagDecode64(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}
