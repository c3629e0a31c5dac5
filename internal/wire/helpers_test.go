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

// appendVarint hand-encodes a base-128 varint, the inverse of ReadVarint,
// for building test fixtures without a protobuf runtime.
func appendVarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}

	return append(buf, byte(v))
}

func appendTag(buf []byte, field int, wt Type) []byte {
	return appendVarint(buf, uint64(field)<<3|uint64(wt))
}

func zigzag32(v int32) uint32 {
	return uint32((v << 1) ^ (v >> 31))
}

func zigzag64(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

func appendBytesField(buf []byte, field int, data []byte) []byte {
	buf = appendTag(buf, field, Bytes)
	buf = appendVarint(buf, uint64(len(data)))
	return append(buf, data...)
}
