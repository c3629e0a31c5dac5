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

package osmpbf

import "github.com/fieldnotes/osmreader/internal/wire"

// The functions below hand-encode protobuf wire bytes for test fixtures,
// the inverse of internal/wire's Reader. No generated protobuf code is
// involved anywhere in this module, tests included.

func appendVarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}

	return append(buf, byte(v))
}

func appendTag(buf []byte, field int, wt wire.Type) []byte {
	return appendVarint(buf, uint64(field)<<3|uint64(wt))
}

func appendVarintField(buf []byte, field int, v uint64) []byte {
	buf = appendTag(buf, field, wire.Varint)
	return appendVarint(buf, v)
}

func appendBytesField(buf []byte, field int, data []byte) []byte {
	buf = appendTag(buf, field, wire.Bytes)
	buf = appendVarint(buf, uint64(len(data)))
	return append(buf, data...)
}

func appendStringField(buf []byte, field int, s string) []byte {
	return appendBytesField(buf, field, []byte(s))
}

func zigzag32(v int32) uint64 {
	return uint64(uint32((v << 1) ^ (v >> 31)))
}

func zigzag64(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

// packedSint64 hand-encodes a packed repeated sint64 field's payload.
func packedSint64(vs ...int64) []byte {
	var buf []byte
	for _, v := range vs {
		buf = appendVarint(buf, zigzag64(v))
	}

	return buf
}

func packedSint32(vs ...int32) []byte {
	var buf []byte
	for _, v := range vs {
		buf = appendVarint(buf, zigzag32(v))
	}

	return buf
}

func packedUint32(vs ...uint32) []byte {
	var buf []byte
	for _, v := range vs {
		buf = appendVarint(buf, uint64(v))
	}

	return buf
}
