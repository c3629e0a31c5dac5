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

// PackedUint32 decodes the payload of a "packed repeated uint32" field:
// varints back to back until the buffer is exhausted, no ZigZag. Used for
// StringTable indices (keys/vals/roles_sid) and Relation member types.
func PackedUint32(buf []byte) ([]uint32, error) {
	out := make([]uint32, 0, estimateCount(buf))

	for len(buf) > 0 {
		u, n, err := ReadVarint(buf)
		if err != nil {
			return nil, fmt.Errorf("wire: packed uint32: %w", err)
		}

		out = append(out, uint32(u))
		buf = buf[n:]
	}

	return out, nil
}

// PackedSint32 decodes a packed repeated sint32 field (ZigZag varints).
// Used for DenseInfo's delta-encoded timestamps/uids/user_sid.
func PackedSint32(buf []byte) ([]int32, error) {
	out := make([]int32, 0, estimateCount(buf))

	for len(buf) > 0 {
		u, n, err := ReadVarint(buf)
		if err != nil {
			return nil, fmt.Errorf("wire: packed sint32: %w", err)
		}

		out = append(out, ZigZagDecode32(uint32(u)))
		buf = buf[n:]
	}

	return out, nil
}

// PackedSint64 decodes a packed repeated sint64 field (ZigZag varints).
// Used for DenseNodes ids/lats/lons, Way refs, Relation memids, and
// DenseInfo changesets.
func PackedSint64(buf []byte) ([]int64, error) {
	out := make([]int64, 0, estimateCount(buf))

	for len(buf) > 0 {
		u, n, err := ReadVarint(buf)
		if err != nil {
			return nil, fmt.Errorf("wire: packed sint64: %w", err)
		}

		out = append(out, ZigZagDecode64(u))
		buf = buf[n:]
	}

	return out, nil
}

// estimateCount guesses a capacity for the decoded slice assuming every
// varint is one byte (the common case for small deltas); append still
// grows the slice correctly if that guess is low.
func estimateCount(buf []byte) int {
	return len(buf)
}
