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

import (
	"errors"
	"fmt"

	"github.com/fieldnotes/osmreader/internal/wire"
)

// stringTable holds a PrimitiveBlock's string table: every key, value, and
// username in the block is an index into this slice, in appearance order.
// Index 0 is conventionally empty and is used as the "no user" sentinel for
// DenseNodes.
type stringTable []string

// ErrStringTableIndexOutOfRange is returned by at when a key/value/user
// index names a slot outside the current block's string table: such an
// index is treated as corruption, not silently mapped to "".
var ErrStringTableIndexOutOfRange = errors.New("osmpbf: string table index out of range")

// at returns the string at idx, or ErrStringTableIndexOutOfRange if idx is
// out of range rather than panicking or silently substituting "".
func (st stringTable) at(idx uint32) (string, error) {
	if int(idx) >= len(st) {
		return "", fmt.Errorf("%w: %d (table has %d entries)", ErrStringTableIndexOutOfRange, idx, len(st))
	}

	return st[idx], nil
}

// decodeStringTable parses a StringTable message: repeated length-delimited
// field id 1, each copied out of the block buffer (it must outlive the
// block's own compressed-payload buffer).
func decodeStringTable(buf []byte) (stringTable, error) {
	var st stringTable

	r := wire.NewReader(buf)

	for !r.Done() {
		field, wt, err := r.Field()
		if err != nil {
			return nil, fmt.Errorf("osmpbf: string table: %w", err)
		}

		switch field {
		case 1:
			if err := wire.Expect(field, wt, wire.Bytes); err != nil {
				return nil, err
			}
			s, err := r.String()
			if err != nil {
				return nil, fmt.Errorf("osmpbf: string table entry: %w", err)
			}
			st = append(st, s)
		default:
			if err := r.Skip(wt); err != nil {
				return nil, fmt.Errorf("osmpbf: string table: %w", err)
			}
		}
	}

	return st, nil
}
