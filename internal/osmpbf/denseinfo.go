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
	"fmt"

	"github.com/fieldnotes/osmreader/internal/wire"
)

// denseInfo holds DenseNodes' parallel per-node metadata arrays, still
// delta-encoded except for versions, which are absolute.
type denseInfo struct {
	versions   []int32
	timestamps []int32
	changesets []int64
	uids       []int32
	userSids   []int32
}

// decodeDenseInfo parses a DenseInfo message. The visible_flag field
// (id 6) is accepted and ignored.
func decodeDenseInfo(buf []byte) (denseInfo, error) {
	var di denseInfo

	r := wire.NewReader(buf)

	for !r.Done() {
		field, wt, err := r.Field()
		if err != nil {
			return denseInfo{}, fmt.Errorf("osmpbf: dense info: %w", err)
		}

		if err := wire.Expect(field, wt, wire.Bytes); err != nil {
			return denseInfo{}, err
		}

		payload, err := r.Bytes()
		if err != nil {
			return denseInfo{}, fmt.Errorf("osmpbf: dense info field %d: %w", field, err)
		}

		switch field {
		case 1:
			vs, err := wire.PackedUint32(payload)
			if err != nil {
				return denseInfo{}, fmt.Errorf("osmpbf: dense info versions: %w", err)
			}
			di.versions = asInt32s(vs)
		case 2:
			vs, err := wire.PackedSint32(payload)
			if err != nil {
				return denseInfo{}, fmt.Errorf("osmpbf: dense info timestamps: %w", err)
			}
			di.timestamps = vs
		case 3:
			vs, err := wire.PackedSint64(payload)
			if err != nil {
				return denseInfo{}, fmt.Errorf("osmpbf: dense info changesets: %w", err)
			}
			di.changesets = vs
		case 4:
			vs, err := wire.PackedSint32(payload)
			if err != nil {
				return denseInfo{}, fmt.Errorf("osmpbf: dense info uids: %w", err)
			}
			di.uids = vs
		case 5:
			vs, err := wire.PackedSint32(payload)
			if err != nil {
				return denseInfo{}, fmt.Errorf("osmpbf: dense info user_sid: %w", err)
			}
			di.userSids = vs
		case 6:
			// visible_flag: packed bool, not surfaced by any model field.
		default:
			if err := r.Skip(wt); err != nil {
				return denseInfo{}, fmt.Errorf("osmpbf: dense info: %w", err)
			}
		}
	}

	return di, nil
}

// asInt32s reinterprets a packed-uint32 decode as plain int32s: DenseInfo's
// version field is a repeated int32 encoded as plain (non-ZigZag) varints,
// which is bit-identical to the uint32 decode for the non-negative values a
// version number actually takes.
func asInt32s(u []uint32) []int32 {
	if u == nil {
		return nil
	}

	out := make([]int32, len(u))
	for i, v := range u {
		out[i] = int32(v)
	}

	return out
}
