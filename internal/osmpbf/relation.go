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
	"github.com/fieldnotes/osmreader/model"
)

// decodeRelation parses a Relation message: id (field 1, int64), keys/vals
// (fields 2/3, packed uint32), info (field 4, bytes), roles_sid (field 8,
// packed uint32), memids (field 9, packed sint64, delta-encoded), types
// (field 10, packed uint32, 0=NODE 1=WAY 2=RELATION).
func decodeRelation(buf []byte, st stringTable, dateGran int32) (*model.Relation, error) {
	rel := &model.Relation{}

	var keys, vals, rolesSid, types []uint32
	var memidDeltas []int64
	var info elementInfo

	r := wire.NewReader(buf)

	for !r.Done() {
		field, wt, err := r.Field()
		if err != nil {
			return nil, fmt.Errorf("osmpbf: relation: %w", err)
		}

		switch field {
		case 1:
			if err := wire.Expect(field, wt, wire.Varint); err != nil {
				return nil, err
			}
			id, err := r.Int64()
			if err != nil {
				return nil, fmt.Errorf("osmpbf: relation id: %w", err)
			}
			rel.ID = model.ID(id)
		case 2:
			payload, err := r.Bytes()
			if err != nil {
				return nil, fmt.Errorf("osmpbf: relation keys: %w", err)
			}
			if keys, err = wire.PackedUint32(payload); err != nil {
				return nil, fmt.Errorf("osmpbf: relation keys: %w", err)
			}
		case 3:
			payload, err := r.Bytes()
			if err != nil {
				return nil, fmt.Errorf("osmpbf: relation vals: %w", err)
			}
			if vals, err = wire.PackedUint32(payload); err != nil {
				return nil, fmt.Errorf("osmpbf: relation vals: %w", err)
			}
		case 4:
			payload, err := r.Bytes()
			if err != nil {
				return nil, fmt.Errorf("osmpbf: relation info: %w", err)
			}
			if info, err = decodeElementInfo(payload); err != nil {
				return nil, err
			}
		case 8:
			payload, err := r.Bytes()
			if err != nil {
				return nil, fmt.Errorf("osmpbf: relation roles_sid: %w", err)
			}
			if rolesSid, err = wire.PackedUint32(payload); err != nil {
				return nil, fmt.Errorf("osmpbf: relation roles_sid: %w", err)
			}
		case 9:
			payload, err := r.Bytes()
			if err != nil {
				return nil, fmt.Errorf("osmpbf: relation memids: %w", err)
			}
			if memidDeltas, err = wire.PackedSint64(payload); err != nil {
				return nil, fmt.Errorf("osmpbf: relation memids: %w", err)
			}
		case 10:
			payload, err := r.Bytes()
			if err != nil {
				return nil, fmt.Errorf("osmpbf: relation types: %w", err)
			}
			if types, err = wire.PackedUint32(payload); err != nil {
				return nil, fmt.Errorf("osmpbf: relation types: %w", err)
			}
		default:
			if err := r.Skip(wt); err != nil {
				return nil, fmt.Errorf("osmpbf: relation: %w", err)
			}
		}
	}

	tags, err := pairedTags(st, keys, vals)
	if err != nil {
		return nil, fmt.Errorf("osmpbf: relation %d: %w", rel.ID, err)
	}
	rel.Tags = tags
	rel.Info, err = info.toModelInfo(st, dateGran)
	if err != nil {
		return nil, fmt.Errorf("osmpbf: relation %d: %w", rel.ID, err)
	}

	if len(rolesSid) != len(memidDeltas) || len(memidDeltas) != len(types) {
		return nil, fmt.Errorf("osmpbf: relation %d: roles/memids/types length mismatch (%d/%d/%d)",
			rel.ID, len(rolesSid), len(memidDeltas), len(types))
	}

	if len(memidDeltas) > 0 {
		rel.Members = make([]model.Member, len(memidDeltas))
		var memID int64
		for i, d := range memidDeltas {
			memID += d
			role, err := st.at(rolesSid[i])
			if err != nil {
				return nil, fmt.Errorf("osmpbf: relation %d: member role: %w", rel.ID, err)
			}
			rel.Members[i] = model.Member{
				Type: model.EntityType(types[i]),
				ID:   model.ID(memID),
				Role: role,
			}
		}
	}

	return rel, nil
}
