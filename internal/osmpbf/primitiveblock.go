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

const (
	defaultGranularity     = 100
	defaultDateGranularity = 1000
)

// Entities is what a decoded PrimitiveBlock yields: every node, way, and
// relation it carried, in on-wire order within each PrimitiveGroup. Plain
// (non-dense) Node messages and ChangeSets are skipped without being parsed
// and never appear here.
type Entities struct {
	Nodes     []*model.Node
	Ways      []*model.Way
	Relations []*model.Relation
}

// DecodeBlock parses an inflated OSMData payload: the StringTable first,
// then each PrimitiveGroup in turn. granularity, lat/lon offsets, and
// date_granularity default per the wire format when absent from the block.
func DecodeBlock(buf []byte) (Entities, error) {
	var (
		st                  stringTable
		granularity         int32 = defaultGranularity
		dateGranularity     int32 = defaultDateGranularity
		latOffset, lonOffset int64
		groups              [][]byte
	)

	r := wire.NewReader(buf)

	for !r.Done() {
		field, wt, err := r.Field()
		if err != nil {
			return Entities{}, fmt.Errorf("osmpbf: primitive block: %w", err)
		}

		switch field {
		case 1:
			if err := wire.Expect(field, wt, wire.Bytes); err != nil {
				return Entities{}, err
			}
			payload, err := r.Bytes()
			if err != nil {
				return Entities{}, fmt.Errorf("osmpbf: primitive block stringtable: %w", err)
			}
			if st, err = decodeStringTable(payload); err != nil {
				return Entities{}, err
			}
		case 2:
			if err := wire.Expect(field, wt, wire.Bytes); err != nil {
				return Entities{}, err
			}
			payload, err := r.Bytes()
			if err != nil {
				return Entities{}, fmt.Errorf("osmpbf: primitive block group: %w", err)
			}
			groups = append(groups, payload)
		case 17:
			if err := wire.Expect(field, wt, wire.Varint); err != nil {
				return Entities{}, err
			}
			v, err := r.Int32()
			if err != nil {
				return Entities{}, fmt.Errorf("osmpbf: primitive block granularity: %w", err)
			}
			granularity = v
		case 18:
			if err := wire.Expect(field, wt, wire.Varint); err != nil {
				return Entities{}, err
			}
			v, err := r.Int32()
			if err != nil {
				return Entities{}, fmt.Errorf("osmpbf: primitive block date_granularity: %w", err)
			}
			dateGranularity = v
		case 19:
			if err := wire.Expect(field, wt, wire.Varint); err != nil {
				return Entities{}, err
			}
			v, err := r.Int64()
			if err != nil {
				return Entities{}, fmt.Errorf("osmpbf: primitive block lat_offset: %w", err)
			}
			latOffset = v
		case 20:
			if err := wire.Expect(field, wt, wire.Varint); err != nil {
				return Entities{}, err
			}
			v, err := r.Int64()
			if err != nil {
				return Entities{}, fmt.Errorf("osmpbf: primitive block lon_offset: %w", err)
			}
			lonOffset = v
		default:
			if err := r.Skip(wt); err != nil {
				return Entities{}, fmt.Errorf("osmpbf: primitive block: %w", err)
			}
		}
	}

	var out Entities

	for _, g := range groups {
		if err := decodeGroup(g, st, granularity, latOffset, lonOffset, dateGranularity, &out); err != nil {
			return Entities{}, err
		}
	}

	return out, nil
}

// decodeGroup parses one PrimitiveGroup: it carries exactly one of
// DenseNodes (field 2), repeated Way (field 3), or repeated Relation
// (field 4). Plain Node (field 1) and ChangeSet (field 5) payloads are
// consumed and discarded.
func decodeGroup(buf []byte, st stringTable, gran int32, latOffset, lonOffset int64, dateGran int32, out *Entities) error {
	r := wire.NewReader(buf)

	for !r.Done() {
		field, wt, err := r.Field()
		if err != nil {
			return fmt.Errorf("osmpbf: primitive group: %w", err)
		}

		if err := wire.Expect(field, wt, wire.Bytes); err != nil {
			return err
		}

		payload, err := r.Bytes()
		if err != nil {
			return fmt.Errorf("osmpbf: primitive group field %d: %w", field, err)
		}

		switch field {
		case 1:
			// Plain (non-dense) Node: accepted silently, not surfaced.
		case 2:
			raw, err := decodeDenseNodes(payload)
			if err != nil {
				return err
			}
			nodes, err := raw.expand(st, gran, latOffset, lonOffset, dateGran)
			if err != nil {
				return err
			}
			out.Nodes = append(out.Nodes, nodes...)
		case 3:
			w, err := decodeWay(payload, st, dateGran)
			if err != nil {
				return err
			}
			out.Ways = append(out.Ways, w)
		case 4:
			rel, err := decodeRelation(payload, st, dateGran)
			if err != nil {
				return err
			}
			out.Relations = append(out.Relations, rel)
		case 5:
			// ChangeSet: accepted silently, not surfaced.
		default:
			// Unknown primitive group field, already consumed as bytes above.
		}
	}

	return nil
}
