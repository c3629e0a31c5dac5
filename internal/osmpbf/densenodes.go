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

// rawDenseNodes is a DenseNodes message's fields still in their
// wire-delta-encoded form, before the running sums are reconstituted.
type rawDenseNodes struct {
	ids     []int64
	info    denseInfo
	lats    []int64
	lons    []int64
	keyVals []uint32
}

// decodeDenseNodes parses a DenseNodes message: ids (field 1, packed
// sint64), denseinfo (field 5, bytes), lats (field 8, packed sint64), lons
// (field 9, packed sint64), keys_vals (field 10, packed uint32).
func decodeDenseNodes(buf []byte) (rawDenseNodes, error) {
	var dn rawDenseNodes

	r := wire.NewReader(buf)

	for !r.Done() {
		field, wt, err := r.Field()
		if err != nil {
			return rawDenseNodes{}, fmt.Errorf("osmpbf: dense nodes: %w", err)
		}

		if err := wire.Expect(field, wt, wire.Bytes); err != nil {
			return rawDenseNodes{}, err
		}

		payload, err := r.Bytes()
		if err != nil {
			return rawDenseNodes{}, fmt.Errorf("osmpbf: dense nodes field %d: %w", field, err)
		}

		switch field {
		case 1:
			dn.ids, err = wire.PackedSint64(payload)
			if err != nil {
				return rawDenseNodes{}, fmt.Errorf("osmpbf: dense nodes ids: %w", err)
			}
		case 5:
			dn.info, err = decodeDenseInfo(payload)
			if err != nil {
				return rawDenseNodes{}, err
			}
		case 8:
			dn.lats, err = wire.PackedSint64(payload)
			if err != nil {
				return rawDenseNodes{}, fmt.Errorf("osmpbf: dense nodes lats: %w", err)
			}
		case 9:
			dn.lons, err = wire.PackedSint64(payload)
			if err != nil {
				return rawDenseNodes{}, fmt.Errorf("osmpbf: dense nodes lons: %w", err)
			}
		case 10:
			dn.keyVals, err = wire.PackedUint32(payload)
			if err != nil {
				return rawDenseNodes{}, fmt.Errorf("osmpbf: dense nodes keys_vals: %w", err)
			}
		default:
			// Unrecognized dense node field: already consumed as bytes above.
		}
	}

	return dn, nil
}

// expand reconstitutes dn's delta-encoded parallel arrays into ordered
// Nodes, resolving string-table indices along the way.
func (dn rawDenseNodes) expand(st stringTable, gran int32, latOffset, lonOffset int64, dateGran int32) ([]*model.Node, error) {
	n := len(dn.ids)

	if len(dn.lats) != n || len(dn.lons) != n {
		return nil, fmt.Errorf("osmpbf: dense nodes: ids/lats/lons length mismatch (%d/%d/%d)", n, len(dn.lats), len(dn.lons))
	}

	hasInfo := len(dn.info.versions) > 0
	if hasInfo && (len(dn.info.versions) != n || len(dn.info.uids) != n || len(dn.info.userSids) != n ||
		len(dn.info.timestamps) != n || len(dn.info.changesets) != n) {
		return nil, fmt.Errorf("osmpbf: dense nodes: dense info arrays do not match node count %d", n)
	}

	nodes := make([]*model.Node, n)

	var id, lat, lon, ts, cs, uid, userIdx int64

	kvPos := 0

	for i := 0; i < n; i++ {
		id += dn.ids[i]
		lat += dn.lats[i]
		lon += dn.lons[i]

		node := &model.Node{
			ID:  model.ID(id),
			Lat: model.ToDegrees(latOffset, gran, lat),
			Lon: model.ToDegrees(lonOffset, gran, lon),
		}

		tags, next, err := denseTagsFor(st, dn.keyVals, kvPos)
		if err != nil {
			return nil, err
		}
		node.Tags = tags
		kvPos = next

		if hasInfo {
			ts += int64(dn.info.timestamps[i])
			cs += dn.info.changesets[i]
			uid += int64(dn.info.uids[i])
			userIdx += int64(dn.info.userSids[i])

			info := model.Info{
				Version:   dn.info.versions[i],
				Changeset: cs,
				Visible:   true,
			}

			if uid >= 0 {
				info.UID = model.UID(uid)
			} else {
				info.UID = model.Undefined
			}

			if userIdx > 0 {
				user, err := st.at(uint32(userIdx))
				if err != nil {
					return nil, fmt.Errorf("osmpbf: dense nodes: user: %w", err)
				}
				info.User = user
			}

			if dateGran > 0 {
				info.Timestamp = unixMillis(ts * int64(dateGran))
			}

			node.Info = info
		}

		nodes[i] = node
	}

	return nodes, nil
}
