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

// elementInfo is the non-dense Info message shared by Way and Relation.
type elementInfo struct {
	version   int32
	timestamp int64
	hasTime   bool
	changeset int64
	uid       int32
	hasUID    bool
	userSid   uint32
	hasUser   bool
	visible   bool
}

func decodeElementInfo(buf []byte) (elementInfo, error) {
	info := elementInfo{visible: true}

	r := wire.NewReader(buf)

	for !r.Done() {
		field, wt, err := r.Field()
		if err != nil {
			return elementInfo{}, fmt.Errorf("osmpbf: info: %w", err)
		}

		switch field {
		case 1:
			if err := wire.Expect(field, wt, wire.Varint); err != nil {
				return elementInfo{}, err
			}
			v, err := r.Int32()
			if err != nil {
				return elementInfo{}, fmt.Errorf("osmpbf: info version: %w", err)
			}
			info.version = v
		case 2:
			if err := wire.Expect(field, wt, wire.Varint); err != nil {
				return elementInfo{}, err
			}
			v, err := r.Int64()
			if err != nil {
				return elementInfo{}, fmt.Errorf("osmpbf: info timestamp: %w", err)
			}
			info.timestamp = v
			info.hasTime = true
		case 3:
			if err := wire.Expect(field, wt, wire.Varint); err != nil {
				return elementInfo{}, err
			}
			v, err := r.Int64()
			if err != nil {
				return elementInfo{}, fmt.Errorf("osmpbf: info changeset: %w", err)
			}
			info.changeset = v
		case 4:
			if err := wire.Expect(field, wt, wire.Varint); err != nil {
				return elementInfo{}, err
			}
			v, err := r.Int32()
			if err != nil {
				return elementInfo{}, fmt.Errorf("osmpbf: info uid: %w", err)
			}
			info.uid = v
			info.hasUID = true
		case 5:
			if err := wire.Expect(field, wt, wire.Varint); err != nil {
				return elementInfo{}, err
			}
			v, err := r.Uint32()
			if err != nil {
				return elementInfo{}, fmt.Errorf("osmpbf: info user_sid: %w", err)
			}
			info.userSid = v
			info.hasUser = true
		case 6:
			if err := wire.Expect(field, wt, wire.Varint); err != nil {
				return elementInfo{}, err
			}
			v, err := r.Bool()
			if err != nil {
				return elementInfo{}, fmt.Errorf("osmpbf: info visible: %w", err)
			}
			info.visible = v
		default:
			if err := r.Skip(wt); err != nil {
				return elementInfo{}, fmt.Errorf("osmpbf: info: %w", err)
			}
		}
	}

	return info, nil
}

// toModelInfo resolves an elementInfo against a block's date_granularity
// and string table into a model.Info.
func (info elementInfo) toModelInfo(st stringTable, dateGran int32) (model.Info, error) {
	mi := model.Info{
		Version:   info.version,
		Changeset: info.changeset,
		Visible:   info.visible,
		UID:       model.Undefined,
	}

	if info.hasUID {
		mi.UID = model.UID(info.uid)
	}

	if info.hasUser {
		user, err := st.at(info.userSid)
		if err != nil {
			return model.Info{}, fmt.Errorf("osmpbf: info: user: %w", err)
		}
		mi.User = user
	}

	if info.hasTime && dateGran > 0 {
		mi.Timestamp = unixMillis(info.timestamp * int64(dateGran))
	}

	return mi, nil
}

// decodeWay parses a Way message: id (field 1, int64), keys (field 2, packed
// uint32), vals (field 3, packed uint32), info (field 4, bytes), refs
// (field 8, packed sint64, delta-encoded node ids).
func decodeWay(buf []byte, st stringTable, dateGran int32) (*model.Way, error) {
	w := &model.Way{}

	var keys, vals []uint32
	var info elementInfo
	var refDeltas []int64

	r := wire.NewReader(buf)

	for !r.Done() {
		field, wt, err := r.Field()
		if err != nil {
			return nil, fmt.Errorf("osmpbf: way: %w", err)
		}

		switch field {
		case 1:
			if err := wire.Expect(field, wt, wire.Varint); err != nil {
				return nil, err
			}
			id, err := r.Int64()
			if err != nil {
				return nil, fmt.Errorf("osmpbf: way id: %w", err)
			}
			w.ID = model.ID(id)
		case 2:
			payload, err := r.Bytes()
			if err != nil {
				return nil, fmt.Errorf("osmpbf: way keys: %w", err)
			}
			if keys, err = wire.PackedUint32(payload); err != nil {
				return nil, fmt.Errorf("osmpbf: way keys: %w", err)
			}
		case 3:
			payload, err := r.Bytes()
			if err != nil {
				return nil, fmt.Errorf("osmpbf: way vals: %w", err)
			}
			if vals, err = wire.PackedUint32(payload); err != nil {
				return nil, fmt.Errorf("osmpbf: way vals: %w", err)
			}
		case 4:
			payload, err := r.Bytes()
			if err != nil {
				return nil, fmt.Errorf("osmpbf: way info: %w", err)
			}
			if info, err = decodeElementInfo(payload); err != nil {
				return nil, err
			}
		case 8:
			payload, err := r.Bytes()
			if err != nil {
				return nil, fmt.Errorf("osmpbf: way refs: %w", err)
			}
			if refDeltas, err = wire.PackedSint64(payload); err != nil {
				return nil, fmt.Errorf("osmpbf: way refs: %w", err)
			}
		default:
			if err := r.Skip(wt); err != nil {
				return nil, fmt.Errorf("osmpbf: way: %w", err)
			}
		}
	}

	tags, err := pairedTags(st, keys, vals)
	if err != nil {
		return nil, fmt.Errorf("osmpbf: way %d: %w", w.ID, err)
	}
	w.Tags = tags
	w.Info, err = info.toModelInfo(st, dateGran)
	if err != nil {
		return nil, fmt.Errorf("osmpbf: way %d: %w", w.ID, err)
	}

	if len(refDeltas) > 0 {
		w.NodeIDs = make([]model.ID, len(refDeltas))
		var ref int64
		for i, d := range refDeltas {
			ref += d
			w.NodeIDs[i] = model.ID(ref)
		}
	}

	return w, nil
}
