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

	"github.com/fieldnotes/osmreader/model"
)

// denseTagsFor consumes a slice of keys_vals at an offset, reading
// key/value string-table index pairs until a 0 sentinel, and returns the
// decoded tags along with the index of the kv entry following the sentinel.
// keys_vals is shared across every node in the block, so running out of
// input before this node has read any key is not an error: it means this
// node (and every node after it) has no tags, the common case when the
// field is omitted entirely. Running out mid-way through a node's own
// key/value pairs is a genuine truncation and does error.
func denseTagsFor(st stringTable, kv []uint32, pos int) ([]model.Tag, int, error) {
	var tags []model.Tag

	for {
		if pos >= len(kv) {
			if len(tags) == 0 {
				return tags, pos, nil
			}
			return nil, 0, fmt.Errorf("osmpbf: dense tags: keys_vals ended without a terminating 0")
		}

		k := kv[pos]
		pos++

		if k == 0 {
			return tags, pos, nil
		}

		if pos >= len(kv) {
			return nil, 0, fmt.Errorf("osmpbf: dense tags: keys_vals has a key with no matching value")
		}

		v := kv[pos]
		pos++

		key, err := st.at(k)
		if err != nil {
			return nil, 0, fmt.Errorf("osmpbf: dense tags: key: %w", err)
		}
		value, err := st.at(v)
		if err != nil {
			return nil, 0, fmt.Errorf("osmpbf: dense tags: value: %w", err)
		}

		tags = append(tags, model.Tag{Key: key, Value: value})
	}
}

// pairedTags zips parallel keys/values index arrays (Way and Relation, no
// delta, no sentinel) into ordered Tag pairs.
func pairedTags(st stringTable, keys, values []uint32) ([]model.Tag, error) {
	if len(keys) != len(values) {
		return nil, fmt.Errorf("osmpbf: tags: %d keys but %d values", len(keys), len(values))
	}

	if len(keys) == 0 {
		return nil, nil
	}

	tags := make([]model.Tag, len(keys))
	for i := range keys {
		key, err := st.at(keys[i])
		if err != nil {
			return nil, fmt.Errorf("osmpbf: tags: key: %w", err)
		}
		value, err := st.at(values[i])
		if err != nil {
			return nil, fmt.Errorf("osmpbf: tags: value: %w", err)
		}
		tags[i] = model.Tag{Key: key, Value: value}
	}

	return tags, nil
}
