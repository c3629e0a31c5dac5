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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldnotes/osmreader/model"
)

func TestDecodeDenseNodesAndExpand(t *testing.T) {
	var buf []byte
	buf = appendBytesField(buf, 1, packedSint64(1, 1)) // ids: 1, 2
	buf = appendBytesField(buf, 8, packedSint64(515000000, 1000)) // lats: running sum
	buf = appendBytesField(buf, 9, packedSint64(-100000000, 2000)) // lons

	var info []byte
	info = appendBytesField(info, 1, packedUint32(1, 2))       // versions
	info = appendBytesField(info, 2, packedSint32(1000, 500))  // timestamps delta
	info = appendBytesField(info, 3, packedSint64(7, 0))       // changesets delta
	info = appendBytesField(info, 4, packedSint32(5, 0))       // uids delta
	info = appendBytesField(info, 5, packedSint32(1, 0))       // user_sid delta
	buf = appendBytesField(buf, 5, info)

	buf = appendBytesField(buf, 10, packedUint32(1, 2, 0, 0)) // node 1 has a tag, node 2 has none

	dn, err := decodeDenseNodes(buf)
	require.NoError(t, err)

	st := stringTable{"", "amenity", "cafe"}

	nodes, err := dn.expand(st, 100, 0, 0, 1000)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	assert.Equal(t, model.ID(1), nodes[0].ID)
	assert.Equal(t, model.ToDegrees(0, 100, 515000000), nodes[0].Lat)
	assert.Equal(t, model.ToDegrees(0, 100, -100000000), nodes[0].Lon)
	assert.Equal(t, []model.Tag{{Key: "amenity", Value: "cafe"}}, nodes[0].Tags)
	assert.Equal(t, int32(1), nodes[0].Info.Version)
	assert.Equal(t, int64(7), nodes[0].Info.Changeset)
	assert.Equal(t, model.UID(5), nodes[0].Info.UID)
	assert.Equal(t, "amenity", nodes[0].Info.User) // user_sid delta sum resolves to string-table index 1
	assert.True(t, nodes[0].Info.Visible)

	assert.Equal(t, model.ID(2), nodes[1].ID)
	assert.Nil(t, nodes[1].Tags)
	assert.Equal(t, int32(2), nodes[1].Info.Version)
	assert.Equal(t, int64(7), nodes[1].Info.Changeset) // delta 0 added
	assert.Equal(t, model.UID(5), nodes[1].Info.UID)    // delta 0 added
}

func TestDecodeDenseNodesWithoutKeyValsField(t *testing.T) {
	var buf []byte
	buf = appendBytesField(buf, 1, packedSint64(1, 1, 1)) // ids: 1, 2, 3
	buf = appendBytesField(buf, 8, packedSint64(1, 0, 0))
	buf = appendBytesField(buf, 9, packedSint64(1, 0, 0))
	// field 10 (keys_vals) is entirely absent, as real-world data commonly
	// omits it when no node in the block carries any tags.

	dn, err := decodeDenseNodes(buf)
	require.NoError(t, err)
	assert.Nil(t, dn.keyVals)

	nodes, err := dn.expand(stringTable{""}, 100, 0, 0, 0)
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	for _, n := range nodes {
		assert.Nil(t, n.Tags)
	}
}

func TestDenseNodesLengthMismatch(t *testing.T) {
	var buf []byte
	buf = appendBytesField(buf, 1, packedSint64(1, 1))
	buf = appendBytesField(buf, 8, packedSint64(1))
	buf = appendBytesField(buf, 9, packedSint64(1, 1))

	dn, err := decodeDenseNodes(buf)
	require.NoError(t, err)

	_, err = dn.expand(stringTable{}, 100, 0, 0, 1000)
	assert.Error(t, err)
}
