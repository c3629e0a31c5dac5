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

func TestDecodeRelation(t *testing.T) {
	var buf []byte
	buf = appendVarintField(buf, 1, 1000)
	buf = appendBytesField(buf, 2, packedUint32(1))
	buf = appendBytesField(buf, 3, packedUint32(2))
	buf = appendBytesField(buf, 8, packedUint32(3, 4))
	buf = appendBytesField(buf, 9, packedSint64(100, 5))
	buf = appendBytesField(buf, 10, packedUint32(1, 0))

	st := stringTable{"", "type", "multipolygon", "outer", "inner"}

	rel, err := decodeRelation(buf, st, 1000)
	require.NoError(t, err)

	assert.Equal(t, model.ID(1000), rel.ID)
	assert.Equal(t, []model.Tag{{Key: "type", Value: "multipolygon"}}, rel.Tags)
	require.Len(t, rel.Members, 2)
	assert.Equal(t, model.Member{Type: model.WAY, ID: 100, Role: "outer"}, rel.Members[0])
	assert.Equal(t, model.Member{Type: model.NODE, ID: 105, Role: "inner"}, rel.Members[1])
}

func TestDecodeRelationLengthMismatch(t *testing.T) {
	var buf []byte
	buf = appendVarintField(buf, 1, 1)
	buf = appendBytesField(buf, 8, packedUint32(1))
	buf = appendBytesField(buf, 9, packedSint64(1))
	buf = appendBytesField(buf, 10, packedUint32(1, 2))

	_, err := decodeRelation(buf, stringTable{"", "x"}, 1000)
	assert.Error(t, err)
}
