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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderFieldAndVarint(t *testing.T) {
	var buf []byte
	buf = appendTag(buf, 3, Varint)
	buf = appendVarint(buf, 42)

	r := NewReader(buf)

	field, wt, err := r.Field()
	require.NoError(t, err)
	assert.Equal(t, 3, field)
	assert.Equal(t, Varint, wt)

	v, err := r.Varint()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)
	assert.True(t, r.Done())
}

func TestReaderBytes(t *testing.T) {
	buf := appendBytesField(nil, 1, []byte("hello"))

	r := NewReader(buf)

	_, _, err := r.Field()
	require.NoError(t, err)

	b, err := r.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
}

func TestReaderString(t *testing.T) {
	buf := appendBytesField(nil, 1, []byte("OSMHeader"))

	r := NewReader(buf)
	_, _, _ = r.Field()

	s, err := r.String()
	require.NoError(t, err)
	assert.Equal(t, "OSMHeader", s)
}

func TestReaderSint32AndSint64(t *testing.T) {
	var buf []byte
	buf = appendVarint(buf, uint64(zigzag32(-5)))
	buf = append(buf, appendVarintStandalone(zigzag64(-9))...)

	r := NewReader(buf)

	s32, err := r.Sint32()
	require.NoError(t, err)
	assert.Equal(t, int32(-5), s32)

	s64, err := r.Sint64()
	require.NoError(t, err)
	assert.Equal(t, int64(-9), s64)
}

func appendVarintStandalone(v uint64) []byte {
	return appendVarint(nil, v)
}

func TestReaderBytesExceedsBuffer(t *testing.T) {
	var buf []byte
	buf = appendVarint(buf, 10) // claims 10 bytes but buffer has none following

	r := NewReader(buf)
	_, err := r.Bytes()
	assert.Error(t, err)
}

func TestReaderSkipUnknownField(t *testing.T) {
	var buf []byte
	buf = appendTag(buf, 99, Varint)
	buf = appendVarint(buf, 7)
	buf = appendTag(buf, 1, Varint)
	buf = appendVarint(buf, 1)

	r := NewReader(buf)

	field, wt, err := r.Field()
	require.NoError(t, err)
	require.NoError(t, r.Skip(wt))

	field, wt, err = r.Field()
	require.NoError(t, err)
	assert.Equal(t, 1, field)
	v, err := r.Varint()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
}

func TestExpectMismatch(t *testing.T) {
	err := Expect(5, Varint, Bytes)
	assert.Error(t, err)
}

func TestExpectMatch(t *testing.T) {
	assert.NoError(t, Expect(5, Bytes, Bytes))
}
