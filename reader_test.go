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

package osmreader

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldnotes/osmreader/model"
)

const xmlFixture = `<osm><node id="1" lat="1" lon="2"/></osm>`

func TestOpenReaderXML(t *testing.T) {
	r, err := OpenReader(strings.NewReader(xmlFixture), FormatXML)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, FormatXML, r.format)
	assert.Equal(t, model.Header{}, r.Header())
}

func TestFormatForPathDispatch(t *testing.T) {
	cases := []struct {
		path   string
		format Format
		err    error
	}{
		{"planet.osm.pbf", FormatPBF, nil},
		{"map.osm", FormatXML, nil},
		{"notes.txt", 0, ErrInvalidSuffix},
	}

	for _, tc := range cases {
		format, err := DetectFormat(tc.path)
		if tc.err != nil {
			assert.ErrorIs(t, err, tc.err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.format, format)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	r, err := OpenReader(strings.NewReader(xmlFixture), FormatXML)
	require.NoError(t, err)

	require.NoError(t, r.Close())
	assert.ErrorIs(t, r.Close(), ErrReaderClosed)
}

func TestParseAfterCloseReturnsErrReaderClosed(t *testing.T) {
	r, err := OpenReader(strings.NewReader(xmlFixture), FormatXML)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	err = r.Parse(context.Background(), Callbacks{})
	assert.ErrorIs(t, err, ErrReaderClosed)
}

func TestOpenReaderUnknownFormat(t *testing.T) {
	_, err := OpenReader(strings.NewReader(""), Format(99))
	assert.Error(t, err)
}
