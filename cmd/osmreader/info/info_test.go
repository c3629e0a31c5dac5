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

package info

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOSM = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test-fixture">
  <node id="1" version="1" changeset="10" uid="5" user="alice" timestamp="2020-01-02T03:04:05Z" lat="51.5" lon="-0.1">
    <tag k="amenity" v="cafe"/>
  </node>
  <node id="2" version="1" lat="51.6" lon="-0.2"/>
  <way id="100" version="1">
    <nd ref="1"/>
    <nd ref="2"/>
    <tag k="highway" v="residential"/>
  </way>
  <relation id="1000" version="1">
    <member type="way" ref="100" role="outer"/>
    <member type="node" ref="1" role=""/>
  </relation>
</osm>
`

func writeSample(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sample.osm")
	require.NoError(t, os.WriteFile(path, []byte(sampleOSM), 0o644))

	return path
}

func TestRunInfoXML(t *testing.T) {
	path := writeSample(t)

	s, err := runInfo(path, 1, false)
	require.NoError(t, err)

	assert.Nil(t, s.BoundingBox)
	assert.Equal(t, int64(0), s.NodeCount)
}

func TestRunInfoXMLExtended(t *testing.T) {
	path := writeSample(t)

	s, err := runInfo(path, 1, true)
	require.NoError(t, err)

	assert.Equal(t, int64(2), s.NodeCount)
	assert.Equal(t, int64(1), s.WayCount)
	assert.Equal(t, int64(1), s.RelationCount)
}

func TestRunInfoRejectsUnknownSuffix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleOSM), 0o644))

	_, err := runInfo(path, 1, false)
	assert.Error(t, err)
}
