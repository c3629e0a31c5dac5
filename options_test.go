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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultParseOptions(t *testing.T) {
	cfg := defaultParseOptions()
	assert.Equal(t, 1, cfg.parallelBlocks)
}

func TestWithParallelBlocks(t *testing.T) {
	cfg := defaultParseOptions()
	WithParallelBlocks(8)(&cfg)
	assert.Equal(t, 8, cfg.parallelBlocks)
}

func TestWithStringTablePrealloc(t *testing.T) {
	cfg := defaultReaderOptions()
	assert.Equal(t, 0, cfg.stringTableHint)

	WithStringTablePrealloc(256)(&cfg)
	assert.Equal(t, 256, cfg.stringTableHint)
}

func TestDefaultParallelismAtLeastOne(t *testing.T) {
	assert.GreaterOrEqual(t, DefaultParallelism(), 1)
}
