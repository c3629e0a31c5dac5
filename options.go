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

import "runtime"

// readerOptions configures how Open sets up a Reader.
type readerOptions struct {
	stringTableHint int
}

// ReaderOption configures Open.
type ReaderOption func(*readerOptions)

// WithStringTablePrealloc records a hint for how many entries each
// PrimitiveBlock's string table holds. The hint is stored in the Reader's
// options only: OpenReader does not pass it to the PBF decoder, so it does
// not change how string tables are allocated.
func WithStringTablePrealloc(n int) ReaderOption {
	return func(o *readerOptions) {
		o.stringTableHint = n
	}
}

func defaultReaderOptions() readerOptions {
	return readerOptions{}
}

// parseOptions configures a single Parse call.
type parseOptions struct {
	parallelBlocks int
}

// ParseOption configures Parse.
type ParseOption func(*parseOptions)

// WithParallelBlocks enables concurrent PBF block decoding across n
// goroutines; entity delivery to callbacks still happens in on-disk order.
// n <= 1 is equivalent to the default single-threaded path. It has no
// effect when parsing XML sources.
func WithParallelBlocks(n int) ParseOption {
	return func(o *parseOptions) {
		o.parallelBlocks = n
	}
}

// DefaultParallelism returns a worker count for WithParallelBlocks: one less
// than GOMAXPROCS, and never less than 1.
func DefaultParallelism() int {
	n := runtime.GOMAXPROCS(-1) - 1
	if n < 1 {
		return 1
	}

	return n
}

func defaultParseOptions() parseOptions {
	return parseOptions{parallelBlocks: 1}
}
