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

// Package osmreader streams OpenStreetMap data in its XML (.osm) and PBF
// (.osm.pbf) forms, dispatching decoded nodes, ways, and relations to
// caller-supplied callbacks as they are parsed. The PBF front end is a
// hand-written Protocol Buffers wire-format decoder (internal/wire,
// internal/osmpbf): no generated protobuf code is involved.
package osmreader

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fieldnotes/osmreader/internal/osmpbf"
	"github.com/fieldnotes/osmreader/model"
)

// Format identifies which front end a Reader drives.
type Format int

const (
	FormatPBF Format = iota
	FormatXML
)

// Reader is a handle onto an open OSM data source. Obtain one with Open,
// parse it with Parse, and release its resources with Close.
type Reader struct {
	format Format
	file   *os.File
	pbf    *osmpbf.Stream
	xmlR   io.Reader

	mu     sync.Mutex
	closed bool
}

// Open opens path, choosing the XML or PBF front end from its suffix:
// ".osm.pbf" selects PBF, ".osm" selects XML, anything else is
// ErrInvalidSuffix.
func Open(path string, opts ...ReaderOption) (*Reader, error) {
	format, err := formatForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("osmreader: opening %s: %w", path, err)
	}

	r, err := OpenReader(f, format, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}

	r.file = f

	return r, nil
}

// OpenReader opens an already-open stream, given explicitly which format it
// carries. It is the entry point for callers that want to interpose their
// own io.Reader (a progress-reporting wrapper, a network stream) between
// the source and the decoder, something Open's path-based API cannot do.
func OpenReader(r io.Reader, format Format, opts ...ReaderOption) (*Reader, error) {
	cfg := defaultReaderOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	switch format {
	case FormatPBF:
		stream, err := osmpbf.OpenStream(r)
		if err != nil {
			return nil, err
		}
		return &Reader{format: format, pbf: stream}, nil
	case FormatXML:
		return &Reader{format: format, xmlR: r}, nil
	default:
		return nil, fmt.Errorf("osmreader: unknown format %d", format)
	}
}

// DetectFormat resolves the front end Open would use for path, without
// opening it. Callers that need to interpose their own io.Reader (a
// progress bar, for instance) before handing it to OpenReader use this to
// pick the right Format argument.
func DetectFormat(path string) (Format, error) {
	return formatForPath(path)
}

// formatForPath resolves the front end Open should use from path's suffix.
func formatForPath(path string) (Format, error) {
	switch {
	case strings.HasSuffix(path, ".osm.pbf"):
		return FormatPBF, nil
	case strings.HasSuffix(path, ".osm"):
		return FormatXML, nil
	default:
		return 0, ErrInvalidSuffix
	}
}

// Header returns the source's decoded OSMHeader block. XML sources have no
// equivalent and always return a zero-valued Header.
func (r *Reader) Header() model.Header {
	if r.pbf == nil {
		return model.Header{}
	}

	return r.pbf.Header()
}

// Close releases resources associated with r. It is idempotent misuse
// resistant: a second Close returns ErrReaderClosed rather than double-
// closing the underlying file.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrReaderClosed
	}
	r.closed = true

	var err error
	if r.pbf != nil {
		err = r.pbf.Close()
	}

	if r.file != nil {
		if cerr := r.file.Close(); err == nil {
			err = cerr
		}
	}

	return err
}
