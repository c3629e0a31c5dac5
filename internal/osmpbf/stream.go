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
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/destel/rill"

	"github.com/fieldnotes/osmreader/internal/core"
	"github.com/fieldnotes/osmreader/model"
)

// Stream drives the three-state outer loop of a PBF read:
// EXPECT_HEADER -> EXPECT_DATA* -> DONE. OpenStream consumes the
// EXPECT_HEADER transition; each Next call is one EXPECT_DATA -> EXPECT_DATA
// step, until a clean EOF moves to DONE.
type Stream struct {
	r      io.Reader
	buf    *core.PooledBuffer
	header model.Header
}

// OpenStream reads the first blob off r and requires it to be OSMHeader,
// decoding it into the Header that Stream.Header returns for the lifetime
// of the stream.
func OpenStream(r io.Reader) (*Stream, error) {
	b, err := readBlob(r)
	if err != nil {
		return nil, err
	}

	if b.kind != blobTypeHeader {
		return nil, fmt.Errorf("%w: got %q", ErrUnexpectedBlobType, b.kind)
	}

	buf := core.NewPooledBuffer()

	payload, err := b.inflate(buf)
	if err != nil {
		buf.Close()
		return nil, err
	}

	header, err := decodeHeaderBlock(payload)
	if err != nil {
		buf.Close()
		return nil, err
	}

	buf.Reset()

	return &Stream{r: r, buf: buf, header: header}, nil
}

// Header returns the decoded OSMHeader block.
func (s *Stream) Header() model.Header { return s.header }

// Next decodes the following OSMData blob. It returns io.EOF once the
// stream is cleanly exhausted: EOF while reading the 4-byte length prefix
// terminates the stream cleanly.
func (s *Stream) Next() (Entities, error) {
	b, err := readBlob(s.r)
	if err != nil {
		if err == io.EOF {
			return Entities{}, io.EOF
		}
		return Entities{}, err
	}

	if b.kind != blobTypeData {
		return Entities{}, fmt.Errorf("osmpbf: unexpected blob type %q after header", b.kind)
	}

	payload, err := b.inflate(s.buf)
	if err != nil {
		return Entities{}, err
	}

	ents, err := DecodeBlock(payload)
	s.buf.Reset()

	return ents, err
}

// Close releases the stream's pooled inflate buffer. It does not close the
// underlying io.Reader: callers own what they hand to Open.
func (s *Stream) Close() error {
	return s.buf.Close()
}

// RawBlocks reads and inflates blocks sequentially (blob I/O cannot be
// parallelized; it is framed as one linear byte stream) and sends each
// payload, copied out of the shared inflate buffer, on the returned
// channel. It is the producer half of the optional parallel-block-decode
// path: rill.OrderedMap preserves the order items arrive on this channel
// even though it maps them concurrently downstream, so decoding may run in
// parallel while reading stays single-threaded.
func (s *Stream) RawBlocks(ctx context.Context) <-chan rill.Try[[]byte] {
	out := make(chan rill.Try[[]byte])

	go func() {
		defer close(out)

		for {
			payload, err := s.nextRaw()
			if err != nil {
				if err != io.EOF {
					slog.Error("unable to read data block", "error", err)
					select {
					case <-ctx.Done():
					case out <- rill.Try[[]byte]{Error: err}:
					}
				}
				return
			}

			select {
			case <-ctx.Done():
				return
			case out <- rill.Try[[]byte]{Value: payload}:
			}
		}
	}()

	return out
}

// nextRaw reads and inflates the next OSMData blob, returning a copy of its
// payload (the shared inflate buffer is reused by the next read).
func (s *Stream) nextRaw() ([]byte, error) {
	b, err := readBlob(s.r)
	if err != nil {
		return nil, err
	}

	if b.kind != blobTypeData {
		return nil, fmt.Errorf("osmpbf: unexpected blob type %q after header", b.kind)
	}

	payload, err := b.inflate(s.buf)
	if err != nil {
		return nil, err
	}

	cp := make([]byte, len(payload))
	copy(cp, payload)
	s.buf.Reset()

	return cp, nil
}
