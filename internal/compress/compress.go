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

// Package compress inflates a Blob's payload regardless of which codec
// produced it. A Blob carries at most one of a raw byte string or one of
// four alternative compressed forms; this package picks the reader that
// matches whichever was set.
package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz/lzma"

	"github.com/fieldnotes/osmreader/internal/core"
)

// ErrUnknownCodec is returned when a Blob carries no recognized payload
// variant at all (neither raw nor any of the four compressed forms).
var ErrUnknownCodec = errors.New("compress: blob has no recognized payload")

// Codec identifies which compressed form a Blob's payload used.
type Codec int

const (
	Raw Codec = iota
	Zlib
	Lzma
	Lz4
	Zstd
)

func (c Codec) String() string {
	switch c {
	case Raw:
		return "raw"
	case Zlib:
		return "zlib"
	case Lzma:
		return "lzma"
	case Lz4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// Payload is the decoded contents of a Blob message: which codec produced
// it, the uncompressed bytes (Raw) or the compressed bytes (every other
// codec), and the declared decompressed size. Size is carried for Raw too
// when the blob sets raw_size, but Inflate checks it only for compressed
// codecs.
type Payload struct {
	Codec   Codec
	Raw     []byte // set only when Codec == Raw
	Encoded []byte // compressed bytes, set for every non-Raw codec
	Size    int32  // raw_size field, the expected inflated length
}

// Inflate returns the decompressed contents of p, reading into buf's
// pooled backing array to avoid an allocation per blob. For Raw payloads
// it returns p.Raw unchanged without touching buf.
func Inflate(p Payload, buf *core.PooledBuffer) ([]byte, error) {
	if p.Codec == Raw {
		return p.Raw, nil
	}

	var (
		rdr io.Reader
		err error
	)

	switch p.Codec {
	case Zlib:
		rdr, err = zlib.NewReader(bytes.NewReader(p.Encoded))
	case Lzma:
		rdr, err = lzma.NewReader(bytes.NewReader(p.Encoded))
	case Lz4:
		rdr = lz4.NewReader(bytes.NewReader(p.Encoded))
	case Zstd:
		var zr *zstd.Decoder
		zr, err = zstd.NewReader(bytes.NewReader(p.Encoded))
		if err == nil {
			defer zr.Close()
		}
		rdr = zr
	default:
		return nil, ErrUnknownCodec
	}

	if err != nil {
		return nil, fmt.Errorf("compress: opening %s reader: %w", p.Codec, err)
	}

	wantSize := int(p.Size) + bytes.MinRead
	if wantSize > buf.Cap() {
		buf.Grow(wantSize)
	}

	n, err := buf.ReadFrom(rdr)
	if err != nil {
		return nil, fmt.Errorf("compress: inflating %s payload: %w", p.Codec, err)
	}

	if n != int64(p.Size) {
		return nil, fmt.Errorf("compress: inflated %s payload is %d bytes, blob declared %d", p.Codec, n, p.Size)
	}

	return buf.Bytes(), nil
}
