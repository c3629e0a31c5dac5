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

// Package osmpbf decodes the binary (.osm.pbf) rendition of an OSM data
// stream: blob framing, primitive-block demuxing, and the Node/Way/Relation
// wire shapes, hand-rolled on top of internal/wire rather than a generated
// protobuf runtime.
package osmpbf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fieldnotes/osmreader/internal/compress"
	"github.com/fieldnotes/osmreader/internal/core"
	"github.com/fieldnotes/osmreader/internal/wire"
)

// Blob types named in the BlobHeader's type field.
const (
	blobTypeHeader = "OSMHeader"
	blobTypeData   = "OSMData"
)

// ErrUnexpectedBlobType is returned when the first blob of a stream is not
// OSMHeader.
var ErrUnexpectedBlobType = errors.New("osmpbf: first blob is not OSMHeader")

// maxBlobHeaderLen and maxBlobLen bound how much a single size-prefixed
// message is allowed to claim, guarding against a corrupt or hostile size
// prefix driving an unbounded allocation. Limits follow the upstream OSM PBF
// convention (header ≤ 64 KiB, blob ≤ 32 MiB).
const (
	maxBlobHeaderLen = 64 * 1024
	maxBlobLen       = 32 * 1024 * 1024
)

// blob is one size-prefixed (BlobHeader, Blob) pair read off the stream.
type blob struct {
	kind    string
	payload compress.Payload
}

// readBlob reads one blob from r: the 4-byte big-endian length prefix, the
// BlobHeader it introduces, and the Blob it names. io.EOF on the very first
// read of the length prefix is reported as-is so callers can treat it as a
// clean end of stream.
func readBlob(r io.Reader) (blob, error) {
	var lenBuf [4]byte

	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			err = fmt.Errorf("osmpbf: truncated blob header length prefix: %w", err)
			slog.Error("unable to read blob", "error", err)
			return blob{}, err
		}
		return blob{}, err
	}

	headerLen := binary.BigEndian.Uint32(lenBuf[:])
	if headerLen == 0 || headerLen > maxBlobHeaderLen {
		err := fmt.Errorf("osmpbf: implausible blob header length %d", headerLen)
		slog.Error("unable to read blob", "error", err)
		return blob{}, err
	}

	headerBuf := make([]byte, headerLen)
	if _, err := io.ReadFull(r, headerBuf); err != nil {
		err = fmt.Errorf("osmpbf: reading blob header: %w", err)
		slog.Error("unable to read blob", "error", err)
		return blob{}, err
	}

	kind, dataSize, err := decodeBlobHeader(headerBuf)
	if err != nil {
		slog.Error("unable to read blob", "error", err)
		return blob{}, err
	}

	if dataSize <= 0 || dataSize > maxBlobLen {
		err := fmt.Errorf("osmpbf: implausible blob payload size %d", dataSize)
		slog.Error("unable to read blob", "error", err)
		return blob{}, err
	}

	blobBuf := make([]byte, dataSize)
	if _, err := io.ReadFull(r, blobBuf); err != nil {
		err = fmt.Errorf("osmpbf: reading blob payload: %w", err)
		slog.Error("unable to read blob", "error", err)
		return blob{}, err
	}

	payload, err := decodeBlobPayload(blobBuf)
	if err != nil {
		slog.Error("unable to unpack blob", "error", err, "type", kind)
		return blob{}, err
	}

	return blob{kind: kind, payload: payload}, nil
}

// decodeBlobHeader parses a BlobHeader message: type (field 1, string),
// indexdata (field 2, bytes, ignored as deprecated), datasize (field 3,
// int32).
func decodeBlobHeader(buf []byte) (kind string, dataSize int32, err error) {
	r := wire.NewReader(buf)

	for !r.Done() {
		field, wt, err := r.Field()
		if err != nil {
			return "", 0, fmt.Errorf("osmpbf: blob header: %w", err)
		}

		switch field {
		case 1:
			if err := wire.Expect(field, wt, wire.Bytes); err != nil {
				return "", 0, err
			}
			if kind, err = r.String(); err != nil {
				return "", 0, fmt.Errorf("osmpbf: blob header type: %w", err)
			}
		case 3:
			if err := wire.Expect(field, wt, wire.Varint); err != nil {
				return "", 0, err
			}
			n, err := r.Int32()
			if err != nil {
				return "", 0, fmt.Errorf("osmpbf: blob header datasize: %w", err)
			}
			dataSize = n
		default:
			if err := r.Skip(wt); err != nil {
				return "", 0, fmt.Errorf("osmpbf: blob header: %w", err)
			}
		}
	}

	if kind == "" {
		return "", 0, fmt.Errorf("osmpbf: blob header missing type field")
	}

	return kind, dataSize, nil
}

// decodeBlobPayload parses a Blob message, identifying whichever of the raw
// or compressed payload variants it carries, among the codecs enumerated in
// internal/compress.
func decodeBlobPayload(buf []byte) (compress.Payload, error) {
	var p compress.Payload

	r := wire.NewReader(buf)

	for !r.Done() {
		field, wt, err := r.Field()
		if err != nil {
			return compress.Payload{}, fmt.Errorf("osmpbf: blob: %w", err)
		}

		switch field {
		case 1:
			if err := wire.Expect(field, wt, wire.Bytes); err != nil {
				return compress.Payload{}, err
			}
			raw, err := r.Bytes()
			if err != nil {
				return compress.Payload{}, fmt.Errorf("osmpbf: blob raw: %w", err)
			}
			p.Codec = compress.Raw
			p.Raw = raw
		case 2:
			if err := wire.Expect(field, wt, wire.Varint); err != nil {
				return compress.Payload{}, err
			}
			n, err := r.Int32()
			if err != nil {
				return compress.Payload{}, fmt.Errorf("osmpbf: blob raw_size: %w", err)
			}
			p.Size = n
		case 3, 4, 6, 7:
			if err := wire.Expect(field, wt, wire.Bytes); err != nil {
				return compress.Payload{}, err
			}
			data, err := r.Bytes()
			if err != nil {
				return compress.Payload{}, fmt.Errorf("osmpbf: blob compressed payload: %w", err)
			}
			p.Encoded = data
			p.Codec = codecForField(field)
		default:
			if err := r.Skip(wt); err != nil {
				return compress.Payload{}, fmt.Errorf("osmpbf: blob: %w", err)
			}
		}
	}

	return p, nil
}

func codecForField(field int) compress.Codec {
	switch field {
	case 3:
		return compress.Zlib
	case 4:
		return compress.Lzma
	case 6:
		return compress.Lz4
	case 7:
		return compress.Zstd
	default:
		return compress.Raw
	}
}

// inflate returns b's decompressed payload using buf's pooled backing array.
func (b blob) inflate(buf *core.PooledBuffer) ([]byte, error) {
	return compress.Inflate(b.payload, buf)
}
