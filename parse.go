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
	"errors"
	"fmt"
	"io"

	"github.com/destel/rill"

	"github.com/fieldnotes/osmreader/internal/osmpbf"
	"github.com/fieldnotes/osmreader/internal/osmxml"
	"github.com/fieldnotes/osmreader/model"
)

// Callbacks receives decoded entities as Parse walks the source. Any field
// may be left nil, in which case entities of that kind are decoded but not
// dispatched. A non-nil return from any callback aborts the parse: no
// further callbacks are issued, and Parse returns that error wrapped in an
// *AbortError.
type Callbacks struct {
	OnNode     func(*model.Node) error
	OnWay      func(*model.Way) error
	OnRelation func(*model.Relation) error
}

// Parse walks r's entities in on-disk order, dispatching each to the
// matching Callbacks function. It returns when the source is exhausted,
// when ctx is cancelled, or when a callback aborts the stream.
func (r *Reader) Parse(ctx context.Context, cb Callbacks, opts ...ParseOption) error {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()

	if closed {
		return ErrReaderClosed
	}

	cfg := defaultParseOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	switch r.format {
	case FormatPBF:
		return r.parsePBF(ctx, cb, cfg)
	case FormatXML:
		return r.parseXML(ctx, cb)
	default:
		return fmt.Errorf("osmreader: unknown format %d", r.format)
	}
}

func (r *Reader) parsePBF(ctx context.Context, cb Callbacks, cfg parseOptions) error {
	if cfg.parallelBlocks > 1 {
		return r.parsePBFParallel(ctx, cb, cfg.parallelBlocks)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ents, err := r.pbf.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if err := dispatchEntities(ents, cb); err != nil {
			return err
		}
	}
}

// parsePBFParallel decodes PrimitiveBlocks concurrently across n goroutines
// using rill.OrderedMap, which preserves the order blocks were produced in
// even though decoding itself runs out of order — block decoding is
// parallel, delivery to callbacks is not.
func (r *Reader) parsePBFParallel(ctx context.Context, cb Callbacks, n int) error {
	raw := r.pbf.RawBlocks(ctx)
	decoded := rill.OrderedMap(raw, n, func(payload []byte) (osmpbf.Entities, error) {
		return osmpbf.DecodeBlock(payload)
	})

	for result := range decoded {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if result.Error != nil {
			return result.Error
		}

		if err := dispatchEntities(result.Value, cb); err != nil {
			return err
		}
	}

	return nil
}

func dispatchEntities(ents osmpbf.Entities, cb Callbacks) error {
	for _, n := range ents.Nodes {
		if cb.OnNode == nil {
			continue
		}
		if err := cb.OnNode(n); err != nil {
			return &AbortError{Err: err}
		}
	}

	for _, w := range ents.Ways {
		if cb.OnWay == nil {
			continue
		}
		if err := cb.OnWay(w); err != nil {
			return &AbortError{Err: err}
		}
	}

	for _, rel := range ents.Relations {
		if cb.OnRelation == nil {
			continue
		}
		if err := cb.OnRelation(rel); err != nil {
			return &AbortError{Err: err}
		}
	}

	return nil
}

func (r *Reader) parseXML(ctx context.Context, cb Callbacks) error {
	sink := osmxml.Sink{
		OnNode:     cb.OnNode,
		OnWay:      cb.OnWay,
		OnRelation: cb.OnRelation,
	}

	err := osmxml.Decode(ctx, r.xmlR, sink)
	if err != nil {
		var abort *osmxml.AbortError
		if errors.As(err, &abort) {
			return &AbortError{Err: abort.Err}
		}
		return err
	}

	return nil
}
