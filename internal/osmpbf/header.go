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
	"fmt"
	"time"

	"github.com/fieldnotes/osmreader/internal/wire"
	"github.com/fieldnotes/osmreader/model"
)

// UnsupportedFeatureError reports a required_features entry this reader
// does not implement, checked against model.SupportedFeatures.
type UnsupportedFeatureError struct {
	Feature string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("osmpbf: required feature %q is not supported", e.Feature)
}

// decodeHeaderBlock parses an OSMHeader blob's inflated payload into a
// model.Header, rejecting any required_features entry this reader does not
// recognize.
func decodeHeaderBlock(buf []byte) (model.Header, error) {
	var h model.Header

	r := wire.NewReader(buf)

	for !r.Done() {
		field, wt, err := r.Field()
		if err != nil {
			return model.Header{}, fmt.Errorf("osmpbf: header block: %w", err)
		}

		switch field {
		case 1:
			if err := wire.Expect(field, wt, wire.Bytes); err != nil {
				return model.Header{}, err
			}
			bboxBuf, err := r.Bytes()
			if err != nil {
				return model.Header{}, fmt.Errorf("osmpbf: header bbox: %w", err)
			}
			bbox, err := decodeHeaderBBox(bboxBuf)
			if err != nil {
				return model.Header{}, err
			}
			h.BoundingBox = bbox
		case 4:
			if err := wire.Expect(field, wt, wire.Bytes); err != nil {
				return model.Header{}, err
			}
			s, err := r.String()
			if err != nil {
				return model.Header{}, fmt.Errorf("osmpbf: required_features: %w", err)
			}
			if !model.SupportedFeatures[s] {
				return model.Header{}, &UnsupportedFeatureError{Feature: s}
			}
			h.RequiredFeatures = append(h.RequiredFeatures, s)
		case 5:
			if err := wire.Expect(field, wt, wire.Bytes); err != nil {
				return model.Header{}, err
			}
			s, err := r.String()
			if err != nil {
				return model.Header{}, fmt.Errorf("osmpbf: optional_features: %w", err)
			}
			h.OptionalFeatures = append(h.OptionalFeatures, s)
		case 16:
			if h.WritingProgram, err = expectString(r, field, wt); err != nil {
				return model.Header{}, err
			}
		case 17:
			if h.Source, err = expectString(r, field, wt); err != nil {
				return model.Header{}, err
			}
		case 32:
			if err := wire.Expect(field, wt, wire.Varint); err != nil {
				return model.Header{}, err
			}
			ts, err := r.Int64()
			if err != nil {
				return model.Header{}, fmt.Errorf("osmpbf: osmosis_replication_timestamp: %w", err)
			}
			h.OsmosisReplicationTimestamp = time.Unix(ts, 0).UTC()
		case 33:
			if err := wire.Expect(field, wt, wire.Varint); err != nil {
				return model.Header{}, err
			}
			n, err := r.Int64()
			if err != nil {
				return model.Header{}, fmt.Errorf("osmpbf: osmosis_replication_sequence_number: %w", err)
			}
			h.OsmosisReplicationSequenceNumber = n
		case 34:
			if h.OsmosisReplicationBaseURL, err = expectString(r, field, wt); err != nil {
				return model.Header{}, err
			}
		default:
			if err := r.Skip(wt); err != nil {
				return model.Header{}, fmt.Errorf("osmpbf: header block: %w", err)
			}
		}
	}

	return h, nil
}

func expectString(r *wire.Reader, field int, wt wire.Type) (string, error) {
	if err := wire.Expect(field, wt, wire.Bytes); err != nil {
		return "", err
	}

	s, err := r.String()
	if err != nil {
		return "", fmt.Errorf("osmpbf: header block field %d: %w", field, err)
	}

	return s, nil
}

// decodeHeaderBBox parses a HeaderBBox message: left/right/top/bottom are
// sint64 nanodegrees (field ids 1-4), independent of PrimitiveBlock's
// granularity scaling.
func decodeHeaderBBox(buf []byte) (*model.BoundingBox, error) {
	bbox := &model.BoundingBox{}

	r := wire.NewReader(buf)

	for !r.Done() {
		field, wt, err := r.Field()
		if err != nil {
			return nil, fmt.Errorf("osmpbf: header bbox: %w", err)
		}

		if err := wire.Expect(field, wt, wire.Varint); err != nil {
			return nil, err
		}

		v, err := r.Sint64()
		if err != nil {
			return nil, fmt.Errorf("osmpbf: header bbox field %d: %w", field, err)
		}

		deg := model.ToDegrees(0, 1, v)

		switch field {
		case 1:
			bbox.Left = deg
		case 2:
			bbox.Right = deg
		case 3:
			bbox.Top = deg
		case 4:
			bbox.Bottom = deg
		}
	}

	return bbox, nil
}
