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

// Package osmxml is the XML (.osm) front end: it drives encoding/xml's
// streaming token decoder and dispatches completed Node/Way/Relation
// entities to a Sink as soon as their closing tag is seen.
package osmxml

import (
	"bufio"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fieldnotes/osmreader/model"
)

// readBufferSize is the tokenizer's underlying bufio read buffer size.
const readBufferSize = 8 * 1024

// Sink receives entities as their closing tag is parsed. A non-nil error
// from any method sets a sticky abort flag: Decode stops issuing further
// calls and returns an *AbortError wrapping it.
type Sink struct {
	OnNode     func(*model.Node) error
	OnWay      func(*model.Way) error
	OnRelation func(*model.Relation) error
}

// AbortError wraps the error a Sink callback returned, distinguishing a
// consumer-requested stop from a parse failure.
type AbortError struct {
	Err error
}

func (e *AbortError) Error() string { return fmt.Sprintf("osmxml: aborted by callback: %v", e.Err) }
func (e *AbortError) Unwrap() error { return e.Err }

// element accumulates the attributes and children of whichever of
// <node>/<way>/<relation> is currently open; at most one is open at a time
// since OSM XML does not nest these elements.
type element struct {
	kind string // "node", "way", or "relation"
	node *model.Node
	way  *model.Way
	rel  *model.Relation
}

// Decode streams r as OSM XML, calling sink's callbacks as elements close.
// It checks ctx for cancellation before reading each token.
func Decode(ctx context.Context, r io.Reader, sink Sink) error {
	dec := xml.NewDecoder(bufio.NewReaderSize(r, readBufferSize))

	var cur *element

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("osmxml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "node":
				cur, err = startNode(t)
			case "way":
				cur, err = startWay(t)
			case "relation":
				cur, err = startRelation(t)
			case "tag":
				err = addTag(cur, t)
			case "nd":
				err = addNodeRef(cur, t)
			case "member":
				err = addMember(cur, t)
			}

			if err != nil {
				return fmt.Errorf("osmxml: <%s>: %w", t.Name.Local, err)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "node":
				if cur != nil {
					if err := dispatch(sink.OnNode, cur.node); err != nil {
						return err
					}
					cur = nil
				}
			case "way":
				if cur != nil {
					if err := dispatch(sink.OnWay, cur.way); err != nil {
						return err
					}
					cur = nil
				}
			case "relation":
				if cur != nil {
					if err := dispatch(sink.OnRelation, cur.rel); err != nil {
						return err
					}
					cur = nil
				}
			}
		}
	}
}

func dispatch[T any](cb func(*T) error, v *T) error {
	if cb == nil || v == nil {
		return nil
	}

	if err := cb(v); err != nil {
		return &AbortError{Err: err}
	}

	return nil
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}

	return ""
}

func parseCommonInfo(t xml.StartElement) (model.Info, error) {
	info := model.Info{Visible: true, UID: model.Undefined}

	if v := attr(t, "version"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return model.Info{}, fmt.Errorf("version: %w", err)
		}
		info.Version = int32(n)
	}

	if v := attr(t, "changeset"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return model.Info{}, fmt.Errorf("changeset: %w", err)
		}
		info.Changeset = n
	}

	if v := attr(t, "uid"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return model.Info{}, fmt.Errorf("uid: %w", err)
		}
		info.UID = model.UID(n)
	}

	info.User = attr(t, "user")

	if v := attr(t, "timestamp"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return model.Info{}, fmt.Errorf("timestamp: %w", err)
		}
		info.Timestamp = ts.UTC()
	}

	if v := attr(t, "visible"); v != "" {
		info.Visible = v != "false"
	}

	return info, nil
}

func startNode(t xml.StartElement) (*element, error) {
	info, err := parseCommonInfo(t)
	if err != nil {
		return nil, err
	}

	id, err := strconv.ParseInt(attr(t, "id"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}

	lat, err := model.ParseDegrees(attr(t, "lat"))
	if err != nil {
		return nil, fmt.Errorf("lat: %w", err)
	}

	lon, err := model.ParseDegrees(attr(t, "lon"))
	if err != nil {
		return nil, fmt.Errorf("lon: %w", err)
	}

	return &element{
		kind: "node",
		node: &model.Node{ID: model.ID(id), Lat: lat, Lon: lon, Info: info},
	}, nil
}

func startWay(t xml.StartElement) (*element, error) {
	info, err := parseCommonInfo(t)
	if err != nil {
		return nil, err
	}

	id, err := strconv.ParseInt(attr(t, "id"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}

	return &element{kind: "way", way: &model.Way{ID: model.ID(id), Info: info}}, nil
}

func startRelation(t xml.StartElement) (*element, error) {
	info, err := parseCommonInfo(t)
	if err != nil {
		return nil, err
	}

	id, err := strconv.ParseInt(attr(t, "id"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}

	return &element{kind: "relation", rel: &model.Relation{ID: model.ID(id), Info: info}}, nil
}

func addTag(cur *element, t xml.StartElement) error {
	if cur == nil {
		return nil
	}

	tag := model.Tag{Key: attr(t, "k"), Value: attr(t, "v")}

	switch cur.kind {
	case "node":
		cur.node.Tags = append(cur.node.Tags, tag)
	case "way":
		cur.way.Tags = append(cur.way.Tags, tag)
	case "relation":
		cur.rel.Tags = append(cur.rel.Tags, tag)
	}

	return nil
}

func addNodeRef(cur *element, t xml.StartElement) error {
	if cur == nil || cur.kind != "way" {
		return nil
	}

	ref, err := strconv.ParseInt(attr(t, "ref"), 10, 64)
	if err != nil {
		return fmt.Errorf("nd ref: %w", err)
	}

	cur.way.NodeIDs = append(cur.way.NodeIDs, model.ID(ref))

	return nil
}

func addMember(cur *element, t xml.StartElement) error {
	if cur == nil || cur.kind != "relation" {
		return nil
	}

	ref, err := strconv.ParseInt(attr(t, "ref"), 10, 64)
	if err != nil {
		return fmt.Errorf("member ref: %w", err)
	}

	var kind model.EntityType
	switch attr(t, "type") {
	case "node":
		kind = model.NODE
	case "way":
		kind = model.WAY
	case "relation":
		kind = model.RELATION
	default:
		return fmt.Errorf("member type %q not recognized", attr(t, "type"))
	}

	cur.rel.Members = append(cur.rel.Members, model.Member{
		Type: kind,
		ID:   model.ID(ref),
		Role: attr(t, "role"),
	})

	return nil
}
