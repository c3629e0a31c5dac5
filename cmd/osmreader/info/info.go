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

// Package info implements the "info" subcommand, which prints a source's
// header metadata and, when asked to scan the whole file, entity counts.
package info

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"
	"time"

	humanize "github.com/dustin/go-humanize"

	"github.com/fieldnotes/osmreader"
	"github.com/fieldnotes/osmreader/cmd/osmreader/cli"
	"github.com/fieldnotes/osmreader/model"
	"github.com/spf13/cobra"
)

var out io.Writer = os.Stdout

// summary is what renderJSON/renderTxt print: the source's Header, plus
// entity counts filled in only when an extended scan ran.
type summary struct {
	model.Header

	NodeCount     int64
	WayCount      int64
	RelationCount int64
}

func init() {
	cli.RootCmd.AddCommand(infoCmd)

	flags := infoCmd.Flags()
	flags.BoolP("json", "j", false, "format information in JSON")
	flags.IntP("parallel", "p", runtime.GOMAXPROCS(-1), "number of goroutines to use for scanning")
	flags.BoolP("extended", "e", false, "provide extended information (scans entire file)")
}

var infoCmd = &cobra.Command{
	Use:   "info <OSM file>",
	Short: "Print information about an OSM file",
	Long:  "Print information about an OSM file (.osm or .osm.pbf)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]

		flags := cmd.Flags()

		parallel, err := flags.GetInt("parallel")
		if err != nil {
			log.Fatal(err)
		}

		extended, err := flags.GetBool("extended")
		if err != nil {
			log.Fatal(err)
		}

		s, err := runInfo(path, parallel, extended)
		if err != nil {
			log.Fatal(err)
		}

		jsonfmt, err := flags.GetBool("json")
		if err != nil {
			log.Fatal(err)
		}
		if jsonfmt {
			renderJSON(s, extended)
		} else {
			renderTxt(s, extended)
		}
	},
}

// runInfo opens path, reports its Header, and, when extended is true, walks
// every entity counting nodes/ways/relations, optionally across parallel
// goroutines.
func runInfo(path string, parallel int, extended bool) (*summary, error) {
	format, err := osmreader.DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	in, err := cli.WrapInputFile(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	r, err := osmreader.OpenReader(in, format)
	if err != nil {
		in.Close()
		return nil, err
	}
	defer r.Close()

	s := &summary{Header: r.Header()}

	if extended {
		var nc, wc, rc int64

		cb := osmreader.Callbacks{
			OnNode:     func(*model.Node) error { nc++; return nil },
			OnWay:      func(*model.Way) error { wc++; return nil },
			OnRelation: func(*model.Relation) error { rc++; return nil },
		}

		var opts []osmreader.ParseOption
		if parallel > 1 {
			opts = append(opts, osmreader.WithParallelBlocks(parallel))
		}

		if err := r.Parse(context.Background(), cb, opts...); err != nil {
			return nil, err
		}

		s.NodeCount = nc
		s.WayCount = wc
		s.RelationCount = rc
	}

	return s, nil
}

func renderJSON(s *summary, extended bool) {
	var v interface{}
	if extended {
		v = s
	} else {
		v = s.Header
	}

	b, err := json.Marshal(v)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Fprint(out, string(b))
}

func renderTxt(s *summary, extended bool) {
	if s.BoundingBox != nil {
		fmt.Fprintf(out, "BoundingBox: %s\n", s.BoundingBox)
	}
	fmt.Fprintf(out, "RequiredFeatures: %s\n", strings.Join(s.RequiredFeatures, ", "))
	fmt.Fprintf(out, "OptionalFeatures: %v\n", strings.Join(s.OptionalFeatures, ", "))
	fmt.Fprintf(out, "WritingProgram: %s\n", s.WritingProgram)
	fmt.Fprintf(out, "Source: %s\n", s.Source)
	fmt.Fprintf(out, "OsmosisReplicationTimestamp: %s\n", s.OsmosisReplicationTimestamp.UTC().Format(time.RFC3339))
	fmt.Fprintf(out, "OsmosisReplicationSequenceNumber: %d\n", s.OsmosisReplicationSequenceNumber)
	fmt.Fprintf(out, "OsmosisReplicationBaseURL: %s\n", s.OsmosisReplicationBaseURL)
	if extended {
		fmt.Fprintf(out, "NodeCount: %s\n", humanize.Comma(s.NodeCount))
		fmt.Fprintf(out, "WayCount: %s\n", humanize.Comma(s.WayCount))
		fmt.Fprintf(out, "RelationCount: %s\n", humanize.Comma(s.RelationCount))
	}
}
