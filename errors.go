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
	"errors"
	"fmt"
)

var (
	// ErrInvalidSuffix is returned by Open when path names neither a ".osm"
	// nor a ".osm.pbf" file: the suffix is how Open chooses the front end,
	// there being no in-band format marker to sniff.
	ErrInvalidSuffix = errors.New("osmreader: path must end in \".osm\" or \".osm.pbf\"")

	// ErrReaderClosed is returned by Parse and Close when the Reader has
	// already been closed.
	ErrReaderClosed = errors.New("osmreader: reader is closed")

	// ErrAborted identifies, via errors.Is, a Parse error that originated
	// from a callback returning a non-nil error rather than from a framing
	// or decoding failure.
	ErrAborted = errors.New("osmreader: aborted by callback")
)

// AbortError wraps the error a Callbacks function returned. errors.Is(err,
// ErrAborted) reports true for any *AbortError.
type AbortError struct {
	Err error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("osmreader: callback aborted parse: %v", e.Err)
}

func (e *AbortError) Unwrap() error { return e.Err }

func (e *AbortError) Is(target error) bool { return target == ErrAborted }
