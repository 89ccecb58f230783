// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package distance

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// MissingPolicy determines how a site missing in either compared sample
// contributes to the distance.
type MissingPolicy int

const (
	// MissingMatch counts missing sites as matching.
	MissingMatch MissingPolicy = iota
	// MissingMismatch counts missing sites as mismatching.
	MissingMismatch
)

func (p MissingPolicy) String() string {
	switch p {
	case MissingMatch:
		return "match"
	case MissingMismatch:
		return "mismatch"
	}
	return fmt.Sprintf("MissingPolicy(%d)", int(p))
}

// ParseMissingPolicy parses "match" or "mismatch".
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch s {
	case "match":
		return MissingMatch, nil
	case "mismatch":
		return MissingMismatch, nil
	}
	return MissingMatch, errors.E(errors.Invalid, fmt.Sprintf("ParseMissingPolicy: unrecognized missing-site policy %q", s))
}

// missingScanner walks one sample's missing list in lockstep with the window
// index.  The zero value scans an empty list.
type missingScanner struct {
	// missing is the sample's 1-based missing-site list.
	missing []int
	// pos is the index of the next unapplied entry; pos == len(missing) means
	// the list is exhausted.
	pos int
	// next is the 0-based site of missing[pos]; only valid when the scanner
	// isn't exhausted.
	next int
}

func newMissingScanner(missing []int) missingScanner {
	s := missingScanner{missing: missing}
	if len(missing) > 0 {
		s.next = missing[0] - 1
	}
	return s
}

// exhausted returns true when every entry has been applied.
func (s *missingScanner) exhausted() bool {
	return s.pos == len(s.missing)
}

// apply forces the bits of sim corresponding to missing sites in window k,
// and advances past them.  Windows must be visited in increasing order.
func (s *missingScanner) apply(k int, sim byte, policy MissingPolicy) byte {
	windowStart := k << 3
	for !s.exhausted() && s.next >= windowStart && s.next < windowStart+8 {
		mask := byte(1) << uint(s.next&7)
		if policy == MissingMatch {
			sim |= mask
		} else {
			sim &^= mask
		}
		s.pos++
		if !s.exhausted() {
			s.next = s.missing[s.pos] - 1
		}
	}
	return sim
}
