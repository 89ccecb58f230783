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
package genotype

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Call is an unpacked genotype call at a single biallelic site.  The numeric
// values of HomRec, Het and HomDom are the dominant-allele dosage.
type Call byte

const (
	// HomRec means both copies carry the recessive allele.
	HomRec Call = iota
	// Het means exactly one copy carries the dominant allele.
	Het
	// HomDom means both copies carry the dominant allele.
	HomDom
	// Missing means there is no call at this site.
	Missing
)

// callChars maps Call -> text representation used by ParseCalls and
// DosageString.
var callChars = [...]byte{'0', '1', '2', '.'}

// Byte returns the single-character text representation of c.
func (c Call) Byte() byte {
	return callChars[c]
}

// ParseCalls converts a dosage string ('0', '1', '2', with '.', 'N' or '-'
// for missing) to a []Call.
func ParseCalls(s string) ([]Call, error) {
	calls := make([]Call, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			calls[i] = HomRec
		case '1':
			calls[i] = Het
		case '2':
			calls[i] = HomDom
		case '.', 'N', '-':
			calls[i] = Missing
		default:
			return nil, errors.E(errors.Invalid, fmt.Sprintf("ParseCalls: unrecognized genotype character %q at site %d", s[i], i+1))
		}
	}
	return calls, nil
}

// Pack builds a Sample from per-site calls.  Het sets only the copy-A bit,
// HomDom sets both, HomRec and Missing set neither.  Sites past len(calls) in
// the final byte are packed as HomRec.
func Pack(id string, calls []Call) Sample {
	nByte := (len(calls) + 7) >> 3
	s := Sample{
		ID:   id,
		ChrA: make([]byte, nByte),
		ChrB: make([]byte, nByte),
	}
	for pos, c := range calls {
		mask := byte(1) << uint(pos&7)
		switch c {
		case Het:
			s.ChrA[pos>>3] |= mask
		case HomDom:
			s.ChrA[pos>>3] |= mask
			s.ChrB[pos>>3] |= mask
		case Missing:
			s.Missing = append(s.Missing, pos+1)
		}
	}
	return s
}

// Call decodes the call at 0-based site pos.
func (s *Sample) Call(pos int) Call {
	if s.IsMissing(pos) {
		return Missing
	}
	mask := byte(1) << uint(pos&7)
	a := s.ChrA[pos>>3]&mask != 0
	b := s.ChrB[pos>>3]&mask != 0
	switch {
	case a && b:
		return HomDom
	case a || b:
		return Het
	}
	return HomRec
}

// Calls decodes the first nSite calls.
func (s *Sample) Calls(nSite int) []Call {
	calls := make([]Call, nSite)
	for pos := range calls {
		calls[pos] = s.Call(pos)
	}
	return calls
}

// DosageString returns the first nSite calls in ParseCalls format.
func (s *Sample) DosageString(nSite int) string {
	buf := make([]byte, nSite)
	for pos := range buf {
		buf[pos] = s.Call(pos).Byte()
	}
	return string(buf)
}
