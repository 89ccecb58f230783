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
	"context"
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// sampleRow is one line of a genotype TSV:
//
//   SAMPLE   GENOTYPES
//   s1       0120.2...
//
// GENOTYPES is a dosage string as accepted by ParseCalls.
type sampleRow struct {
	Sample    string `tsv:"SAMPLE"`
	Genotypes string `tsv:"GENOTYPES"`
}

// ReadTSV reads a population from a genotype TSV with a header row.  Lines
// starting with '#' are skipped.  Every sample must have the same number of
// calls.
func ReadTSV(r io.Reader) (*Population, error) {
	tsvReader := tsv.NewReader(r)
	tsvReader.HasHeaderRow = true
	tsvReader.UseHeaderNames = true
	tsvReader.Comment = '#'

	pop := &Population{}
	nSite := -1
	for lineIdx := 1; ; lineIdx++ {
		var row sampleRow
		if err := tsvReader.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrapf(err, "ReadTSV: sample %d", lineIdx)
		}
		calls, err := ParseCalls(row.Genotypes)
		if err != nil {
			return nil, errors.Wrapf(err, "ReadTSV: sample %s", row.Sample)
		}
		if nSite == -1 {
			nSite = len(calls)
		} else if len(calls) != nSite {
			return nil, errors.Errorf("ReadTSV: sample %s has %d genotype calls, expected %d", row.Sample, len(calls), nSite)
		}
		pop.Samples = append(pop.Samples, Pack(row.Sample, calls))
	}
	log.Debug.Printf("ReadTSV: %d samples, %d sites", pop.NSample(), nSite)
	return pop, nil
}

// ReadPath is a wrapper for ReadTSV that takes a path instead of an
// io.Reader.  Gzipped input is detected from the path extension.
func ReadPath(ctx context.Context, path string) (pop *Population, err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(reader); err != nil {
			return nil, errors.Wrapf(err, "ReadPath: %s", path)
		}
		defer func() {
			if cerr := gz.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		reader = gz
	}
	return ReadTSV(reader)
}
