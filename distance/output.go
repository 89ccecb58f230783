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
	"context"
	"fmt"
	"io"
	"runtime"
	"strconv"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/gtdist/genotype"
	"github.com/grailbio/hts/bgzf"
)

// RunOpts extends Opts with the output options of Run.
type RunOpts struct {
	Opts
	// Format is one of "tsv", "tsv-bgz" and "sqlite".
	Format string
	// Layout is "square" (full n x n matrix) or "pairs" (one line per
	// sample pair).  Ignored for sqlite output, which is always pairs.
	Layout string
}

var DefaultRunOpts = RunOpts{
	Opts:   DefaultOpts,
	Format: "tsv",
	Layout: "square",
}

const (
	formatTSV = iota
	formatTSVBgz
	formatSQLite
)

// WriteSquareTSV writes m as a TSV with a header row and one row per sample:
//
//   SAMPLE  s1  s2  ...
//   s1      0   d12 ...
func WriteSquareTSV(m *Matrix, ids []string, w io.Writer) (err error) {
	if len(ids) != m.N() {
		return fmt.Errorf("WriteSquareTSV: %d sample IDs for %d x %d matrix", len(ids), m.N(), m.N())
	}
	outTSV := tsv.NewWriter(w)
	outTSV.WriteString("SAMPLE")
	for _, id := range ids {
		outTSV.WriteString(id)
	}
	if err = outTSV.EndLine(); err != nil {
		return
	}
	for i, id := range ids {
		outTSV.WriteString(id)
		for _, d := range m.Row(i) {
			outTSV.WriteUint32(uint32(d))
		}
		if err = outTSV.EndLine(); err != nil {
			return
		}
	}
	return outTSV.Flush()
}

// WritePairsTSV writes one line per unordered sample pair (i, j), j < i, in
// row order:
//
//   SAMPLE_I  SAMPLE_J  DISTANCE
func WritePairsTSV(m *Matrix, ids []string, w io.Writer) (err error) {
	if len(ids) != m.N() {
		return fmt.Errorf("WritePairsTSV: %d sample IDs for %d x %d matrix", len(ids), m.N(), m.N())
	}
	outTSV := tsv.NewWriter(w)
	outTSV.WriteString("SAMPLE_I\tSAMPLE_J\tDISTANCE")
	if err = outTSV.EndLine(); err != nil {
		return
	}
	for i := 1; i < m.N(); i++ {
		row := m.Row(i)
		for j := 0; j < i; j++ {
			outTSV.WriteString(ids[i])
			outTSV.WriteString(ids[j])
			outTSV.WriteUint32(uint32(row[j]))
			if err = outTSV.EndLine(); err != nil {
				return
			}
		}
	}
	return outTSV.Flush()
}

// writeTSVPath creates path and passes its writer, bgzf-compressed if
// requested, to write.
func writeTSVPath(ctx context.Context, path string, bgzip bool, parallelism int, write func(io.Writer) error) (err error) {
	var dst file.File
	if dst, err = file.Create(ctx, path); err != nil {
		return
	}
	defer file.CloseAndReport(ctx, dst, &err)
	if !bgzip {
		return write(dst.Writer(ctx))
	}
	bgzfWriter := bgzf.NewWriter(dst.Writer(ctx), parallelism)
	if err = write(bgzfWriter); err != nil {
		return
	}
	return bgzfWriter.Close()
}

// Run reads a genotype TSV from inPath, computes its distance matrix, and
// writes it to outPrefix + ".dist.tsv", ".dist.tsv.gz" or ".dist.sqlite"
// depending on opts.Format.
func Run(ctx context.Context, inPath, outPrefix string, opts *RunOpts) (err error) {
	var format int
	if opts.Format == "tsv" {
		format = formatTSV
	} else if opts.Format == "tsv-bgz" {
		format = formatTSVBgz
	} else if opts.Format == "sqlite" {
		format = formatSQLite
	} else {
		return fmt.Errorf("Run: unrecognized format= argument")
	}
	writeTSV := WriteSquareTSV
	if opts.Layout == "pairs" {
		writeTSV = WritePairsTSV
	} else if opts.Layout != "square" {
		return fmt.Errorf("Run: unrecognized layout= argument")
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	var pop *genotype.Population
	if pop, err = genotype.ReadPath(ctx, inPath); err != nil {
		return
	}
	log.Printf("Run: starting distance computation (%d samples, %d sites, %d jobs)\n", pop.NSample(), pop.NSite(), parallelism)
	var m *Matrix
	if m, err = Compute(ctx, pop, &opts.Opts); err != nil {
		return
	}
	checksum := m.Checksum()
	log.Printf("Run: distance computation complete, checksum %016x", checksum)

	ids := pop.IDs()
	write := func(w io.Writer) error {
		return writeTSV(m, ids, w)
	}
	switch format {
	case formatTSV:
		err = writeTSVPath(ctx, outPrefix+".dist.tsv", false, parallelism, write)
	case formatTSVBgz:
		err = writeTSVPath(ctx, outPrefix+".dist.tsv.gz", true, parallelism, write)
	case formatSQLite:
		err = WriteSQLite(ctx, outPrefix+".dist.sqlite", m, ids, map[string]string{
			"policy":   opts.Policy.String(),
			"n_sample": strconv.Itoa(pop.NSample()),
			"n_site":   strconv.Itoa(pop.NSite()),
			"checksum": fmt.Sprintf("%016x", checksum),
		})
	}
	return
}
