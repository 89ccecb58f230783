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
	"math"
	"runtime"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/gtdist/genotype"
)

type Opts struct {
	// Policy determines how missing sites are counted.
	Policy MissingPolicy
	// Parallelism is the maximum number of simultaneous jobs; 0 =
	// runtime.NumCPU().  It has no effect on the result.
	Parallelism int
}

var DefaultOpts = Opts{
	Policy:      MissingMatch,
	Parallelism: 0,
}

// windowSimilarity returns the same-zygosity byte of a and b at window k,
// before missing-site masking.
func windowSimilarity(a, b *genotype.Sample, k int) byte {
	return Similarity(NewZygosity(a.ChrA[k], a.ChrB[k]), NewZygosity(b.ChrA[k], b.ChrB[k]))
}

// PairDistance returns the distance between a and b.  Both samples must have
// the same ChrLength, and sorted in-range missing lists; see
// genotype.Population.Validate.
func PairDistance(a, b *genotype.Sample, policy MissingPolicy) int {
	scanA := newMissingScanner(a.Missing)
	scanB := newMissingScanner(b.Missing)
	dist := 0
	for k := range a.ChrA {
		sim := windowSimilarity(a, b, k)
		sim = scanA.apply(k, sim, policy)
		sim = scanB.apply(k, sim, policy)
		dist += Mismatches(sim)
	}
	return dist
}

// fillSimilarityRow writes the masked same-zygosity byte of every window of a
// and b to dst[:a.ChrLength()].
func fillSimilarityRow(dst []byte, a, b *genotype.Sample, policy MissingPolicy) {
	scanA := newMissingScanner(a.Missing)
	scanB := newMissingScanner(b.Missing)
	for k := range a.ChrA {
		sim := windowSimilarity(a, b, k)
		sim = scanA.apply(k, sim, policy)
		dst[k] = scanB.apply(k, sim, policy)
	}
}

// pairFromIndex maps a pair index in [0, n(n-1)/2) to (i, j) with j < i.
// Pairs are enumerated in row order: (1,0), (2,0), (2,1), (3,0), ...
func pairFromIndex(p int) (i, j int) {
	i = int((1 + math.Sqrt(float64(1+8*p))) / 2)
	// Correct for floating-point error.
	for i*(i-1)/2 > p {
		i--
	}
	for (i+1)*i/2 <= p {
		i++
	}
	return i, p - i*(i-1)/2
}

// Compute returns the distance matrix of pop.  pop is validated first; if it
// violates any precondition, an errors.Precondition error is returned and no
// matrix is computed.  A nil opts is equivalent to &DefaultOpts.
//
// All n(n-1)/2 pairs are split into opts.Parallelism contiguous ranges, one
// per job.  Each job owns its scanners and scratch, and each matrix cell is
// written by exactly one job, so no locking is needed.
func Compute(ctx context.Context, pop *genotype.Population, opts *Opts) (*Matrix, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Parallelism < 0 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("Compute: invalid parallelism %d", opts.Parallelism))
	}
	if opts.Policy != MissingMatch && opts.Policy != MissingMismatch {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("Compute: invalid missing-site policy %v", opts.Policy))
	}
	if err := pop.Validate(); err != nil {
		return nil, err
	}
	nSample := pop.NSample()
	m := newMatrix(nSample)
	nPair := nSample * (nSample - 1) / 2
	if nPair == 0 {
		return m, nil
	}
	parallelism := opts.Parallelism
	if parallelism == 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > nPair {
		parallelism = nPair
	}
	chrLength := pop.ChrLength()
	log.Debug.Printf("Compute: %d samples, %d sites, %d pairs, %d jobs", nSample, pop.NSite(), nPair, parallelism)

	err := traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * nPair) / parallelism
		endIdx := ((jobIdx + 1) * nPair) / parallelism
		sims := make([]byte, chrLength)
		i, j := pairFromIndex(startIdx)
		for p := startIdx; p < endIdx; p++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			fillSimilarityRow(sims, &pop.Samples[i], &pop.Samples[j], opts.Policy)
			m.setPair(i, j, MismatchesInRow(sims))
			if j++; j == i {
				i++
				j = 0
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
