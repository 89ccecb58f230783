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

// Package distance computes pairwise zygosity-mismatch distances between the
// samples of a genotype.Population.
//
// The distance between two samples is the number of sites at which one is
// heterozygous, homozygous-dominant or homozygous-recessive and the other is
// not.  Sites with a missing call in either sample are forced to count as a
// match or as a mismatch, per MissingPolicy.
//
// The kernel works one packed byte ("window", 8 sites) at a time:
//   1. NewZygosity derives het/hom-dominant/hom-recessive masks for each
//      sample,
//   2. Similarity ANDs them pairwise into a same-zygosity byte,
//   3. a missingScanner per sample walks its sorted missing list in lockstep
//      with the window index and forces the affected bits,
//   4. Mismatches counts the zero bits.
// Compute runs this over all N(N-1)/2 sample pairs in parallel and returns a
// symmetric Matrix.
package distance
