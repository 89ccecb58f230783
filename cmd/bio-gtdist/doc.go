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

/*
Given a genotype TSV with one dosage string (0 = homozygous recessive, 1 =
heterozygous, 2 = homozygous dominant, '.' = missing) per sample, bio-gtdist
reports, for every pair of samples, the number of sites where their zygosity
differs.

By default a site missing in either sample counts as a match; with
-missing=mismatch it always counts toward the distance.

Sample usage:
bio-gtdist \
    --missing mismatch \
    --format tsv-bgz \
    --out output-prefix \
    cohort.genotypes.tsv.gz
*/
package main
