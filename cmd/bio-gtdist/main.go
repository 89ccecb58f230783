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
package main

/*
bio-gtdist computes the pairwise zygosity distance matrix of a set of diploid
samples.  The input is a (optionally gzipped) TSV with SAMPLE and GENOTYPES
columns, one dosage string per sample; see genotype.ReadTSV.
*/

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/gtdist/distance"
)

var (
	missing     = flag.String("missing", distance.DefaultRunOpts.Policy.String(), "How a site missing in either sample is counted; 'match' or 'mismatch'")
	parallelism = flag.Int("parallelism", distance.DefaultRunOpts.Parallelism, "Maximum number of simultaneous (local) distance jobs to launch; 0 = runtime.NumCPU()")
	format      = flag.String("format", distance.DefaultRunOpts.Format, "Output format; 'tsv', 'tsv-bgz', and 'sqlite' supported")
	layout      = flag.String("layout", distance.DefaultRunOpts.Layout, "TSV output layout; 'square' (n x n matrix) or 'pairs' (one line per sample pair)")
	outPrefix   = flag.String("out", "bio-gtdist", "Output path prefix")
)

func bioGtdistUsage() {
	fmt.Printf("Usage: %s [OPTIONS] genotypepath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bioGtdistUsage
	shutdown := grail.Init()
	defer shutdown()

	allArgs := flag.Args()
	nPositionalArgs := flag.NArg()
	positionalArgs := allArgs[len(allArgs)-nPositionalArgs:]
	if nPositionalArgs != 1 {
		if nPositionalArgs < 1 {
			log.Fatalf("Missing positional argument (genotypepath required); please check flag syntax: '%s'", strings.Join(positionalArgs, " "))
		} else {
			log.Fatalf("Too many positional arguments (only genotypepath expected); please check flag syntax: '%s'", strings.Join(positionalArgs, " "))
		}
	}
	policy, err := distance.ParseMissingPolicy(*missing)
	if err != nil {
		log.Fatalf("%v", err)
	}
	ctx := vcontext.Background()
	opts := distance.RunOpts{
		Opts: distance.Opts{
			Policy:      policy,
			Parallelism: *parallelism,
		},
		Format: *format,
		Layout: *layout,
	}
	if err := distance.Run(ctx, positionalArgs[0], *outPrefix, &opts); err != nil {
		log.Panicf("%v", err)
	}
	log.Debug.Printf("exiting")
}
