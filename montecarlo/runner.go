// Copyright 2022-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package montecarlo

import (
	"context"
	"runtime"

	"github.com/rs/zerolog/log"
)

// TrialResult pairs a trial's final portfolio value with the seed that
// produced it.
type TrialResult struct {
	Seed    uint64  `json:"seed"`
	Outcome float64 `json:"outcome"`
}

type trialOutcome struct {
	result TrialResult
	err    error
}

func trialWorker(ctx context.Context, result chan<- trialOutcome, seed uint64, pf Portfolio, profiles map[string]ReturnProfile, days uint) {
	if err := ctx.Err(); err != nil {
		result <- trialOutcome{err: err}
		return
	}

	outcome, err := Simulate(seed, pf, profiles, days)
	result <- trialOutcome{
		result: TrialResult{Seed: seed, Outcome: outcome},
		err:    err,
	}
}

func partitionSeeds(seeds []uint64, chunkSize int) [][]uint64 {
	chunks := make([][]uint64, 0, len(seeds)/chunkSize+1)
	for chunkSize < len(seeds) {
		seeds, chunks = seeds[chunkSize:], append(chunks, seeds[0:chunkSize:chunkSize])
	}
	return append(chunks, seeds)
}

// RunTrials executes one simulation per seed and collects the paired
// outcomes. The starting portfolio and return-profile map are shared
// read-only across all trials; each trial steps forward its own private
// copy. Outcomes are a pure function of the seed so execution order does
// not matter.
//
// A fatal error in any trial fails the whole batch: reporting VaR over a
// silently reduced sample would mislead risk assessment.
func RunTrials(ctx context.Context, seeds []uint64, pf Portfolio, profiles map[string]ReturnProfile, days uint) ([]TrialResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]TrialResult, 0, len(seeds))
	ch := make(chan trialOutcome)
	var firstErr error

	for _, chunk := range partitionSeeds(seeds, runtime.NumCPU()*2) {
		for _, seed := range chunk {
			go trialWorker(ctx, ch, seed, pf, profiles, days)
		}

		for range chunk {
			v := <-ch
			if v.err != nil {
				if firstErr == nil {
					firstErr = v.err
					cancel()
				}
				continue
			}
			results = append(results, v.result)
		}

		if firstErr != nil {
			log.Error().Err(firstErr).Msg("aborting trial batch")
			return nil, firstErr
		}
	}

	return results, nil
}
