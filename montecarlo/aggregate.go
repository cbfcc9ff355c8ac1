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
	"math"
	"sort"
)

// SortTrials orders trial results in place by outcome, ascending.
func SortTrials(trials []TrialResult) {
	sort.Slice(trials, func(i, j int) bool {
		return trials[i].Outcome < trials[j].Outcome
	})
}

// PnL converts sorted trial outcomes to profit-and-loss relative to the
// starting portfolio value. Subtracting a constant preserves order, so
// the result is sorted whenever trials is.
func PnL(trials []TrialResult, initialValue float64) []float64 {
	pnl := make([]float64, len(trials))
	for ii, trial := range trials {
		pnl[ii] = trial.Outcome - initialValue
	}
	return pnl
}

// VaR returns the value at risk from an ascending-sorted P&L
// distribution: the element at index floor(L * riskFraction). A risk
// fraction of 0 yields the minimum observed outcome. riskFraction must
// lie in [0, 1).
func VaR(sortedPnL []float64, riskFraction float64) (float64, error) {
	if len(sortedPnL) == 0 {
		return 0, ErrNoOutcomes
	}
	if riskFraction < 0 || riskFraction >= 1 {
		return 0, ErrInvalidParameter
	}

	idx := int(math.Floor(float64(len(sortedPnL)) * riskFraction))
	return sortedPnL[idx], nil
}

// RepresentativeSeeds selects k+1 seeds at evenly spaced percentile
// ranks of the sorted outcome distribution, for re-running in history
// mode. Index i of the result is the seed at rank i/k. Duplicate
// indices at small sample sizes are tolerated and produce duplicate
// representatives.
func RepresentativeSeeds(sortedTrials []TrialResult, k int) []uint64 {
	if len(sortedTrials) == 0 || k < 1 {
		return nil
	}

	seeds := make([]uint64, 0, k+1)
	last := float64(len(sortedTrials) - 1)
	for ii := 0; ii <= k; ii++ {
		idx := int(math.Round(last * float64(ii) / float64(k)))
		seeds = append(seeds, sortedTrials[idx].Seed)
	}
	return seeds
}
