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
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// SimulateWithHistory advances an independent copy of pf through days of
// simulated returns and returns the portfolio value at every day,
// including day 0. The returned history has length days+1 and its first
// element equals pf.Value().
//
// All randomness for the trial comes from a private generator seeded
// from seed, so results are a pure function of the inputs. Each day,
// every security draws x ~ Normal(mean, stddev) from its return profile
// and its quantity is multiplied by (x+100)/100. Implied prices are not
// floored; extreme draws can push a quantity non-positive.
func SimulateWithHistory(seed uint64, pf Portfolio, profiles map[string]ReturnProfile, days uint) ([]float64, error) {
	work := pf.Clone()
	symbols := work.Symbols()

	src := rand.NewSource(seed)
	dists := make([]distuv.Normal, len(symbols))
	for ii, symbol := range symbols {
		profile, ok := profiles[symbol]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingProfile, symbol)
		}
		dists[ii] = distuv.Normal{
			Mu:    profile.Mean,
			Sigma: profile.StdDev,
			Src:   src,
		}
	}

	history := make([]float64, 0, days+1)
	history = append(history, work.Value())

	for day := uint(0); day < days; day++ {
		for ii, symbol := range symbols {
			x := dists[ii].Rand()
			work[symbol] *= (x + 100) / 100
		}
		history = append(history, work.Value())
	}

	return history, nil
}

// Simulate runs a single trial and returns only the final portfolio
// value after days of simulated returns.
func Simulate(seed uint64, pf Portfolio, profiles map[string]ReturnProfile, days uint) (float64, error) {
	history, err := SimulateWithHistory(seed, pf, profiles, days)
	if err != nil {
		return 0, err
	}
	return history[len(history)-1], nil
}
