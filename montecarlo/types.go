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

import "sort"

// ReturnProfile summarizes a security's historical daily percentage change.
// Mean and StdDev are expressed in percentage points, matching the upstream
// computation (close/prevClose - 1) * 100. A one-percent average daily gain
// is Mean = 1.0, not 0.01.
type ReturnProfile struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// NewReturnProfile builds a return profile, rejecting negative standard
// deviations at construction time rather than clamping them.
func NewReturnProfile(mean float64, stddev float64) (ReturnProfile, error) {
	if stddev < 0 {
		return ReturnProfile{}, ErrDegenerateDistribution
	}
	return ReturnProfile{Mean: mean, StdDev: stddev}, nil
}

// Portfolio maps a security symbol to the monetary amount held in it.
type Portfolio map[string]float64

// Value returns the total value of the portfolio
func (p Portfolio) Value() float64 {
	var total float64
	for _, quantity := range p {
		total += quantity
	}
	return total
}

// Clone returns an independent copy of the portfolio that a trial may
// mutate without affecting the shared starting portfolio
func (p Portfolio) Clone() Portfolio {
	dup := make(Portfolio, len(p))
	for symbol, quantity := range p {
		dup[symbol] = quantity
	}
	return dup
}

// Symbols returns the portfolio's symbols in sorted order. Simulation
// draws randomness per symbol; a stable order keeps trials reproducible.
func (p Portfolio) Symbols() []string {
	symbols := make([]string, 0, len(p))
	for symbol := range p {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
