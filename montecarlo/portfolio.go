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
	"sort"

	"golang.org/x/exp/rand"
)

// RandomPortfolio builds a randomized starting portfolio for the given
// symbols. Each symbol is assigned price * (uniformInt(1, bound) * lot)
// monetary units. Every symbol must have an entry in prices; a missing
// price is a fatal precondition violation.
//
// Symbols are consumed in sorted order so the result is deterministic
// for a fixed setup source.
func RandomPortfolio(symbols []string, prices map[string]float64, src *rand.Rand, bound uint, lot uint) (Portfolio, error) {
	ordered := make([]string, len(symbols))
	copy(ordered, symbols)
	sort.Strings(ordered)

	pf := make(Portfolio, len(ordered))
	for _, symbol := range ordered {
		price, ok := prices[symbol]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingPrice, symbol)
		}
		multiplier := uint(src.Intn(int(bound))) + 1
		pf[symbol] = price * float64(multiplier*lot)
	}

	return pf, nil
}
