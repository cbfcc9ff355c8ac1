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
	"golang.org/x/exp/rand"
)

// NewSetupSource creates the random source used for campaign setup:
// portfolio generation and trial seed generation. Seeding it once at
// campaign start makes the whole campaign reproducible.
func NewSetupSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Seeds draws n trial seeds from src. Seeds are drawn from the full
// uint64 range; uniqueness is not enforced -- collisions are accepted as
// negligible for realistic trial counts.
func Seeds(n uint, src *rand.Rand) []uint64 {
	seeds := make([]uint64, n)
	for ii := range seeds {
		seeds[ii] = src.Uint64()
	}
	return seeds
}
