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

package montecarlo_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/riskvault/rv-api/montecarlo"
)

var _ = Describe("ResultAggregator", func() {
	Describe("when sorting trial outcomes", func() {
		It("should order outcomes ascending", func() {
			trials := []montecarlo.TrialResult{
				{Seed: 1, Outcome: 105.0},
				{Seed: 2, Outcome: 95.0},
				{Seed: 3, Outcome: 100.0},
			}
			montecarlo.SortTrials(trials)
			for ii := 0; ii < len(trials)-1; ii++ {
				Expect(trials[ii].Outcome).To(BeNumerically("<=", trials[ii+1].Outcome))
			}
		})

		It("should keep each outcome paired with its seed", func() {
			trials := []montecarlo.TrialResult{
				{Seed: 1, Outcome: 105.0},
				{Seed: 2, Outcome: 95.0},
				{Seed: 3, Outcome: 100.0},
			}
			montecarlo.SortTrials(trials)
			Expect(trials[0].Seed).To(Equal(uint64(2)))
			Expect(trials[1].Seed).To(Equal(uint64(3)))
			Expect(trials[2].Seed).To(Equal(uint64(1)))
		})
	})

	Describe("when converting to P&L", func() {
		It("should subtract the initial value from every outcome", func() {
			trials := []montecarlo.TrialResult{
				{Seed: 1, Outcome: 95.0},
				{Seed: 2, Outcome: 105.0},
			}
			pnl := montecarlo.PnL(trials, 100.0)
			Expect(pnl).To(Equal([]float64{-5.0, 5.0}))
		})
	})

	Describe("when extracting VaR", func() {
		var sortedPnL []float64

		BeforeEach(func() {
			sortedPnL = make([]float64, 100)
			for ii := range sortedPnL {
				sortedPnL[ii] = float64(ii - 50)
			}
		})

		It("should return the element at floor(L * alpha)", func() {
			varValue, err := montecarlo.VaR(sortedPnL, 0.05)
			Expect(err).To(BeNil())
			Expect(varValue).To(Equal(sortedPnL[5]))
		})

		It("should return the minimum for alpha of zero", func() {
			varValue, err := montecarlo.VaR(sortedPnL, 0.0)
			Expect(err).To(BeNil())
			Expect(varValue).To(Equal(sortedPnL[0]))
		})

		It("should approach the maximum for alpha just under one", func() {
			varValue, err := montecarlo.VaR(sortedPnL, 0.999)
			Expect(err).To(BeNil())
			Expect(varValue).To(Equal(sortedPnL[99]))
		})

		It("should reject alpha of one", func() {
			_, err := montecarlo.VaR(sortedPnL, 1.0)
			Expect(err).To(MatchError(montecarlo.ErrInvalidParameter))
		})

		It("should reject negative alpha", func() {
			_, err := montecarlo.VaR(sortedPnL, -0.01)
			Expect(err).To(MatchError(montecarlo.ErrInvalidParameter))
		})

		It("should reject an empty distribution", func() {
			_, err := montecarlo.VaR([]float64{}, 0.05)
			Expect(err).To(MatchError(montecarlo.ErrNoOutcomes))
		})
	})

	Describe("when sampling representative seeds", func() {
		It("should select k+1 seeds at evenly spaced ranks", func() {
			trials := make([]montecarlo.TrialResult, 101)
			for ii := range trials {
				trials[ii] = montecarlo.TrialResult{Seed: uint64(ii), Outcome: float64(ii)}
			}
			seeds := montecarlo.RepresentativeSeeds(trials, 10)
			Expect(seeds).To(HaveLen(11))
			Expect(seeds[0]).To(Equal(uint64(0)))
			Expect(seeds[5]).To(Equal(uint64(50)))
			Expect(seeds[10]).To(Equal(uint64(100)))
		})

		It("should tolerate duplicate indices for small samples", func() {
			trials := []montecarlo.TrialResult{
				{Seed: 7, Outcome: 1.0},
				{Seed: 8, Outcome: 2.0},
			}
			seeds := montecarlo.RepresentativeSeeds(trials, 10)
			Expect(seeds).To(HaveLen(11))
			Expect(seeds[0]).To(Equal(uint64(7)))
			Expect(seeds[10]).To(Equal(uint64(8)))
		})

		It("should return nil for an empty sample", func() {
			Expect(montecarlo.RepresentativeSeeds(nil, 10)).To(BeNil())
		})
	})
})
