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
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/riskvault/rv-api/montecarlo"
)

var _ = Describe("PortfolioGenerator", func() {
	var (
		symbols []string
		prices  map[string]float64
	)

	BeforeEach(func() {
		symbols = []string{"MSFT", "AAPL", "VTI"}
		prices = map[string]float64{
			"AAPL": 151.29,
			"MSFT": 264.46,
			"VTI":  195.41,
		}
	})

	Describe("when generating a random portfolio", func() {
		It("should assign a quantity to every symbol", func() {
			pf, err := montecarlo.RandomPortfolio(symbols, prices, montecarlo.NewSetupSource(17), 1000, 11)
			Expect(err).To(BeNil())
			Expect(pf).To(HaveLen(3))
			for _, symbol := range symbols {
				Expect(pf).To(HaveKey(symbol))
			}
		})

		It("should assign price times a lot multiple between lot and bound*lot", func() {
			pf, err := montecarlo.RandomPortfolio(symbols, prices, montecarlo.NewSetupSource(17), 1000, 11)
			Expect(err).To(BeNil())
			for symbol, quantity := range pf {
				multiple := quantity / prices[symbol]
				Expect(multiple).To(BeNumerically(">=", 11))
				Expect(multiple).To(BeNumerically("<=", 11_000))
				lots := multiple / 11
				Expect(lots).To(BeNumerically("~", math.Round(lots), 1e-9))
			}
		})

		It("should be deterministic for a fixed setup seed", func() {
			first, err := montecarlo.RandomPortfolio(symbols, prices, montecarlo.NewSetupSource(99), 1000, 11)
			Expect(err).To(BeNil())
			second, err := montecarlo.RandomPortfolio(symbols, prices, montecarlo.NewSetupSource(99), 1000, 11)
			Expect(err).To(BeNil())
			Expect(second).To(Equal(first))
		})

		It("should have a value equal to the sum of its quantities", func() {
			pf, err := montecarlo.RandomPortfolio(symbols, prices, montecarlo.NewSetupSource(3), 1000, 11)
			Expect(err).To(BeNil())
			var total float64
			for _, quantity := range pf {
				total += quantity
			}
			Expect(pf.Value()).To(Equal(total))
		})
	})

	Describe("when a symbol has no price", func() {
		It("should fail portfolio generation", func() {
			symbols = append(symbols, "ZZZZ")
			_, err := montecarlo.RandomPortfolio(symbols, prices, montecarlo.NewSetupSource(17), 1000, 11)
			Expect(err).To(MatchError(montecarlo.ErrMissingPrice))
		})
	})

	Describe("when cloning a portfolio", func() {
		It("should not share storage with the original", func() {
			pf := montecarlo.Portfolio{"AAA": 1.0, "BBB": 2.0}
			dup := pf.Clone()
			dup["AAA"] = 99.0
			Expect(pf["AAA"]).To(Equal(1.0))
		})
	})
})

var _ = Describe("SeedGenerator", func() {
	Describe("when drawing trial seeds", func() {
		It("should return the requested number of seeds", func() {
			seeds := montecarlo.Seeds(500, montecarlo.NewSetupSource(1))
			Expect(seeds).To(HaveLen(500))
		})

		It("should be deterministic for a fixed setup seed", func() {
			first := montecarlo.Seeds(100, montecarlo.NewSetupSource(55))
			second := montecarlo.Seeds(100, montecarlo.NewSetupSource(55))
			Expect(second).To(Equal(first))
		})

		It("should draw from a wide range", func() {
			seeds := montecarlo.Seeds(1000, montecarlo.NewSetupSource(2))
			unique := make(map[uint64]struct{}, len(seeds))
			for _, seed := range seeds {
				unique[seed] = struct{}{}
			}
			Expect(len(unique)).To(Equal(1000))
		})
	})
})
