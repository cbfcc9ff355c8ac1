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

var _ = Describe("SimulationEngine", func() {
	var (
		pf       montecarlo.Portfolio
		profiles map[string]montecarlo.ReturnProfile
	)

	BeforeEach(func() {
		pf = montecarlo.Portfolio{
			"AAA": 100.0,
			"BBB": 250.0,
		}
		profiles = map[string]montecarlo.ReturnProfile{
			"AAA": {Mean: 0.05, StdDev: 1.2},
			"BBB": {Mean: 0.02, StdDev: 0.8},
		}
	})

	Describe("when simulating zero days", func() {
		It("should return the starting value unchanged", func() {
			final, err := montecarlo.Simulate(42, pf, profiles, 0)
			Expect(err).To(BeNil())
			Expect(final).To(Equal(350.0))
		})

		It("should return a single-element history equal to the starting value", func() {
			history, err := montecarlo.SimulateWithHistory(42, pf, profiles, 0)
			Expect(err).To(BeNil())
			Expect(history).To(HaveLen(1))
			Expect(history[0]).To(Equal(350.0))
		})
	})

	Describe("when simulating with a fixed seed", func() {
		It("should be deterministic across repeated invocations", func() {
			first, err := montecarlo.Simulate(1337, pf, profiles, 20)
			Expect(err).To(BeNil())
			second, err := montecarlo.Simulate(1337, pf, profiles, 20)
			Expect(err).To(BeNil())
			Expect(second).To(Equal(first))
		})

		It("should produce different outcomes for different seeds", func() {
			first, err := montecarlo.Simulate(1, pf, profiles, 20)
			Expect(err).To(BeNil())
			second, err := montecarlo.Simulate(2, pf, profiles, 20)
			Expect(err).To(BeNil())
			Expect(second).ToNot(Equal(first))
		})

		It("should not mutate the starting portfolio", func() {
			_, err := montecarlo.Simulate(7, pf, profiles, 10)
			Expect(err).To(BeNil())
			Expect(pf["AAA"]).To(Equal(100.0))
			Expect(pf["BBB"]).To(Equal(250.0))
		})
	})

	Describe("when comparing history and final-value modes", func() {
		It("should have a history of length days+1", func() {
			history, err := montecarlo.SimulateWithHistory(99, pf, profiles, 30)
			Expect(err).To(BeNil())
			Expect(history).To(HaveLen(31))
		})

		It("should start the history at the pre-simulation value", func() {
			history, err := montecarlo.SimulateWithHistory(99, pf, profiles, 30)
			Expect(err).To(BeNil())
			Expect(history[0]).To(Equal(pf.Value()))
		})

		It("should end the history at the final-value outcome", func() {
			history, err := montecarlo.SimulateWithHistory(99, pf, profiles, 30)
			Expect(err).To(BeNil())
			final, err := montecarlo.Simulate(99, pf, profiles, 30)
			Expect(err).To(BeNil())
			Expect(history[len(history)-1]).To(Equal(final))
		})
	})

	Describe("when a distribution is degenerate", func() {
		It("should be the identity with zero mean and zero stddev", func() {
			flat := montecarlo.Portfolio{"AAA": 100.0}
			flatProfiles := map[string]montecarlo.ReturnProfile{
				"AAA": {Mean: 0.0, StdDev: 0.0},
			}
			for seed := uint64(0); seed < 25; seed++ {
				final, err := montecarlo.Simulate(seed, flat, flatProfiles, 5)
				Expect(err).To(BeNil())
				Expect(final).To(Equal(100.0))
			}
		})

		It("should compound exactly with fixed mean and zero stddev", func() {
			drift := montecarlo.Portfolio{"AAA": 100.0}
			driftProfiles := map[string]montecarlo.ReturnProfile{
				"AAA": {Mean: 1.0, StdDev: 0.0},
			}
			final, err := montecarlo.Simulate(12345, drift, driftProfiles, 1)
			Expect(err).To(BeNil())
			Expect(final).To(BeNumerically("~", 101.0, 1e-9))
		})
	})

	Describe("when a security has no return profile", func() {
		It("should fail the trial", func() {
			pf["CCC"] = 50.0
			_, err := montecarlo.Simulate(42, pf, profiles, 5)
			Expect(err).To(MatchError(montecarlo.ErrMissingProfile))
		})

		It("should fail in history mode too", func() {
			pf["CCC"] = 50.0
			_, err := montecarlo.SimulateWithHistory(42, pf, profiles, 5)
			Expect(err).To(MatchError(montecarlo.ErrMissingProfile))
		})
	})

	Describe("when validating return profiles", func() {
		It("should reject a negative standard deviation", func() {
			_, err := montecarlo.NewReturnProfile(0.5, -0.1)
			Expect(err).To(MatchError(montecarlo.ErrDegenerateDistribution))
		})

		It("should accept a zero standard deviation", func() {
			profile, err := montecarlo.NewReturnProfile(0.5, 0.0)
			Expect(err).To(BeNil())
			Expect(profile.StdDev).To(Equal(0.0))
		})
	})
})
