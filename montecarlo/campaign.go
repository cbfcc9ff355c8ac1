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
	"encoding/hex"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/riskvault/rv-api/observability/opentelemetry"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/blake3"
	"go.opentelemetry.io/otel"
)

const (
	DefaultPortfolioBound = 1000
	DefaultLotMultiplier  = 11
	DefaultDecileCount    = 10
)

// Parameters describe a single VaR campaign.
type Parameters struct {
	Symbols        []string `json:"symbols"`
	TrialCount     uint     `json:"trialCount"`
	DayCount       uint     `json:"dayCount"`
	RiskFraction   float64  `json:"riskFraction"`
	PortfolioBound uint     `json:"portfolioBound"`
	LotMultiplier  uint     `json:"lotMultiplier"`
	SetupSeed      uint64   `json:"setupSeed"`
}

// Validate checks parameters before any trial runs. Zero values for
// PortfolioBound and LotMultiplier are filled with defaults.
func (params *Parameters) Validate() error {
	if len(params.Symbols) == 0 {
		return ErrInvalidParameter
	}
	if params.TrialCount == 0 {
		return ErrInvalidParameter
	}
	if params.RiskFraction < 0 || params.RiskFraction >= 1 {
		return ErrInvalidParameter
	}

	if params.PortfolioBound == 0 {
		params.PortfolioBound = DefaultPortfolioBound
	}
	if params.LotMultiplier == 0 {
		params.LotMultiplier = DefaultLotMultiplier
	}

	return nil
}

// ContentHash returns a blake3 hash of the campaign parameters, used as
// the cache key for computed results. Campaigns are deterministic, so
// identical parameters always produce identical results.
func (params *Parameters) ContentHash() (string, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		log.Error().Err(err).Msg("could not marshal campaign parameters")
		return "", err
	}
	sum := blake3.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// Result is the aggregate outcome of a campaign.
type Result struct {
	ID              string      `json:"id"`
	Params          Parameters  `json:"params"`
	InitialValue    float64     `json:"initialValue"`
	VaR             float64     `json:"var"`
	SortedPnL       []float64   `json:"sortedPnL"`
	DecileHistories [][]float64 `json:"decileHistories"`
	ComputedAt      time.Time   `json:"computedAt"`
}

// Campaign binds validated parameters to the read-only configuration
// shared by every trial: the return-profile map and current prices.
type Campaign struct {
	Params   Parameters
	Profiles map[string]ReturnProfile
	Prices   map[string]float64
}

// NewCampaign validates params and constructs a campaign. profiles and
// prices are treated as immutable for the campaign's lifetime.
func NewCampaign(params Parameters, profiles map[string]ReturnProfile, prices map[string]float64) (*Campaign, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Campaign{
		Params:   params,
		Profiles: profiles,
		Prices:   prices,
	}, nil
}

// Run executes the campaign: generate the starting portfolio and trial
// seeds from the setup source, fan the trials out, then aggregate the
// sorted distribution into VaR and decile histories.
func (c *Campaign) Run(ctx context.Context) (*Result, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "montecarlo.Run")
	defer span.End()

	setupSrc := NewSetupSource(c.Params.SetupSeed)

	start := time.Now()
	pf, err := RandomPortfolio(c.Params.Symbols, c.Prices, setupSrc, c.Params.PortfolioBound, c.Params.LotMultiplier)
	if err != nil {
		log.Error().Err(err).Msg("could not generate starting portfolio")
		return nil, err
	}
	initialValue := pf.Value()

	seeds := Seeds(c.Params.TrialCount, setupSrc)
	setupDur := time.Since(start).Round(time.Millisecond)

	start = time.Now()
	trials, err := RunTrials(ctx, seeds, pf, c.Profiles, c.Params.DayCount)
	if err != nil {
		return nil, err
	}
	trialDur := time.Since(start).Round(time.Millisecond)

	start = time.Now()
	SortTrials(trials)
	pnl := PnL(trials, initialValue)

	varValue, err := VaR(pnl, c.Params.RiskFraction)
	if err != nil {
		return nil, err
	}

	histories := make([][]float64, 0, DefaultDecileCount+1)
	for _, seed := range RepresentativeSeeds(trials, DefaultDecileCount) {
		history, err := SimulateWithHistory(seed, pf, c.Profiles, c.Params.DayCount)
		if err != nil {
			return nil, err
		}
		histories = append(histories, history)
	}
	aggDur := time.Since(start).Round(time.Millisecond)

	log.Info().
		Dur("SetupDur", setupDur).
		Dur("TrialDur", trialDur).
		Dur("AggregateDur", aggDur).
		Uint("TrialCount", c.Params.TrialCount).
		Uint("DayCount", c.Params.DayCount).
		Msg("campaign runtime performance")

	return &Result{
		ID:              uuid.New().String(),
		Params:          c.Params,
		InitialValue:    initialValue,
		VaR:             varValue,
		SortedPnL:       pnl,
		DecileHistories: histories,
		ComputedAt:      time.Now(),
	}, nil
}
