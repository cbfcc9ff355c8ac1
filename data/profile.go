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

package data

import (
	"context"
	"fmt"

	"github.com/riskvault/rv-api/data/database"
	"github.com/riskvault/rv-api/montecarlo"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
)

// profileFromCloses computes the daily percentage-change distribution
// parameters from an ordered series of closing prices. Changes are in
// percentage points: (close/prevClose - 1) * 100, the unit convention
// the simulation engine's (x+100)/100 factor expects.
func profileFromCloses(closes []float64) (montecarlo.ReturnProfile, error) {
	if len(closes) < 2 {
		return montecarlo.ReturnProfile{}, ErrInsufficientHistory
	}

	changes := make([]float64, 0, len(closes)-1)
	for ii := 1; ii < len(closes); ii++ {
		changes = append(changes, (closes[ii]/closes[ii-1]-1)*100)
	}

	mean := stat.Mean(changes, nil)
	stddev := 0.0
	if len(changes) > 1 {
		stddev = stat.StdDev(changes, nil)
	}

	return montecarlo.NewReturnProfile(mean, stddev)
}

// ReturnProfiles loads the EOD close history for each symbol and
// derives its return profile. Every requested symbol must have at least
// two closes on record.
func ReturnProfiles(ctx context.Context, symbols []string) (map[string]montecarlo.ReturnProfile, error) {
	trx, err := database.Trx(ctx)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not get transaction for return profiles")
		return nil, err
	}

	sql := "SELECT ticker, close FROM eod WHERE ticker = ANY($1) ORDER BY ticker, event_date"
	rows, err := trx.Query(ctx, sql, symbols)
	if err != nil {
		log.Error().Err(err).Str("Query", sql).Msg("could not query eod closes")
		if err := trx.Rollback(ctx); err != nil {
			log.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	closesByTicker := make(map[string][]float64, len(symbols))
	for rows.Next() {
		var ticker string
		var close float64
		if err := rows.Scan(&ticker, &close); err != nil {
			log.Error().Err(err).Msg("could not scan eod row")
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return nil, err
		}
		closesByTicker[ticker] = append(closesByTicker[ticker], close)
	}

	if err := trx.Commit(ctx); err != nil {
		log.Warn().Stack().Err(err).Msg("could not commit transaction")
	}

	profiles := make(map[string]montecarlo.ReturnProfile, len(symbols))
	for _, symbol := range symbols {
		closes, ok := closesByTicker[symbol]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientHistory, symbol)
		}
		profile, err := profileFromCloses(closes)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, symbol)
		}
		profiles[symbol] = profile
	}

	return profiles, nil
}

// LatestPrices returns the most recent EOD close for each symbol.
func LatestPrices(ctx context.Context, symbols []string) (map[string]float64, error) {
	trx, err := database.Trx(ctx)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not get transaction for latest prices")
		return nil, err
	}

	sql := "SELECT DISTINCT ON (ticker) ticker, close FROM eod WHERE ticker = ANY($1) ORDER BY ticker, event_date DESC"
	rows, err := trx.Query(ctx, sql, symbols)
	if err != nil {
		log.Error().Err(err).Str("Query", sql).Msg("could not query latest prices")
		if err := trx.Rollback(ctx); err != nil {
			log.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	prices := make(map[string]float64, len(symbols))
	for rows.Next() {
		var ticker string
		var close float64
		if err := rows.Scan(&ticker, &close); err != nil {
			log.Error().Err(err).Msg("could not scan price row")
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return nil, err
		}
		prices[ticker] = close
	}

	if err := trx.Commit(ctx); err != nil {
		log.Warn().Stack().Err(err).Msg("could not commit transaction")
	}

	for _, symbol := range symbols {
		if _, ok := prices[symbol]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoPrice, symbol)
		}
	}

	return prices, nil
}
