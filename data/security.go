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
	"sort"

	"github.com/riskvault/rv-api/data/database"
	"github.com/rs/zerolog/log"
)

// Security represents a tradeable asset
type Security struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

var securitiesByTicker map[string]*Security

// LoadSecuritiesFromDB populates the in-memory security registry from
// the securities table. Call once at startup; the registry is read-only
// afterwards.
func LoadSecuritiesFromDB(ctx context.Context) error {
	trx, err := database.Trx(ctx)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not get transaction when creating securities list")
		return err
	}

	rows, err := trx.Query(ctx, "SELECT ticker, name FROM securities WHERE active='t'")
	if err != nil {
		log.Error().Err(err).Msg("could not query securities from database")
		if err := trx.Rollback(ctx); err != nil {
			log.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return err
	}

	registry := make(map[string]*Security)
	for rows.Next() {
		var ticker string
		var name string
		if err := rows.Scan(&ticker, &name); err != nil {
			log.Error().Err(err).Msg("could not scan database results")
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return err
		}
		registry[ticker] = &Security{
			Ticker: ticker,
			Name:   name,
		}
	}

	if err := trx.Commit(ctx); err != nil {
		log.Warn().Stack().Err(err).Msg("could not commit transaction")
	}

	securitiesByTicker = registry
	return nil
}

// SecurityFromTicker looks a security up in the registry
func SecurityFromTicker(ticker string) (*Security, error) {
	if s, ok := securitiesByTicker[ticker]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

// SecurityList returns all registered securities sorted by ticker
func SecurityList() []*Security {
	securities := make([]*Security, 0, len(securitiesByTicker))
	for _, s := range securitiesByTicker {
		securities = append(securities, s)
	}
	sort.Slice(securities, func(i, j int) bool {
		return securities[i].Ticker < securities[j].Ticker
	})
	return securities
}
