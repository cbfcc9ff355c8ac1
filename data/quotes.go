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
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/riskvault/rv-api/data/database"
	"github.com/riskvault/rv-api/observability/opentelemetry"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var quoteAPI = "https://api.tiingo.com"

// Quote is a single end-of-day price observation.
type Quote struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// QuoteProvider downloads EOD quotes from the upstream price service.
type QuoteProvider struct {
	apikey string
}

func NewQuoteProvider(key string) *QuoteProvider {
	return &QuoteProvider{apikey: key}
}

// Quotes fetches the EOD closes for symbol over [begin, end].
func (p *QuoteProvider) Quotes(ctx context.Context, symbol string, begin time.Time, end time.Time) ([]Quote, error) {
	_, span := otel.Tracer(opentelemetry.Name).Start(ctx, "quotes.Quotes")
	defer span.End()

	subLog := log.With().Str("Symbol", symbol).Time("Begin", begin).Time("End", end).Logger()

	url := fmt.Sprintf("%s/tiingo/daily/%s/prices?startDate=%s&endDate=%s&token=%s",
		quoteAPI, symbol, begin.Format("2006-01-02"), end.Format("2006-01-02"), p.apikey)

	span.SetAttributes(attribute.KeyValue{
		Key:   "Symbol",
		Value: attribute.StringValue(symbol),
	})

	resp, err := http.Get(url)
	if err != nil {
		span.RecordError(err)
		msg := "quote http request failed"
		span.SetStatus(codes.Error, msg)
		subLog.Error().Err(err).Msg(msg)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		span.SetAttributes(attribute.KeyValue{
			Key:   "StatusCode",
			Value: attribute.IntValue(resp.StatusCode),
		})
		msg := "quote provider returned invalid response code"
		span.SetStatus(codes.Error, msg)
		subLog.Error().Int("HTTPResponseStatusCode", resp.StatusCode).Msg(msg)
		return nil, fmt.Errorf("%w: status code %d", ErrInvalidResponse, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		subLog.Error().Err(err).Msg("could not read quote response body")
		return nil, err
	}

	quotes := []Quote{}
	if err := json.Unmarshal(body, &quotes); err != nil {
		subLog.Error().Err(err).Msg("could not unmarshal quote response")
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, err.Error())
	}

	return quotes, nil
}

// UpdateEod downloads quotes for each symbol and upserts them into the
// eod table. This is the nightly refresh feeding ReturnProfiles and
// LatestPrices.
func UpdateEod(ctx context.Context, provider *QuoteProvider, symbols []string, begin time.Time, end time.Time) error {
	trx, err := database.Trx(ctx)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not get transaction for eod update")
		return err
	}

	sql := `INSERT INTO eod (ticker, event_date, close) VALUES ($1, $2, $3)
		ON CONFLICT (ticker, event_date) DO UPDATE SET close = EXCLUDED.close`

	for _, symbol := range symbols {
		quotes, err := provider.Quotes(ctx, symbol, begin, end)
		if err != nil {
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return err
		}

		for _, quote := range quotes {
			if _, err := trx.Exec(ctx, sql, symbol, quote.Date, quote.Close); err != nil {
				log.Error().Err(err).Str("Ticker", symbol).Msg("could not upsert eod quote")
				if err := trx.Rollback(ctx); err != nil {
					log.Error().Stack().Err(err).Msg("could not rollback transaction")
				}
				return err
			}
		}

		log.Info().Str("Ticker", symbol).Int("NumQuotes", len(quotes)).Msg("updated eod quotes")
	}

	return trx.Commit(ctx)
}
