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

package cmd

import (
	"context"
	"time"

	"github.com/riskvault/rv-api/common"
	"github.com/riskvault/rv-api/data"
	"github.com/riskvault/rv-api/data/database"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	updateBeginDate string
	updateEndDate   string
)

func init() {
	updateCmd.Flags().StringVar(&updateBeginDate, "begin", "", "First date to fetch quotes for, as YYYY-MM-dd (default: 7 days ago)")
	updateCmd.Flags().StringVar(&updateEndDate, "end", "", "Last date to fetch quotes for, as YYYY-MM-dd (default: today)")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update [flags] [TICKER...]",
	Short: "Fetch end-of-day quotes and store them in the database",
	Long: `Fetch end-of-day quotes from the quote provider for the requested
securities and upsert them into the eod table. With no tickers given all
registered securities are updated.`,
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		log.Info().Msg("initialized logging")

		ctx := context.Background()
		if err := database.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}

		tz := common.GetTimezone()
		end := time.Now().In(tz)
		if updateEndDate != "" {
			dt, err := time.Parse("2006-01-02", updateEndDate)
			if err != nil {
				log.Fatal().Err(err).Str("InputStr", updateEndDate).Msg("could not parse end date - expected format 2006-01-02")
			}
			end = time.Date(dt.Year(), dt.Month(), dt.Day(), 18, 0, 0, 0, tz)
		}

		begin := end.AddDate(0, 0, -7)
		if updateBeginDate != "" {
			dt, err := time.Parse("2006-01-02", updateBeginDate)
			if err != nil {
				log.Fatal().Err(err).Str("InputStr", updateBeginDate).Msg("could not parse begin date - expected format 2006-01-02")
			}
			begin = time.Date(dt.Year(), dt.Month(), dt.Day(), 0, 0, 0, 0, tz)
		}

		var symbols []string
		if len(args) > 0 {
			symbols = make([]string, len(args))
			copy(symbols, args)
			common.ArrToUpper(symbols)
		} else {
			if err := data.LoadSecuritiesFromDB(ctx); err != nil {
				log.Fatal().Err(err).Msg("could not load securities")
			}
			for _, security := range data.SecurityList() {
				symbols = append(symbols, security.Ticker)
			}
		}

		if len(symbols) == 0 {
			log.Fatal().Msg("no securities to update")
		}

		provider := data.NewQuoteProvider(viper.GetString("quotes.token"))
		log.Info().Int("NumSymbols", len(symbols)).Time("Begin", begin).Time("End", end).Msg("updating quotes")

		if err := data.UpdateEod(ctx, provider, symbols, begin, end); err != nil {
			log.Fatal().Err(err).Msg("quote update failed")
		}

		log.Info().Msg("finished updating quotes")
	},
}
