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
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/riskvault/rv-api/common"
	"github.com/riskvault/rv-api/data"
	"github.com/riskvault/rv-api/data/database"
	"github.com/riskvault/rv-api/montecarlo"
	"github.com/rs/zerolog/log"

	"github.com/spf13/cobra"
)

var (
	simTrials    uint
	simDays      uint
	simRisk      float64
	simSeed      uint64
	simBound     uint
	simLot       uint
	simPrintJSON bool
)

func init() {
	simulateCmd.Flags().UintVar(&simTrials, "trials", 10_000, "Number of independent trials to run")
	simulateCmd.Flags().UintVar(&simDays, "days", 20, "Number of simulated trading days")
	simulateCmd.Flags().Float64Var(&simRisk, "risk", 0.05, "Risk fraction for VaR extraction, in [0, 1)")
	simulateCmd.Flags().Uint64Var(&simSeed, "seed", 42, "Seed for the campaign setup random source")
	simulateCmd.Flags().UintVar(&simBound, "bound", montecarlo.DefaultPortfolioBound, "Upper bound of the random portfolio multiplier")
	simulateCmd.Flags().UintVar(&simLot, "lot", montecarlo.DefaultLotMultiplier, "Lot size multiplier for random portfolio quantities")
	simulateCmd.Flags().BoolVar(&simPrintJSON, "json", false, "Print the full result as JSON")

	rootCmd.AddCommand(simulateCmd)
}

var simulateCmd = &cobra.Command{
	Use:        "simulate [flags] TICKER...",
	Short:      "Run a Monte Carlo VaR campaign for the given securities",
	Args:       cobra.MinimumNArgs(1),
	ArgAliases: []string{"TICKER"},
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		ctx := context.Background()

		if err := database.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}

		symbols := make([]string, len(args))
		copy(symbols, args)
		common.ArrToUpper(symbols)

		params := montecarlo.Parameters{
			Symbols:        symbols,
			TrialCount:     simTrials,
			DayCount:       simDays,
			RiskFraction:   simRisk,
			PortfolioBound: simBound,
			LotMultiplier:  simLot,
			SetupSeed:      simSeed,
		}

		profiles, err := data.ReturnProfiles(ctx, symbols)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load return profiles")
		}

		prices, err := data.LatestPrices(ctx, symbols)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load latest prices")
		}

		campaign, err := montecarlo.NewCampaign(params, profiles, prices)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid campaign parameters")
		}

		result, err := campaign.Run(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("campaign failed")
		}

		if simPrintJSON {
			raw, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				log.Fatal().Err(err).Msg("could not marshal result")
			}
			fmt.Println(string(raw))
			return
		}

		fmt.Printf("Campaign:        %s\n", result.ID)
		fmt.Printf("Initial Value:   %.2f\n", result.InitialValue)
		fmt.Printf("Trials:          %d\n", len(result.SortedPnL))
		fmt.Printf("VaR (alpha=%.3f): %.2f\n", simRisk, result.VaR)
		fmt.Printf("Worst outcome:   %.2f\n", result.SortedPnL[0])
		fmt.Printf("Best outcome:    %.2f\n", result.SortedPnL[len(result.SortedPnL)-1])

		fmt.Println("\nDecile paths (final value):")
		for ii, history := range result.DecileHistories {
			fmt.Printf("  %3d%%\t%.2f\n", ii*10, history[len(history)-1])
		}

		if result.VaR < 0 {
			fmt.Fprintf(os.Stdout, "\nWith %.0f%% confidence the portfolio will not lose more than %.2f over %d days\n",
				(1-simRisk)*100, -result.VaR, simDays)
		}
	},
}
