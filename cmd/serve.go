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
	"os/signal"
	"runtime/pprof"
	"runtime/trace"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/riskvault/rv-api/common"
	"github.com/riskvault/rv-api/data"
	"github.com/riskvault/rv-api/data/database"
	"github.com/riskvault/rv-api/jwks"
	"github.com/riskvault/rv-api/middleware"
	"github.com/riskvault/rv-api/observability/opentelemetry"
	"github.com/riskvault/rv-api/router"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveProfile bool
	serveTrace   bool
)

func init() {
	viper.BindEnv("server.port", "PORT")
	serveCmd.Flags().IntP("port", "p", 3000, "Port to run application server on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	serveCmd.Flags().BoolVar(&serveProfile, "profile", false, "Write a CPU profile to profile.out")
	serveCmd.Flags().BoolVar(&serveTrace, "trace", false, "Write an execution trace to trace.out")

	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the rv-api server",
	Long:  `Run HTTP server that implements the RiskVault API`,
	Run: func(cmd *cobra.Command, args []string) {
		if serveProfile {
			f, err := os.Create("profile.out")
			if err != nil {
				log.Fatal().Err(err).Msg("could not create profile output file")
			}
			pprof.StartCPUProfile(f)
			defer pprof.StopCPUProfile()
		}

		if serveTrace {
			f, err := os.Create("trace.out")
			if err != nil {
				log.Fatal().Err(err).Msg("could not create trace output file")
			}
			defer func() {
				if err := f.Close(); err != nil {
					log.Fatal().Err(err).Msg("could not close trace file")
				}
			}()

			if err := trace.Start(f); err != nil {
				log.Fatal().Err(err).Msg("could not start trace")
			}
			defer trace.Stop()
		}

		common.SetupLogging()
		common.SetupCache()
		log.Info().Msg("initialized logging")

		shutdownTracer, err := opentelemetry.Setup()
		if err != nil {
			log.Fatal().Err(err).Msg("could not initialize opentelemetry")
		}
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				log.Error().Err(err).Msg("tracer shutdown failed")
			}
		}()

		// setup database
		if err := database.Connect(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}

		if err := data.LoadSecuritiesFromDB(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("could not load securities")
		}
		log.Info().Msg("loaded security registry")

		// Create new Fiber instance
		app := fiber.New()

		// shutdown cleanly on interrupt
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		go func() {
			sig := <-c // block until signal is read
			fmt.Printf("Received signal: '%s'; shutting down...\n", sig.String())
			if err := app.Shutdown(); err != nil {
				log.Fatal().Err(err).Msg("server shutdown failed")
			}
		}()

		// Configure CORS
		corsConfig := cors.Config{
			AllowOrigins: "http://localhost:8080, https://www.riskvault.app",
			AllowHeaders: "*",
			AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		}
		app.Use(cors.New(corsConfig))

		// Setup logging middleware
		app.Use(middleware.NewLogger())

		// Configure authentication
		jwksAutoRefresh, jwksURL := jwks.SetupJWKS()

		// Setup routes
		router.SetupRoutes(app, jwksAutoRefresh, jwksURL)

		// refresh quotes nightly after the US close
		tz := common.GetTimezone()
		scheduler := gocron.NewScheduler(tz)
		scheduler.Every(1).Day().At("18:30").Do(refreshQuotes)
		scheduler.StartAsync()

		// Start server on http://${host}:${port}
		if err := app.Listen(":" + viper.GetString("server.port")); err != nil {
			log.Fatal().Err(err).Msg("server exited with error")
		}
	},
}

func refreshQuotes() {
	ctx := context.Background()
	provider := data.NewQuoteProvider(viper.GetString("quotes.token"))

	symbols := make([]string, 0)
	for _, security := range data.SecurityList() {
		symbols = append(symbols, security.Ticker)
	}
	if len(symbols) == 0 {
		log.Warn().Msg("no securities registered; skipping quote refresh")
		return
	}

	end := time.Now().In(common.GetTimezone())
	begin := end.AddDate(0, 0, -7)
	if err := data.UpdateEod(ctx, provider, symbols, begin, end); err != nil {
		log.Error().Err(err).Msg("nightly quote refresh failed")
	} else {
		log.Info().Int("NumSymbols", len(symbols)).Msg("nightly quote refresh complete")
	}
}
