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
	"fmt"
	"os"

	"github.com/riskvault/rv-api/common"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// RV secret key
	viper.BindEnv("secret_key", "RV_SECRET")
	rootCmd.PersistentFlags().String("secret-key", "", "Secret encryption key")
	viper.BindPFlag("secret_key", rootCmd.PersistentFlags().Lookup("secret-key"))

	// Auth
	viper.BindEnv("auth.domain", "RV_AUTH_DOMAIN")
	rootCmd.PersistentFlags().String("auth-domain", "", "JWKS auth domain")
	viper.BindPFlag("auth.domain", rootCmd.PersistentFlags().Lookup("auth-domain"))

	// Database
	viper.BindEnv("database.url", "DATABASE_URL")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL connection string")
	viper.BindPFlag("database.url", rootCmd.PersistentFlags().Lookup("database-url"))

	// Quote provider
	viper.BindEnv("quotes.token", "RV_QUOTES_TOKEN")
	rootCmd.PersistentFlags().String("quotes-token", "", "EOD quote provider API token")
	viper.BindPFlag("quotes.token", rootCmd.PersistentFlags().Lookup("quotes-token"))

	// Logging configuration
	viper.BindEnv("log.level", "RV_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "RV_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "RV_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stdout", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	rootCmd.PersistentFlags().Bool("log-pretty", false, "Print logs in a human readable console format")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))

	// Cache
	viper.BindEnv("cache.redis_url", "RV_REDIS_URL")
	rootCmd.PersistentFlags().String("redis-url", "", "Redis connection string for the shared result cache")
	viper.BindPFlag("cache.redis_url", rootCmd.PersistentFlags().Lookup("redis-url"))

	viper.SetDefault("cache.local_size", 64)
	viper.SetDefault("cache.ttl", 3600)
}

var rootCmd = &cobra.Command{
	Use:     "rvapi",
	Version: common.CurrentVersion.String(),
	Short:   "Risk Vault estimates portfolio value-at-risk",
	Long:    `A Monte Carlo simulation service that estimates portfolio Value-at-Risk over a multi-day horizon from historical return statistics.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
