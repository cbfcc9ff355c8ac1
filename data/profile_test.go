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

package data_test

import (
	"context"
	"regexp"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pashagolub/pgxmock"

	"github.com/riskvault/rv-api/data"
	"github.com/riskvault/rv-api/data/database"
)

const (
	profileSQL = "SELECT ticker, close FROM eod WHERE ticker = ANY($1) ORDER BY ticker, event_date"
	priceSQL   = "SELECT DISTINCT ON (ticker) ticker, close FROM eod WHERE ticker = ANY($1) ORDER BY ticker, event_date DESC"
)

var _ = Describe("ReturnProfiles", func() {
	var mock pgxmock.PgxConnIface

	BeforeEach(func() {
		var err error
		mock, err = pgxmock.NewConn()
		Expect(err).To(BeNil())
		database.SetPool(mock)
	})

	Describe("when the eod table has history", func() {
		BeforeEach(func() {
			mock.ExpectBegin()
			mock.ExpectQuery(regexp.QuoteMeta(profileSQL)).
				WithArgs([]string{"AAA", "BBB"}).
				WillReturnRows(pgxmock.NewRows([]string{"ticker", "close"}).
					AddRow("AAA", 100.0).
					AddRow("AAA", 110.0).
					AddRow("AAA", 121.0).
					AddRow("BBB", 50.0).
					AddRow("BBB", 51.0).
					AddRow("BBB", 51.0))
			mock.ExpectCommit()
		})

		It("should compute the mean daily percentage change", func() {
			profiles, err := data.ReturnProfiles(context.Background(), []string{"AAA", "BBB"})
			Expect(err).To(BeNil())
			Expect(profiles).To(HaveLen(2))
			Expect(profiles["AAA"].Mean).To(BeNumerically("~", 10.0, 1e-9))
			Expect(profiles["BBB"].Mean).To(BeNumerically("~", 1.0, 1e-9))
		})

		It("should compute the sample standard deviation", func() {
			profiles, err := data.ReturnProfiles(context.Background(), []string{"AAA", "BBB"})
			Expect(err).To(BeNil())
			Expect(profiles["AAA"].StdDev).To(BeNumerically("~", 0.0, 1e-9))
			Expect(profiles["BBB"].StdDev).To(BeNumerically(">", 0.0))
		})
	})

	Describe("when a symbol has too little history", func() {
		BeforeEach(func() {
			mock.ExpectBegin()
			mock.ExpectQuery(regexp.QuoteMeta(profileSQL)).
				WithArgs([]string{"AAA"}).
				WillReturnRows(pgxmock.NewRows([]string{"ticker", "close"}).
					AddRow("AAA", 100.0))
			mock.ExpectCommit()
		})

		It("should fail rather than fabricate a profile", func() {
			_, err := data.ReturnProfiles(context.Background(), []string{"AAA"})
			Expect(err).To(MatchError(data.ErrInsufficientHistory))
		})
	})
})

var _ = Describe("LatestPrices", func() {
	var mock pgxmock.PgxConnIface

	BeforeEach(func() {
		var err error
		mock, err = pgxmock.NewConn()
		Expect(err).To(BeNil())
		database.SetPool(mock)
	})

	Describe("when every symbol has a quote", func() {
		BeforeEach(func() {
			mock.ExpectBegin()
			mock.ExpectQuery(regexp.QuoteMeta(priceSQL)).
				WithArgs([]string{"AAA", "BBB"}).
				WillReturnRows(pgxmock.NewRows([]string{"ticker", "close"}).
					AddRow("AAA", 121.0).
					AddRow("BBB", 51.0))
			mock.ExpectCommit()
		})

		It("should return the most recent close per symbol", func() {
			prices, err := data.LatestPrices(context.Background(), []string{"AAA", "BBB"})
			Expect(err).To(BeNil())
			Expect(prices).To(Equal(map[string]float64{"AAA": 121.0, "BBB": 51.0}))
		})
	})

	Describe("when a symbol has no quote on record", func() {
		BeforeEach(func() {
			mock.ExpectBegin()
			mock.ExpectQuery(regexp.QuoteMeta(priceSQL)).
				WithArgs([]string{"AAA", "ZZZZ"}).
				WillReturnRows(pgxmock.NewRows([]string{"ticker", "close"}).
					AddRow("AAA", 121.0))
			mock.ExpectCommit()
		})

		It("should fail the lookup", func() {
			_, err := data.LatestPrices(context.Background(), []string{"AAA", "ZZZZ"})
			Expect(err).To(MatchError(data.ErrNoPrice))
		})
	})
})
