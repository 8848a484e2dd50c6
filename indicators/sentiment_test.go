// Copyright 2023-2024
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

package indicators_test

import (
	"math"
	"time"

	"github.com/asset-arena/arena-api/common"
	"github.com/asset-arena/arena-api/dataframe"
	"github.com/asset-arena/arena-api/indicators"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// tradingDays builds a contiguous weekday-agnostic date index; the composite
// only cares about row order, not calendar gaps
func tradingDays(n int) []time.Time {
	tz := common.GetTimezone()
	dates := make([]time.Time, n)
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, tz)
	for idx := range dates {
		dates[idx] = start.AddDate(0, 0, idx)
	}
	return dates
}

var _ = Describe("When computing the sentiment composite", func() {
	Context("with a steady bull market", func() {
		var scores []float64

		BeforeEach(func() {
			n := 140
			market := make([]float64, n)
			vol := make([]float64, n)
			for idx := 0; idx < n; idx++ {
				// rising index, falling volatility; every sub-score is maximal
				market[idx] = 100.0 + float64(idx)
				vol[idx] = 80.0 - 0.25*float64(idx)
			}

			df := dataframe.New(tradingDays(n))
			df.Insert(common.ColMarketIdx, market)
			df.Insert(common.ColVolIdx, vol)

			scores = indicators.Sentiment(df)
		})

		It("returns one score per row", func() {
			Expect(scores).To(HaveLen(140))
		})

		It("is NaN until every rolling window is full", func() {
			for idx := 0; idx < 128; idx++ {
				Expect(math.IsNaN(scores[idx])).Should(BeTrue(), "index %d", idx)
			}
			Expect(math.IsNaN(scores[128])).Should(BeFalse())
		})

		It("saturates at 100 when every sub-score is maximal", func() {
			for idx := 128; idx < 140; idx++ {
				Expect(scores[idx]).Should(BeNumerically("~", 100.0, 1e-9))
			}
		})
	})

	Context("with a choppy market", func() {
		It("stays within [0, 100] once defined", func() {
			n := 200
			market := make([]float64, n)
			vol := make([]float64, n)
			for idx := 0; idx < n; idx++ {
				market[idx] = 100.0 + 10.0*math.Sin(float64(idx)/7.0)
				vol[idx] = 20.0 + 5.0*math.Cos(float64(idx)/11.0)
			}

			df := dataframe.New(tradingDays(n))
			df.Insert(common.ColMarketIdx, market)
			df.Insert(common.ColVolIdx, vol)

			scores := indicators.Sentiment(df)
			defined := 0
			for _, v := range scores {
				if math.IsNaN(v) {
					continue
				}
				defined++
				Expect(v).Should(BeNumerically(">=", 0.0))
				Expect(v).Should(BeNumerically("<=", 100.0))
			}
			Expect(defined).Should(BeNumerically(">", 0))
		})
	})

	Context("with missing reference columns", func() {
		It("returns all NaN", func() {
			df := dataframe.New(tradingDays(10))
			df.Insert(common.ColMarketIdx, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

			scores := indicators.Sentiment(df)
			for _, v := range scores {
				Expect(math.IsNaN(v)).Should(BeTrue())
			}
		})
	})
})

var _ = Describe("When computing relative strength", func() {
	newSeries := func(vals []float64) *dataframe.DataFrame {
		df := dataframe.New(tradingDays(len(vals)))
		df.Insert("close", vals)
		return df
	}

	It("clamps to 100 when there are no losses", func() {
		rsi := indicators.RelativeStrength(newSeries([]float64{1, 2, 3, 4, 5, 6, 7, 8}))
		for _, v := range rsi {
			Expect(v).Should(Equal(100.0))
		}
	})

	It("falls below 50 in a steady decline", func() {
		rsi := indicators.RelativeStrength(newSeries([]float64{8, 7, 6, 5, 4, 3, 2, 1}))
		Expect(rsi[7]).Should(BeNumerically("<", 50.0))
	})

	It("stays within (0, 100) for mixed movement", func() {
		rsi := indicators.RelativeStrength(newSeries([]float64{5, 6, 5, 7, 6, 8, 7, 9}))
		Expect(rsi[7]).Should(BeNumerically(">", 0.0))
		Expect(rsi[7]).Should(BeNumerically("<", 100.0))
	})
})
