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

package data_test

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/asset-arena/arena-api/common"
	"github.com/asset-arena/arena-api/data"
	"github.com/asset-arena/arena-api/dataframe"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeProvider struct {
	df  *dataframe.DataFrame
	err error
}

func (p *fakeProvider) GetDataForPeriod(_ context.Context, _ []string, _, _ time.Time) (*dataframe.DataFrame, error) {
	return p.df, p.err
}

func referenceDataset(dates []time.Time) *dataframe.DataFrame {
	n := len(dates)
	market := make([]float64, n)
	vol := make([]float64, n)
	fx := make([]float64, n)
	for idx := range dates {
		market[idx] = 3700.0 + float64(idx)
		vol[idx] = 22.0 - 0.1*float64(idx)
		fx[idx] = 1300.0 + float64(idx)
	}

	df := dataframe.New(dates)
	df.Insert(data.SymbolMarketIdx, market)
	df.Insert(data.SymbolVolIdx, vol)
	df.Insert(data.SymbolFxRate, fx)
	return df
}

var _ = Describe("When aligning market data", func() {
	var (
		ctx   context.Context
		dates []time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		dates = seoulDays(5)
	})

	Context("with two listed instruments", func() {
		var manager *data.Manager

		BeforeEach(func() {
			raw := referenceDataset(dates)
			// a quote gap on day 2 and a late listing on day 0
			raw.Insert("FRGN1", []float64{400, 401, math.NaN(), 403, 404})
			raw.Insert("LOCL1.KS", []float64{math.NaN(), 70000, 70100, 70200, 70300})

			manager = data.NewManager(&fakeProvider{df: raw})
		})

		It("forward-fills gaps and drops rows outside the shared range", func() {
			df, err := manager.Align(ctx,
				&data.Instrument{Symbol: "FRGN1"},
				&data.Instrument{Symbol: "LOCL1.KS", Domestic: true}, 1)
			Expect(err).To(BeNil())

			// day 0 is dropped; the day-2 quote gap is filled from day 1
			Expect(df.Len()).To(Equal(4))
			Expect(df.Dates[0]).To(Equal(dates[1]))
			Expect(df.Col(common.ColAssetA)).To(Equal([]float64{401, 401, 403, 404}))
			Expect(df.Col(common.ColAssetB)).To(Equal([]float64{70000, 70100, 70200, 70300}))
		})

		It("carries the reference series under canonical column names", func() {
			df, err := manager.Align(ctx,
				&data.Instrument{Symbol: "FRGN1"},
				&data.Instrument{Symbol: "LOCL1.KS", Domestic: true}, 1)
			Expect(err).To(BeNil())

			Expect(df.ColIndex(common.ColMarketIdx)).ToNot(Equal(-1))
			Expect(df.ColIndex(common.ColVolIdx)).ToNot(Equal(-1))
			Expect(df.Col(common.ColFxRate)).To(Equal([]float64{1301, 1302, 1303, 1304}))
		})
	})

	Context("with a synthetic instrument", func() {
		It("derives the product from the local benchmark", func() {
			raw := referenceDataset(dates)
			raw.Insert(data.SymbolLocalBenchmark, []float64{3000, 3010, 3005, 3020, 3025})
			raw.Insert("FRGN2", []float64{400, 401, 402, 403, 404})

			manager := data.NewManager(&fakeProvider{df: raw})
			df, err := manager.Align(ctx,
				&data.Instrument{Symbol: data.SyntheticSymbol, Domestic: true, Synthetic: true},
				&data.Instrument{Symbol: "FRGN2"}, 1)
			Expect(err).To(BeNil())
			Expect(df.Len()).To(Equal(5))

			derived := df.Col(common.ColAssetA)
			Expect(derived[0]).Should(BeNumerically("~", 10000.0*(1.0+data.DailyPremium()), 1e-9))
			for _, v := range derived {
				Expect(v).Should(BeNumerically(">", 0.0))
			}
		})
	})

	Context("with degenerate provider output", func() {
		It("propagates provider errors", func() {
			manager := data.NewManager(&fakeProvider{err: data.ErrFetchFailure})
			_, err := manager.Align(ctx,
				&data.Instrument{Symbol: "FRGN3"},
				&data.Instrument{Symbol: "FRGN4"}, 1)
			Expect(errors.Is(err, data.ErrFetchFailure)).To(BeTrue())
		})

		It("errors on an empty dataset", func() {
			manager := data.NewManager(&fakeProvider{df: dataframe.New([]time.Time{})})
			_, err := manager.Align(ctx,
				&data.Instrument{Symbol: "FRGN5"},
				&data.Instrument{Symbol: "FRGN6"}, 1)
			Expect(errors.Is(err, data.ErrEmptyMarketData)).To(BeTrue())
		})

		It("errors when a reference series is missing", func() {
			raw := dataframe.New(dates)
			raw.Insert(data.SymbolVolIdx, []float64{20, 20, 20, 20, 20})
			raw.Insert(data.SymbolFxRate, []float64{1300, 1300, 1300, 1300, 1300})
			raw.Insert("FRGN7", []float64{1, 2, 3, 4, 5})
			raw.Insert("FRGN8", []float64{1, 2, 3, 4, 5})

			manager := data.NewManager(&fakeProvider{df: raw})
			_, err := manager.Align(ctx,
				&data.Instrument{Symbol: "FRGN7"},
				&data.Instrument{Symbol: "FRGN8"}, 1)
			Expect(errors.Is(err, data.ErrMissingReferenceSeries)).To(BeTrue())
		})

		It("errors when an asset has no quotes at all", func() {
			raw := referenceDataset(dates)
			raw.Insert("FRGN9", []float64{1, 2, 3, 4, 5})

			manager := data.NewManager(&fakeProvider{df: raw})
			_, err := manager.Align(ctx,
				&data.Instrument{Symbol: "FRGN9"},
				&data.Instrument{Symbol: "NOQUOTES"}, 1)
			Expect(errors.Is(err, data.ErrUnknownInstrument)).To(BeTrue())
		})

		It("errors when the shared history is too short", func() {
			raw := referenceDataset(dates)
			raw.Insert("FRGN10", []float64{1, 2, 3, 4, 5})
			raw.Insert("LATE.KS", []float64{math.NaN(), math.NaN(), math.NaN(), math.NaN(), 100})

			manager := data.NewManager(&fakeProvider{df: raw})
			_, err := manager.Align(ctx,
				&data.Instrument{Symbol: "FRGN10"},
				&data.Instrument{Symbol: "LATE.KS", Domestic: true}, 1)
			Expect(errors.Is(err, data.ErrInsufficientHistory)).To(BeTrue())
		})
	})
})
