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

package data

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/asset-arena/arena-api/common"
	"github.com/asset-arena/arena-api/dataframe"
	"github.com/asset-arena/arena-api/observability/opentelemetry"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
)

// Align fetches price history for both instruments plus the reference series
// (broad-market index, volatility index, FX rate), forward-fills gaps, derives
// the synthetic product when requested, and truncates everything to the range
// where all series have valid values.
//
// Every failure is returned as an error carrying one of the sentinel errors of
// this package; Align never panics on bad market data.
func (m *Manager) Align(ctx context.Context, a, b *Instrument, years int) (*dataframe.DataFrame, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "data.Align")
	defer span.End()

	tz := common.GetTimezone()
	end := time.Now().In(tz)
	// the extra year guards against insufficient trading history for the
	// rolling sentiment windows
	begin := end.AddDate(0, 0, -(years*365 + 365))

	symbols := fetchSymbols(a, b)

	key := m.cache.Key(symbols, begin, end)
	if df, ok := m.cache.Get(key); ok {
		log.Debug().Str("Key", key).Msg("aligned dataset served from cache")
		return df, nil
	}

	raw, err := m.provider.GetDataForPeriod(ctx, symbols, begin, end)
	if err != nil {
		return nil, err
	}
	if raw == nil || raw.Len() == 0 {
		return nil, ErrEmptyMarketData
	}

	raw.FillForward()

	df, err := assembleDataset(raw, a, b)
	if err != nil {
		return nil, err
	}

	df.Drop(math.NaN())
	if df.Len() < 2 {
		return nil, ErrInsufficientHistory
	}

	m.cache.Set(key, df)
	return df, nil
}

// fetchSymbols builds the download list: the three reference series, the
// non-synthetic assets, and the local benchmark when a synthetic asset needs
// to be derived from it
func fetchSymbols(a, b *Instrument) []string {
	symbols := []string{SymbolMarketIdx, SymbolVolIdx, SymbolFxRate}

	contains := func(s string) bool {
		for _, v := range symbols {
			if v == s {
				return true
			}
		}
		return false
	}

	for _, instrument := range []*Instrument{a, b} {
		if instrument.Synthetic {
			if !contains(SymbolLocalBenchmark) {
				symbols = append(symbols, SymbolLocalBenchmark)
			}
		} else if !contains(instrument.Symbol) {
			symbols = append(symbols, instrument.Symbol)
		}
	}

	return symbols
}

func assembleDataset(raw *dataframe.DataFrame, a, b *Instrument) (*dataframe.DataFrame, error) {
	df := dataframe.New(raw.Dates)

	for col, symbol := range map[string]string{
		common.ColMarketIdx: SymbolMarketIdx,
		common.ColVolIdx:    SymbolVolIdx,
		common.ColFxRate:    SymbolFxRate,
	} {
		vals := raw.Col(symbol)
		if vals == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingReferenceSeries, symbol)
		}
		df.Insert(col, vals)
	}

	assetA, err := assetColumn(raw, a)
	if err != nil {
		return nil, err
	}
	df.Insert(common.ColAssetA, assetA)

	assetB, err := assetColumn(raw, b)
	if err != nil {
		return nil, err
	}
	df.Insert(common.ColAssetB, assetB)

	return df, nil
}

func assetColumn(raw *dataframe.DataFrame, instrument *Instrument) ([]float64, error) {
	if instrument.Synthetic {
		benchmark := raw.Col(SymbolLocalBenchmark)
		if benchmark == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingReferenceSeries, SymbolLocalBenchmark)
		}
		return SyntheticSeries(benchmark), nil
	}

	vals := raw.Col(instrument.Symbol)
	if vals == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInstrument, instrument.Symbol)
	}
	return vals, nil
}
