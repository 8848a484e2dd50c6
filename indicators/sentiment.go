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

/*
 * Fear/greed sentiment composite
 *
 * Three daily sub-scores derived from the broad-market index and the
 * volatility index:
 *   momentum:   100 when the index trades above its 125-day SMA, else 0
 *   volatility: 100 when the vol index trades below its 50-day SMA, else 0
 *   RSI:        14-period relative strength, exponentially weighted with a
 *               center of mass of 13
 * The composite is 0.3*momentum + 0.3*volatility + 0.4*RSI, smoothed with a
 * trailing 5-day SMA and clamped to [0, 100]. Scores are NaN until every
 * rolling window is full; consumers treat NaN as "no signal".
 */

package indicators

import (
	"math"
	"time"

	"github.com/asset-arena/arena-api/common"
	"github.com/asset-arena/arena-api/dataframe"
	"github.com/rs/zerolog/log"
)

const (
	momentumWindow   = 125
	volatilityWindow = 50
	rsiCenterOfMass  = 13.0
	smoothingWindow  = 5

	momentumWeight   = 0.3
	volatilityWeight = 0.3
	rsiWeight        = 0.4
)

// Sentiment computes the per-date fear/greed score from the aligned dataset's
// reference columns. The returned slice aligns 1:1 with df.Dates; warm-up
// rows are NaN.
func Sentiment(df *dataframe.DataFrame) []float64 {
	market := singleColumn(df, common.ColMarketIdx)
	vol := singleColumn(df, common.ColVolIdx)
	if market == nil || vol == nil {
		log.Error().Msg("sentiment requires the market and volatility reference columns")
		return nanSlice(df.Len())
	}

	momentum := regimeScore(market, market.SMA(momentumWindow), above)
	volatility := regimeScore(vol, vol.SMA(volatilityWindow), below)
	rsi := RelativeStrength(market)

	composite := make([]float64, df.Len())
	for idx := range composite {
		if idx < momentumWindow-1 {
			composite[idx] = math.NaN()
			continue
		}
		composite[idx] = momentumWeight*momentum[idx] +
			volatilityWeight*volatility[idx] +
			rsiWeight*rsi[idx]
	}

	smoothed := (&dataframe.DataFrame{
		Dates:    df.Dates,
		ColNames: []string{"composite"},
		Vals:     [][]float64{composite},
	}).SMA(smoothingWindow).Clip(0, 100)

	return smoothed.Vals[0]
}

// RelativeStrength computes the classic RSI from the column's daily changes
// using exponentially weighted gain/loss averages. A window with no losses
// yields 100 rather than a division by zero.
func RelativeStrength(df *dataframe.DataFrame) []float64 {
	delta := df.Diff()

	gains := make([]float64, df.Len())
	losses := make([]float64, df.Len())
	for idx, d := range delta.Vals[0] {
		switch {
		case math.IsNaN(d):
			// first row has no change; counts as neither gain nor loss
		case d > 0:
			gains[idx] = d
		default:
			losses[idx] = -d
		}
	}

	gainAvg := ewm(gains, rsiCenterOfMass)
	lossAvg := ewm(losses, rsiCenterOfMass)

	rsi := make([]float64, df.Len())
	for idx := range rsi {
		if lossAvg[idx] == 0 {
			rsi[idx] = 100
			continue
		}
		rs := gainAvg[idx] / lossAvg[idx]
		rsi[idx] = 100 - 100/(1+rs)
	}

	return rsi
}

type comparison int

const (
	above comparison = iota
	below
)

// regimeScore emits 100 where the value is on the favorable side of its
// moving average and 0 elsewhere; NaN averages (warm-up) score 0
func regimeScore(df, sma *dataframe.DataFrame, cmp comparison) []float64 {
	score := make([]float64, df.Len())
	for idx, v := range df.Vals[0] {
		avg := sma.Vals[0][idx]
		hit := false
		if cmp == above {
			hit = v > avg
		} else {
			hit = v < avg
		}
		if hit {
			score[idx] = 100
		}
	}
	return score
}

func ewm(vals []float64, com float64) []float64 {
	df := &dataframe.DataFrame{
		ColNames: []string{"v"},
		Dates:    make([]time.Time, len(vals)),
		Vals:     [][]float64{vals},
	}
	return df.EWM(com).Vals[0]
}

func singleColumn(df *dataframe.DataFrame, colName string) *dataframe.DataFrame {
	col := df.Col(colName)
	if col == nil {
		return nil
	}
	return &dataframe.DataFrame{
		Dates:    df.Dates,
		ColNames: []string{colName},
		Vals:     [][]float64{col},
	}
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for idx := range out {
		out[idx] = math.NaN()
	}
	return out
}
