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
 * Runs the two strategies side by side over an aligned dataset:
 *
 * passive ("buy & hold"): invests the initial principal on day 0 and every
 * monthly contribution the day a new calendar month starts; never sells.
 *
 * tactical: holds the same cash flows but only enters the market on fear
 * (sentiment <= 20, full buy) and exits on greed (sentiment >= 80, full
 * sell). The position is all-or-nothing; it is fully invested or fully in
 * cash, never partially positioned.
 *
 * Foreign-currency instruments convert contributions on receipt and
 * valuations through the same day's FX rate.
 */

package simulator

import (
	"errors"
	"math"

	"github.com/asset-arena/arena-api/common"
	"github.com/asset-arena/arena-api/data"
	"github.com/asset-arena/arena-api/dataframe"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// trigger thresholds; both bounds are inclusive
	fearThreshold  = 20.0
	greedThreshold = 80.0
)

var (
	ErrEmptyDataset     = errors.New("dataset contains no rows")
	ErrMissingColumn    = errors.New("dataset is missing a required column")
	ErrSentimentLength  = errors.New("sentiment series does not align with dataset")
	ErrInvalidPrincipal = errors.New("initial principal must be positive")
)

// Result holds one instrument's simulation output. Passive and Tactical are
// home-currency valuation series aligned 1:1 with the input dates.
type Result struct {
	ID            uuid.UUID `json:"id"`
	TotalInvested float64   `json:"totalInvested"`
	Passive       []float64 `json:"passive"`
	Tactical      []float64 `json:"tactical"`
}

// Run simulates both strategies for one instrument over the aligned dataset.
// The dataset is assumed fully aligned and null-free; callers must not pass a
// failed alignment result.
func Run(df *dataframe.DataFrame, sentiment []float64, instrument *data.Instrument, assetCol string, initial, monthly float64) (*Result, error) {
	if df.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	if len(sentiment) != df.Len() {
		return nil, ErrSentimentLength
	}
	if initial <= 0 {
		return nil, ErrInvalidPrincipal
	}

	prices := df.Col(assetCol)
	fxRates := df.Col(common.ColFxRate)
	if prices == nil || fxRates == nil {
		return nil, ErrMissingColumn
	}

	// foreign instruments hold shares and cash in the foreign currency;
	// contributions convert on the way in, valuations on the way out
	foreign := !instrument.Domestic

	convert := func(amount float64, rate float64) float64 {
		if foreign {
			return amount / rate
		}
		return amount
	}

	passiveShares := convert(initial, fxRates[0]) / prices[0]
	tacticalCash := convert(initial, fxRates[0])
	tacticalShares := 0.0
	totalInvested := initial

	passive := make([]float64, df.Len())
	tactical := make([]float64, df.Len())

	prevMonth := df.Dates[0].Month()

	for idx, date := range df.Dates {
		price := prices[idx]
		rate := fxRates[idx]

		// monthly contribution fires once per calendar-month transition
		if date.Month() != prevMonth {
			totalInvested += monthly
			contribution := convert(monthly, rate)
			passiveShares += contribution / price
			tacticalCash += contribution
			prevMonth = date.Month()
		}

		// tactical trigger; NaN sentiment (warm-up) trades nothing
		score := sentiment[idx]
		switch {
		case score <= fearThreshold && tacticalCash > 0:
			tacticalShares += tacticalCash / price
			tacticalCash = 0
		case score >= greedThreshold && tacticalShares > 0:
			tacticalCash += tacticalShares * price
			tacticalShares = 0
		}

		passiveValue := passiveShares * price
		tacticalValue := tacticalShares*price + tacticalCash
		if foreign {
			passiveValue *= rate
			tacticalValue *= rate
		}

		passive[idx] = passiveValue
		tactical[idx] = tacticalValue
	}

	if math.IsNaN(passive[len(passive)-1]) {
		log.Warn().Str("Instrument", instrument.Symbol).Msg("simulation produced NaN valuations; dataset was not fully aligned")
	}

	return &Result{
		ID:            uuid.New(),
		TotalInvested: totalInvested,
		Passive:       passive,
		Tactical:      tactical,
	}, nil
}
