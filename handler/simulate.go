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

package handler

import (
	"errors"
	"math"
	"strconv"
	"sync"

	"github.com/asset-arena/arena-api/common"
	"github.com/asset-arena/arena-api/data"
	"github.com/asset-arena/arena-api/indicators"
	"github.com/asset-arena/arena-api/resolver"
	"github.com/asset-arena/arena-api/simulator"
	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type SimulateRequest struct {
	AssetA  string  `json:"assetA"`
	AssetB  string  `json:"assetB"`
	Years   int     `json:"years"`
	Initial float64 `json:"initial"`
	Monthly float64 `json:"monthly"`
}

// FloatSeries marshals NaN values as null; warm-up sentiment rows would
// otherwise fail JSON encoding
type FloatSeries []float64

func (s FloatSeries) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, len(s)*8+2)
	buf = append(buf, '[')
	for idx, v := range s {
		if idx > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(v) {
			buf = append(buf, "null"...)
		} else {
			buf = strconv.AppendFloat(buf, v, 'f', -1, 64)
		}
	}
	return append(buf, ']'), nil
}

type StrategyPair struct {
	Instrument *data.Instrument `json:"instrument"`
	Passive    FloatSeries      `json:"passive"`
	Tactical   FloatSeries      `json:"tactical"`
}

type SimulateResponse struct {
	ID        uuid.UUID     `json:"id"`
	Dates     []string      `json:"dates"`
	Sentiment FloatSeries   `json:"sentiment"`
	Invested  float64       `json:"invested"`
	AssetA    *StrategyPair `json:"assetA"`
	AssetB    *StrategyPair `json:"assetB"`
}

// Simulate resolves both assets, aligns their history with the reference
// series, computes the sentiment composite once, and runs the passive and
// tactical strategies for each asset concurrently.
func Simulate(c *fiber.Ctx) error {
	var req SimulateRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		log.Warn().Err(err).Msg("could not parse simulate request body")
		return fiber.ErrBadRequest
	}

	if req.AssetA == "" || req.AssetB == "" {
		return fiber.NewError(fiber.StatusBadRequest, "assetA and assetB are required")
	}
	if req.Years <= 0 {
		req.Years = 10
	}
	if req.Initial <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "initial must be positive")
	}
	if req.Monthly < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "monthly must not be negative")
	}

	res := resolver.GetInstance()
	instrumentA := res.Resolve(req.AssetA)
	instrumentB := res.Resolve(req.AssetB)

	df, err := data.GetManagerInstance().Align(c.UserContext(), instrumentA, instrumentB, req.Years)
	if err != nil {
		log.Error().Err(err).
			Str("AssetA", instrumentA.Symbol).
			Str("AssetB", instrumentB.Symbol).
			Msg("could not build aligned dataset")
		return fiber.NewError(fiber.StatusUnprocessableEntity, alignmentMessage(err))
	}

	sentiment := indicators.Sentiment(df)

	var (
		wg         sync.WaitGroup
		resultA    *simulator.Result
		resultB    *simulator.Result
		errA, errB error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		resultA, errA = simulator.Run(df, sentiment, instrumentA, common.ColAssetA, req.Initial, req.Monthly)
	}()
	go func() {
		defer wg.Done()
		resultB, errB = simulator.Run(df, sentiment, instrumentB, common.ColAssetB, req.Initial, req.Monthly)
	}()
	wg.Wait()

	if errA != nil || errB != nil {
		log.Error().AnErr("ErrorA", errA).AnErr("ErrorB", errB).Msg("simulation failed")
		return fiber.ErrInternalServerError
	}

	dates := make([]string, df.Len())
	for idx, date := range df.Dates {
		dates[idx] = date.Format("2006-01-02")
	}

	return c.JSON(SimulateResponse{
		ID:        resultA.ID,
		Dates:     dates,
		Sentiment: FloatSeries(sentiment),
		Invested:  resultA.TotalInvested,
		AssetA: &StrategyPair{
			Instrument: instrumentA,
			Passive:    FloatSeries(resultA.Passive),
			Tactical:   FloatSeries(resultA.Tactical),
		},
		AssetB: &StrategyPair{
			Instrument: instrumentB,
			Passive:    FloatSeries(resultB.Passive),
			Tactical:   FloatSeries(resultB.Tactical),
		},
	})
}

// alignmentMessage turns the data package's sentinel errors into messages a
// user can act on
func alignmentMessage(err error) string {
	switch {
	case errors.Is(err, data.ErrUnknownInstrument):
		return "one of the requested assets has no price history; check the spelling or ticker"
	case errors.Is(err, data.ErrMissingReferenceSeries):
		return "reference market data is unavailable right now; try again later"
	case errors.Is(err, data.ErrInsufficientHistory):
		return "the assets do not share enough overlapping trading history to simulate"
	case errors.Is(err, data.ErrEmptyMarketData), errors.Is(err, data.ErrFetchFailure), errors.Is(err, data.ErrMalformedResponse):
		return "could not download market data; try again later"
	default:
		return "could not build an aligned dataset for the requested assets"
	}
}
