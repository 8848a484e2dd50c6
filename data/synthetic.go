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

import "math"

// Synthetic covered-call model: sell the upside above 0.5%/day, always
// collect the premium of a 12%/yr option overlay
const (
	syntheticBase     = 10_000.0
	annualPremiumRate = 0.12
	dailyReturnCap    = 0.005
	tradingDaysPerYr  = 252.0
)

// DailyPremium returns the annual premium rate converted to a per-trading-day
// rate: (1.12)^(1/252) - 1
func DailyPremium() float64 {
	return math.Pow(1.0+annualPremiumRate, 1.0/tradingDaysPerYr) - 1.0
}

// SyntheticReturn maps a benchmark daily return to the synthetic product's
// daily return. Upside is capped at dailyReturnCap; the premium is always
// collected.
func SyntheticReturn(r float64) float64 {
	p := DailyPremium()
	if r > dailyReturnCap {
		return dailyReturnCap + p
	}
	return r + p
}

// SyntheticSeries compounds the synthetic product's returns forward from a
// fixed base value, derived from the benchmark's closing prices. The first
// valid benchmark return is taken as zero; days before the benchmark starts
// trading stay NaN so alignment can trim them.
func SyntheticSeries(benchmark []float64) []float64 {
	series := make([]float64, len(benchmark))

	value := syntheticBase
	prev := math.NaN()

	for idx, level := range benchmark {
		if math.IsNaN(level) {
			series[idx] = math.NaN()
			continue
		}

		r := 0.0
		if !math.IsNaN(prev) {
			r = level/prev - 1.0
		}

		value *= 1.0 + SyntheticReturn(r)
		prev = level
		series[idx] = value
	}

	return series
}
