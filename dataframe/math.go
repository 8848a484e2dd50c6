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

package dataframe

import (
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
)

// AddScalar adds the scalar value to all columns in dataframe df and returns a new dataframe
func (df *DataFrame) AddScalar(scalar float64) *DataFrame {
	df = df.Copy()

	for colIdx := range df.ColNames {
		for rowIdx := range df.Vals[colIdx] {
			df.Vals[colIdx][rowIdx] += scalar
		}
	}
	return df
}

// MulScalar multiplies all columns in dataframe df by the scalar and returns a new dataframe
func (df *DataFrame) MulScalar(scalar float64) *DataFrame {
	df = df.Copy()

	for colIdx := range df.ColNames {
		for rowIdx := range df.Vals[colIdx] {
			df.Vals[colIdx][rowIdx] *= scalar
		}
	}
	return df
}

// Clip limits all values to the range [lo, hi] and returns a new dataframe.
// NaN values are left untouched.
func (df *DataFrame) Clip(lo, hi float64) *DataFrame {
	df = df.Copy()

	for colIdx := range df.ColNames {
		for rowIdx, v := range df.Vals[colIdx] {
			switch {
			case math.IsNaN(v):
			case v < lo:
				df.Vals[colIdx][rowIdx] = lo
			case v > hi:
				df.Vals[colIdx][rowIdx] = hi
			}
		}
	}
	return df
}

// Diff computes the 1-period difference of every column and returns a new
// dataframe; the first row is NaN
func (df *DataFrame) Diff() *DataFrame {
	df2 := df.Copy()

	for colIdx := range df.ColNames {
		for rowIdx := df.Len() - 1; rowIdx > 0; rowIdx-- {
			df2.Vals[colIdx][rowIdx] = df.Vals[colIdx][rowIdx] - df.Vals[colIdx][rowIdx-1]
		}
		if df.Len() > 0 {
			df2.Vals[colIdx][0] = math.NaN()
		}
	}
	return df2
}

// PctChange computes the 1-period fractional change of every column and
// returns a new dataframe; the first row is 0 to match a fillna(0) on the
// first return
func (df *DataFrame) PctChange() *DataFrame {
	df2 := df.Copy()

	for colIdx := range df.ColNames {
		for rowIdx := df.Len() - 1; rowIdx > 0; rowIdx-- {
			prev := df.Vals[colIdx][rowIdx-1]
			df2.Vals[colIdx][rowIdx] = df.Vals[colIdx][rowIdx]/prev - 1.0
		}
		if df.Len() > 0 {
			df2.Vals[colIdx][0] = 0
		}
	}
	return df2
}

// FillForward replaces NaN values with the last valid observation of the same
// column, in place. Leading NaNs are left as-is.
func (df *DataFrame) FillForward() *DataFrame {
	for colIdx := range df.ColNames {
		last := math.NaN()
		for rowIdx, v := range df.Vals[colIdx] {
			if math.IsNaN(v) {
				df.Vals[colIdx][rowIdx] = last
			} else {
				last = v
			}
		}
	}
	return df
}

// SMA computes the simple moving average of all the columns in df for the specified
// lookback period. The length of the resulting dataframe equals that of the input
// with NaNs during the warm-up period. Invalid lookback periods result in a
// dataframe of all NaN.
func (df *DataFrame) SMA(lookback int) *DataFrame {
	if (lookback > df.Len()) || (lookback <= 0) {
		log.Error().Stack().Int("Lookback", lookback).Int("NRows", df.Len()).Msg("lookback must be: 0 < lookback <= NRows")
		nullDf := &DataFrame{
			Dates:    df.Dates,
			Vals:     make([][]float64, df.ColCount()),
			ColNames: df.ColNames,
		}
		for colIdx := range nullDf.Vals {
			nullDf.Vals[colIdx] = make([]float64, df.Len())
			for rowIdx := range nullDf.Vals[colIdx] {
				nullDf.Vals[colIdx][rowIdx] = math.NaN()
			}
		}
		return nullDf
	}

	filterBank := make([][]float64, df.ColCount())
	for idx := range filterBank {
		filterBank[idx] = make([]float64, lookback)
	}

	smaVals := make([][]float64, df.ColCount())
	for idx := range smaVals {
		smaVals[idx] = make([]float64, df.Len())
	}

	warmup := true

	for rowIdx := range df.Dates {
		// NOTE: row is 0 based, lookback is 1 based; hence the test applied below
		if rowIdx == (lookback - 1) {
			warmup = false
		}

		filterBankIdx := rowIdx % lookback

		for colIdx := range df.Vals {
			filterBank[colIdx][filterBankIdx] = df.Vals[colIdx][rowIdx]
			if warmup {
				smaVals[colIdx][rowIdx] = math.NaN()
			} else {
				smaVals[colIdx][rowIdx] = stat.Mean(filterBank[colIdx], nil)
			}
		}
	}

	return &DataFrame{
		Dates:    df.Dates,
		Vals:     smaVals,
		ColNames: df.ColNames,
	}
}

// EWM computes the exponentially weighted mean of every column with the given
// center of mass; weights follow (1-alpha)^i with alpha = 1/(1+com) and are
// renormalized over the observations seen so far. NaN inputs carry the prior
// mean forward without contributing weight.
func (df *DataFrame) EWM(com float64) *DataFrame {
	alpha := 1.0 / (1.0 + com)
	decay := 1.0 - alpha

	df2 := df.Copy()
	for colIdx := range df.ColNames {
		num := 0.0
		den := 0.0
		for rowIdx, v := range df.Vals[colIdx] {
			num *= decay
			den *= decay
			if !math.IsNaN(v) {
				num += v
				den++
			}

			if den == 0 {
				df2.Vals[colIdx][rowIdx] = math.NaN()
			} else {
				df2.Vals[colIdx][rowIdx] = num / den
			}
		}
	}
	return df2
}
