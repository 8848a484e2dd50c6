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
	"time"

	"github.com/asset-arena/arena-api/dataframe"
)

// Reference series tickers; every aligned dataset includes all three plus the
// local benchmark when a synthetic asset is requested
const (
	SymbolMarketIdx      = "^GSPC"
	SymbolVolIdx         = "^VIX"
	SymbolFxRate         = "KRW=X"
	SymbolLocalBenchmark = "^KS11"

	// SyntheticSymbol identifies the covered-call style product; it has no
	// price feed of its own and is derived from the local benchmark
	SyntheticSymbol = "CC"
)

// Instrument represents a tradeable asset
type Instrument struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Domestic  bool   `json:"domestic"`
	Synthetic bool   `json:"synthetic"`
}

// Listing is a single row of the local-market (KRX) directory
type Listing struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Market string `json:"market"`
}

// Provider retrieves daily closing-price series for a set of symbols. The
// returned dataframe has one column per symbol; days a symbol did not trade
// are NaN.
type Provider interface {
	GetDataForPeriod(ctx context.Context, symbols []string, begin, end time.Time) (*dataframe.DataFrame, error)
}
