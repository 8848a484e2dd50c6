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

import "errors"

var (
	ErrEmptyMarketData        = errors.New("no market data returned for requested period")
	ErrMissingReferenceSeries = errors.New("reference series missing from fetch result")
	ErrUnknownInstrument      = errors.New("no price data for instrument")
	ErrFetchFailure           = errors.New("market data fetch failed")
	ErrMalformedResponse      = errors.New("malformed market data response")
	ErrInsufficientHistory    = errors.New("insufficient overlapping history")
	ErrInvalidTimeRange       = errors.New("start must be before end")
)
