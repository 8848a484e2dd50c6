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

package resolver

// aliasTable maps well-known index/crypto/currency/company names to canonical
// market symbols. Keys are compared after normalization (spaces stripped,
// uppercased). The alias table always wins over the listing directory.
var aliasTable = map[string]string{
	"S&P500":    "SPY",
	"나스닥":       "QQQ",
	"나스닥100":    "QQQ",
	"비트코인":      "BTC-USD",
	"이더리움":      "ETH-USD",
	"달러":        "KRW=X",
	"애플":        "AAPL",
	"테슬라":       "TSLA",
	"엔비디아":      "NVDA",
	"마소":        "MSFT",
	"구글":        "GOOGL",
}

// syntheticMarkers identify the covered-call product: its listing code and
// the keyword meaning "covered call"
var syntheticMarkers = []string{"498400", "커버드콜"}
