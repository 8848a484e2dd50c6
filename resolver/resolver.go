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

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"github.com/asset-arena/arena-api/data"
	"github.com/rs/zerolog/log"
)

const (
	suffixKospi  = ".KS"
	suffixKosdaq = ".KQ"
)

// Resolver maps free-text user input to a canonical instrument. Resolution
// never fails: unrecognized input falls through to "assume foreign ticker
// as-is".
type Resolver struct {
	byName map[string]data.Listing // keyed by listing name and space-stripped name
	byCode map[string]data.Listing
}

var (
	resolverOnce     sync.Once
	resolverInstance *Resolver
	resolverLock     sync.RWMutex
)

// GetInstance returns the shared resolver, loading the KRX directory on first
// use. A directory failure degrades to an empty directory; name lookups then
// miss but every other resolution path still works.
func GetInstance() *Resolver {
	resolverOnce.Do(func() {
		listings, err := data.FetchKrxListings(context.Background())
		if err != nil {
			log.Warn().Err(err).Msg("could not load KRX directory; resolving without it")
			listings = map[string]data.Listing{}
		}
		resolverLock.Lock()
		resolverInstance = New(listings)
		resolverLock.Unlock()
	})

	resolverLock.RLock()
	defer resolverLock.RUnlock()
	return resolverInstance
}

// Refresh re-downloads the KRX directory and swaps the shared resolver. The
// previous directory is kept when the download fails.
func Refresh() {
	listings, err := data.FetchKrxListings(context.Background())
	if err != nil {
		log.Warn().Err(err).Msg("KRX directory refresh failed; keeping previous directory")
		return
	}

	resolverLock.Lock()
	resolverInstance = New(listings)
	resolverLock.Unlock()
}

// New builds a resolver over the given listing directory
func New(listings map[string]data.Listing) *Resolver {
	r := &Resolver{
		byName: make(map[string]data.Listing, len(listings)*2),
		byCode: make(map[string]data.Listing, len(listings)),
	}

	for name, listing := range listings {
		r.byName[name] = listing
		r.byName[strings.ReplaceAll(name, " ", "")] = listing
		r.byCode[listing.Code] = listing
	}

	return r
}

// Resolve maps raw user text to an Instrument; first match wins:
// synthetic marker, alias table, listing directory (exact then substring),
// bare 6-digit listing code, foreign-ticker passthrough.
func (r *Resolver) Resolve(raw string) *data.Instrument {
	key := strings.TrimSpace(raw)
	normalized := strings.ToUpper(strings.ReplaceAll(key, " ", ""))

	if isSynthetic(normalized) {
		return &data.Instrument{
			Symbol:    data.SyntheticSymbol,
			Name:      "커버드콜 (합성)",
			Domestic:  true,
			Synthetic: true,
		}
	}

	if symbol, ok := aliasTable[normalized]; ok {
		return &data.Instrument{
			Symbol:   symbol,
			Name:     key,
			Domestic: isDomesticSymbol(symbol),
		}
	}

	if listing, ok := r.lookup(key, normalized); ok {
		return &data.Instrument{
			Symbol:   listing.Code + marketSuffix(listing.Market),
			Name:     listing.Name,
			Domestic: true,
		}
	}

	if isListingCode(normalized) {
		return &data.Instrument{
			Symbol:   normalized + suffixKospi,
			Name:     key,
			Domestic: true,
		}
	}

	// last resort: assume it is already a foreign-market ticker
	return &data.Instrument{
		Symbol:   normalized,
		Name:     key,
		Domestic: isDomesticSymbol(normalized),
	}
}

func (r *Resolver) lookup(key, normalized string) (data.Listing, bool) {
	if listing, ok := r.byName[key]; ok {
		return listing, true
	}
	if listing, ok := r.byName[normalized]; ok {
		return listing, true
	}
	if listing, ok := r.byCode[normalized]; ok {
		return listing, true
	}

	return r.substringMatch(normalized)
}

// substringMatch finds listings whose name contains the input. Multiple
// candidates are disambiguated deterministically: shortest name first, ties
// broken lexicographically.
func (r *Resolver) substringMatch(normalized string) (data.Listing, bool) {
	if normalized == "" {
		return data.Listing{}, false
	}

	var best data.Listing
	found := false

	for name, listing := range r.byName {
		if !strings.Contains(strings.ToUpper(name), normalized) {
			continue
		}
		if !found || better(listing.Name, best.Name) {
			best = listing
			found = true
		}
	}

	return best, found
}

func better(candidate, current string) bool {
	if len(candidate) != len(current) {
		return len(candidate) < len(current)
	}
	return candidate < current
}

func isSynthetic(normalized string) bool {
	if normalized == data.SyntheticSymbol {
		return true
	}
	for _, marker := range syntheticMarkers {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}

func isListingCode(normalized string) bool {
	if len(normalized) != 6 {
		return false
	}
	for _, r := range normalized {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isDomesticSymbol(symbol string) bool {
	return strings.HasSuffix(symbol, suffixKospi) || strings.HasSuffix(symbol, suffixKosdaq)
}

func marketSuffix(market string) string {
	switch strings.ToUpper(market) {
	case "KOSDAQ":
		return suffixKosdaq
	default:
		return suffixKospi
	}
}
