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
	"fmt"
	"strings"
	"time"

	"github.com/asset-arena/arena-api/common"
	"github.com/asset-arena/arena-api/dataframe"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/blake3"
)

// DatasetCache stores aligned datasets keyed by a content hash of the
// requested symbols and fetch window. Hits are served as-is, even when a
// fresher fetch might be available; the TTL on the backing store bounds
// staleness.
type DatasetCache struct{}

func NewDatasetCache() *DatasetCache {
	return &DatasetCache{}
}

// Key derives the cache key for a symbol set and fetch window. The window is
// truncated to whole days so repeated requests within a day hash identically.
func (c *DatasetCache) Key(symbols []string, begin, end time.Time) string {
	payload := fmt.Sprintf("%s|%s|%s", strings.Join(symbols, ","),
		begin.Format("2006-01-02"), end.Format("2006-01-02"))
	sum := blake3.Sum256([]byte(payload))
	return fmt.Sprintf("dataset:%x", sum)
}

func (c *DatasetCache) Get(key string) (*dataframe.DataFrame, bool) {
	raw, err := common.CacheGet(key)
	if err != nil {
		return nil, false
	}

	df := &dataframe.DataFrame{}
	if err := json.Unmarshal(raw, df); err != nil {
		log.Warn().Err(err).Str("Key", key).Msg("could not decode cached dataset")
		return nil, false
	}

	return df, true
}

func (c *DatasetCache) Set(key string, df *dataframe.DataFrame) {
	raw, err := json.Marshal(df)
	if err != nil {
		log.Warn().Err(err).Str("Key", key).Msg("could not encode dataset for cache")
		return
	}

	if err := common.CacheSet(key, raw); err != nil {
		log.Warn().Err(err).Str("Key", key).Msg("could not store dataset in cache")
	}
}
