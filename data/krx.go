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
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const defaultKrxURL = "http://data.krx.co.kr"

// FetchKrxListings downloads the full KRX listing directory (KOSPI, KOSDAQ,
// KONEX) and returns a map keyed by listing name. Callers are expected to
// degrade to an empty directory when this fails.
func FetchKrxListings(ctx context.Context) (map[string]Listing, error) {
	baseURL := viper.GetString("krx.base_url")
	if baseURL == "" {
		baseURL = defaultKrxURL
	}

	form := url.Values{}
	form.Set("bld", "dbms/MDC/STAT/standard/MDCSTAT01901")
	form.Set("mktId", "ALL")
	form.Set("share", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		baseURL+"/comm/bldAttendant/getJsonData.cmd", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFetchFailure, err.Error())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFetchFailure, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFetchFailure, err.Error())
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailure, resp.StatusCode)
	}

	var payload struct {
		OutBlock []struct {
			Code   string `json:"ISU_SRT_CD"`
			Name   string `json:"ISU_ABBRV"`
			Market string `json:"MKT_NM"`
		} `json:"OutBlock_1"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err.Error())
	}
	if len(payload.OutBlock) == 0 {
		return nil, fmt.Errorf("%w: empty listing directory", ErrMalformedResponse)
	}

	listings := make(map[string]Listing, len(payload.OutBlock))
	for _, row := range payload.OutBlock {
		listings[row.Name] = Listing{
			Code:   row.Code,
			Name:   row.Name,
			Market: row.Market,
		}
	}

	log.Info().Int("NumListings", len(listings)).Msg("loaded KRX listing directory")
	return listings, nil
}
