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
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/asset-arena/arena-api/common"
	"github.com/asset-arena/arena-api/dataframe"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const defaultYahooURL = "https://query1.finance.yahoo.com"

// Yahoo retrieves daily quotes from the Yahoo Finance chart API. Multi-symbol
// requests go through the spark endpoint first; when the multi-symbol payload
// is malformed it degrades to one chart request per symbol.
type Yahoo struct {
	client  *http.Client
	baseURL string
}

// NewYahoo creates a new Yahoo Finance data provider
func NewYahoo() *Yahoo {
	baseURL := viper.GetString("yahoo.base_url")
	if baseURL == "" {
		baseURL = defaultYahooURL
	}

	return &Yahoo{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
	}
}

type yahooSeries struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol string `json:"symbol"`
			} `json:"meta"`
			yahooSeries
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type yahooSpark struct {
	Spark struct {
		Result []struct {
			Symbol   string        `json:"symbol"`
			Response []yahooSeries `json:"response"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"spark"`
}

type quoteSeries struct {
	dates  []time.Time
	closes []float64
}

// GetDataForPeriod downloads daily closes for all requested symbols and
// merges them on a union date index with NaN for missing observations
func (y *Yahoo) GetDataForPeriod(ctx context.Context, symbols []string, begin, end time.Time) (*dataframe.DataFrame, error) {
	if end.Before(begin) {
		return nil, ErrInvalidTimeRange
	}

	series, err := y.fetchSpark(ctx, symbols, begin, end)
	if err != nil {
		log.Warn().Err(err).Strs("Symbols", symbols).Msg("batch quote fetch failed; falling back to per-symbol requests")
		series, err = y.fetchEach(ctx, symbols, begin, end)
		if err != nil {
			return nil, err
		}
	}

	return mergeQuoteSeries(symbols, series), nil
}

func (y *Yahoo) fetchSpark(ctx context.Context, symbols []string, begin, end time.Time) (map[string]quoteSeries, error) {
	u := fmt.Sprintf("%s/v8/finance/spark?symbols=%s&period1=%d&period2=%d&interval=1d",
		y.baseURL, url.QueryEscape(strings.Join(symbols, ",")), begin.Unix(), end.Unix())

	body, err := y.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var spark yahooSpark
	if err := json.Unmarshal(body, &spark); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err.Error())
	}
	if spark.Spark.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrFetchFailure, spark.Spark.Error.Description)
	}
	if len(spark.Spark.Result) == 0 {
		return nil, fmt.Errorf("%w: empty spark result", ErrMalformedResponse)
	}

	series := make(map[string]quoteSeries, len(symbols))
	for _, res := range spark.Spark.Result {
		if len(res.Response) == 0 {
			continue
		}
		series[res.Symbol] = decodeSeries(res.Response[0])
	}

	// a partial batch result means the multi-symbol payload is not usable as-is
	for _, symbol := range symbols {
		if _, ok := series[symbol]; !ok {
			return nil, fmt.Errorf("%w: symbol %s missing from spark result", ErrMalformedResponse, symbol)
		}
	}

	return series, nil
}

func (y *Yahoo) fetchEach(ctx context.Context, symbols []string, begin, end time.Time) (map[string]quoteSeries, error) {
	series := make(map[string]quoteSeries, len(symbols))
	for _, symbol := range symbols {
		s, err := y.fetchChart(ctx, symbol, begin, end)
		if err != nil {
			return nil, err
		}
		series[symbol] = s
	}
	return series, nil
}

func (y *Yahoo) fetchChart(ctx context.Context, symbol string, begin, end time.Time) (quoteSeries, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		y.baseURL, url.PathEscape(symbol), begin.Unix(), end.Unix())

	body, err := y.get(ctx, u)
	if err != nil {
		return quoteSeries{}, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return quoteSeries{}, fmt.Errorf("%w: %s", ErrMalformedResponse, err.Error())
	}
	if chart.Chart.Error != nil {
		return quoteSeries{}, fmt.Errorf("%w: %s", ErrFetchFailure, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return quoteSeries{}, fmt.Errorf("%w: no data for %s", ErrEmptyMarketData, symbol)
	}

	return decodeSeries(chart.Chart.Result[0].yahooSeries), nil
}

func (y *Yahoo) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFetchFailure, err.Error())
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.client.Do(req)
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

	return body, nil
}

func decodeSeries(s yahooSeries) quoteSeries {
	tz := common.GetTimezone()
	out := quoteSeries{
		dates:  make([]time.Time, 0, len(s.Timestamp)),
		closes: make([]float64, 0, len(s.Timestamp)),
	}

	if len(s.Indicators.Quote) == 0 {
		return out
	}

	closes := s.Indicators.Quote[0].Close
	for idx, ts := range s.Timestamp {
		dt := time.Unix(ts, 0).In(tz)
		dt = time.Date(dt.Year(), dt.Month(), dt.Day(), 0, 0, 0, 0, tz)

		v := math.NaN()
		if idx < len(closes) && closes[idx] != nil {
			v = *closes[idx]
		}

		// bars can arrive with duplicate dates when the last bar is intraday
		if n := len(out.dates); n > 0 && out.dates[n-1].Equal(dt) {
			out.closes[n-1] = v
			continue
		}

		out.dates = append(out.dates, dt)
		out.closes = append(out.closes, v)
	}

	return out
}

// mergeQuoteSeries aligns the per-symbol series on the union of their dates
func mergeQuoteSeries(symbols []string, series map[string]quoteSeries) *dataframe.DataFrame {
	dateSet := make(map[time.Time]bool)
	for _, s := range series {
		for _, dt := range s.dates {
			dateSet[dt] = true
		}
	}

	dates := make([]time.Time, 0, len(dateSet))
	for dt := range dateSet {
		dates = append(dates, dt)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	dateIdx := make(map[time.Time]int, len(dates))
	for idx, dt := range dates {
		dateIdx[dt] = idx
	}

	df := dataframe.New(dates)
	for _, symbol := range symbols {
		col := make([]float64, len(dates))
		for idx := range col {
			col[idx] = math.NaN()
		}

		if s, ok := series[symbol]; ok {
			for ii, dt := range s.dates {
				col[dateIdx[dt]] = s.closes[ii]
			}
		}

		df.Insert(symbol, col)
	}

	return df
}
