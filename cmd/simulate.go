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

package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/asset-arena/arena-api/common"
	"github.com/asset-arena/arena-api/data"
	"github.com/asset-arena/arena-api/dataframe"
	"github.com/asset-arena/arena-api/indicators"
	"github.com/asset-arena/arena-api/resolver"
	"github.com/asset-arena/arena-api/simulator"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	simInitial float64
	simMonthly float64
	simYears   int
	simTail    int
)

func init() {
	simulateCmd.Flags().Float64Var(&simInitial, "initial", 10_000_000, "Initial investment in KRW")
	simulateCmd.Flags().Float64Var(&simMonthly, "monthly", 500_000, "Monthly contribution in KRW")
	simulateCmd.Flags().IntVar(&simYears, "years", 10, "Number of years to simulate")
	simulateCmd.Flags().IntVar(&simTail, "tail", 10, "Number of trailing rows to print")

	rootCmd.AddCommand(simulateCmd)
}

var simulateCmd = &cobra.Command{
	Use:   "simulate ASSET_A ASSET_B",
	Short: "Simulate passive vs tactical investing for two assets",
	Long: `Download market history for the two assets, score daily sentiment,
and simulate a passive monthly investor against a tactical investor that buys
fear and sells greed. Valuations are reported in KRW.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		common.SetupCache()

		res := resolver.GetInstance()
		instrumentA := res.Resolve(args[0])
		instrumentB := res.Resolve(args[1])

		log.Info().
			Str("AssetA", instrumentA.Symbol).
			Str("AssetB", instrumentB.Symbol).
			Int("Years", simYears).
			Msg("building aligned dataset")

		df, err := data.GetManagerInstance().Align(context.Background(), instrumentA, instrumentB, simYears)
		if err != nil {
			log.Fatal().Err(err).Msg("could not build aligned dataset")
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
			resultA, errA = simulator.Run(df, sentiment, instrumentA, common.ColAssetA, simInitial, simMonthly)
		}()
		go func() {
			defer wg.Done()
			resultB, errB = simulator.Run(df, sentiment, instrumentB, common.ColAssetB, simInitial, simMonthly)
		}()
		wg.Wait()

		if errA != nil {
			log.Fatal().Err(errA).Str("Asset", instrumentA.Symbol).Msg("simulation failed")
		}
		if errB != nil {
			log.Fatal().Err(errB).Str("Asset", instrumentB.Symbol).Msg("simulation failed")
		}

		last := df.Len() - 1
		fmt.Printf("%s .. %s (%d trading days)\n", df.Start().Format("2006-01-02"),
			df.End().Format("2006-01-02"), df.Len())
		fmt.Printf("Invested: %.0f KRW\n\n", resultA.TotalInvested)
		fmt.Printf("%-30s %15s %15s\n", "", "Passive", "Tactical")
		fmt.Printf("%-30s %15.0f %15.0f\n", instrumentA.Name, resultA.Passive[last], resultA.Tactical[last])
		fmt.Printf("%-30s %15.0f %15.0f\n", instrumentB.Name, resultB.Passive[last], resultB.Tactical[last])
		fmt.Println()

		valuations := dataframe.New(df.Dates).
			Insert("SENTIMENT", sentiment).
			Insert(instrumentA.Symbol+" PASSIVE", resultA.Passive).
			Insert(instrumentA.Symbol+" TACTICAL", resultA.Tactical).
			Insert(instrumentB.Symbol+" PASSIVE", resultB.Passive).
			Insert(instrumentB.Symbol+" TACTICAL", resultB.Tactical)
		fmt.Println(valuations.Tail(simTail).Table())
	},
}
