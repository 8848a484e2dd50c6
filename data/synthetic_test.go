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

package data_test

import (
	"math"

	"github.com/asset-arena/arena-api/data"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("When deriving the synthetic covered-call product", func() {
	var premium float64

	BeforeEach(func() {
		premium = data.DailyPremium()
	})

	Context("with the daily premium", func() {
		It("matches the annual rate compounded over trading days", func() {
			Expect(premium).Should(BeNumerically("~", math.Pow(1.12, 1.0/252.0)-1.0, 1e-15))
			Expect(premium).Should(BeNumerically(">", 0.0))
		})
	})

	Context("with single-day returns", func() {
		It("caps benchmark gains above the daily limit", func() {
			Expect(data.SyntheticReturn(0.03)).Should(BeNumerically("~", 0.005+premium, 1e-15))
		})

		It("passes small gains through", func() {
			Expect(data.SyntheticReturn(0.001)).Should(BeNumerically("~", 0.001+premium, 1e-15))
		})

		It("takes losses in full", func() {
			Expect(data.SyntheticReturn(-0.04)).Should(BeNumerically("~", -0.04+premium, 1e-15))
		})

		It("collects the premium on a flat day", func() {
			Expect(data.SyntheticReturn(0.0)).Should(BeNumerically("~", premium, 1e-15))
		})
	})

	Context("with a benchmark series", func() {
		It("compounds from the base value with a zero first return", func() {
			series := data.SyntheticSeries([]float64{100, 100.2, 103})

			Expect(series[0]).Should(BeNumerically("~", 10000.0*(1.0+premium), 1e-9))
			Expect(series[1]).Should(BeNumerically("~", series[0]*(1.0+0.002+premium), 1e-9))
			// 103/100.2 - 1 exceeds the cap
			Expect(series[2]).Should(BeNumerically("~", series[1]*(1.0+0.005+premium), 1e-9))
		})

		It("stays NaN while the benchmark has not started trading", func() {
			series := data.SyntheticSeries([]float64{math.NaN(), math.NaN(), 100, 101})

			Expect(math.IsNaN(series[0])).Should(BeTrue())
			Expect(math.IsNaN(series[1])).Should(BeTrue())
			Expect(series[2]).Should(BeNumerically("~", 10000.0*(1.0+premium), 1e-9))
			Expect(series[3]).Should(BeNumerically(">", series[2]))
		})
	})
})
