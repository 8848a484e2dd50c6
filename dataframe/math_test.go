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

package dataframe_test

import (
	"math"
	"time"

	"github.com/asset-arena/arena-api/common"
	"github.com/asset-arena/arena-api/dataframe"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("When computing rolling statistics", func() {
	var (
		df *dataframe.DataFrame
		tz *time.Location
	)

	BeforeEach(func() {
		tz = common.GetTimezone()

		df = &dataframe.DataFrame{
			Dates: []time.Time{
				time.Date(2021, time.January, 1, 0, 0, 0, 0, tz),
				time.Date(2021, time.January, 4, 0, 0, 0, 0, tz),
				time.Date(2021, time.January, 5, 0, 0, 0, 0, tz),
				time.Date(2021, time.January, 6, 0, 0, 0, 0, tz),
				time.Date(2021, time.January, 7, 0, 0, 0, 0, tz),
			},
			Vals:     [][]float64{{1.0, 2.0, 3.0, 4.0, 5.0}},
			ColNames: []string{"test"},
		}
	})

	Context("with the SMA", func() {
		It("yields NaN during the warm-up period", func() {
			sma := df.SMA(3)
			Expect(sma.Len()).To(Equal(5))

			col := sma.Vals[0]
			Expect(math.IsNaN(col[0])).Should(BeTrue())
			Expect(math.IsNaN(col[1])).Should(BeTrue())
			Expect(col[2]).Should(Equal(2.0))
			Expect(col[3]).Should(Equal(3.0))
			Expect(col[4]).Should(Equal(4.0))
		})

		It("yields all NaN for an invalid lookback", func() {
			sma := df.SMA(0)
			for _, v := range sma.Vals[0] {
				Expect(math.IsNaN(v)).Should(BeTrue())
			}
		})

		It("propagates NaN while a NaN value is within the window", func() {
			df.Vals[0][2] = math.NaN()
			sma := df.SMA(2)
			col := sma.Vals[0]
			Expect(col[1]).Should(Equal(1.5))
			Expect(math.IsNaN(col[2])).Should(BeTrue())
			Expect(math.IsNaN(col[3])).Should(BeTrue())
			Expect(col[4]).Should(Equal(4.5))
		})
	})

	Context("with the exponentially weighted mean", func() {
		It("equals the input on the first row", func() {
			ewm := df.EWM(13)
			Expect(ewm.Vals[0][0]).Should(Equal(1.0))
		})

		It("renormalizes weights over the observations seen so far", func() {
			ewm := df.EWM(1)
			// com=1 -> alpha=0.5; second value = (0.5*1 + 2) / (0.5 + 1)
			Expect(ewm.Vals[0][1]).Should(BeNumerically("~", 5.0/3.0, 1e-12))
		})

		It("carries the mean across NaN inputs", func() {
			df.Vals[0][1] = math.NaN()
			ewm := df.EWM(1)
			Expect(ewm.Vals[0][0]).Should(Equal(1.0))
			Expect(math.IsNaN(ewm.Vals[0][1])).Should(BeFalse())
			// row 1 has only the first observation; mean stays 1.0
			Expect(ewm.Vals[0][1]).Should(Equal(1.0))
		})
	})

	Context("with Diff and PctChange", func() {
		It("computes the 1-period difference with a NaN first row", func() {
			diff := df.Diff()
			Expect(math.IsNaN(diff.Vals[0][0])).Should(BeTrue())
			Expect(diff.Vals[0][1]).Should(Equal(1.0))
			Expect(diff.Vals[0][4]).Should(Equal(1.0))
		})

		It("computes the fractional change with a zero first row", func() {
			pct := df.PctChange()
			Expect(pct.Vals[0][0]).Should(Equal(0.0))
			Expect(pct.Vals[0][1]).Should(Equal(1.0))
			Expect(pct.Vals[0][2]).Should(Equal(0.5))
		})

		It("does not modify the input dataframe", func() {
			df.Diff()
			Expect(df.Vals[0]).To(Equal([]float64{1.0, 2.0, 3.0, 4.0, 5.0}))
		})
	})

	Context("with FillForward", func() {
		It("replaces interior NaN with the last valid value", func() {
			df.Vals[0][2] = math.NaN()
			df.Vals[0][3] = math.NaN()
			df.FillForward()
			Expect(df.Vals[0]).To(Equal([]float64{1.0, 2.0, 2.0, 2.0, 5.0}))
		})

		It("leaves leading NaN in place", func() {
			df.Vals[0][0] = math.NaN()
			df.FillForward()
			Expect(math.IsNaN(df.Vals[0][0])).Should(BeTrue())
			Expect(df.Vals[0][1]).Should(Equal(2.0))
		})
	})

	Context("with Clip", func() {
		It("limits values to the requested range and skips NaN", func() {
			df.Vals[0][1] = math.NaN()
			clipped := df.Clip(2, 4)
			Expect(clipped.Vals[0][0]).Should(Equal(2.0))
			Expect(math.IsNaN(clipped.Vals[0][1])).Should(BeTrue())
			Expect(clipped.Vals[0][4]).Should(Equal(4.0))
		})
	})
})
