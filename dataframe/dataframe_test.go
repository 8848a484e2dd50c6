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

var _ = Describe("When manipulating a dataframe", func() {
	var (
		df *dataframe.DataFrame
		tz *time.Location
	)

	BeforeEach(func() {
		tz = common.GetTimezone()

		df = dataframe.New([]time.Time{
			time.Date(2021, time.January, 1, 0, 0, 0, 0, tz),
			time.Date(2021, time.January, 4, 0, 0, 0, 0, tz),
			time.Date(2021, time.January, 5, 0, 0, 0, 0, tz),
			time.Date(2021, time.January, 6, 0, 0, 0, 0, tz),
		})
		df.Insert("a", []float64{1, 2, 3, 4})
		df.Insert("b", []float64{10, 20, 30, 40})
	})

	Context("with column access", func() {
		It("returns the column values by name", func() {
			Expect(df.Col("b")).To(Equal([]float64{10, 20, 30, 40}))
		})

		It("returns nil for unknown columns", func() {
			Expect(df.Col("missing")).To(BeNil())
		})
	})

	Context("with Drop", func() {
		It("removes every row containing a NaN", func() {
			df.Vals[0][1] = math.NaN()
			df.Vals[1][3] = math.NaN()
			df.Drop(math.NaN())

			Expect(df.Len()).To(Equal(2))
			Expect(df.Col("a")).To(Equal([]float64{1, 3}))
			Expect(df.Col("b")).To(Equal([]float64{10, 30}))
			Expect(df.Dates).To(Equal([]time.Time{
				time.Date(2021, time.January, 1, 0, 0, 0, 0, tz),
				time.Date(2021, time.January, 5, 0, 0, 0, 0, tz),
			}))
		})
	})

	Context("with Trim", func() {
		It("keeps the inclusive date range", func() {
			trimmed := df.Trim(
				time.Date(2021, time.January, 4, 0, 0, 0, 0, tz),
				time.Date(2021, time.January, 5, 0, 0, 0, 0, tz),
			)
			Expect(trimmed.Len()).To(Equal(2))
			Expect(trimmed.Col("a")).To(Equal([]float64{2, 3}))
		})

		It("returns an empty dataframe for a disjoint range", func() {
			trimmed := df.Trim(
				time.Date(2022, time.January, 1, 0, 0, 0, 0, tz),
				time.Date(2022, time.February, 1, 0, 0, 0, 0, tz),
			)
			Expect(trimmed.Len()).To(Equal(0))
		})
	})

	Context("with Tail", func() {
		It("returns the last n rows", func() {
			tail := df.Tail(2)
			Expect(tail.Len()).To(Equal(2))
			Expect(tail.Col("a")).To(Equal([]float64{3, 4}))
		})

		It("returns the whole dataframe when n exceeds the length", func() {
			Expect(df.Tail(10).Len()).To(Equal(4))
		})
	})

	Context("with Copy", func() {
		It("does not share value storage with the original", func() {
			df2 := df.Copy()
			df2.Vals[0][0] = 99
			Expect(df.Vals[0][0]).To(Equal(1.0))
		})
	})
})
