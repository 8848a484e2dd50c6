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

package handler

import (
	"strings"

	"github.com/asset-arena/arena-api/resolver"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Resolve maps free-text user input to a canonical instrument
func Resolve(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		log.Warn().Str("Uri", "/v1/resolve").Msg("resolve called without q parameter")
		return fiber.ErrBadRequest
	}

	instrument := resolver.GetInstance().Resolve(query)
	return c.JSON(instrument)
}
