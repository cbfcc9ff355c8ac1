// Copyright 2022-2023
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
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/riskvault/rv-api/common"
	"github.com/riskvault/rv-api/data"
	"github.com/riskvault/rv-api/montecarlo"
	"github.com/rs/zerolog/log"
)

// RunSimulation executes a VaR campaign for the requested parameters.
// Campaigns are deterministic, so results are cached by a content hash
// of the parameters; a repeated request is served from cache.
func RunSimulation(c *fiber.Ctx) error {
	var params montecarlo.Parameters
	if err := json.Unmarshal(c.Body(), &params); err != nil {
		log.Warn().Err(err).Msg("could not unmarshal simulation request")
		return fiber.ErrBadRequest
	}

	common.ArrToUpper(params.Symbols)

	if err := params.Validate(); err != nil {
		return c.Status(fiber.StatusNotAcceptable).
			JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	hash, err := params.ContentHash()
	if err != nil {
		return fiber.ErrInternalServerError
	}

	hashKey := fmt.Sprintf("simulation:hash:%s", hash)
	if cached, err := common.CacheGet(c.Context(), hashKey); err == nil {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(cached)
	}

	profiles, err := data.ReturnProfiles(c.Context(), params.Symbols)
	if err != nil {
		log.Error().Err(err).Msg("could not load return profiles")
		if errors.Is(err, data.ErrInsufficientHistory) {
			return fiber.ErrNotAcceptable
		}
		return fiber.ErrInternalServerError
	}

	prices, err := data.LatestPrices(c.Context(), params.Symbols)
	if err != nil {
		log.Error().Err(err).Msg("could not load latest prices")
		if errors.Is(err, data.ErrNoPrice) {
			return fiber.ErrNotAcceptable
		}
		return fiber.ErrInternalServerError
	}

	campaign, err := montecarlo.NewCampaign(params, profiles, prices)
	if err != nil {
		return c.Status(fiber.StatusNotAcceptable).
			JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	result, err := campaign.Run(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("campaign failed")
		return fiber.ErrInternalServerError
	}

	raw, err := json.Marshal(result)
	if err != nil {
		log.Error().Err(err).Msg("could not marshal campaign result")
		return fiber.ErrInternalServerError
	}

	if err := common.CacheSet(c.Context(), hashKey, raw); err != nil {
		log.Warn().Err(err).Msg("could not cache campaign result by hash")
	}
	idKey := fmt.Sprintf("simulation:id:%s", result.ID)
	if err := common.CacheSet(c.Context(), idKey, raw); err != nil {
		log.Warn().Err(err).Msg("could not cache campaign result by id")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(raw)
}

// GetSimulation returns a previously computed campaign result by id
func GetSimulation(c *fiber.Ctx) error {
	id := c.Params("id")
	raw, err := common.CacheGet(c.Context(), fmt.Sprintf("simulation:id:%s", id))
	if err != nil {
		return fiber.ErrNotFound
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(raw)
}
