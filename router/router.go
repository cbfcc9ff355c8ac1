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

package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lestrrat-go/jwx/jwk"
	"github.com/riskvault/rv-api/handler"
	"github.com/riskvault/rv-api/middleware"
)

// SetupRoutes setup router api
func SetupRoutes(app *fiber.App, jwks *jwk.AutoRefresh, jwksURL string) {
	api := app.Group("/v1", middleware.Auth(jwks, jwksURL))
	api.Get("/", handler.Ping)

	// Securities
	security := api.Group("/securities")
	security.Get("/", handler.ListSecurities)
	security.Get("/:ticker", handler.GetSecurity)

	// Simulations
	simulation := api.Group("/simulation")
	simulation.Post("/", handler.RunSimulation)
	simulation.Get("/:id", handler.GetSimulation)

	app.Use(handler.NotFound)
}
