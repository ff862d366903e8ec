// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fpinheiro921/specforge/pkg/extensions"
	"github.com/fpinheiro921/specforge/services/specforge/handlers"
	"github.com/fpinheiro921/specforge/services/specforge/middleware"
)

// SetupRoutes wires the HTTP surface. Everything under /v1 runs behind
// the auth middleware; /health and /metrics stay open for probes and
// scraping.
func SetupRoutes(router *gin.Engine, h *handlers.Handlers, authProvider extensions.AuthProvider) {
	router.GET("/health", h.HandleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(authProvider))
	{
		v1.POST("/specs/generate", h.HandleGenerateSpec)
		v1.POST("/specs/analyze", h.HandleAnalyzeSpec)

		sections := v1.Group("/sections")
		{
			sections.POST("/parse", h.HandleParseSections)
			sections.POST("/regenerate", h.HandleRegenerateSection)
			sections.POST("/elaborate", h.HandleElaborateSection)
		}

		specs := v1.Group("/specs")
		{
			specs.POST("", h.HandleSaveSpec)
			specs.GET("", h.HandleListSpecs)
			specs.GET("/:id", h.HandleGetSpec)
			specs.PUT("/:id", h.HandleUpdateSpec)
			specs.DELETE("/:id", h.HandleDeleteSpec)
			specs.GET("/:id/download", h.HandleDownloadSpec)
		}

		v1.GET("/profile", h.HandleGetProfile)
		v1.GET("/modules", h.HandleListModules)
	}
}
