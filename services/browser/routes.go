// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package browser

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/alusearch/services/browser/middleware"
	"github.com/AleutianAI/alusearch/services/browser/telemetry"
	"github.com/AleutianAI/alusearch/services/browser/webui"
)

// NewRouter builds the gin engine with all routes registered.
//
// The page and health endpoints stay outside the rate limiter; only the
// query API sits behind it. /metrics is registered when the Prometheus
// exporter is active.
func NewRouter(s *Server, cfg Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(telemetry.ServiceName))

	router.GET("/", webui.PageHandler)
	router.GET("/healthz", s.handleHealth)

	if h := telemetry.MetricsHandler(); h != nil {
		router.GET("/metrics", gin.WrapH(h))
	}

	v1 := router.Group("/v1")
	v1.Use(middleware.RateLimit(cfg.RateLimit, cfg.RateBurst))
	{
		v1.POST("/alloys/query", s.handleQuery)
		v1.GET("/alloys/columns", s.handleColumns)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}
