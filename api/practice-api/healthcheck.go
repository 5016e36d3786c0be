// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package practice_api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rapidaai/celpip-practice/config"
	"github.com/rapidaai/celpip-practice/pkg/commons"
)

type healthCheckApi struct {
	cfg    *config.AppConfig
	logger commons.Logger
}

func NewHealthCheckApi(cfg *config.AppConfig, logger commons.Logger) *healthCheckApi {
	return &healthCheckApi{cfg: cfg, logger: logger}
}

func (h *healthCheckApi) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.cfg.Name,
		"version": h.cfg.Version,
	})
}

// Readiness has nothing external to probe; the generative providers are
// checked lazily on first use.
func (h *healthCheckApi) Readiness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
