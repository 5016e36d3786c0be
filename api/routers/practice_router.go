// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package practice_routers

import (
	"github.com/gin-gonic/gin"

	practiceApi "github.com/rapidaai/celpip-practice/api/practice-api"
	"github.com/rapidaai/celpip-practice/config"
	internal_exam "github.com/rapidaai/celpip-practice/internal/exam"
	internal_llm "github.com/rapidaai/celpip-practice/internal/llm"
	internal_speech "github.com/rapidaai/celpip-practice/internal/speech"
	internal_submission "github.com/rapidaai/celpip-practice/internal/submission"
	"github.com/rapidaai/celpip-practice/pkg/commons"
)

func PracticeApiRoute(
	cfg *config.AppConfig, engine *gin.Engine, logger commons.Logger,
	generator *internal_exam.Generator,
	scorer *internal_exam.Scorer,
	transcriber internal_speech.Transcriber,
	store internal_submission.Store,
	images internal_llm.ImageProvider,
) {
	apiv1 := engine.Group("v1")
	api := practiceApi.NewPracticeApi(cfg, logger, generator, scorer, transcriber, store, images)
	{
		apiv1.POST("/speaking/:taskType/generate", api.GenerateSpeaking)
		apiv1.POST("/speaking/:taskType/score", api.ScoreSpeaking)

		apiv1.POST("/writing/:taskType/generate", api.GenerateWriting)
		apiv1.POST("/writing/:taskType/score", api.ScoreWriting)

		apiv1.POST("/reading/generate", api.GenerateComprehension("reading"))
		apiv1.POST("/reading/score", api.ScoreComprehension)

		apiv1.POST("/listening/generate", api.GenerateComprehension("listening"))
		apiv1.POST("/listening/score", api.ScoreComprehension)

		apiv1.POST("/images/generate", api.GenerateImage)

		apiv1.GET("/session/:sessionId", api.GetSession)
	}
}

func MonitorApiRoute(cfg *config.AppConfig, engine *gin.Engine, logger commons.Logger) *practiceApi.MonitorHub {
	hub := practiceApi.NewMonitorHub(logger)
	apiv1 := engine.Group("v1")
	{
		apiv1.GET("/monitor/:sessionId", hub.Monitor)
	}
	return hub
}

func HealthCheckRoutes(cfg *config.AppConfig, engine *gin.Engine, logger commons.Logger) {
	logger.Info("Internal HealthCheckRoutes added to engine.")
	apiv1 := engine.Group("")
	hcApi := practiceApi.NewHealthCheckApi(cfg, logger)
	{
		apiv1.GET("/readiness/", hcApi.Readiness)
		apiv1.GET("/healthz/", hcApi.Healthz)
	}
}
