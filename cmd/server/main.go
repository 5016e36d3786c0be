// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	practice_routers "github.com/rapidaai/celpip-practice/api/routers"
	"github.com/rapidaai/celpip-practice/config"
	internal_exam "github.com/rapidaai/celpip-practice/internal/exam"
	internal_llm "github.com/rapidaai/celpip-practice/internal/llm"
	internal_speech "github.com/rapidaai/celpip-practice/internal/speech"
	internal_submission "github.com/rapidaai/celpip-practice/internal/submission"
	"github.com/rapidaai/celpip-practice/pkg/commons"
)

const shutdownGrace = 10 * time.Second

func main() {
	vConfig, err := config.InitConfig()
	if err != nil {
		log.Fatalf("config initialization failed: %v", err)
	}
	cfg, err := config.GetApplicationConfig(vConfig)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logger, err := commons.NewApplicationLogger(
		commons.Name(cfg.Name),
		commons.Path(cfg.LogPath),
		commons.Level(cfg.LogLevel),
	)
	if err != nil {
		log.Fatalf("logger initialization failed: %v", err)
	}
	defer logger.Sync()

	provider, err := internal_llm.NewProvider(cfg, logger)
	if err != nil {
		logger.Fatalf("provider initialization failed: %v", err)
	}
	transcriber, err := internal_speech.NewTranscriber(cfg, provider, logger)
	if err != nil {
		logger.Fatalf("transcriber initialization failed: %v", err)
	}

	images, _ := provider.(internal_llm.ImageProvider)
	if images == nil {
		logger.Warnf("provider %s cannot generate images, visual tasks stay text-only", provider.Name())
	}

	generator := internal_exam.NewGenerator(logger, provider)
	scorer := internal_exam.NewScorer(logger, provider)
	store := internal_submission.NewStore(logger)
	defer store.Close()

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	practice_routers.HealthCheckRoutes(cfg, engine, logger)
	practice_routers.PracticeApiRoute(cfg, engine, logger, generator, scorer, transcriber, store, images)
	practice_routers.MonitorApiRoute(cfg, engine, logger)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Infof("%s %s listening on %s", cfg.Name, cfg.Version, server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutdown requested, draining connections")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Errorf("server exited with error: %v", err)
	}
	logger.Info("server stopped")
}
