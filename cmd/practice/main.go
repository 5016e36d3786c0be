// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

// The practice CLI is the learner-facing side of the platform: it fetches
// tasks from the practice server, runs the timed recording flow against the
// local microphone, plays responses back for review and submits them for
// scoring.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"github.com/rapidaai/celpip-practice/config"
	"github.com/rapidaai/celpip-practice/pkg/commons"
)

type cliContext struct {
	cfg    *config.AppConfig
	logger commons.Logger
	client *resty.Client
}

func newCliContext() (*cliContext, error) {
	vConfig, err := config.InitConfig()
	if err != nil {
		return nil, err
	}
	cfg, err := config.GetApplicationConfig(vConfig)
	if err != nil {
		return nil, err
	}
	logger, err := commons.NewApplicationLogger(
		commons.Name("practice-cli"),
		commons.Path(cfg.LogPath),
		commons.Level("warn"), // keep the terminal for the exam flow
	)
	if err != nil {
		return nil, err
	}
	client := resty.New().
		SetBaseURL(cfg.ServerUrl).
		SetTimeout(2 * time.Minute)
	return &cliContext{cfg: cfg, logger: logger, client: client}, nil
}

func main() {
	cli, err := newCliContext()
	if err != nil {
		log.Fatalf("initialization failed: %v", err)
	}
	defer cli.logger.Sync()

	root := &cobra.Command{
		Use:   "practice",
		Short: "CELPIP practice from the terminal",
		Long:  "Fetch CELPIP-style practice tasks, record timed spoken responses and get rubric-based feedback.",
	}
	root.AddCommand(newSpeakingCommand(cli))
	root.AddCommand(newDevicesCommand(cli))
	root.AddCommand(newPlayCommand(cli))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
