// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/rapidaai/celpip-practice/config"
	"github.com/rapidaai/celpip-practice/pkg/commons"
)

const anthropicMaxTokens = 4096

type anthropicProvider struct {
	logger commons.Logger
	client anthropic.Client
	model  anthropic.Model
}

func NewAnthropicProvider(cfg *config.AppConfig, logger commons.Logger) (Provider, error) {
	if cfg.AnthropicApiKey == "" {
		return nil, fmt.Errorf("anthropic: api key not configured")
	}
	return &anthropicProvider{
		logger: logger,
		client: anthropic.NewClient(option.WithAPIKey(cfg.AnthropicApiKey)),
		model:  anthropic.ModelClaudeSonnet4_0,
	}, nil
}

func (p *anthropicProvider) Name() string { return "anthropic" }

func (p *anthropicProvider) Complete(ctx context.Context, prompt string) (string, error) {
	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: messages: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic: no text blocks in response")
	}
	p.logger.Debugf("anthropic: completion returned %d chars", sb.Len())
	return sb.String(), nil
}
