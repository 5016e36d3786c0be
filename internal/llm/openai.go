// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_llm

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/rapidaai/celpip-practice/config"
	"github.com/rapidaai/celpip-practice/pkg/commons"
)

type openAIProvider struct {
	logger commons.Logger
	client openai.Client
	model  openai.ChatModel
}

func NewOpenAIProvider(cfg *config.AppConfig, logger commons.Logger) (Provider, error) {
	if cfg.OpenAiApiKey == "" {
		return nil, fmt.Errorf("openai: api key not configured")
	}
	return &openAIProvider{
		logger: logger,
		client: openai.NewClient(option.WithAPIKey(cfg.OpenAiApiKey)),
		model:  openai.ChatModelGPT4o,
	}, nil
}

func (p *openAIProvider) Name() string { return "openai" }

func (p *openAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices in response")
	}
	text := completion.Choices[0].Message.Content
	if text == "" {
		return "", fmt.Errorf("openai: empty completion")
	}
	p.logger.Debugf("openai: completion returned %d chars", len(text))
	return text, nil
}

func (p *openAIProvider) GenerateImage(ctx context.Context, prompt string) (*GeneratedImage, error) {
	image, err := p.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModelDallE3,
		Size:           openai.ImageGenerateParamsSize1024x1024,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: image generation: %w", err)
	}
	if len(image.Data) == 0 || image.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("openai: no image in response")
	}
	data, err := base64.StdEncoding.DecodeString(image.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("openai: image payload is not base64: %w", err)
	}
	p.logger.Debugf("openai: image generation returned %d bytes", len(data))
	return &GeneratedImage{Data: data, MIMEType: "image/png"}, nil
}
