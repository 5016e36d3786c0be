// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/rapidaai/celpip-practice/config"
	"github.com/rapidaai/celpip-practice/pkg/commons"
)

const (
	geminiModel      = "gemini-2.0-flash"
	geminiImageModel = "imagen-3.0-generate-002"
)

// geminiProvider is the default backend. It is also the only one that takes
// inline audio, which the speech fallback path relies on.
type geminiProvider struct {
	logger commons.Logger
	client *genai.Client
	model  string
}

func NewGeminiProvider(cfg *config.AppConfig, logger commons.Logger) (AudioProvider, error) {
	if cfg.GeminiApiKey == "" {
		return nil, fmt.Errorf("gemini: api key not configured")
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.GeminiApiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: client init: %w", err)
	}
	return &geminiProvider{logger: logger, client: client, model: geminiModel}, nil
}

func (p *geminiProvider) Name() string { return "gemini" }

func (p *geminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("gemini: generate: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: empty candidate")
	}
	p.logger.Debugf("gemini: completion returned %d chars", len(text))
	return text, nil
}

func (p *geminiProvider) GenerateImage(ctx context.Context, prompt string) (*GeneratedImage, error) {
	resp, err := p.client.Models.GenerateImages(ctx, geminiImageModel, prompt,
		&genai.GenerateImagesConfig{NumberOfImages: 1})
	if err != nil {
		return nil, fmt.Errorf("gemini: generate image: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, fmt.Errorf("gemini: no image in response")
	}
	image := resp.GeneratedImages[0].Image
	mimeType := image.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}
	p.logger.Debugf("gemini: image generation returned %d bytes", len(image.ImageBytes))
	return &GeneratedImage{Data: image.ImageBytes, MIMEType: mimeType}, nil
}

func (p *geminiProvider) CompleteWithAudio(ctx context.Context, prompt string, audio []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(audio, mimeType),
		}, genai.RoleUser),
	}
	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini: generate with audio: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: empty candidate")
	}
	return text, nil
}
