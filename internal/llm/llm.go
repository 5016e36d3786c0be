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

	"github.com/rapidaai/celpip-practice/config"
	"github.com/rapidaai/celpip-practice/pkg/commons"
)

// Provider generates content from a prompt. Implementations are expected to
// return JSON when the prompt asks for it; ExtractJSON cleans up the
// code-fence wrapping the models like to add anyway.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// AudioProvider additionally accepts inline audio next to the prompt. Only
// some backends can do this; callers type-assert when they need it.
type AudioProvider interface {
	Provider
	CompleteWithAudio(ctx context.Context, prompt string, audio []byte, mimeType string) (string, error)
}

// GeneratedImage is an image rendered by an image-capable backend.
type GeneratedImage struct {
	Data     []byte
	MIMEType string
}

// ImageProvider additionally renders images from a prompt. Anthropic has no
// image endpoint, so callers type-assert and treat the capability as
// optional.
type ImageProvider interface {
	Provider
	GenerateImage(ctx context.Context, prompt string) (*GeneratedImage, error)
}

// NewProvider builds the configured provider.
func NewProvider(cfg *config.AppConfig, logger commons.Logger) (Provider, error) {
	switch strings.ToLower(cfg.LLMProvider) {
	case "gemini":
		return NewGeminiProvider(cfg, logger)
	case "anthropic":
		return NewAnthropicProvider(cfg, logger)
	case "openai":
		return NewOpenAIProvider(cfg, logger)
	}
	return nil, fmt.Errorf("llm: unknown provider %q", cfg.LLMProvider)
}

// ExtractJSON pulls the JSON object out of a model response: strips markdown
// code fences and any prose around the outermost braces. HTML error pages
// sneaking through a provider's success path are rejected outright.
func ExtractJSON(response string) (string, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return "", fmt.Errorf("llm: empty response")
	}

	lower := strings.ToLower(response)
	if strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html") {
		return "", fmt.Errorf("llm: provider returned an HTML page instead of content")
	}

	if i := strings.Index(response, "```json"); i >= 0 {
		rest := response[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			response = rest[:j]
		} else {
			response = rest
		}
	} else if i := strings.Index(response, "```"); i >= 0 {
		rest := response[i+3:]
		if j := strings.Index(rest, "```"); j >= 0 {
			response = rest[:j]
		}
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("llm: no JSON object in response")
	}
	return response[start : end+1], nil
}
