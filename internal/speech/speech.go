// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_speech

import (
	"context"
	"fmt"

	"github.com/rapidaai/celpip-practice/config"
	internal_llm "github.com/rapidaai/celpip-practice/internal/llm"
	"github.com/rapidaai/celpip-practice/pkg/commons"
)

// Transcription is the text recovered from a spoken submission.
type Transcription struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

// Transcriber turns encoded audio into text. Implementations receive the
// raw encoded bytes together with their MIME type; they never see transport
// encodings.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, audio []byte, mimeType string) (*Transcription, error)
}

// NewTranscriber selects a speech backend from configuration. Deepgram is
// preferred when a key is present; otherwise transcription runs through the
// generative provider's inline audio support.
func NewTranscriber(cfg *config.AppConfig, provider internal_llm.Provider, logger commons.Logger) (Transcriber, error) {
	if cfg.DeepgramApiKey != "" {
		return NewDeepgramTranscriber(cfg.DeepgramApiKey, logger), nil
	}
	audioProvider, ok := provider.(internal_llm.AudioProvider)
	if !ok {
		return nil, fmt.Errorf("speech: provider %s cannot accept audio and no deepgram key is configured", provider.Name())
	}
	logger.Infof("speech: no deepgram key, transcribing through %s", provider.Name())
	return NewProviderTranscriber(audioProvider, logger), nil
}
