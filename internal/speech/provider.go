// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_speech

import (
	"context"
	"encoding/json"
	"fmt"

	internal_llm "github.com/rapidaai/celpip-practice/internal/llm"
	"github.com/rapidaai/celpip-practice/pkg/commons"
)

const transcriptionPrompt = `Transcribe the attached audio recording verbatim.
Respond with JSON only, no commentary:
{
  "transcript": "the_spoken_words",
  "confidence": 0.0
}
confidence is your own estimate between 0.0 and 1.0 of the transcription accuracy.`

type providerTranscriber struct {
	logger   commons.Logger
	provider internal_llm.AudioProvider
}

// NewProviderTranscriber transcribes through a generative provider with
// inline audio support.
func NewProviderTranscriber(provider internal_llm.AudioProvider, logger commons.Logger) Transcriber {
	return &providerTranscriber{logger: logger, provider: provider}
}

func (p *providerTranscriber) Name() string {
	return p.provider.Name()
}

func (p *providerTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (*Transcription, error) {
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech: empty audio payload")
	}
	response, err := p.provider.CompleteWithAudio(ctx, transcriptionPrompt, audio, mimeType)
	if err != nil {
		return nil, fmt.Errorf("speech: %s transcription failed: %w", p.provider.Name(), err)
	}
	payload, err := internal_llm.ExtractJSON(response)
	if err != nil {
		return nil, fmt.Errorf("speech: unparseable transcription response: %w", err)
	}
	var result Transcription
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("speech: malformed transcription payload: %w", err)
	}
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}
	return &result, nil
}
