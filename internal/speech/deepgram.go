// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_speech

import (
	"bytes"
	"context"
	"fmt"

	prerecorded "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	listen "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"

	"github.com/rapidaai/celpip-practice/pkg/commons"
)

const deepgramModel = "nova-2"

type deepgramTranscriber struct {
	logger commons.Logger
	client *prerecorded.Client
}

// NewDeepgramTranscriber builds a prerecorded-audio transcriber against the
// Deepgram REST API.
func NewDeepgramTranscriber(apiKey string, logger commons.Logger) Transcriber {
	rest := listen.NewREST(apiKey, &interfaces.ClientOptions{})
	return &deepgramTranscriber{
		logger: logger,
		client: prerecorded.New(rest),
	}
}

func (d *deepgramTranscriber) Name() string {
	return "deepgram"
}

func (d *deepgramTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (*Transcription, error) {
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech: empty audio payload")
	}
	options := &interfaces.PreRecordedTranscriptionOptions{
		Model:       deepgramModel,
		SmartFormat: true,
		Punctuate:   true,
	}
	res, err := d.client.FromStream(ctx, bytes.NewReader(audio), options)
	if err != nil {
		d.logger.Errorf("speech: deepgram request failed %v", err)
		return nil, fmt.Errorf("speech: deepgram transcription failed: %w", err)
	}
	if res == nil || len(res.Results.Channels) == 0 || len(res.Results.Channels[0].Alternatives) == 0 {
		return nil, fmt.Errorf("speech: deepgram returned no alternatives")
	}
	alt := res.Results.Channels[0].Alternatives[0]
	return &Transcription{
		Transcript: alt.Transcript,
		Confidence: alt.Confidence,
	}, nil
}
