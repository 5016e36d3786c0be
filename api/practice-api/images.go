// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package practice_api

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	internal_exam "github.com/rapidaai/celpip-practice/internal/exam"
)

type imageGenerationRequest struct {
	Prompt         string `json:"prompt" binding:"required,min=10"`
	Style          string `json:"style" binding:"omitempty,oneof=realistic cartoon professional casual educational diagram"`
	Context        string `json:"context"`
	NegativePrompt string `json:"negative_prompt"`
	TaskType       string `json:"task_type"`
}

// GenerateImage renders one image from a free-form prompt. Any task type can
// call it; speaking task generation also uses the same provider internally.
func (p *practiceApi) GenerateImage(c *gin.Context) {
	if p.images == nil {
		respondError(c, http.StatusNotImplemented, "the configured provider cannot generate images")
		return
	}
	var req imageGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	prompt := req.Prompt
	if req.Style != "" {
		prompt = fmt.Sprintf("%s. Style: %s", prompt, req.Style)
	}
	if req.Context != "" {
		prompt = fmt.Sprintf("%s. Context: %s", prompt, req.Context)
	}
	if req.NegativePrompt != "" {
		prompt = fmt.Sprintf("%s. Avoid: %s", prompt, req.NegativePrompt)
	}

	started := time.Now()
	image, err := p.images.GenerateImage(c.Request.Context(), prompt)
	if err != nil {
		p.logger.Errorf("practice: image generation failed %v", err)
		respondError(c, http.StatusBadGateway, "image generation failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":                 true,
		"image_data":              base64.StdEncoding.EncodeToString(image.Data),
		"mime_type":               image.MIMEType,
		"prompt_used":             prompt,
		"style_applied":           req.Style,
		"generation_time_seconds": time.Since(started).Seconds(),
	})
}

// illustrateSpeaking attaches scenario images to the task types that show
// one. Failures leave the task text-only rather than failing generation.
func (p *practiceApi) illustrateSpeaking(ctx context.Context, task *internal_exam.SpeakingTask) {
	if p.images == nil || !internal_exam.SpeakingTaskNeedsImages(task.Type) {
		return
	}
	if task.Type == internal_exam.SpeakingComparingPersuading {
		promptA, promptB := internal_exam.OptionImagePrompts(task)
		task.OptionAImage = p.renderImage(ctx, promptA, "option a")
		task.OptionBImage = p.renderImage(ctx, promptB, "option b")
		return
	}
	task.SceneImage = p.renderImage(ctx, internal_exam.SceneImagePrompt(task), "scene")
}

func (p *practiceApi) renderImage(ctx context.Context, prompt, label string) string {
	if prompt == "" {
		return ""
	}
	image, err := p.images.GenerateImage(ctx, prompt)
	if err != nil {
		p.logger.Warnf("practice: %s image generation failed, task stays text-only %v", label, err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(image.Data)
}
