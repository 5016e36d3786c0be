// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package practice_api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rapidaai/celpip-practice/config"
	internal_audio "github.com/rapidaai/celpip-practice/internal/audio"
	internal_exam "github.com/rapidaai/celpip-practice/internal/exam"
	internal_llm "github.com/rapidaai/celpip-practice/internal/llm"
	internal_narration "github.com/rapidaai/celpip-practice/internal/narration"
	internal_speech "github.com/rapidaai/celpip-practice/internal/speech"
	internal_submission "github.com/rapidaai/celpip-practice/internal/submission"
	"github.com/rapidaai/celpip-practice/pkg/commons"
)

type practiceApi struct {
	cfg         *config.AppConfig
	logger      commons.Logger
	generator   *internal_exam.Generator
	scorer      *internal_exam.Scorer
	transcriber internal_speech.Transcriber
	store       internal_submission.Store
	narration   []internal_narration.Normalizer
	images      internal_llm.ImageProvider
}

// NewPracticeApi wires the practice endpoints over the generation, scoring
// and transcription services. images may be nil when the configured provider
// cannot render them; visual tasks then stay text-only.
func NewPracticeApi(
	cfg *config.AppConfig,
	logger commons.Logger,
	generator *internal_exam.Generator,
	scorer *internal_exam.Scorer,
	transcriber internal_speech.Transcriber,
	store internal_submission.Store,
	images internal_llm.ImageProvider,
) *practiceApi {
	pipeline := internal_narration.DefaultPipeline(logger)
	if cfg.NarrationNormalizers != "" {
		pipeline = internal_narration.BuildPipeline(logger, strings.Split(cfg.NarrationNormalizers, commons.SEPARATOR))
	}
	return &practiceApi{
		cfg:         cfg,
		logger:      logger,
		generator:   generator,
		scorer:      scorer,
		transcriber: transcriber,
		store:       store,
		narration:   pipeline,
		images:      images,
	}
}

// audioSubmission is the encoded recording as the client ships it.
type audioSubmission struct {
	AudioData       string  `json:"audio_data" binding:"required"`
	AudioFormat     string  `json:"audio_format"`
	DurationSeconds float64 `json:"duration_seconds"`
}

type speakingScoreRequest struct {
	SessionID           string          `json:"session_id"`
	TaskID              string          `json:"task_id" binding:"required"`
	TaskContext         map[string]any  `json:"task_context" binding:"required"`
	Audio               audioSubmission `json:"audio" binding:"required"`
	PreparationTimeUsed float64         `json:"preparation_time_used"`
	SpeakingTimeUsed    float64         `json:"speaking_time_used"`
	SubmissionTimestamp string          `json:"submission_timestamp"`
}

// submissionTiming summarizes how the candidate spent the task phases so
// the rubric can judge time management.
func submissionTiming(req *speakingScoreRequest, task *internal_exam.SpeakingTask) string {
	parts := []string{}
	duration := req.Audio.DurationSeconds
	if duration == 0 {
		duration = req.SpeakingTimeUsed
	}
	if duration > 0 {
		parts = append(parts, fmt.Sprintf("The response lasted %.1f seconds out of %d seconds allowed.",
			duration, task.Instructions.SpeakingTimeSeconds))
	}
	if req.PreparationTimeUsed > 0 {
		parts = append(parts, fmt.Sprintf("Preparation took %.0f of %d seconds.",
			req.PreparationTimeUsed, task.Instructions.PreparationTimeSeconds))
	}
	return strings.Join(parts, " ")
}

type writingScoreRequest struct {
	SessionID    string         `json:"session_id"`
	TaskContext  map[string]any `json:"task_context" binding:"required"`
	Text         string         `json:"text" binding:"required"`
	ChosenOption string         `json:"chosen_option"`
}

type comprehensionScoreRequest struct {
	SessionID   string         `json:"session_id"`
	TaskContext map[string]any `json:"task_context" binding:"required"`
	Answers     map[int]string `json:"answers" binding:"required"`
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error_message": message})
}

// GenerateSpeaking builds a fresh speaking task for the task type named in
// the route and opens a session for it.
func (p *practiceApi) GenerateSpeaking(c *gin.Context) {
	taskType, err := internal_exam.ParseSpeakingTaskType(c.Param("taskType"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	task, err := p.generator.GenerateSpeaking(c.Request.Context(), taskType)
	if err != nil {
		p.logger.Errorf("practice: speaking generation failed %v", err)
		respondError(c, http.StatusBadGateway, "task generation failed")
		return
	}
	p.illustrateSpeaking(c.Request.Context(), task)
	sessionID := p.openSession(c, "speaking", task.TaskID, task)
	c.JSON(http.StatusOK, gin.H{"success": true, "session_id": sessionID, "task": task})
}

// ScoreSpeaking runs the full submission pipeline: decode the transported
// audio, transcribe it, then score the transcript against the task.
func (p *practiceApi) ScoreSpeaking(c *gin.Context) {
	var req speakingScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	task, err := internal_exam.DecodeSpeakingTask(req.TaskContext)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	p.logger.Debugf("practice: speaking submission task=%s submitted_at=%s", req.TaskID, req.SubmissionTimestamp)
	audio, audioErr := internal_audio.FromTransportString(req.Audio.AudioData, internal_audio.Format(req.Audio.AudioFormat))
	if audioErr != nil {
		respondError(c, http.StatusBadRequest, audioErr.Error())
		return
	}

	transcription, err := p.transcriber.Transcribe(c.Request.Context(), audio.Data, audio.Format.MIME())
	if err != nil {
		p.logger.Errorf("practice: transcription failed %v", err)
		respondError(c, http.StatusBadGateway, "transcription failed")
		return
	}

	score, err := p.scorer.ScoreSpeaking(c.Request.Context(), task, transcription.Transcript, submissionTiming(&req, task))
	if err != nil {
		p.logger.Errorf("practice: speaking scoring failed %v", err)
		respondError(c, http.StatusBadGateway, "scoring failed")
		return
	}
	score.ConfidenceLevel = transcription.Confidence

	p.closeSession(c, req.SessionID, score)
	c.JSON(http.StatusOK, gin.H{"success": true, "score": score})
}

// GenerateWriting builds a writing task (email or survey response).
func (p *practiceApi) GenerateWriting(c *gin.Context) {
	taskType, err := internal_exam.ParseWritingTaskType(c.Param("taskType"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	task, err := p.generator.GenerateWriting(c.Request.Context(), taskType)
	if err != nil {
		p.logger.Errorf("practice: writing generation failed %v", err)
		respondError(c, http.StatusBadGateway, "task generation failed")
		return
	}
	sessionID := p.openSession(c, "writing", task.TaskID, task)
	c.JSON(http.StatusOK, gin.H{"success": true, "session_id": sessionID, "task": task})
}

// ScoreWriting reviews a written submission against its task.
func (p *practiceApi) ScoreWriting(c *gin.Context) {
	var req writingScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	task, err := internal_exam.DecodeWritingTask(req.TaskContext)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	review, err := p.scorer.ScoreWriting(c.Request.Context(), task, req.Text, req.ChosenOption)
	if err != nil {
		p.logger.Errorf("practice: writing review failed %v", err)
		respondError(c, http.StatusBadGateway, "review failed")
		return
	}
	p.closeSession(c, req.SessionID, review)
	c.JSON(http.StatusOK, gin.H{"success": true, "score": review})
}

// GenerateComprehension builds a reading or listening set; the section comes
// from the route. Listening passages additionally carry a narration script
// prepared for spoken delivery.
func (p *practiceApi) GenerateComprehension(section string) gin.HandlerFunc {
	return func(c *gin.Context) {
		task, err := p.generator.GenerateComprehension(c.Request.Context(), section)
		if err != nil {
			p.logger.Errorf("practice: %s generation failed %v", section, err)
			respondError(c, http.StatusBadGateway, "task generation failed")
			return
		}
		sessionID := p.openSession(c, section, task.TaskID, task)
		payload := gin.H{"success": true, "session_id": sessionID, "task": task}
		if section == "listening" {
			payload["narration_script"] = internal_narration.PrepareScript(task.Passage, p.narration)
		}
		c.JSON(http.StatusOK, payload)
	}
}

// ScoreComprehension grades answers locally against the task's answer key.
func (p *practiceApi) ScoreComprehension(c *gin.Context) {
	var req comprehensionScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	task, err := internal_exam.DecodeComprehensionTask(req.TaskContext)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	score := internal_exam.ScoreComprehension(task, req.Answers)
	p.closeSession(c, req.SessionID, score)
	c.JSON(http.StatusOK, gin.H{"success": true, "score": score})
}

// GetSession returns a previously opened session with whatever state it has
// reached, so clients can re-fetch score reports.
func (p *practiceApi) GetSession(c *gin.Context) {
	session, err := p.store.Get(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

func (p *practiceApi) openSession(c *gin.Context, section, taskID string, task any) string {
	sessionID, err := p.store.Save(c.Request.Context(), &internal_submission.Session{
		Section: section,
		TaskID:  taskID,
		Task:    task,
	})
	if err != nil {
		p.logger.Warnf("practice: session save failed %v", err)
		return ""
	}
	return sessionID
}

// closeSession is best-effort: a scored submission is still returned to the
// caller even when the session id is stale or missing.
func (p *practiceApi) closeSession(c *gin.Context, sessionID string, score any) {
	if sessionID == "" {
		return
	}
	ctx := c.Request.Context()
	if _, err := p.store.Claim(ctx, sessionID); err != nil {
		p.logger.Warnf("practice: session claim failed %v", err)
		return
	}
	if err := p.store.Complete(ctx, sessionID, score); err != nil {
		p.logger.Warnf("practice: session completion failed %v", err)
	}
}
