// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_exam

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/google/uuid"

	internal_llm "github.com/rapidaai/celpip-practice/internal/llm"
	"github.com/rapidaai/celpip-practice/pkg/commons"
)

const (
	readingQuestionCount   = 5
	listeningQuestionCount = 5
)

// GeneratorOption customizes construction.
type GeneratorOption func(*Generator)

// WithRandSource pins the sampling source for tests.
func WithRandSource(src rand.Source) GeneratorOption {
	return func(g *Generator) { g.rng = rand.New(src) }
}

// Generator produces practice tasks by prompting the configured provider and
// validating the JSON it returns. Identifier and timing fields are never
// trusted from the model: the generator stamps them.
type Generator struct {
	logger   commons.Logger
	provider internal_llm.Provider

	mu  sync.Mutex
	rng *rand.Rand
}

func NewGenerator(logger commons.Logger, provider internal_llm.Provider, opts ...GeneratorOption) *Generator {
	g := &Generator{
		logger:   logger,
		provider: provider,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateSpeaking builds one speaking task of the given type.
func (g *Generator) GenerateSpeaking(ctx context.Context, taskType SpeakingTaskType) (*SpeakingTask, error) {
	if _, ok := speakingTimings[taskType]; !ok {
		return nil, fmt.Errorf("exam: unknown speaking task type %q", taskType)
	}

	g.mu.Lock()
	prompt, err := renderSpeakingGenerationPrompt(taskType, g.rng)
	g.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("exam: render prompt: %w", err)
	}

	raw, err := g.generateJSON(ctx, prompt, "speaking task "+string(taskType))
	if err != nil {
		return nil, err
	}

	var task SpeakingTask
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, fmt.Errorf("exam: speaking task does not match the expected shape: %w", err)
	}
	if task.Scenario == nil || len(task.Scenario) == 0 {
		return nil, fmt.Errorf("exam: speaking task is missing its scenario")
	}
	if task.Instructions.TaskDescription == "" {
		return nil, fmt.Errorf("exam: speaking task is missing instructions")
	}

	g.stampSpeaking(&task, taskType)
	g.logger.Infof("exam: generated speaking task %d (%s) id=%s", taskType.Number(), taskType, task.TaskID)
	return &task, nil
}

// stampSpeaking overwrites the fields the model is not authoritative for.
func (g *Generator) stampSpeaking(task *SpeakingTask, taskType SpeakingTaskType) {
	timing := taskType.Timings()
	task.TaskID = uuid.NewString()
	task.Type = taskType
	task.Scenario["scenario_id"] = uuid.NewString()
	task.Instructions.SelectionTimeSeconds = timing.SelectionTimeSeconds
	task.Instructions.PreparationTimeSeconds = timing.PreparationTimeSeconds
	task.Instructions.SpeakingTimeSeconds = timing.SpeakingTimeSeconds
	task.EstimatedDurationMinutes = timing.EstimatedMinutes
	if task.DifficultyLevel == "" {
		task.DifficultyLevel = "intermediate"
	}
	if len(task.Instructions.EvaluationCriteria) == 0 {
		task.Instructions.EvaluationCriteria = []string{
			"Content and ideas", "Vocabulary", "Language use", "Task fulfillment",
		}
	}
}

// GenerateWriting builds one writing task of the given type.
func (g *Generator) GenerateWriting(ctx context.Context, taskType WritingTaskType) (*WritingTask, error) {
	profile, ok := writingProfiles[taskType]
	if !ok {
		return nil, fmt.Errorf("exam: unknown writing task type %q", taskType)
	}

	g.mu.Lock()
	var theme string
	if taskType == WritingEmail {
		theme = emailScenarioThemes[g.rng.Intn(len(emailScenarioThemes))]
	} else {
		theme = surveyThemes[g.rng.Intn(len(surveyThemes))]
	}
	g.mu.Unlock()

	prompt, err := writingGenerationTemplate.Execute(pongo2.Context{
		"number":          taskType.Number(),
		"title":           profile.Title,
		"theme":           theme,
		"time_limit":      profile.TimeLimitMinutes,
		"word_min":        profile.WordCountMin,
		"word_max":        profile.WordCountMax,
		"response_format": writingResponseFormats[taskType],
	})
	if err != nil {
		return nil, fmt.Errorf("exam: render prompt: %w", err)
	}

	raw, err := g.generateJSON(ctx, prompt, "writing task "+string(taskType))
	if err != nil {
		return nil, err
	}

	var task WritingTask
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, fmt.Errorf("exam: writing task does not match the expected shape: %w", err)
	}
	if task.Scenario == nil || len(task.Scenario) == 0 {
		return nil, fmt.Errorf("exam: writing task is missing its scenario")
	}

	task.TaskID = uuid.NewString()
	task.Type = taskType
	task.Scenario["scenario_id"] = uuid.NewString()
	task.TimeLimitMinutes = profile.TimeLimitMinutes
	task.WordCountMin = profile.WordCountMin
	task.WordCountMax = profile.WordCountMax
	task.Instructions = profile.Instructions
	if task.DifficultyLevel == "" {
		task.DifficultyLevel = "intermediate"
	}
	g.logger.Infof("exam: generated writing task %d (%s) id=%s", taskType.Number(), taskType, task.TaskID)
	return &task, nil
}

// GenerateComprehension builds a reading or listening practice set.
func (g *Generator) GenerateComprehension(ctx context.Context, section string) (*ComprehensionTask, error) {
	var (
		topic       string
		spoken      bool
		count       int
		passageKind string
	)
	switch section {
	case "reading":
		g.mu.Lock()
		topic = readingTopics[g.rng.Intn(len(readingTopics))]
		g.mu.Unlock()
		count = readingQuestionCount
	case "listening":
		g.mu.Lock()
		topic = listeningTopics[g.rng.Intn(len(listeningTopics))]
		g.mu.Unlock()
		count = listeningQuestionCount
		spoken = true
		passageKind = "conversation or announcement"
	default:
		return nil, fmt.Errorf("exam: unknown comprehension section %q", section)
	}

	prompt, err := comprehensionGenerationTemplate.Execute(pongo2.Context{
		"section":         section,
		"topic":           topic,
		"question_count":  count,
		"spoken":          spoken,
		"passage_kind":    passageKind,
		"response_format": comprehensionResponseFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("exam: render prompt: %w", err)
	}

	raw, err := g.generateJSON(ctx, prompt, section+" set")
	if err != nil {
		return nil, err
	}

	var task ComprehensionTask
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, fmt.Errorf("exam: %s set does not match the expected shape: %w", section, err)
	}
	if task.Passage == "" || len(task.Questions) == 0 {
		return nil, fmt.Errorf("exam: %s set is missing passage or questions", section)
	}

	task.TaskID = uuid.NewString()
	task.Section = section
	for i := range task.Questions {
		task.Questions[i].QuestionID = uuid.NewString()
		if task.Questions[i].QuestionNumber == 0 {
			task.Questions[i].QuestionNumber = i + 1
		}
		if err := validateQuestion(&task.Questions[i]); err != nil {
			return nil, fmt.Errorf("exam: %s question %d: %w", section, i+1, err)
		}
	}
	g.logger.Infof("exam: generated %s set id=%s questions=%d", section, task.TaskID, len(task.Questions))
	return &task, nil
}

func validateQuestion(q *ComprehensionQuestion) error {
	if q.QuestionText == "" {
		return fmt.Errorf("empty question text")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("needs at least two options, got %d", len(q.Options))
	}
	switch q.CorrectAnswer {
	case "A", "B", "C", "D", "a", "b", "c", "d":
		return nil
	}
	return fmt.Errorf("correct answer %q is not an option letter", q.CorrectAnswer)
}

// generateJSON runs one completion and returns the extracted JSON bytes.
func (g *Generator) generateJSON(ctx context.Context, prompt, what string) ([]byte, error) {
	g.logger.Debugf("exam: generating %s with %s", what, g.provider.Name())
	response, err := g.provider.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("exam: generate %s: %w", what, err)
	}
	extracted, err := internal_llm.ExtractJSON(response)
	if err != nil {
		return nil, fmt.Errorf("exam: %s response: %w", what, err)
	}
	if !json.Valid([]byte(extracted)) {
		return nil, fmt.Errorf("exam: %s response is not valid JSON", what)
	}
	return []byte(extracted), nil
}
