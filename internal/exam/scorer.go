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
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	internal_llm "github.com/rapidaai/celpip-practice/internal/llm"
	"github.com/rapidaai/celpip-practice/pkg/commons"
	"github.com/rapidaai/celpip-practice/pkg/utils"
)

const (
	minCriterionScore = 1
	maxCriterionScore = 12
)

// Scorer relays submissions to the provider with the task's rubric and
// validates the returned shape. It holds no opinion of its own about
// language quality; the rubric result is the model's.
type Scorer struct {
	logger   commons.Logger
	provider internal_llm.Provider
}

func NewScorer(logger commons.Logger, provider internal_llm.Provider) *Scorer {
	return &Scorer{logger: logger, provider: provider}
}

// DecodeSpeakingTask rebuilds a typed task from the opaque task_context a
// submission carries. The context is round-tripped client-side untouched, so
// unknown fields are tolerated, missing core fields are not.
func DecodeSpeakingTask(raw map[string]any) (*SpeakingTask, error) {
	var task SpeakingTask
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &task,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("exam: build decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("exam: task context does not decode: %w", err)
	}
	if task.TaskID == "" || task.Type == "" {
		return nil, fmt.Errorf("exam: task context is missing task_id or task_type")
	}
	return &task, nil
}

// DecodeWritingTask rebuilds a typed writing task from an opaque
// task_context, with the same tolerance rules as DecodeSpeakingTask.
func DecodeWritingTask(raw map[string]any) (*WritingTask, error) {
	var task WritingTask
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &task,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("exam: build decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("exam: task context does not decode: %w", err)
	}
	if task.TaskID == "" || task.Type == "" {
		return nil, fmt.Errorf("exam: task context is missing task_id or task_type")
	}
	return &task, nil
}

// DecodeComprehensionTask rebuilds a reading or listening task, answer key
// included, from an opaque task_context.
func DecodeComprehensionTask(raw map[string]any) (*ComprehensionTask, error) {
	var task ComprehensionTask
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &task,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("exam: build decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("exam: task context does not decode: %w", err)
	}
	if task.TaskID == "" || len(task.Questions) == 0 {
		return nil, fmt.Errorf("exam: task context is missing task_id or questions")
	}
	return &task, nil
}

// ScoreSpeaking grades a transcript against the task rubric. The timing
// string (e.g. "used 85 of 90 seconds") is surfaced to the rubric verbatim.
func (s *Scorer) ScoreSpeaking(ctx context.Context, task *SpeakingTask, transcript, timing string) (*SpeakingScore, error) {
	if utils.IsEmpty(transcript) {
		return nil, fmt.Errorf("exam: cannot score an empty transcript")
	}

	prompt, err := renderSpeakingEvaluationPrompt(task, transcript, timing)
	if err != nil {
		return nil, err
	}
	s.logger.Debugf("exam: scoring speaking task %s with %s", task.TaskID, s.provider.Name())

	response, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("exam: score speaking: %w", err)
	}
	extracted, err := internal_llm.ExtractJSON(response)
	if err != nil {
		return nil, fmt.Errorf("exam: speaking score response: %w", err)
	}

	var score SpeakingScore
	if err := json.Unmarshal([]byte(extracted), &score); err != nil {
		return nil, fmt.Errorf("exam: speaking score does not match the expected shape: %w", err)
	}

	score.TaskID = task.TaskID
	score.SubmissionID = uuid.NewString()
	score.Transcript = transcript
	clampScores(&score.Scores)
	return &score, nil
}

// clampScores forces every criterion onto the 1-12 scale and recomputes the
// overall as the criterion mean when the model left it empty.
func clampScores(scores *SpeakingScores) {
	scores.ContentScore = utils.Clamp(scores.ContentScore, minCriterionScore, maxCriterionScore)
	scores.VocabularyScore = utils.Clamp(scores.VocabularyScore, minCriterionScore, maxCriterionScore)
	scores.LanguageUseScore = utils.Clamp(scores.LanguageUseScore, minCriterionScore, maxCriterionScore)
	scores.TaskFulfillmentScore = utils.Clamp(scores.TaskFulfillmentScore, minCriterionScore, maxCriterionScore)
	if scores.OverallScore == 0 {
		scores.OverallScore = utils.AverageFloat64([]float64{
			scores.ContentScore, scores.VocabularyScore,
			scores.LanguageUseScore, scores.TaskFulfillmentScore,
		})
	}
	scores.OverallScore = utils.Clamp(scores.OverallScore, minCriterionScore, maxCriterionScore)
}

// ScoreWriting reviews a submitted text against the task rubric. Word count
// and its appropriateness are computed locally, never taken from the model.
func (s *Scorer) ScoreWriting(ctx context.Context, task *WritingTask, text, chosenOption string) (*WritingReview, error) {
	words := len(strings.Fields(text))
	if words == 0 {
		return nil, fmt.Errorf("exam: cannot review an empty submission")
	}

	taskJSON, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("exam: marshal task: %w", err)
	}
	profile := task.Type.profile()
	prompt, err := writingReviewTemplate.Execute(pongo2.Context{
		"number":        task.Type.Number(),
		"title":         profile.Title,
		"task":          string(taskJSON),
		"text":          text,
		"word_count":    words,
		"chosen_option": chosenOption,
	})
	if err != nil {
		return nil, fmt.Errorf("exam: render review prompt: %w", err)
	}

	response, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("exam: review writing: %w", err)
	}
	extracted, err := internal_llm.ExtractJSON(response)
	if err != nil {
		return nil, fmt.Errorf("exam: writing review response: %w", err)
	}

	var review WritingReview
	if err := json.Unmarshal([]byte(extracted), &review); err != nil {
		return nil, fmt.Errorf("exam: writing review does not match the expected shape: %w", err)
	}

	review.TaskID = task.TaskID
	review.SubmissionID = uuid.NewString()
	review.WordCount = words
	review.WordCountAppropriate = words >= task.WordCountMin && words <= task.WordCountMax
	review.ChosenOption = chosenOption
	review.OverallScore = int(utils.Clamp(float64(review.OverallScore), minCriterionScore, maxCriterionScore))
	return &review, nil
}
