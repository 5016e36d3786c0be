// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_exam

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adviceTask() *SpeakingTask {
	return &SpeakingTask{
		TaskID: "task-123",
		Type:   SpeakingGivingAdvice,
		Scenario: Scenario{
			"scenario_id": "scenario-1",
			"title":       "Choosing a first car",
			"situation":   "Your friend wants to buy her first car.",
		},
		Instructions: SpeakingInstructions{
			PreparationTimeSeconds: 30,
			SpeakingTimeSeconds:    90,
			TaskDescription:        "Give your friend advice.",
			EvaluationCriteria:     []string{"Content and ideas"},
		},
	}
}

const cannedScore = `{
  "scores": {
    "content_score": 9.0,
    "vocabulary_score": 8.5,
    "language_use_score": 8.0,
    "task_fulfillment_score": 9.5,
    "overall_score": 8.75
  },
  "feedback": {
    "strengths": ["Clear structure", "Relevant examples"],
    "improvements": ["Vary sentence openings"],
    "specific_suggestions": ["Practice linking phrases"],
    "pronunciation_notes": "Generally clear",
    "fluency_notes": "Good pacing"
  },
  "confidence_level": 0.9
}`

func TestScoreSpeaking(t *testing.T) {
	provider := &fakeProvider{response: cannedScore}
	scorer := NewScorer(nopLogger{}, provider)

	score, err := scorer.ScoreSpeaking(context.Background(), adviceTask(),
		"Well, I think you should start by setting a budget...", "used 85 of 90 seconds")
	require.NoError(t, err)

	assert.Equal(t, "task-123", score.TaskID)
	assert.NotEmpty(t, score.SubmissionID)
	assert.Equal(t, 8.75, score.Scores.OverallScore)
	assert.Contains(t, score.Transcript, "setting a budget")
	assert.Equal(t, 0.9, score.ConfidenceLevel)
	require.Len(t, score.Feedback.Strengths, 2)

	// The rubric prompt carries the scenario, the transcript and the timing.
	require.Len(t, provider.prompts, 1)
	prompt := provider.prompts[0]
	assert.Contains(t, prompt, "Choosing a first car")
	assert.Contains(t, prompt, "setting a budget")
	assert.Contains(t, prompt, "used 85 of 90 seconds")
}

func TestScoreSpeakingClampsOutOfScaleScores(t *testing.T) {
	response := strings.NewReplacer(
		`"content_score": 9.0`, `"content_score": 99`,
		`"vocabulary_score": 8.5`, `"vocabulary_score": -3`,
		`"overall_score": 8.75`, `"overall_score": 0`,
	).Replace(cannedScore)
	scorer := NewScorer(nopLogger{}, &fakeProvider{response: response})

	score, err := scorer.ScoreSpeaking(context.Background(), adviceTask(), "transcript text", "")
	require.NoError(t, err)
	assert.Equal(t, 12.0, score.Scores.ContentScore)
	assert.Equal(t, 1.0, score.Scores.VocabularyScore)
	// Zero overall is recomputed as the criterion mean, then clamped.
	assert.InDelta(t, (12.0+1.0+8.0+9.5)/4, score.Scores.OverallScore, 0.001)
}

func TestScoreSpeakingRejectsEmptyTranscript(t *testing.T) {
	scorer := NewScorer(nopLogger{}, &fakeProvider{response: cannedScore})
	_, err := scorer.ScoreSpeaking(context.Background(), adviceTask(), "   ", "")
	require.Error(t, err)
}

func TestDecodeSpeakingTask(t *testing.T) {
	raw := map[string]any{
		"task_id":   "task-9",
		"task_type": "expressing_opinions",
		"scenario": map[string]any{
			"scenario_id":     "s-1",
			"title":           "Four-day work week",
			"topic_statement": "People should be allowed to work a four-day work week",
		},
		"instructions": map[string]any{
			"preparation_time_seconds": 30,
			"speaking_time_seconds":    90,
			"task_description":         "State and defend your position.",
			"evaluation_criteria":      []any{"Content and ideas"},
		},
		"difficulty_level": "intermediate",
		"a_future_field":   "tolerated",
	}

	task, err := DecodeSpeakingTask(raw)
	require.NoError(t, err)
	assert.Equal(t, "task-9", task.TaskID)
	assert.Equal(t, SpeakingExpressingOpinions, task.Type)
	assert.Equal(t, 90, task.Instructions.SpeakingTimeSeconds)
	assert.Equal(t, "Four-day work week", task.Scenario.StringField("title"))
}

func TestDecodeSpeakingTaskRequiresIdentity(t *testing.T) {
	_, err := DecodeSpeakingTask(map[string]any{"scenario": map[string]any{}})
	require.Error(t, err)
}

func TestScoreWriting(t *testing.T) {
	criteria := `{"score": 8, "feedback": "good", "strengths": ["s"], "areas_for_improvement": ["a"]}`
	scorer := NewScorer(nopLogger{}, &fakeProvider{response: `{
		"overall_score": 8,
		"content_coherence": ` + criteria + `,
		"vocabulary": ` + criteria + `,
		"readability": ` + criteria + `,
		"task_fulfillment": ` + criteria + `,
		"overall_feedback": "Solid email",
		"improvement_strategies": ["read more"],
		"key_achievements": ["clear purpose"],
		"priority_improvements": ["tone"]
	}`})

	task := &WritingTask{
		TaskID:       "w-1",
		Type:         WritingEmail,
		Scenario:     Scenario{"title": "Broken elevator"},
		WordCountMin: 150,
		WordCountMax: 200,
	}
	text := strings.Repeat("word ", 170)

	review, err := scorer.ScoreWriting(context.Background(), task, text, "")
	require.NoError(t, err)
	assert.Equal(t, "w-1", review.TaskID)
	assert.Equal(t, 170, review.WordCount)
	assert.True(t, review.WordCountAppropriate)
	assert.Equal(t, 8, review.OverallScore)

	short, err := scorer.ScoreWriting(context.Background(), task, "far too short", "")
	require.NoError(t, err)
	assert.False(t, short.WordCountAppropriate)
}

func TestScoreWritingRejectsEmptyText(t *testing.T) {
	scorer := NewScorer(nopLogger{}, &fakeProvider{})
	_, err := scorer.ScoreWriting(context.Background(), &WritingTask{Type: WritingEmail}, "  ", "")
	require.Error(t, err)
}
