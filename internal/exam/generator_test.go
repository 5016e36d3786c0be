// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_exam

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(args ...interface{})                 {}
func (nopLogger) Debugf(format string, args ...interface{}) {}
func (nopLogger) Info(args ...interface{})                  {}
func (nopLogger) Infof(format string, args ...interface{})  {}
func (nopLogger) Warn(args ...interface{})                  {}
func (nopLogger) Warnf(format string, args ...interface{})  {}
func (nopLogger) Error(args ...interface{})                 {}
func (nopLogger) Errorf(format string, args ...interface{}) {}
func (nopLogger) Fatalf(format string, args ...interface{}) {}
func (nopLogger) Sync() error                               { return nil }

// fakeProvider returns a canned response and records the prompt it saw.
type fakeProvider struct {
	response string
	err      error
	prompts  []string
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if p.err != nil {
		return "", p.err
	}
	return p.response, nil
}

func newTestGenerator(provider *fakeProvider) *Generator {
	return NewGenerator(nopLogger{}, provider, WithRandSource(rand.NewSource(1)))
}

const cannedSpeakingTask = "```json\n" + `{
  "task_id": "model-made-this-up",
  "task_type": "giving_advice",
  "scenario": {
    "scenario_id": "also-made-up",
    "title": "Choosing a first car",
    "situation": "Your friend Sarah wants to buy her first car but has no idea where to start.",
    "context": "Sarah just got her licence and commutes across Calgary every day.",
    "person_description": "A close friend who values your opinion",
    "advice_topic": "financial planning"
  },
  "instructions": {
    "preparation_time_seconds": 99,
    "speaking_time_seconds": 99,
    "task_description": "Give Sarah advice about buying her first car.",
    "evaluation_criteria": ["Content and ideas", "Vocabulary", "Language use", "Task fulfillment"],
    "tips": ["Structure your advice", "Give reasons"]
  },
  "difficulty_level": "intermediate",
  "estimated_duration_minutes": 9
}` + "\n```"

func TestGenerateSpeakingStampsIdentityAndTimings(t *testing.T) {
	provider := &fakeProvider{response: cannedSpeakingTask}
	generator := newTestGenerator(provider)

	task, err := generator.GenerateSpeaking(context.Background(), SpeakingGivingAdvice)
	require.NoError(t, err)

	assert.NotEqual(t, "model-made-this-up", task.TaskID, "task id is stamped, not trusted")
	assert.NotEqual(t, "also-made-up", task.Scenario.StringField("scenario_id"))
	assert.Equal(t, SpeakingGivingAdvice, task.Type)

	// Timings come from the exam profile regardless of what the model said.
	assert.Equal(t, 30, task.Instructions.PreparationTimeSeconds)
	assert.Equal(t, 90, task.Instructions.SpeakingTimeSeconds)
	assert.Zero(t, task.Instructions.SelectionTimeSeconds)
	assert.Equal(t, 3, task.EstimatedDurationMinutes)

	assert.Equal(t, "Choosing a first car", task.Scenario.StringField("title"))
	assert.NotEmpty(t, task.Instructions.TaskDescription)
}

func TestGenerateSpeakingTask5HasSelectionPhase(t *testing.T) {
	canned := strings.ReplaceAll(cannedSpeakingTask, "giving_advice", "comparing_and_persuading")
	provider := &fakeProvider{response: canned}
	generator := newTestGenerator(provider)

	task, err := generator.GenerateSpeaking(context.Background(), SpeakingComparingPersuading)
	require.NoError(t, err)
	assert.Equal(t, 60, task.Instructions.SelectionTimeSeconds)
	assert.Equal(t, 60, task.Instructions.PreparationTimeSeconds)
	assert.Equal(t, 60, task.Instructions.SpeakingTimeSeconds)
}

func TestGenerateSpeakingPromptCarriesTaskRequirements(t *testing.T) {
	provider := &fakeProvider{response: cannedSpeakingTask}
	generator := newTestGenerator(provider)

	_, err := generator.GenerateSpeaking(context.Background(), SpeakingGivingAdvice)
	require.NoError(t, err)

	require.Len(t, provider.prompts, 1)
	prompt := provider.prompts[0]
	assert.Contains(t, prompt, "Speaking Task 1 (Giving Advice)")
	assert.Contains(t, prompt, "Preparation Time: 30 seconds")
	assert.Contains(t, prompt, "Speaking Time: 90 seconds")
	assert.Contains(t, prompt, `"task_type": "giving_advice"`)
	assert.Contains(t, prompt, "SCENARIO:")
}

func TestGenerateSpeakingRejectsBadResponses(t *testing.T) {
	cases := []struct {
		name     string
		response string
	}{
		{"not json", "I'm sorry, I can't do that."},
		{"missing scenario", `{"task_id": "x", "task_type": "giving_advice", "instructions": {"task_description": "d"}}`},
		{"missing instructions", `{"task_id": "x", "task_type": "giving_advice", "scenario": {"title": "t"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			generator := newTestGenerator(&fakeProvider{response: tc.response})
			_, err := generator.GenerateSpeaking(context.Background(), SpeakingGivingAdvice)
			require.Error(t, err)
		})
	}
}

func TestGenerateSpeakingPropagatesProviderFailure(t *testing.T) {
	generator := newTestGenerator(&fakeProvider{err: errors.New("quota exhausted")})
	_, err := generator.GenerateSpeaking(context.Background(), SpeakingGivingAdvice)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exhausted")
}

func TestGenerateWriting(t *testing.T) {
	provider := &fakeProvider{response: `{
		"task_id": "ignored",
		"task_type": "email",
		"scenario": {
			"title": "Broken elevator",
			"context": "The elevator in your building has been broken for two weeks.",
			"recipient": "building manager",
			"purpose": "complaint",
			"key_points": ["describe the problem", "explain the impact", "request a repair date"],
			"tone": "formal",
			"relationship": "business"
		}
	}`}
	generator := newTestGenerator(provider)

	task, err := generator.GenerateWriting(context.Background(), WritingEmail)
	require.NoError(t, err)
	assert.NotEmpty(t, task.TaskID)
	assert.Equal(t, WritingEmail, task.Type)
	assert.Equal(t, 27, task.TimeLimitMinutes)
	assert.Equal(t, 150, task.WordCountMin)
	assert.Equal(t, 200, task.WordCountMax)
	assert.NotEmpty(t, task.Instructions)
	assert.Equal(t, "building manager", task.Scenario.StringField("recipient"))
}

func TestGenerateComprehensionValidatesAnswerKey(t *testing.T) {
	good := `{
		"title": "Lost cat",
		"passage": "Two neighbours talk about a missing cat named Maple.",
		"time_limit_minutes": 10,
		"questions": [
			{"question_number": 1, "question_text": "What is the cat called?",
			 "options": ["A) Maple", "B) Willow", "C) Birch", "D) Cedar"],
			 "correct_answer": "A", "explanation": "Named in the first line."}
		]
	}`
	generator := newTestGenerator(&fakeProvider{response: good})
	task, err := generator.GenerateComprehension(context.Background(), "listening")
	require.NoError(t, err)
	assert.Equal(t, "listening", task.Section)
	require.Len(t, task.Questions, 1)
	assert.NotEmpty(t, task.Questions[0].QuestionID)

	bad := strings.Replace(good, `"correct_answer": "A"`, `"correct_answer": "Maple"`, 1)
	generator = newTestGenerator(&fakeProvider{response: bad})
	_, err = generator.GenerateComprehension(context.Background(), "listening")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an option letter")
}

func TestGenerateComprehensionUnknownSection(t *testing.T) {
	generator := newTestGenerator(&fakeProvider{})
	_, err := generator.GenerateComprehension(context.Background(), "grammar")
	require.Error(t, err)
}

func TestSpeakingTaskTypeParsing(t *testing.T) {
	byName, err := ParseSpeakingTaskType("expressing_opinions")
	require.NoError(t, err)
	assert.Equal(t, SpeakingExpressingOpinions, byName)

	byNumber, err := ParseSpeakingTaskType("7")
	require.NoError(t, err)
	assert.Equal(t, SpeakingExpressingOpinions, byNumber)

	_, err = ParseSpeakingTaskType("9")
	require.Error(t, err)

	for n := 1; n <= 8; n++ {
		taskType, err := SpeakingTaskFromNumber(n)
		require.NoError(t, err)
		assert.Equal(t, n, taskType.Number())
	}
}
