// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_exam

import "fmt"

// SpeakingTaskType identifies one of the eight CELPIP speaking tasks.
type SpeakingTaskType string

const (
	SpeakingGivingAdvice        SpeakingTaskType = "giving_advice"
	SpeakingPersonalExperience  SpeakingTaskType = "talking_about_personal_experience"
	SpeakingDescribingScene     SpeakingTaskType = "describing_scene"
	SpeakingMakingPredictions   SpeakingTaskType = "making_predictions"
	SpeakingComparingPersuading SpeakingTaskType = "comparing_and_persuading"
	SpeakingDifficultSituation  SpeakingTaskType = "dealing_with_difficult_situation"
	SpeakingExpressingOpinions  SpeakingTaskType = "expressing_opinions"
	SpeakingUnusualSituation    SpeakingTaskType = "describing_unusual_situation"
)

// speakingTaskNumbers maps the exam's task numbering onto the types.
var speakingTaskNumbers = map[int]SpeakingTaskType{
	1: SpeakingGivingAdvice,
	2: SpeakingPersonalExperience,
	3: SpeakingDescribingScene,
	4: SpeakingMakingPredictions,
	5: SpeakingComparingPersuading,
	6: SpeakingDifficultSituation,
	7: SpeakingExpressingOpinions,
	8: SpeakingUnusualSituation,
}

// SpeakingTaskFromNumber resolves a 1-based task number.
func SpeakingTaskFromNumber(n int) (SpeakingTaskType, error) {
	t, ok := speakingTaskNumbers[n]
	if !ok {
		return "", fmt.Errorf("exam: no speaking task %d, valid range is 1-8", n)
	}
	return t, nil
}

// ParseSpeakingTaskType accepts either the type name or the task number.
func ParseSpeakingTaskType(s string) (SpeakingTaskType, error) {
	for n, t := range speakingTaskNumbers {
		if string(t) == s || fmt.Sprintf("%d", n) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("exam: unknown speaking task type %q", s)
}

// Number returns the exam's 1-based task number.
func (t SpeakingTaskType) Number() int {
	for n, typ := range speakingTaskNumbers {
		if typ == t {
			return n
		}
	}
	return 0
}

// TimingProfile carries the CELPIP-accurate phase timings for a task type.
// The generator always stamps these over whatever the model returned.
type TimingProfile struct {
	Title                  string
	SelectionTimeSeconds   int // only task 5 has a selection phase
	PreparationTimeSeconds int
	SpeakingTimeSeconds    int
	EstimatedMinutes       int
}

var speakingTimings = map[SpeakingTaskType]TimingProfile{
	SpeakingGivingAdvice:        {Title: "Giving Advice", PreparationTimeSeconds: 30, SpeakingTimeSeconds: 90, EstimatedMinutes: 3},
	SpeakingPersonalExperience:  {Title: "Talking about a Personal Experience", PreparationTimeSeconds: 30, SpeakingTimeSeconds: 60, EstimatedMinutes: 2},
	SpeakingDescribingScene:     {Title: "Describing a Scene", PreparationTimeSeconds: 30, SpeakingTimeSeconds: 60, EstimatedMinutes: 2},
	SpeakingMakingPredictions:   {Title: "Making Predictions", PreparationTimeSeconds: 30, SpeakingTimeSeconds: 60, EstimatedMinutes: 2},
	SpeakingComparingPersuading: {Title: "Comparing and Persuading", SelectionTimeSeconds: 60, PreparationTimeSeconds: 60, SpeakingTimeSeconds: 60, EstimatedMinutes: 3},
	SpeakingDifficultSituation:  {Title: "Dealing with a Difficult Situation", PreparationTimeSeconds: 60, SpeakingTimeSeconds: 60, EstimatedMinutes: 2},
	SpeakingExpressingOpinions:  {Title: "Expressing Opinions", PreparationTimeSeconds: 30, SpeakingTimeSeconds: 90, EstimatedMinutes: 2},
	SpeakingUnusualSituation:    {Title: "Describing an Unusual Situation", PreparationTimeSeconds: 30, SpeakingTimeSeconds: 60, EstimatedMinutes: 2},
}

// Timings returns the profile for the type; the zero profile for unknowns.
func (t SpeakingTaskType) Timings() TimingProfile {
	return speakingTimings[t]
}

// Scenario is the type-specific half of a task. Each task type has its own
// field set (advice topics, scene layouts, option pairs); they travel as an
// open map so one model covers all eight.
type Scenario map[string]any

// StringField reads a string field, empty when missing or mistyped.
func (s Scenario) StringField(key string) string {
	v, _ := s[key].(string)
	return v
}

// SpeakingInstructions carries the timing and guidance shown to the
// test-taker.
type SpeakingInstructions struct {
	SelectionTimeSeconds   int      `json:"selection_time_seconds,omitempty" mapstructure:"selection_time_seconds"`
	PreparationTimeSeconds int      `json:"preparation_time_seconds" mapstructure:"preparation_time_seconds"`
	SpeakingTimeSeconds    int      `json:"speaking_time_seconds" mapstructure:"speaking_time_seconds"`
	TaskDescription        string   `json:"task_description" mapstructure:"task_description"`
	EvaluationCriteria     []string `json:"evaluation_criteria" mapstructure:"evaluation_criteria"`
	Tips                   []string `json:"tips,omitempty" mapstructure:"tips"`
}

// SpeakingTask is the generated practice task, one shape for all eight types.
type SpeakingTask struct {
	TaskID                   string               `json:"task_id" mapstructure:"task_id"`
	Type                     SpeakingTaskType     `json:"task_type" mapstructure:"task_type"`
	Scenario                 Scenario             `json:"scenario" mapstructure:"scenario"`
	Instructions             SpeakingInstructions `json:"instructions" mapstructure:"instructions"`
	DifficultyLevel          string               `json:"difficulty_level" mapstructure:"difficulty_level"`
	EstimatedDurationMinutes int                  `json:"estimated_duration_minutes" mapstructure:"estimated_duration_minutes"`
	SceneImage               string               `json:"scene_image,omitempty" mapstructure:"scene_image"`
	OptionAImage             string               `json:"option_a_image,omitempty" mapstructure:"option_a_image"`
	OptionBImage             string               `json:"option_b_image,omitempty" mapstructure:"option_b_image"`
}

// SpeakingScores is the per-criterion breakdown, 1-12 scale.
type SpeakingScores struct {
	ContentScore         float64 `json:"content_score"`
	VocabularyScore      float64 `json:"vocabulary_score"`
	LanguageUseScore     float64 `json:"language_use_score"`
	TaskFulfillmentScore float64 `json:"task_fulfillment_score"`
	OverallScore         float64 `json:"overall_score"`
}

// SpeakingFeedback is the qualitative half of a score.
type SpeakingFeedback struct {
	Strengths           []string `json:"strengths"`
	Improvements        []string `json:"improvements"`
	SpecificSuggestions []string `json:"specific_suggestions"`
	PronunciationNotes  string   `json:"pronunciation_notes,omitempty"`
	FluencyNotes        string   `json:"fluency_notes,omitempty"`
}

// SpeakingScore is the full scoring result for one submission.
type SpeakingScore struct {
	TaskID          string           `json:"task_id"`
	SubmissionID    string           `json:"submission_id"`
	Scores          SpeakingScores   `json:"scores"`
	Feedback        SpeakingFeedback `json:"feedback"`
	Transcript      string           `json:"transcript,omitempty"`
	ConfidenceLevel float64          `json:"confidence_level,omitempty"`
}
