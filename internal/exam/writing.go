// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_exam

import "fmt"

// WritingTaskType identifies the two CELPIP writing tasks.
type WritingTaskType string

const (
	WritingEmail          WritingTaskType = "email"
	WritingSurveyResponse WritingTaskType = "survey_response"
)

// ParseWritingTaskType accepts the type name or the 1-based task number.
func ParseWritingTaskType(s string) (WritingTaskType, error) {
	switch s {
	case string(WritingEmail), "1":
		return WritingEmail, nil
	case string(WritingSurveyResponse), "2":
		return WritingSurveyResponse, nil
	}
	return "", fmt.Errorf("exam: unknown writing task type %q", s)
}

// Number returns the exam's task number.
func (t WritingTaskType) Number() int {
	if t == WritingSurveyResponse {
		return 2
	}
	return 1
}

type writingProfile struct {
	Title            string
	TimeLimitMinutes int
	WordCountMin     int
	WordCountMax     int
	Instructions     string
}

var writingProfiles = map[WritingTaskType]writingProfile{
	WritingEmail: {
		Title:            "Writing an Email",
		TimeLimitMinutes: 27,
		WordCountMin:     150,
		WordCountMax:     200,
		Instructions:     "Write an email responding to the situation described above. Your email should be between 150-200 words.",
	},
	WritingSurveyResponse: {
		Title:            "Responding to Survey Questions",
		TimeLimitMinutes: 26,
		WordCountMin:     150,
		WordCountMax:     200,
		Instructions:     "Choose ONE option that you prefer. Explain the reasons for your choice. Write about 150-200 words.",
	},
}

func (t WritingTaskType) profile() writingProfile { return writingProfiles[t] }

// WritingTask is the generated writing prompt. The scenario keys differ
// between the email task (recipient, purpose, key_points, tone) and the
// survey task (question, options, additional_considerations).
type WritingTask struct {
	TaskID           string          `json:"task_id" mapstructure:"task_id"`
	Type             WritingTaskType `json:"task_type" mapstructure:"task_type"`
	Scenario         Scenario        `json:"scenario" mapstructure:"scenario"`
	TimeLimitMinutes int             `json:"time_limit_minutes" mapstructure:"time_limit_minutes"`
	WordCountMin     int             `json:"word_count_min" mapstructure:"word_count_min"`
	WordCountMax     int             `json:"word_count_max" mapstructure:"word_count_max"`
	DifficultyLevel  string          `json:"difficulty_level" mapstructure:"difficulty_level"`
	Instructions     string          `json:"instructions" mapstructure:"instructions"`
}

// WritingCriteriaScore is one of the four rubric criteria.
type WritingCriteriaScore struct {
	Score               int      `json:"score"`
	Feedback            string   `json:"feedback"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	Examples            []string `json:"examples,omitempty"`
}

// WritingReview is the full rubric assessment of a submitted text.
type WritingReview struct {
	TaskID                string               `json:"task_id"`
	SubmissionID          string               `json:"submission_id"`
	OverallScore          int                  `json:"overall_score"`
	ContentCoherence      WritingCriteriaScore `json:"content_coherence"`
	Vocabulary            WritingCriteriaScore `json:"vocabulary"`
	Readability           WritingCriteriaScore `json:"readability"`
	TaskFulfillment       WritingCriteriaScore `json:"task_fulfillment"`
	OverallFeedback       string               `json:"overall_feedback"`
	ImprovementStrategies []string             `json:"improvement_strategies"`
	WordCount             int                  `json:"word_count"`
	WordCountAppropriate  bool                 `json:"is_word_count_appropriate"`
	KeyAchievements       []string             `json:"key_achievements"`
	PriorityImprovements  []string             `json:"priority_improvements"`
	ChosenOption          string               `json:"chosen_option,omitempty"`
}

var writingResponseFormats = map[WritingTaskType]string{
	WritingEmail: `{
  "task_id": "unique_task_id",
  "task_type": "email",
  "scenario": {
    "scenario_id": "unique_scenario_id",
    "title": "brief_title",
    "context": "situation_context_and_background",
    "recipient": "who_you_are_writing_to",
    "purpose": "purpose_of_the_email",
    "key_points": ["point_1", "point_2", "point_3"],
    "tone": "required_tone",
    "relationship": "relationship_to_recipient"
  },
  "difficulty_level": "intermediate"
}`,
	WritingSurveyResponse: `{
  "task_id": "unique_task_id",
  "task_type": "survey_response",
  "scenario": {
    "scenario_id": "unique_scenario_id",
    "title": "survey_title",
    "description": "survey_background_and_context",
    "question": "the_main_survey_question",
    "options": ["option_1", "option_2"],
    "additional_considerations": ["aspect_1", "aspect_2"]
  },
  "difficulty_level": "intermediate"
}`,
}
