// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_exam

import "strings"

// ComprehensionQuestion is one multiple-choice question with its answer key.
type ComprehensionQuestion struct {
	QuestionID     string   `json:"question_id" mapstructure:"question_id"`
	QuestionNumber int      `json:"question_number" mapstructure:"question_number"`
	QuestionText   string   `json:"question_text" mapstructure:"question_text"`
	Options        []string `json:"options" mapstructure:"options"`
	CorrectAnswer  string   `json:"correct_answer" mapstructure:"correct_answer"`
	Explanation    string   `json:"explanation,omitempty" mapstructure:"explanation"`
}

// ComprehensionTask is a reading or listening practice set. For listening
// tasks the passage text doubles as the narration script.
type ComprehensionTask struct {
	TaskID           string                  `json:"task_id" mapstructure:"task_id"`
	Section          string                  `json:"section" mapstructure:"section"` // "reading" or "listening"
	Title            string                  `json:"title" mapstructure:"title"`
	Passage          string                  `json:"passage" mapstructure:"passage"`
	Questions        []ComprehensionQuestion `json:"questions" mapstructure:"questions"`
	TimeLimitMinutes int                     `json:"time_limit_minutes" mapstructure:"time_limit_minutes"`
}

// QuestionResult is the per-question outcome of answer-key scoring.
type QuestionResult struct {
	QuestionNumber int    `json:"question_number"`
	GivenAnswer    string `json:"given_answer"`
	CorrectAnswer  string `json:"correct_answer"`
	IsCorrect      bool   `json:"is_correct"`
	Explanation    string `json:"explanation,omitempty"`
}

// ComprehensionScore is a pure answer-key comparison; no model involved.
type ComprehensionScore struct {
	TaskID       string           `json:"task_id"`
	CorrectCount int              `json:"correct_count"`
	TotalCount   int              `json:"total_count"`
	Percentage   float64          `json:"percentage"`
	Results      []QuestionResult `json:"results"`
}

// ScoreComprehension grades answers against the task's answer key. Answers
// are keyed by question number; letter comparison is case-insensitive, and
// unanswered questions count as wrong.
func ScoreComprehension(task *ComprehensionTask, answers map[int]string) *ComprehensionScore {
	score := &ComprehensionScore{
		TaskID:     task.TaskID,
		TotalCount: len(task.Questions),
	}
	for _, q := range task.Questions {
		given := strings.ToUpper(strings.TrimSpace(answers[q.QuestionNumber]))
		want := strings.ToUpper(strings.TrimSpace(q.CorrectAnswer))
		result := QuestionResult{
			QuestionNumber: q.QuestionNumber,
			GivenAnswer:    given,
			CorrectAnswer:  want,
			IsCorrect:      given != "" && given == want,
			Explanation:    q.Explanation,
		}
		if result.IsCorrect {
			score.CorrectCount++
		}
		score.Results = append(score.Results, result)
	}
	if score.TotalCount > 0 {
		score.Percentage = float64(score.CorrectCount) / float64(score.TotalCount) * 100
	}
	return score
}

const comprehensionResponseFormat = `{
  "task_id": "unique_task_id",
  "title": "brief_title_of_the_set",
  "passage": "the_full_passage_or_spoken_script",
  "time_limit_minutes": 10,
  "questions": [
    {
      "question_id": "unique_question_id",
      "question_number": 1,
      "question_text": "the_question",
      "options": ["A) ...", "B) ...", "C) ...", "D) ..."],
      "correct_answer": "A",
      "explanation": "why_this_answer_is_correct"
    }
  ]
}`
