// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

// Package internal_submission tracks practice sessions between task
// generation and scoring. A session is created when a task is handed to the
// learner and closed when the submission has been scored; abandoned sessions
// age out.
package internal_submission

import "time"

const (
	StatusPending   = "pending"
	StatusClaimed   = "claimed"
	StatusCompleted = "completed"
)

// Session is one issued practice task and, once scored, its outcome.
type Session struct {
	SessionID string    `json:"session_id"`
	Section   string    `json:"section"` // speaking, writing, reading, listening
	TaskID    string    `json:"task_id"`
	Status    string    `json:"status"`
	Task      any       `json:"task,omitempty"`
	Score     any       `json:"score,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
