// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_exam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpeakingTaskNeedsImages(t *testing.T) {
	visual := []SpeakingTaskType{
		SpeakingDescribingScene,
		SpeakingMakingPredictions,
		SpeakingComparingPersuading,
		SpeakingUnusualSituation,
	}
	for _, taskType := range visual {
		assert.True(t, SpeakingTaskNeedsImages(taskType), string(taskType))
	}
	textOnly := []SpeakingTaskType{
		SpeakingGivingAdvice,
		SpeakingPersonalExperience,
		SpeakingDifficultSituation,
		SpeakingExpressingOpinions,
	}
	for _, taskType := range textOnly {
		assert.False(t, SpeakingTaskNeedsImages(taskType), string(taskType))
	}
}

func TestSceneImagePrompt(t *testing.T) {
	task := &SpeakingTask{
		Type: SpeakingDescribingScene,
		Scenario: Scenario{
			"title":             "At the train station",
			"scene_description": "A crowded platform with commuters boarding a morning train.",
		},
	}
	prompt := SceneImagePrompt(task)
	assert.Contains(t, prompt, "A crowded platform with commuters boarding a morning train.")
	assert.Contains(t, prompt, "No text or words in the image")

	// falls back to the title when no description exists
	task.Scenario = Scenario{"title": "At the train station"}
	assert.Contains(t, SceneImagePrompt(task), "A detailed scene showing: At the train station")
}

func TestOptionImagePrompts(t *testing.T) {
	task := &SpeakingTask{
		Type: SpeakingComparingPersuading,
		Scenario: Scenario{
			"option_a": map[string]any{"title": "Cabin", "description": "A lakeside cabin weekend."},
			"option_b": "A city hotel stay.",
		},
	}
	promptA, promptB := OptionImagePrompts(task)
	assert.Contains(t, promptA, "A lakeside cabin weekend.")
	assert.Contains(t, promptB, "A city hotel stay.")

	// a missing option yields no prompt
	task.Scenario = Scenario{"option_a": map[string]any{"description": "Only one choice."}}
	promptA, promptB = OptionImagePrompts(task)
	assert.NotEmpty(t, promptA)
	assert.Empty(t, promptB)
}
