// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_exam

import (
	"fmt"
	"strings"
)

// speakingImageTasks names the task types whose scenario is presented
// visually: describing a scene, making predictions about one, describing an
// unusual situation, and the two-option comparison task.
var speakingImageTasks = map[SpeakingTaskType]bool{
	SpeakingDescribingScene:     true,
	SpeakingMakingPredictions:   true,
	SpeakingComparingPersuading: true,
	SpeakingUnusualSituation:    true,
}

// SpeakingTaskNeedsImages reports whether the task type shows the candidate
// an image instead of a written scenario.
func SpeakingTaskNeedsImages(t SpeakingTaskType) bool {
	return speakingImageTasks[t]
}

var sceneImageRequirements = []string{
	"The scene should be rich in detail to allow for comprehensive verbal description",
	"Include multiple people, objects, and activities that can be clearly identified",
	"Show clear spatial relationships between elements",
	"Use natural lighting and realistic proportions",
	"No text or words in the image",
	"Professional, clean, and educational style appropriate for a Canadian context",
}

// SceneImagePrompt builds the rendering prompt for a single-scene task from
// whatever scenario description the generator produced.
func SceneImagePrompt(task *SpeakingTask) string {
	parts := []string{}
	if d := sceneDescription(task.Scenario); d != "" {
		parts = append(parts, d)
	} else if title := task.Scenario.StringField("title"); title != "" {
		parts = append(parts, fmt.Sprintf("A detailed scene showing: %s", title))
	} else {
		parts = append(parts, fmt.Sprintf("A realistic scene for the speaking task %q", task.Type))
	}
	parts = append(parts, sceneImageRequirements...)
	return strings.Join(parts, ". ")
}

// OptionImagePrompts builds the pair of rendering prompts for the comparison
// task. Either prompt is empty when the scenario lacks that option.
func OptionImagePrompts(task *SpeakingTask) (string, string) {
	return optionPrompt(task.Scenario, "option_a"), optionPrompt(task.Scenario, "option_b")
}

func optionPrompt(scenario Scenario, key string) string {
	description := ""
	switch v := scenario[key].(type) {
	case string:
		description = v
	case map[string]any:
		for _, field := range []string{"description", "title"} {
			if s, _ := v[field].(string); s != "" {
				description = s
				break
			}
		}
	}
	if description == "" {
		return ""
	}
	parts := append([]string{description}, sceneImageRequirements...)
	return strings.Join(parts, ". ")
}

func sceneDescription(scenario Scenario) string {
	for _, key := range []string{"scene_description", "description", "situation", "context"} {
		if v := scenario.StringField(key); v != "" {
			return v
		}
	}
	return ""
}
