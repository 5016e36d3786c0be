// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_exam

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/flosch/pongo2/v6"
)

// promptSeed is one sampled ingredient surfaced to the model.
type promptSeed struct {
	Label string
	Value string
}

var speakingGenerationTemplate = pongo2.Must(pongo2.FromString(`Generate a realistic CELPIP Speaking Task {{ number }} ({{ title }}) in JSON format following the official CELPIP format.

{% for seed in seeds %}{{ seed.Label }}: {{ seed.Value }}
{% endfor %}
TASK REQUIREMENTS:
- Task Type: {{ title }}
{% if selection %}- Selection Time: {{ selection }} seconds
{% endif %}- Preparation Time: {{ preparation }} seconds
- Speaking Time: {{ speaking }} seconds
- Canadian English context
- Age-appropriate and culturally sensitive
- Realistic everyday situation
- Use common Canadian names

RESPONSE FORMAT (JSON):
{{ response_format|safe }}

CONTENT GUIDELINES:
1. Create a realistic Canadian scenario that fits the task type
2. The situation should be relatable to test-takers of various backgrounds
3. Include specific details that make the scenario authentic
4. Keep language clear and appropriate for intermediate-level speakers

Provide realistic, engaging content that reflects authentic Canadian situations and cultural context.`))

var speakingEvaluationTemplate = pongo2.Must(pongo2.FromString(`Evaluate this CELPIP Speaking Task {{ number }} ({{ title }}) response according to official CELPIP criteria.

TASK SCENARIO: {{ scenario|safe }}

TASK INSTRUCTIONS: {{ instructions|safe }}
{% if timing %}
TIMING INFORMATION: {{ timing }}
{% endif %}
TRANSCRIPT: {{ transcript|safe }}

EVALUATION CRITERIA (1-12 scale for each):

1. CONTENT (1-12): relevance to the task, depth and quality of ideas, personal insight.
2. VOCABULARY (1-12): range and variety, appropriateness of word choice, precision.
3. LANGUAGE USE (1-12): grammar accuracy, sentence structure variety, fluency and coherence.
4. TASK FULFILLMENT (1-12): addressing the specific request, completeness, organization, time management.

RESPONSE FORMAT (JSON):
{
  "scores": {
    "content_score": 0.0,
    "vocabulary_score": 0.0,
    "language_use_score": 0.0,
    "task_fulfillment_score": 0.0,
    "overall_score": 0.0
  },
  "feedback": {
    "strengths": ["specific_strength_1", "specific_strength_2"],
    "improvements": ["specific_improvement_1", "specific_improvement_2"],
    "specific_suggestions": ["actionable_suggestion_1", "actionable_suggestion_2"],
    "pronunciation_notes": "notes_about_pronunciation_if_applicable",
    "fluency_notes": "notes_about_fluency_and_pacing"
  },
  "confidence_level": 0.85
}

EVALUATION GUIDELINES:
- Be fair and constructive
- Provide specific, actionable feedback referencing the transcript
- Consider the intermediate level of CELPIP test-takers
- Balance criticism with encouragement`))

var writingGenerationTemplate = pongo2.Must(pongo2.FromString(`Generate a realistic CELPIP Writing Task {{ number }} ({{ title }}) in JSON format following the official CELPIP format.

THEME: {{ theme }}

TASK REQUIREMENTS:
- Time Limit: {{ time_limit }} minutes
- Word Count: {{ word_min }}-{{ word_max }} words
- Canadian English context
- Realistic everyday situation

RESPONSE FORMAT (JSON):
{{ response_format|safe }}

Provide realistic, engaging content that reflects authentic Canadian situations.`))

var writingReviewTemplate = pongo2.Must(pongo2.FromString(`Review this CELPIP Writing Task {{ number }} ({{ title }}) response according to official CELPIP criteria.

TASK: {{ task|safe }}
{% if chosen_option %}
CHOSEN OPTION: {{ chosen_option }}
{% endif %}
SUBMITTED TEXT ({{ word_count }} words): {{ text|safe }}

Score each criterion 1-12: Content & Coherence, Vocabulary, Readability, Task Fulfillment.

RESPONSE FORMAT (JSON):
{
  "overall_score": 0,
  "content_coherence": {"score": 0, "feedback": "...", "strengths": ["..."], "areas_for_improvement": ["..."], "examples": ["..."]},
  "vocabulary": {"score": 0, "feedback": "...", "strengths": ["..."], "areas_for_improvement": ["..."], "examples": ["..."]},
  "readability": {"score": 0, "feedback": "...", "strengths": ["..."], "areas_for_improvement": ["..."], "examples": ["..."]},
  "task_fulfillment": {"score": 0, "feedback": "...", "strengths": ["..."], "areas_for_improvement": ["..."], "examples": ["..."]},
  "overall_feedback": "...",
  "improvement_strategies": ["..."],
  "key_achievements": ["..."],
  "priority_improvements": ["..."]
}

Be fair, specific, and constructive; reference examples from the submitted text.`))

var comprehensionGenerationTemplate = pongo2.Must(pongo2.FromString(`Generate a realistic CELPIP {{ section }} practice set in JSON format.

TOPIC: {{ topic }}

REQUIREMENTS:
- {{ question_count }} multiple-choice questions, four options each (A, B, C, D)
- Exactly one correct answer per question, marked by letter
- Include a short explanation for every correct answer
- Canadian English, everyday register
{% if spoken %}- The passage is a spoken {{ passage_kind }}: write it as natural speech that will be read aloud
{% endif %}
RESPONSE FORMAT (JSON):
{{ response_format|safe }}

Keep the passage self-contained so every question is answerable from it alone.`))

// scenarioSkeletons holds the per-type scenario JSON shape embedded in the
// generation prompt. Instructions and envelope fields are shared.
var scenarioSkeletons = map[SpeakingTaskType]string{
	SpeakingGivingAdvice: `{
    "scenario_id": "unique_scenario_id",
    "title": "brief_title_of_scenario",
    "situation": "detailed_description_of_situation_requiring_advice",
    "context": "background_information_and_setting",
    "person_description": "description_of_person_asking_for_advice",
    "advice_topic": "main_topic_category"
  }`,
	SpeakingPersonalExperience: `{
    "scenario_id": "unique_scenario_id",
    "title": "title_of_the_topic",
    "topic": "the_main_topic_to_talk_about",
    "context": "background_for_the_experience",
    "experience_type": "type_of_experience",
    "guiding_questions": ["question_1", "question_2", "question_3"]
  }`,
	SpeakingDescribingScene: `{
    "scenario_id": "unique_scenario_id",
    "title": "title_of_the_scene",
    "scene_description": "detailed_description_of_the_scene",
    "context": "setting_of_the_scene",
    "scene_type": "type_of_scene",
    "key_elements": ["element_1", "element_2", "element_3"],
    "spatial_layout": "description_of_spatial_relationships"
  }`,
	SpeakingMakingPredictions: `{
    "scenario_id": "unique_scenario_id",
    "title": "title_of_the_prediction_task",
    "scene_description": "detailed_description_of_the_scene",
    "context": "setting_of_the_scene",
    "current_situation": "what_is_happening_right_now",
    "key_characters": ["character_1", "character_2"],
    "prediction_elements": ["element_1", "element_2"],
    "possible_outcomes": ["outcome_1", "outcome_2"]
  }`,
	SpeakingComparingPersuading: `{
    "scenario_id": "unique_scenario_id",
    "title": "title_of_the_comparison",
    "context": "background_of_the_decision",
    "decision_maker": "who_needs_to_be_persuaded",
    "category": "category_of_items_compared",
    "option_a": {"option_id": "a", "title": "...", "description": "...", "specifications": ["..."], "pros": ["..."], "cons": ["..."]},
    "option_b": {"option_id": "b", "title": "...", "description": "...", "specifications": ["..."], "pros": ["..."], "cons": ["..."]},
    "persuasion_context": "why_persuasion_is_needed"
  }`,
	SpeakingDifficultSituation: `{
    "scenario_id": "unique_scenario_id",
    "title": "title_of_the_difficult_situation",
    "situation_description": "detailed_description_of_the_situation",
    "context": "background_of_the_situation",
    "involved_parties": ["party_1", "party_2"],
    "dilemma_explanation": "why_this_situation_is_difficult",
    "communication_options": ["option_1", "option_2"],
    "relationship_context": "relationships_between_parties"
  }`,
	SpeakingExpressingOpinions: `{
    "scenario_id": "unique_scenario_id",
    "title": "title_of_the_opinion_topic",
    "topic_statement": "the_statement_to_take_a_position_on",
    "context": "background_information_about_the_topic",
    "position_options": ["agree", "disagree"],
    "supporting_points": ["point_1", "point_2"],
    "considerations": ["consideration_1", "consideration_2"]
  }`,
	SpeakingUnusualSituation: `{
    "scenario_id": "unique_scenario_id",
    "title": "title_of_the_unusual_situation",
    "situation_description": "detailed_description_of_the_unusual_situation",
    "context": "setting_of_the_situation",
    "unusual_elements": ["element_1", "element_2"],
    "possible_explanations": ["explanation_1", "explanation_2"],
    "descriptive_focus": "what_to_emphasize_when_describing"
  }`,
}

func speakingResponseFormat(t SpeakingTaskType) string {
	timing := t.Timings()
	selection := ""
	if timing.SelectionTimeSeconds > 0 {
		selection = fmt.Sprintf("\n    \"selection_time_seconds\": %d,", timing.SelectionTimeSeconds)
	}
	return fmt.Sprintf(`{
  "task_id": "unique_task_id",
  "task_type": "%s",
  "scenario": %s,
  "instructions": {%s
    "preparation_time_seconds": %d,
    "speaking_time_seconds": %d,
    "task_description": "clear_description_of_what_test_taker_should_do",
    "evaluation_criteria": ["Content and ideas", "Vocabulary", "Language use", "Task fulfillment"],
    "tips": ["tip1_for_success", "tip2_for_success", "tip3_for_success"]
  },
  "difficulty_level": "intermediate",
  "estimated_duration_minutes": %d
}`, t, scenarioSkeletons[t], selection, timing.PreparationTimeSeconds, timing.SpeakingTimeSeconds, timing.EstimatedMinutes)
}

// seedsFor samples the generation ingredients for one task type.
func seedsFor(t SpeakingTaskType, rng *rand.Rand) []promptSeed {
	pick := func(pool []string) string { return pool[rng.Intn(len(pool))] }
	switch t {
	case SpeakingGivingAdvice:
		return []promptSeed{
			{"SCENARIO", pick(adviceScenarios)},
			{"PERSON", pick(advicePersons)},
			{"CONTEXT", pick(adviceContexts)},
		}
	case SpeakingPersonalExperience:
		return []promptSeed{
			{"TOPIC", pick(experienceTopics)},
			{"EXPERIENCE TYPE", pick(experienceTypes)},
		}
	case SpeakingDescribingScene:
		return []promptSeed{
			{"SCENE TYPE", pick(sceneTypes)},
			{"SCENE SETTING", pick(sceneSettings)},
		}
	case SpeakingMakingPredictions:
		return []promptSeed{
			{"SCENE", pick(predictionScenarios)},
			{"PREDICTION FOCUS", pick(predictionElements)},
		}
	case SpeakingComparingPersuading:
		return []promptSeed{
			{"CATEGORY", pick(comparisonCategories)},
			{"DECISION MAKER", pick(comparisonDecisionMakers)},
		}
	case SpeakingDifficultSituation:
		return []promptSeed{
			{"SITUATION", pick(difficultSituations)},
			{"RELATIONSHIP", pick(relationshipContexts)},
		}
	case SpeakingExpressingOpinions:
		return []promptSeed{
			{"TOPIC STATEMENT", pick(opinionTopics)},
			{"CONTEXT", pick(opinionContextTypes)},
		}
	case SpeakingUnusualSituation:
		return []promptSeed{
			{"SITUATION", pick(unusualSituations)},
			{"CONTEXT", pick(unusualContexts)},
		}
	}
	return nil
}

func renderSpeakingGenerationPrompt(t SpeakingTaskType, rng *rand.Rand) (string, error) {
	timing := t.Timings()
	return speakingGenerationTemplate.Execute(pongo2.Context{
		"number":          t.Number(),
		"title":           timing.Title,
		"seeds":           seedsFor(t, rng),
		"selection":       timing.SelectionTimeSeconds,
		"preparation":     timing.PreparationTimeSeconds,
		"speaking":        timing.SpeakingTimeSeconds,
		"response_format": speakingResponseFormat(t),
	})
}

func renderSpeakingEvaluationPrompt(task *SpeakingTask, transcript, timing string) (string, error) {
	scenario, err := json.Marshal(task.Scenario)
	if err != nil {
		return "", fmt.Errorf("exam: marshal scenario: %w", err)
	}
	instructions, err := json.Marshal(task.Instructions)
	if err != nil {
		return "", fmt.Errorf("exam: marshal instructions: %w", err)
	}
	return speakingEvaluationTemplate.Execute(pongo2.Context{
		"number":       task.Type.Number(),
		"title":        task.Type.Timings().Title,
		"scenario":     string(scenario),
		"instructions": string(instructions),
		"timing":       timing,
		"transcript":   transcript,
	})
}
