// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	internal_audio "github.com/rapidaai/celpip-practice/internal/audio"
	internal_exam "github.com/rapidaai/celpip-practice/internal/exam"
)

type generateResponse struct {
	Success      bool            `json:"success"`
	SessionID    string          `json:"session_id"`
	Task         json.RawMessage `json:"task"`
	ErrorMessage string          `json:"error_message"`
}

type scoreResponse struct {
	Success      bool                         `json:"success"`
	Score        *internal_exam.SpeakingScore `json:"score"`
	ErrorMessage string                       `json:"error_message"`
}

func newSpeakingCommand(cli *cliContext) *cobra.Command {
	var taskNumber int
	var skipReview bool

	cmd := &cobra.Command{
		Use:   "speaking",
		Short: "Run one timed speaking task",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpeaking(cmd.Context(), cli, taskNumber, skipReview)
		},
	}
	cmd.Flags().IntVarP(&taskNumber, "task", "t", 1, "speaking task number (1-8)")
	cmd.Flags().BoolVar(&skipReview, "no-review", false, "skip the playback review step")
	return cmd
}

func runSpeaking(ctx context.Context, cli *cliContext, taskNumber int, skipReview bool) error {
	taskType, err := internal_exam.SpeakingTaskFromNumber(taskNumber)
	if err != nil {
		return err
	}

	fmt.Printf("Fetching Speaking Task %d from %s ...\n", taskNumber, cli.cfg.ServerUrl)
	var generated generateResponse
	resp, err := cli.client.R().
		SetContext(ctx).
		SetResult(&generated).
		Post(fmt.Sprintf("/v1/speaking/%d/generate", taskNumber))
	if err != nil {
		return fmt.Errorf("cannot reach practice server: %w", err)
	}
	if !resp.IsSuccess() || !generated.Success {
		return fmt.Errorf("task generation failed: %s (%s)", generated.ErrorMessage, resp.Status())
	}

	var task internal_exam.SpeakingTask
	if err := json.Unmarshal(generated.Task, &task); err != nil {
		return fmt.Errorf("malformed task payload: %w", err)
	}
	printSpeakingTask(taskNumber, &task)

	if task.Instructions.SelectionTimeSeconds > 0 {
		countdown("Selection time", task.Instructions.SelectionTimeSeconds)
	}
	preparationUsed := countdown("Preparation time", task.Instructions.PreparationTimeSeconds)

	result, err := recordResponse(ctx, cli, generated.SessionID, task.Instructions.SpeakingTimeSeconds)
	if err != nil {
		return err
	}
	fmt.Printf("\nRecorded %.1f seconds of audio (%s).\n", result.Duration, result.Format)

	if !skipReview && confirm("Play back your response before submitting?") {
		if err := reviewPlayback(ctx, cli, result.Audio); err != nil {
			fmt.Printf("playback unavailable: %v\n", err)
		}
	}

	fmt.Println("\nSubmitting for scoring ...")
	var taskContext map[string]any
	if err := json.Unmarshal(generated.Task, &taskContext); err != nil {
		return fmt.Errorf("malformed task payload: %w", err)
	}
	var scored scoreResponse
	resp, err = cli.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"session_id":   generated.SessionID,
			"task_id":      task.TaskID,
			"task_context": taskContext,
			"audio": map[string]any{
				"audio_data":       internal_audio.ToTransportString(result.Audio),
				"audio_format":     string(result.Format),
				"duration_seconds": result.Duration,
			},
			"preparation_time_used": preparationUsed,
			"speaking_time_used":    result.Duration,
			"submission_timestamp":  time.Now().UTC().Format(time.RFC3339),
		}).
		SetResult(&scored).
		Post(fmt.Sprintf("/v1/speaking/%d/score", taskNumber))
	if err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}
	if !resp.IsSuccess() || !scored.Success || scored.Score == nil {
		return fmt.Errorf("scoring failed: %s (%s)", scored.ErrorMessage, resp.Status())
	}

	printScoreReport(scored.Score)
	return nil
}

func printSpeakingTask(number int, task *internal_exam.SpeakingTask) {
	profile := task.Instructions
	fmt.Printf("\n=== Speaking Task %d: %s ===\n\n", number, titleWords(string(task.Type)))

	keys := make([]string, 0, len(task.Scenario))
	for k := range task.Scenario {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v, ok := task.Scenario[k].(string); ok && v != "" {
			fmt.Printf("  %s: %s\n", strings.ReplaceAll(k, "_", " "), v)
		}
	}
	fmt.Printf("\n%s\n", profile.TaskDescription)
	if profile.SelectionTimeSeconds > 0 {
		fmt.Printf("\nSelection: %ds | Preparation: %ds | Speaking: %ds\n",
			profile.SelectionTimeSeconds, profile.PreparationTimeSeconds, profile.SpeakingTimeSeconds)
	} else {
		fmt.Printf("\nPreparation: %ds | Speaking: %ds\n",
			profile.PreparationTimeSeconds, profile.SpeakingTimeSeconds)
	}
}

// countdown runs a visible timer and returns the seconds actually spent;
// Enter skips ahead.
func countdown(label string, seconds int) int {
	fmt.Printf("\n%s: %d seconds. Press Enter to skip.\n", label, seconds)
	skip := make(chan struct{})
	go func() {
		bufio.NewReader(os.Stdin).ReadString('\n')
		close(skip)
	}()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for remaining := seconds; remaining > 0; {
		fmt.Printf("\r  %3ds remaining ", remaining)
		select {
		case <-skip:
			fmt.Print("\r  skipped          \n")
			return seconds - remaining
		case <-ticker.C:
			remaining--
		}
	}
	fmt.Print("\r  time is up      \n")
	return seconds
}

func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printScoreReport(score *internal_exam.SpeakingScore) {
	fmt.Println("\n=== Score Report ===")
	fmt.Printf("  Content:          %4.1f / 12\n", score.Scores.ContentScore)
	fmt.Printf("  Vocabulary:       %4.1f / 12\n", score.Scores.VocabularyScore)
	fmt.Printf("  Language use:     %4.1f / 12\n", score.Scores.LanguageUseScore)
	fmt.Printf("  Task fulfillment: %4.1f / 12\n", score.Scores.TaskFulfillmentScore)
	fmt.Printf("  Overall:          %4.1f / 12\n", score.Scores.OverallScore)

	if score.Transcript != "" {
		fmt.Printf("\nTranscript:\n  %s\n", score.Transcript)
	}
	printList("Strengths", score.Feedback.Strengths)
	printList("Improvements", score.Feedback.Improvements)
	printList("Suggestions", score.Feedback.SpecificSuggestions)
	if score.ConfidenceLevel > 0 {
		fmt.Printf("\nTranscription confidence: %.0f%%\n", score.ConfidenceLevel*100)
	}
}

func titleWords(s string) string {
	words := strings.Split(strings.ReplaceAll(s, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func printList(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", title)
	for _, item := range items {
		fmt.Printf("  - %s\n", item)
	}
}
