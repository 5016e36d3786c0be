// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

// Package internal_narration prepares listening-passage scripts for spoken
// delivery. Generated passages carry written-form artifacts (digits, currency,
// abbreviations, symbols) that read badly when spoken aloud; a normalizer
// pipeline rewrites them into speakable text before the passage reaches a
// narrator.
package internal_narration

import (
	"strings"

	"github.com/rapidaai/celpip-practice/pkg/commons"
)

// Normalizer rewrites one class of written-form artifact into speakable text.
type Normalizer interface {
	Name() string
	Normalize(text string) string
}

// BuildPipeline assembles normalizers by name, skipping unknown entries.
func BuildPipeline(logger commons.Logger, names []string) []Normalizer {
	normalizers := make([]Normalizer, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(strings.ToLower(name))
		var normalizer Normalizer

		switch name {
		case "currency":
			normalizer = NewCurrencyNormalizer(logger)
		case "time":
			normalizer = NewTimeNormalizer(logger)
		case "number", "number-to-word":
			normalizer = NewNumberToWordNormalizer(logger)
		case "symbol":
			normalizer = NewSymbolNormalizer(logger)
		case "general-abbreviation", "general":
			normalizer = NewGeneralAbbreviationNormalizer(logger)
		default:
			logger.Warnf("narration: unknown normalizer '%s', skipping", name)
			continue
		}
		normalizers = append(normalizers, normalizer)
	}
	return normalizers
}

// DefaultPipeline is the ordering used for listening scripts. Currency must
// run before the bare number pass so dollar amounts keep their units.
func DefaultPipeline(logger commons.Logger) []Normalizer {
	return BuildPipeline(logger, []string{
		"currency",
		"time",
		"number",
		"general-abbreviation",
		"symbol",
	})
}

// PrepareScript runs a passage through the given pipeline.
func PrepareScript(text string, pipeline []Normalizer) string {
	for _, n := range pipeline {
		text = n.Normalize(text)
	}
	return text
}
