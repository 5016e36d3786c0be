// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_narration

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	ntw "moul.io/number-to-words"

	"github.com/rapidaai/celpip-practice/pkg/commons"
)

// =============================================================================
// Currency
// =============================================================================

var currencyPattern = regexp.MustCompile(`\$([0-9][0-9,]*)\.([0-9]{2})`)

type currencyNormalizer struct {
	logger commons.Logger
}

// NewCurrencyNormalizer speaks dollar amounts in full. Only the $D.CC form is
// rewritten; a bare "$50" stays as written.
func NewCurrencyNormalizer(logger commons.Logger) Normalizer {
	return &currencyNormalizer{logger: logger}
}

func (n *currencyNormalizer) Name() string { return "currency" }

func (n *currencyNormalizer) Normalize(text string) string {
	return currencyPattern.ReplaceAllStringFunc(text, func(match string) string {
		parts := currencyPattern.FindStringSubmatch(match)
		dollars, err := strconv.Atoi(strings.ReplaceAll(parts[1], ",", ""))
		if err != nil {
			n.logger.Warnf("narration: unparseable dollar amount '%s'", match)
			return match
		}
		cents, err := strconv.Atoi(parts[2])
		if err != nil {
			return match
		}
		dollarUnit := "dollars"
		if dollars == 1 {
			dollarUnit = "dollar"
		}
		centUnit := "cents"
		if cents == 1 {
			centUnit = "cent"
		}
		return fmt.Sprintf("%s %s and %s %s",
			ntw.IntegerToEnUs(dollars), dollarUnit,
			ntw.IntegerToEnUs(cents), centUnit)
	})
}

// =============================================================================
// Time
// =============================================================================

var timePattern = regexp.MustCompile(`\b([01]?[0-9]|2[0-3]):([0-5][0-9])\b`)

type timeNormalizer struct {
	logger commons.Logger
}

// NewTimeNormalizer rewrites 24-hour clock times into 12-hour form with an
// AM/PM marker.
func NewTimeNormalizer(logger commons.Logger) Normalizer {
	return &timeNormalizer{logger: logger}
}

func (n *timeNormalizer) Name() string { return "time" }

func (n *timeNormalizer) Normalize(text string) string {
	return timePattern.ReplaceAllStringFunc(text, func(match string) string {
		parts := timePattern.FindStringSubmatch(match)
		hour, _ := strconv.Atoi(parts[1])
		period := "AM"
		switch {
		case hour == 0:
			hour = 12
		case hour == 12:
			period = "PM"
		case hour > 12:
			hour -= 12
			period = "PM"
		}
		return fmt.Sprintf("%d:%s %s", hour, parts[2], period)
	})
}

// =============================================================================
// Numbers
// =============================================================================

var smallNumberPattern = regexp.MustCompile(`\b[0-9]{1,2}\b`)

type numberToWordNormalizer struct {
	logger commons.Logger
}

// NewNumberToWordNormalizer spells out standalone one- and two-digit numbers.
// Digits that are part of a larger token (times, decimals, grouped thousands,
// dollar figures) are left alone so the dedicated passes keep authority over
// them.
func NewNumberToWordNormalizer(logger commons.Logger) Normalizer {
	return &numberToWordNormalizer{logger: logger}
}

func (n *numberToWordNormalizer) Name() string { return "number" }

func (n *numberToWordNormalizer) Normalize(text string) string {
	matches := smallNumberPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		b.WriteString(text[last:start])
		if partOfLargerToken(text, start, end) {
			b.WriteString(text[start:end])
		} else {
			value, _ := strconv.Atoi(text[start:end])
			b.WriteString(ntw.IntegerToEnUs(value))
		}
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}

func partOfLargerToken(text string, start, end int) bool {
	if start > 0 {
		switch text[start-1] {
		case ':', '.', ',', '$', '-', '/':
			return true
		}
	}
	if end < len(text) {
		next := text[end]
		if next == ':' || next == '-' || next == '/' {
			return true
		}
		if (next == '.' || next == ',') && end+1 < len(text) && isDigit(text[end+1]) {
			return true
		}
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// =============================================================================
// General abbreviations
// =============================================================================

type abbreviationRule struct {
	pattern     *regexp.Regexp
	replacement string
}

type generalAbbreviationNormalizer struct {
	logger commons.Logger
	rules  []abbreviationRule
}

// NewGeneralAbbreviationNormalizer expands everyday abbreviations into the
// words a narrator would say.
func NewGeneralAbbreviationNormalizer(logger commons.Logger) Normalizer {
	rules := []abbreviationRule{
		{regexp.MustCompile(`\bDr\.`), "doctor"},
		{regexp.MustCompile(`\bMr\.`), "mister"},
		{regexp.MustCompile(`\bMrs\.`), "missus"},
		{regexp.MustCompile(`\bMs\.`), "miz"},
		{regexp.MustCompile(`\betc\.`), "etcetera"},
		{regexp.MustCompile(`\bvs\.`), "versus"},
		{regexp.MustCompile(`\bapprox\.`), "approximately"},
		{regexp.MustCompile(`\bdept\.`), "department"},
		{regexp.MustCompile(`\bApt\.`), "apartment"},
		{regexp.MustCompile(`\bAve\.`), "avenue"},
		{regexp.MustCompile(`\be\.g\.`), "for example"},
		{regexp.MustCompile(`\bi\.e\.`), "that is"},
	}
	return &generalAbbreviationNormalizer{logger: logger, rules: rules}
}

func (n *generalAbbreviationNormalizer) Name() string { return "general-abbreviation" }

func (n *generalAbbreviationNormalizer) Normalize(text string) string {
	for _, rule := range n.rules {
		text = rule.pattern.ReplaceAllString(text, rule.replacement)
	}
	return text
}

// =============================================================================
// Symbols
// =============================================================================

type symbolNormalizer struct {
	logger   commons.Logger
	replacer *strings.Replacer
}

// NewSymbolNormalizer speaks punctuation that carries meaning aloud.
func NewSymbolNormalizer(logger commons.Logger) Normalizer {
	return &symbolNormalizer{
		logger: logger,
		replacer: strings.NewReplacer(
			"%", " percent",
			"&", " and ",
			"+", " plus ",
			"@", " at ",
			"°C", " degrees celsius",
			"°F", " degrees fahrenheit",
			"°", " degrees",
			"½", "one half",
			"¼", "one quarter",
			"¾", "three quarters",
			"£", "pounds ",
			"€", "euros ",
		),
	}
}

func (n *symbolNormalizer) Name() string { return "symbol" }

func (n *symbolNormalizer) Normalize(text string) string {
	return n.replacer.Replace(text)
}
