// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// fzf's scoring tables are built by algo.Init; until then only
// contiguous matches score.
var fuzzyInitOnce sync.Once

// FuzzyResult is the outcome of matching one text against a pattern.
// Positions are rune indices of matched characters in the text.
type FuzzyResult struct {
	Matched   bool
	Score     int
	Positions []int
}

// FuzzyMatch runs fzf's V2 algorithm. Matching is case-insensitive
// unless the pattern contains an upper-case letter (fzf's smart case).
// The slab may be nil; passing one reused across calls avoids
// per-match allocations when filtering many rows.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{Matched: true}
	}
	fuzzyInitOnce.Do(func() { algo.Init("default") })
	caseSensitive := strings.ToLower(string(pattern)) != string(pattern)
	chars := util.ToChars([]byte(text))
	result, positions := algo.FuzzyMatchV2(caseSensitive, true, true, &chars, pattern, true, slab)
	if result.Start < 0 {
		return FuzzyResult{}
	}
	matched := FuzzyResult{Matched: true, Score: result.Score}
	if positions != nil {
		matched.Positions = append([]int(nil), *positions...)
	}
	return matched
}
