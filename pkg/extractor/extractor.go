// Package extractor turns a block of free text into candidate tasks.
//
// The heuristic is intentionally naive: sentences end at '.', '?' or '!',
// and the standalone word "and" (any case, spaces on both sides) also splits.
// Abbreviations such as "Dr." split like any other full stop.
package extractor

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/fastygo/taskdesk/domain"
)

const (
	// MaxTitleLength bounds Candidate.Title, ellipsis included.
	MaxTitleLength = 80
	ellipsis       = "..."
)

var boundary = regexp.MustCompile(`(?i)\.|\?|!| and `)

// Extract returns one candidate per non-blank segment of text, in order.
// It never fails; blank input yields an empty slice.
func Extract(text string) []domain.Candidate {
	candidates := make([]domain.Candidate, 0)
	if text == "" {
		return candidates
	}

	line := strings.ReplaceAll(text, "\n", " ")
	for _, part := range boundary.Split(line, -1) {
		part = strings.TrimFunc(part, isTrimSpace)
		if part == "" {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Title:       Title(part),
			Description: part,
			Status:      domain.StatusPending,
			Priority:    domain.PriorityMedium,
			DueAt:       nil,
			Source:      domain.SourceAIExtracted,
		})
	}
	return candidates
}

// Title shortens segment to MaxTitleLength. Length is measured in UTF-16
// code units so results agree with browser clients.
func Title(segment string) string {
	units := utf16.Encode([]rune(segment))
	if len(units) <= MaxTitleLength {
		return segment
	}
	return string(utf16.Decode(units[:MaxTitleLength-len(ellipsis)])) + ellipsis
}

// isTrimSpace matches the ECMAScript whitespace and line terminator set.
func isTrimSpace(r rune) bool {
	switch r {
	case '\uFEFF':
		return true
	case '\u0085':
		return false
	}
	return unicode.IsSpace(r)
}
