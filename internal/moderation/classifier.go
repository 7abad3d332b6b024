// Package moderation decides whether submitted comment content may be
// published, based on a configured banned-keyword list.
package moderation

import "strings"

// Verdict is the outcome of classifying a piece of content.
type Verdict int

const (
	// VerdictAllow means the content may be published.
	VerdictAllow Verdict = iota
	// VerdictReject means the content matched a banned keyword.
	VerdictReject
)

func (v Verdict) String() string {
	if v == VerdictReject {
		return "reject"
	}
	return "allow"
}

// Classify checks content against the banned-keyword list and returns a
// verdict. Matching is case-insensitive substring matching: "spammy" is
// rejected by the keyword "spam". Partial-word matches are intentional.
// Keywords are trimmed of surrounding whitespace; empty keywords and an
// empty list never reject. Classify is pure and safe for concurrent use.
func Classify(content string, banned []string) Verdict {
	if len(banned) == 0 {
		return VerdictAllow
	}
	lowered := strings.ToLower(content)
	for _, word := range banned {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		if strings.Contains(lowered, word) {
			return VerdictReject
		}
	}
	return VerdictAllow
}

// SplitKeywords parses a comma-separated keyword configuration value into a
// list. Surrounding whitespace is preserved per entry; Classify trims it.
func SplitKeywords(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	return strings.Split(csv, ",")
}
