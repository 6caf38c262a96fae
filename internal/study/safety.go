package study

import (
	"strings"
	"unicode/utf8"
)

// MaxTopicLen is the maximum accepted topic length in characters. Longer
// topics are rejected before any store or model cost is incurred.
const MaxTopicLen = 300

// blockedPhrase is the prompt-injection marker the filter scans for,
// case-insensitively. Deliberately minimal and non-exhaustive — a length and
// injection guard, not a content policy.
const blockedPhrase = "ignore previous"

// IsUnsafe reports whether a topic must be rejected: too long, or containing
// the injection marker. The topic is never mutated — no escaping, no
// truncation.
func IsUnsafe(topic string) bool {
	if utf8.RuneCountInString(topic) > MaxTopicLen {
		return true
	}
	return strings.Contains(strings.ToLower(topic), blockedPhrase)
}
