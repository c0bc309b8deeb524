package model

import (
	"strings"
	"unicode"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// ScoreTranscript compares a transcribed utterance against the issued
// challenge phrase and returns a 0-100 similarity plus the liveness verdict.
// The comparison is case-insensitive, ignores punctuation, and uses a partial
// ratio so a transcript that contains the challenge as a substring (or trails
// off early) still scores high despite transcription noise.
func ScoreTranscript(transcript, challenge string, policy DecisionPolicy) (int, bool) {
	t := normalizeUtterance(transcript)
	c := normalizeUtterance(challenge)
	if t == "" || c == "" {
		return 0, false
	}

	score := fuzzy.PartialRatio(t, c)
	return score, policy.LivenessVerified(score)
}

// normalizeUtterance lowercases, strips punctuation and collapses whitespace
// so "My voice is my passport." and "my voice is my passport" compare equal.
func normalizeUtterance(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
