package model

import (
	"fmt"

	"github.com/secmon-lab/truevoice/pkg/domain/types"
)

// IdentityResult is the outcome of comparing live audio against an enrolled
// voiceprint. Immutable once produced, never persisted.
type IdentityResult struct {
	UserID   types.UserID
	Score    float64
	Verified bool
	Message  string
}

// NewIdentityResult builds an IdentityResult with a human-readable summary
func NewIdentityResult(userID types.UserID, score float64, verified bool) *IdentityResult {
	return &IdentityResult{
		UserID:   userID,
		Score:    score,
		Verified: verified,
		Message:  fmt.Sprintf("Verification completed. Score: %.3f, Match: %t", score, verified),
	}
}

// SecureResult is the outcome of combined identity + liveness verification.
// The two verdicts are independent: callers decide how to combine them.
type SecureResult struct {
	Identity        *IdentityResult
	ChallengePhrase string
	Transcript      string
	Similarity      int
	Live            bool
}
