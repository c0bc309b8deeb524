package model

// DefaultIdentityThreshold is the speaker-similarity threshold applied when
// the caller does not supply one.
const DefaultIdentityThreshold = 0.5

// LivenessPassScore is the minimum transcript similarity (0-100) that counts
// as a passed liveness check. Callers requiring stricter anti-replay raise it
// via the policy, not by post-processing scores.
const LivenessPassScore = 80

// DecisionPolicy turns raw similarity scores into verdicts. Identity uses a
// strict inequality: a score exactly at the threshold is a reject. Liveness
// is inclusive: a similarity exactly at the threshold passes.
type DecisionPolicy struct {
	IdentityThreshold float64
	LivenessThreshold int
}

// DefaultPolicy returns the policy with the standard thresholds
func DefaultPolicy() DecisionPolicy {
	return DecisionPolicy{
		IdentityThreshold: DefaultIdentityThreshold,
		LivenessThreshold: LivenessPassScore,
	}
}

// WithIdentityThreshold returns a copy of the policy with the caller-supplied
// identity threshold.
func (p DecisionPolicy) WithIdentityThreshold(threshold float64) DecisionPolicy {
	p.IdentityThreshold = threshold
	return p
}

// IdentityVerified reports whether a speaker score passes the identity check
func (p DecisionPolicy) IdentityVerified(score float64) bool {
	return score > p.IdentityThreshold
}

// LivenessVerified reports whether a transcript similarity passes the liveness check
func (p DecisionPolicy) LivenessVerified(similarity int) bool {
	return similarity >= p.LivenessThreshold
}
