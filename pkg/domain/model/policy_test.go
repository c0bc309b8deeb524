package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
)

func TestDecisionPolicy_IdentityBoundary(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		score     float64
		want      bool
	}{
		{name: "above threshold", threshold: 0.5, score: 0.51, want: true},
		{name: "exactly at threshold is reject", threshold: 0.5, score: 0.5, want: false},
		{name: "below threshold", threshold: 0.5, score: 0.49, want: false},
		{name: "zero threshold zero score", threshold: 0, score: 0, want: false},
		{name: "zero threshold positive score", threshold: 0, score: 0.001, want: true},
		{name: "high threshold", threshold: 0.9, score: 0.95, want: true},
		{name: "negative score", threshold: 0.5, score: -0.2, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := model.DefaultPolicy().WithIdentityThreshold(tt.threshold)
			gt.Value(t, policy.IdentityVerified(tt.score)).Equal(tt.want)
		})
	}
}

func TestDecisionPolicy_LivenessBoundary(t *testing.T) {
	policy := model.DefaultPolicy()

	gt.True(t, policy.LivenessVerified(100))
	gt.True(t, policy.LivenessVerified(81))
	gt.True(t, policy.LivenessVerified(80)) // inclusive boundary
	gt.False(t, policy.LivenessVerified(79))
	gt.False(t, policy.LivenessVerified(0))
}

func TestDefaultPolicy(t *testing.T) {
	policy := model.DefaultPolicy()
	gt.Value(t, policy.IdentityThreshold).Equal(0.5)
	gt.Value(t, policy.LivenessThreshold).Equal(80)
}
