package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
)

func TestScoreTranscript_ExactEcho(t *testing.T) {
	policy := model.DefaultPolicy()

	score, live := model.ScoreTranscript("My voice is my passport", "My voice is my passport", policy)
	gt.Value(t, score).Equal(100)
	gt.True(t, live)

	// Case and trailing punctuation from the transcriber must not matter
	score, live = model.ScoreTranscript("my voice is my passport.", "My Voice Is My Passport", policy)
	gt.Value(t, score).Equal(100)
	gt.True(t, live)
}

func TestScoreTranscript_Unrelated(t *testing.T) {
	policy := model.DefaultPolicy()

	score, live := model.ScoreTranscript("the weather is nice today", "Repeat 42 orange balloons", policy)
	gt.False(t, live)
	if score >= model.LivenessPassScore {
		t.Errorf("unrelated transcript scored %d, expected below %d", score, model.LivenessPassScore)
	}
}

func TestScoreTranscript_PartialUtterance(t *testing.T) {
	policy := model.DefaultPolicy()

	// Transcript embedded in surrounding filler still matches via partial ratio
	score, live := model.ScoreTranscript("um, my voice is my passport, okay", "my voice is my passport", policy)
	gt.True(t, live)
	gt.Value(t, score).Equal(100)
}

func TestScoreTranscript_Empty(t *testing.T) {
	policy := model.DefaultPolicy()

	score, live := model.ScoreTranscript("", "my voice is my passport", policy)
	gt.Value(t, score).Equal(0)
	gt.False(t, live)

	score, live = model.ScoreTranscript("...", "my voice is my passport", policy)
	gt.Value(t, score).Equal(0)
	gt.False(t, live)
}
