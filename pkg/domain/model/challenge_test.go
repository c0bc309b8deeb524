package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
)

func TestNewChallenge(t *testing.T) {
	c := model.NewChallenge("Say 35 green apples", model.DefaultChallengeTTL)

	gt.NoError(t, c.Validate())
	gt.Value(t, c.Phrase).Equal("Say 35 green apples")
	gt.False(t, c.Expired(time.Now().UTC()))
	gt.True(t, c.Expired(time.Now().UTC().Add(model.DefaultChallengeTTL+time.Second)))
}

func TestChallenge_Validate(t *testing.T) {
	c := model.NewChallenge("", time.Minute)
	gt.Error(t, c.Validate())

	c = model.NewChallenge("hello", -time.Minute)
	gt.Error(t, c.Validate())
}
