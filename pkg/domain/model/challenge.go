package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/truevoice/pkg/domain/types"
)

// DefaultChallengeTTL is how long an issued challenge phrase stays valid
const DefaultChallengeTTL = 5 * time.Minute

// Challenge is a server-issued liveness challenge: a phrase the caller must
// speak, bound to a single-use ID with an expiry. Issuing the phrase
// server-side and consuming it exactly once is what makes the echoed
// transcript a liveness signal rather than a replayable constant.
type Challenge struct {
	ID        types.ChallengeID
	Phrase    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewChallenge issues a challenge for the given phrase with the given TTL
func NewChallenge(phrase string, ttl time.Duration) *Challenge {
	now := time.Now().UTC()
	return &Challenge{
		ID:        types.NewChallengeID(),
		Phrase:    phrase,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the challenge is past its expiry at the given time
func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Validate checks if the Challenge is storable
func (c *Challenge) Validate() error {
	if err := c.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid challenge ID")
	}
	if c.Phrase == "" {
		return goerr.New("challenge phrase cannot be empty", goerr.V("id", c.ID))
	}
	if !c.ExpiresAt.After(c.IssuedAt) {
		return goerr.New("challenge expiry must be after issue time", goerr.V("id", c.ID))
	}
	return nil
}
