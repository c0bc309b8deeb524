package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// ChallengeID is a UUID-based identifier of an issued challenge phrase
type ChallengeID string

// NewChallengeID generates a new UUID v4 ChallengeID
func NewChallengeID() ChallengeID {
	return ChallengeID(uuid.New().String())
}

// Validate checks if the ChallengeID is a well-formed UUID
func (c ChallengeID) Validate() error {
	if c == "" {
		return goerr.New("challenge ID cannot be empty")
	}
	if _, err := uuid.Parse(string(c)); err != nil {
		return goerr.Wrap(err, "challenge ID must be a UUID", goerr.V("id", c))
	}
	return nil
}

// String returns the string representation of ChallengeID
func (c ChallengeID) String() string {
	return string(c)
}
