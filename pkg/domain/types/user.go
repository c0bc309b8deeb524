package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// UserID is the opaque identity key supplied by the caller at enrollment
// and reused at verification time.
type UserID string

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9._@-]+$`)

// Validate checks if the UserID is usable as a storage key
func (u UserID) Validate() error {
	if u == "" {
		return goerr.New("user ID cannot be empty")
	}
	if len(u) > 128 {
		return goerr.New("user ID is too long", goerr.V("length", len(u)))
	}
	if !userIDPattern.MatchString(string(u)) {
		return goerr.New("user ID contains invalid characters", goerr.V("id", u))
	}
	return nil
}

// String returns the string representation of UserID
func (u UserID) String() string {
	return string(u)
}
