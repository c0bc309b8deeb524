package interfaces

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors shared by all repository implementations
var (
	ErrVoiceprintNotFound = goerr.New("voiceprint not found")
	ErrChallengeNotFound  = goerr.New("challenge not found")
)
