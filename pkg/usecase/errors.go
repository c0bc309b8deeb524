package usecase

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures at the orchestrator boundary. The HTTP layer
// maps tags to status codes; internal causes stay attached for logs only.
var (
	TagBadRequest    = goerr.NewTag("bad_request")
	TagNotEnrolled   = goerr.NewTag("not_enrolled")
	TagBadAudio      = goerr.NewTag("bad_audio")
	TagBadChallenge  = goerr.NewTag("bad_challenge")
	TagMatcher       = goerr.NewTag("matcher_failed")
	TagTranscription = goerr.NewTag("transcription_failed")
	TagStorage       = goerr.NewTag("storage_failed")
)

// Sentinel errors for caller-correctable conditions
var (
	// ErrNotEnrolled is returned when verification is requested for a user
	// that has never enrolled. Distinct from system faults: the caller fixes
	// it by enrolling first.
	ErrNotEnrolled = goerr.New("user is not enrolled", goerr.T(TagNotEnrolled))

	// ErrChallengeInvalid is returned when a supplied challenge ID is
	// unknown, expired, or already redeemed.
	ErrChallengeInvalid = goerr.New("challenge is invalid, expired, or already used", goerr.T(TagBadChallenge))
)
