package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/truevoice/pkg/domain/interfaces"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
	"github.com/secmon-lab/truevoice/pkg/domain/types"
	"github.com/secmon-lab/truevoice/pkg/utils/logging"
)

// IssueChallenge draws a phrase from the corpus and persists it as a
// single-use challenge with an expiry. The stored copy is what secure
// verification trusts; the phrase the client echoes back is advisory.
func (uc *UseCases) IssueChallenge(ctx context.Context) (*model.Challenge, error) {
	challenge := model.NewChallenge(uc.phrases.NextPhrase(), uc.challengeTTL)

	if err := uc.repo.Challenge().Put(ctx, challenge); err != nil {
		return nil, goerr.Wrap(err, "failed to store challenge", goerr.T(TagStorage))
	}

	logging.From(ctx).Info("issued challenge",
		"challenge_id", challenge.ID,
		"expires_at", challenge.ExpiresAt,
	)
	return challenge, nil
}

// resolveChallengePhrase returns the phrase secure verification must match.
// With a challenge ID the stored phrase is consumed (single use) and its
// expiry enforced; the consumed challenge is also returned so the caller can
// restore it when verification fails before a verdict is reached. Without a
// challenge ID the echoed phrase is used as-is, preserving the original
// contract where clients replay the phrase they were shown.
func (uc *UseCases) resolveChallengePhrase(ctx context.Context, challengeID types.ChallengeID, echoed string) (string, *model.Challenge, error) {
	if challengeID == "" {
		if echoed == "" {
			return "", nil, goerr.Wrap(ErrChallengeInvalid, "challenge phrase or challenge ID is required")
		}
		return echoed, nil, nil
	}

	challenge, err := uc.repo.Challenge().Consume(ctx, challengeID)
	if err != nil {
		if errors.Is(err, interfaces.ErrChallengeNotFound) {
			return "", nil, goerr.Wrap(ErrChallengeInvalid, "challenge not issued or already used", goerr.V("challenge_id", challengeID))
		}
		return "", nil, goerr.Wrap(err, "failed to consume challenge", goerr.T(TagStorage), goerr.V("challenge_id", challengeID))
	}

	if challenge.Expired(time.Now().UTC()) {
		return "", nil, goerr.Wrap(ErrChallengeInvalid, "challenge has expired",
			goerr.V("challenge_id", challengeID),
			goerr.V("expired_at", challenge.ExpiresAt),
		)
	}

	return challenge.Phrase, challenge, nil
}

// restoreChallenge puts a consumed challenge back under its original ID and
// expiry. Best effort: a caller whose verification failed through no fault of
// its own keeps its attempt, while the original deadline still applies.
func (uc *UseCases) restoreChallenge(ctx context.Context, challenge *model.Challenge) {
	if challenge == nil {
		return
	}
	if err := uc.repo.Challenge().Put(ctx, challenge); err != nil {
		logging.From(ctx).Warn("failed to restore challenge",
			"challenge_id", challenge.ID,
			"error", err,
		)
	}
}
