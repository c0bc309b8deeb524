package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/truevoice/pkg/domain/interfaces"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
	"github.com/secmon-lab/truevoice/pkg/domain/types"
	"github.com/secmon-lab/truevoice/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

func isNotEnrolled(err error) bool {
	return errors.Is(err, interfaces.ErrVoiceprintNotFound)
}

// VerifyIdentity compares live audio against the user's enrolled voiceprint
// and applies the decision policy with the given identity threshold.
func (uc *UseCases) VerifyIdentity(ctx context.Context, userID types.UserID, audio []byte, format model.AudioFormat, threshold float64) (*model.IdentityResult, error) {
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid user ID", goerr.T(TagBadRequest))
	}

	// Enrollment check comes before transcoding so an unenrolled user does
	// not cost a decode.
	exists, err := uc.repo.Voiceprint().Exists(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to check enrollment", goerr.T(TagStorage), goerr.V("user_id", userID))
	}
	if !exists {
		return nil, goerr.Wrap(ErrNotEnrolled, "cannot verify", goerr.V("user_id", userID))
	}

	candidate, err := uc.transcoder.ToWaveform(ctx, audio, format)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode verification audio", goerr.T(TagBadAudio), goerr.V("user_id", userID))
	}

	result, err := uc.scoreIdentity(ctx, userID, candidate, threshold)
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Info("identity verification completed",
		"user_id", userID,
		"score", result.Score,
		"threshold", threshold,
		"verified", result.Verified,
	)
	return result, nil
}

// scoreIdentity loads the reference waveform, invokes the speaker matcher
// and applies the policy.
func (uc *UseCases) scoreIdentity(ctx context.Context, userID types.UserID, candidate *model.Waveform, threshold float64) (*model.IdentityResult, error) {
	voiceprint, err := uc.repo.Voiceprint().Get(ctx, userID)
	if err != nil {
		if isNotEnrolled(err) {
			return nil, goerr.Wrap(ErrNotEnrolled, "cannot verify", goerr.V("user_id", userID))
		}
		return nil, goerr.Wrap(err, "failed to load voiceprint", goerr.T(TagStorage), goerr.V("user_id", userID))
	}

	score, err := uc.matcher.Score(ctx, voiceprint.Reference, candidate)
	if err != nil {
		return nil, goerr.Wrap(err, "speaker matching failed", goerr.T(TagMatcher), goerr.V("user_id", userID))
	}

	policy := uc.policy.WithIdentityThreshold(threshold)
	return model.NewIdentityResult(userID, score, policy.IdentityVerified(score)), nil
}

// VerifySecure performs identity verification and the liveness check in one
// call. The speaker-match leg and the transcribe-and-match leg are
// independent, so they run concurrently. A failed liveness check is a normal
// negative result; only capability failures surface as errors.
func (uc *UseCases) VerifySecure(ctx context.Context, userID types.UserID, audio []byte, format model.AudioFormat, challengeID types.ChallengeID, echoedPhrase string, threshold float64) (*model.SecureResult, error) {
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid user ID", goerr.T(TagBadRequest))
	}
	if uc.transcriber == nil {
		return nil, goerr.New("transcriber is not configured", goerr.T(TagTranscription))
	}

	exists, err := uc.repo.Voiceprint().Exists(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to check enrollment", goerr.T(TagStorage), goerr.V("user_id", userID))
	}
	if !exists {
		return nil, goerr.Wrap(ErrNotEnrolled, "cannot verify", goerr.V("user_id", userID))
	}

	candidate, err := uc.transcoder.ToWaveform(ctx, audio, format)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode verification audio", goerr.T(TagBadAudio), goerr.V("user_id", userID))
	}

	// The challenge is single use, so it is consumed only after the cheap
	// precondition checks above. If a scoring capability fails after this
	// point the challenge is put back, keeping the caller's attempt usable.
	phrase, consumed, err := uc.resolveChallengePhrase(ctx, challengeID, echoedPhrase)
	if err != nil {
		return nil, err
	}

	var identity *model.IdentityResult
	var transcript string
	var similarity int
	var live bool

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		result, err := uc.scoreIdentity(egCtx, userID, candidate, threshold)
		if err != nil {
			return err
		}
		identity = result
		return nil
	})
	eg.Go(func() error {
		text, err := uc.transcriber.Transcribe(egCtx, candidate)
		if err != nil {
			return goerr.Wrap(err, "transcription failed", goerr.T(TagTranscription), goerr.V("user_id", userID))
		}
		transcript = text
		similarity, live = model.ScoreTranscript(text, phrase, uc.policy)
		return nil
	})
	if err := eg.Wait(); err != nil {
		uc.restoreChallenge(ctx, consumed)
		return nil, err
	}

	logging.From(ctx).Info("secure verification completed",
		"user_id", userID,
		"speaker_score", identity.Score,
		"identity_verified", identity.Verified,
		"similarity", similarity,
		"liveness_verified", live,
	)

	return &model.SecureResult{
		Identity:        identity,
		ChallengePhrase: phrase,
		Transcript:      transcript,
		Similarity:      similarity,
		Live:            live,
	}, nil
}
