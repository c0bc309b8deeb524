package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
	"github.com/secmon-lab/truevoice/pkg/domain/types"
	"github.com/secmon-lab/truevoice/pkg/utils/async"
	"github.com/secmon-lab/truevoice/pkg/utils/logging"
)

// Enroll decodes the uploaded recording and stores it as the user's new
// reference voiceprint, replacing any prior enrollment. When an embedding
// extractor is configured, the embedding is derived and persisted in the
// background; verification does not depend on it.
func (uc *UseCases) Enroll(ctx context.Context, userID types.UserID, audio []byte, format model.AudioFormat) (*model.Voiceprint, error) {
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid user ID", goerr.T(TagBadRequest))
	}

	waveform, err := uc.transcoder.ToWaveform(ctx, audio, format)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode enrollment audio", goerr.T(TagBadAudio), goerr.V("user_id", userID))
	}

	voiceprint := model.NewVoiceprint(userID, waveform)
	if err := uc.repo.Voiceprint().Put(ctx, voiceprint); err != nil {
		return nil, goerr.Wrap(err, "failed to store voiceprint", goerr.T(TagStorage), goerr.V("user_id", userID))
	}

	logging.From(ctx).Info("enrolled voiceprint",
		"user_id", userID,
		"bytes", len(waveform.Data),
	)

	if uc.embedder != nil {
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.persistEmbedding(ctx, voiceprint)
		})
	}

	return voiceprint, nil
}

// persistEmbedding derives the speaker embedding for an enrolled voiceprint
// and stores it alongside the reference. Best effort: a failure leaves the
// enrollment intact and is only logged.
func (uc *UseCases) persistEmbedding(ctx context.Context, voiceprint *model.Voiceprint) error {
	embedding, err := uc.embedder.Embed(ctx, voiceprint.Reference)
	if err != nil {
		return goerr.Wrap(err, "failed to extract speaker embedding", goerr.V("user_id", voiceprint.UserID))
	}

	updated := voiceprint.Clone()
	updated.Embedding = embedding
	if err := uc.repo.Voiceprint().Put(ctx, updated); err != nil {
		return goerr.Wrap(err, "failed to persist speaker embedding", goerr.V("user_id", voiceprint.UserID))
	}

	logging.From(ctx).Info("persisted speaker embedding",
		"user_id", voiceprint.UserID,
		"dimensions", len(embedding),
	)
	return nil
}

// DeleteVoiceprint removes a user's enrollment
func (uc *UseCases) DeleteVoiceprint(ctx context.Context, userID types.UserID) error {
	if err := userID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user ID", goerr.T(TagBadRequest))
	}

	if err := uc.repo.Voiceprint().Delete(ctx, userID); err != nil {
		if isNotEnrolled(err) {
			return goerr.Wrap(ErrNotEnrolled, "cannot delete", goerr.V("user_id", userID))
		}
		return goerr.Wrap(err, "failed to delete voiceprint", goerr.T(TagStorage), goerr.V("user_id", userID))
	}
	return nil
}
