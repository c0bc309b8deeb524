package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/truevoice/pkg/domain/model"
	"github.com/secmon-lab/truevoice/pkg/domain/types"
)

// Repository defines the interface for data persistence
type Repository interface {
	Voiceprint() VoiceprintRepository
	Challenge() ChallengeRepository
	Close() error
}

// VoiceprintRepository stores the per-user enrollment artifact. Put replaces
// any prior voiceprint for the same user (last write wins); concurrent writes
// for different users must not interfere.
type VoiceprintRepository interface {
	Put(ctx context.Context, vp *model.Voiceprint) error
	Get(ctx context.Context, userID types.UserID) (*model.Voiceprint, error)
	Exists(ctx context.Context, userID types.UserID) (bool, error)
	Delete(ctx context.Context, userID types.UserID) error
}

// ChallengeRepository stores issued liveness challenges. Consume atomically
// retrieves and removes a challenge so each issued phrase can be redeemed at
// most once.
type ChallengeRepository interface {
	Put(ctx context.Context, challenge *model.Challenge) error
	Consume(ctx context.Context, id types.ChallengeID) (*model.Challenge, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
