package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/secmon-lab/truevoice/pkg/domain/interfaces"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
	"github.com/secmon-lab/truevoice/pkg/domain/types"
	"github.com/secmon-lab/truevoice/pkg/repository/memory"
	"github.com/secmon-lab/truevoice/pkg/service/worker"
)

func TestChallengeSweeper(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	now := time.Now().UTC()
	stale := &model.Challenge{
		ID:        types.NewChallengeID(),
		Phrase:    "stale phrase",
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Millisecond),
	}
	if err := repo.Challenge().Put(ctx, stale); err != nil {
		t.Fatalf("failed to put stale challenge: %v", err)
	}

	fresh := model.NewChallenge("fresh phrase", time.Hour)
	if err := repo.Challenge().Put(ctx, fresh); err != nil {
		t.Fatalf("failed to put fresh challenge: %v", err)
	}

	sweeper := worker.NewChallengeSweeper(repo, 10*time.Millisecond)
	if err := sweeper.Start(ctx); err != nil {
		t.Fatalf("failed to start sweeper: %v", err)
	}

	// Give the sweeper several ticks to purge the expired challenge
	time.Sleep(200 * time.Millisecond)
	sweeper.Stop()

	if _, err := repo.Challenge().Consume(ctx, stale.ID); !errors.Is(err, interfaces.ErrChallengeNotFound) {
		t.Errorf("expected stale challenge to be swept, got %v", err)
	}
	if _, err := repo.Challenge().Consume(ctx, fresh.ID); err != nil {
		t.Errorf("fresh challenge should survive sweeping: %v", err)
	}
}
