package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/truevoice/pkg/domain/interfaces"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
	"github.com/secmon-lab/truevoice/pkg/domain/types"
)

type challengeRepository struct {
	mu      sync.Mutex
	entries map[types.ChallengeID]*model.Challenge
}

func newChallengeRepository() *challengeRepository {
	return &challengeRepository{
		entries: make(map[types.ChallengeID]*model.Challenge),
	}
}

func (r *challengeRepository) Put(ctx context.Context, challenge *model.Challenge) error {
	if err := challenge.Validate(); err != nil {
		return goerr.Wrap(err, "invalid challenge")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *challenge
	r.entries[challenge.ID] = &copied
	return nil
}

func (r *challengeRepository) Consume(ctx context.Context, id types.ChallengeID) (*model.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	challenge, exists := r.entries[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrChallengeNotFound, "challenge not issued or already used", goerr.V("id", id))
	}
	delete(r.entries, id)

	copied := *challenge
	return &copied, nil
}

func (r *challengeRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int
	for id, challenge := range r.entries {
		if challenge.Expired(now) {
			delete(r.entries, id)
			deleted++
		}
	}
	return deleted, nil
}
