package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/truevoice/pkg/domain/interfaces"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
	"github.com/secmon-lab/truevoice/pkg/domain/types"
)

type voiceprintRepository struct {
	mu      sync.RWMutex
	entries map[types.UserID]*model.Voiceprint
}

func newVoiceprintRepository() *voiceprintRepository {
	return &voiceprintRepository{
		entries: make(map[types.UserID]*model.Voiceprint),
	}
}

func (r *voiceprintRepository) Put(ctx context.Context, vp *model.Voiceprint) error {
	if err := vp.Validate(); err != nil {
		return goerr.Wrap(err, "invalid voiceprint")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[vp.UserID] = vp.Clone()
	return nil
}

func (r *voiceprintRepository) Get(ctx context.Context, userID types.UserID) (*model.Voiceprint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vp, exists := r.entries[userID]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrVoiceprintNotFound, "no enrollment", goerr.V("user_id", userID))
	}
	return vp.Clone(), nil
}

func (r *voiceprintRepository) Exists(ctx context.Context, userID types.UserID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.entries[userID]
	return exists, nil
}

func (r *voiceprintRepository) Delete(ctx context.Context, userID types.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[userID]; !exists {
		return goerr.Wrap(interfaces.ErrVoiceprintNotFound, "no enrollment", goerr.V("user_id", userID))
	}
	delete(r.entries, userID)
	return nil
}
