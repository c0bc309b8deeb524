package badger

import (
	"context"
	"errors"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/truevoice/pkg/domain/interfaces"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
	"github.com/secmon-lab/truevoice/pkg/domain/types"
	"github.com/vmihailenco/msgpack/v5"
)

// voiceprintRecord is the msgpack-encoded storage form of a voiceprint
type voiceprintRecord struct {
	UserID     string    `msgpack:"user_id"`
	Waveform   []byte    `msgpack:"waveform"`
	SampleRate int       `msgpack:"sample_rate"`
	Channels   int       `msgpack:"channels"`
	Embedding  []float32 `msgpack:"embedding,omitempty"`
	EnrolledAt time.Time `msgpack:"enrolled_at"`
}

type voiceprintRepository struct {
	db *badgerdb.DB
}

func voiceprintKey(userID types.UserID) []byte {
	return []byte("voiceprint/" + userID.String())
}

func (r *voiceprintRepository) Put(ctx context.Context, vp *model.Voiceprint) error {
	if err := vp.Validate(); err != nil {
		return goerr.Wrap(err, "invalid voiceprint")
	}

	record := voiceprintRecord{
		UserID:     vp.UserID.String(),
		Waveform:   vp.Reference.Data,
		SampleRate: vp.Reference.SampleRate,
		Channels:   vp.Reference.Channels,
		Embedding:  vp.Embedding,
		EnrolledAt: vp.EnrolledAt,
	}

	encoded, err := msgpack.Marshal(&record)
	if err != nil {
		return goerr.Wrap(err, "failed to encode voiceprint", goerr.V("user_id", vp.UserID))
	}

	err = r.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(voiceprintKey(vp.UserID), encoded)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to store voiceprint", goerr.V("user_id", vp.UserID))
	}
	return nil
}

func (r *voiceprintRepository) Get(ctx context.Context, userID types.UserID) (*model.Voiceprint, error) {
	var encoded []byte
	err := r.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(voiceprintKey(userID))
		if err != nil {
			return err
		}
		encoded, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, goerr.Wrap(interfaces.ErrVoiceprintNotFound, "no enrollment", goerr.V("user_id", userID))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read voiceprint", goerr.V("user_id", userID))
	}

	var record voiceprintRecord
	if err := msgpack.Unmarshal(encoded, &record); err != nil {
		return nil, goerr.Wrap(err, "failed to decode voiceprint", goerr.V("user_id", userID))
	}

	return &model.Voiceprint{
		UserID: types.UserID(record.UserID),
		Reference: &model.Waveform{
			Data:       record.Waveform,
			SampleRate: record.SampleRate,
			Channels:   record.Channels,
		},
		Embedding:  record.Embedding,
		EnrolledAt: record.EnrolledAt,
	}, nil
}

func (r *voiceprintRepository) Exists(ctx context.Context, userID types.UserID) (bool, error) {
	err := r.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get(voiceprintKey(userID))
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, goerr.Wrap(err, "failed to check voiceprint", goerr.V("user_id", userID))
	}
	return true, nil
}

func (r *voiceprintRepository) Delete(ctx context.Context, userID types.UserID) error {
	exists, err := r.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return goerr.Wrap(interfaces.ErrVoiceprintNotFound, "no enrollment", goerr.V("user_id", userID))
	}

	err = r.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(voiceprintKey(userID))
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete voiceprint", goerr.V("user_id", userID))
	}
	return nil
}
