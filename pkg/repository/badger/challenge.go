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

var challengePrefix = []byte("challenge/")

type challengeRecord struct {
	ID        string    `msgpack:"id"`
	Phrase    string    `msgpack:"phrase"`
	IssuedAt  time.Time `msgpack:"issued_at"`
	ExpiresAt time.Time `msgpack:"expires_at"`
}

type challengeRepository struct {
	db *badgerdb.DB
}

func challengeKey(id types.ChallengeID) []byte {
	return append(append([]byte(nil), challengePrefix...), id.String()...)
}

func (r *challengeRepository) Put(ctx context.Context, challenge *model.Challenge) error {
	if err := challenge.Validate(); err != nil {
		return goerr.Wrap(err, "invalid challenge")
	}

	record := challengeRecord{
		ID:        challenge.ID.String(),
		Phrase:    challenge.Phrase,
		IssuedAt:  challenge.IssuedAt,
		ExpiresAt: challenge.ExpiresAt,
	}

	encoded, err := msgpack.Marshal(&record)
	if err != nil {
		return goerr.Wrap(err, "failed to encode challenge", goerr.V("id", challenge.ID))
	}

	err = r.db.Update(func(txn *badgerdb.Txn) error {
		entry := badgerdb.NewEntry(challengeKey(challenge.ID), encoded).
			WithTTL(time.Until(challenge.ExpiresAt) + time.Minute)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to store challenge", goerr.V("id", challenge.ID))
	}
	return nil
}

func (r *challengeRepository) Consume(ctx context.Context, id types.ChallengeID) (*model.Challenge, error) {
	var encoded []byte

	// Get and delete inside one transaction so a challenge ID is redeemable
	// exactly once even under concurrent requests.
	err := r.db.Update(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(challengeKey(id))
		if err != nil {
			return err
		}
		encoded, err = item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return txn.Delete(challengeKey(id))
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, goerr.Wrap(interfaces.ErrChallengeNotFound, "challenge not issued or already used", goerr.V("id", id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to consume challenge", goerr.V("id", id))
	}

	var record challengeRecord
	if err := msgpack.Unmarshal(encoded, &record); err != nil {
		return nil, goerr.Wrap(err, "failed to decode challenge", goerr.V("id", id))
	}

	return &model.Challenge{
		ID:        types.ChallengeID(record.ID),
		Phrase:    record.Phrase,
		IssuedAt:  record.IssuedAt,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

func (r *challengeRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	// Badger entry TTLs already reclaim expired challenges; this sweep exists
	// for backends without native expiry and reports what it removed early.
	var expired [][]byte

	err := r.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = challengePrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(challengePrefix); it.ValidForPrefix(challengePrefix); it.Next() {
			item := it.Item()
			encoded, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			var record challengeRecord
			if err := msgpack.Unmarshal(encoded, &record); err != nil {
				return err
			}
			if now.After(record.ExpiresAt) {
				expired = append(expired, item.KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to scan challenges")
	}

	for _, key := range expired {
		err := r.db.Update(func(txn *badgerdb.Txn) error {
			return txn.Delete(key)
		})
		if err != nil && !errors.Is(err, badgerdb.ErrKeyNotFound) {
			return 0, goerr.Wrap(err, "failed to delete expired challenge")
		}
	}
	return len(expired), nil
}
