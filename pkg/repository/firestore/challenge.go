package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/truevoice/pkg/domain/interfaces"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
	"github.com/secmon-lab/truevoice/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type challengeDocument struct {
	ID        string    `firestore:"id"`
	Phrase    string    `firestore:"phrase"`
	IssuedAt  time.Time `firestore:"issued_at"`
	ExpiresAt time.Time `firestore:"expires_at"`
}

type challengeRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *challengeRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_challenges"
	}
	return "challenges"
}

func (r *challengeRepository) Put(ctx context.Context, challenge *model.Challenge) error {
	if err := challenge.Validate(); err != nil {
		return goerr.Wrap(err, "invalid challenge")
	}

	doc := challengeDocument{
		ID:        challenge.ID.String(),
		Phrase:    challenge.Phrase,
		IssuedAt:  challenge.IssuedAt,
		ExpiresAt: challenge.ExpiresAt,
	}

	_, err := r.client.Collection(r.collection()).Doc(challenge.ID.String()).Set(ctx, doc)
	if err != nil {
		return goerr.Wrap(err, "failed to store challenge", goerr.V("id", challenge.ID))
	}
	return nil
}

func (r *challengeRepository) Consume(ctx context.Context, id types.ChallengeID) (*model.Challenge, error) {
	ref := r.client.Collection(r.collection()).Doc(id.String())

	var doc challengeDocument
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		if err := snap.DataTo(&doc); err != nil {
			return err
		}
		return tx.Delete(ref)
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrChallengeNotFound, "challenge not issued or already used", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to consume challenge", goerr.V("id", id))
	}

	return &model.Challenge{
		ID:        types.ChallengeID(doc.ID),
		Phrase:    doc.Phrase,
		IssuedAt:  doc.IssuedAt,
		ExpiresAt: doc.ExpiresAt,
	}, nil
}

func (r *challengeRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	iter := r.client.Collection(r.collection()).
		Where("expires_at", "<", now).
		Documents(ctx)
	defer iter.Stop()

	var deleted int
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return deleted, goerr.Wrap(err, "failed to query expired challenges")
		}
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return deleted, goerr.Wrap(err, "failed to delete expired challenge", goerr.V("id", snap.Ref.ID))
		}
		deleted++
	}
	return deleted, nil
}
