package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/truevoice/pkg/domain/interfaces"
)

// Firestore is the managed-cloud repository: voiceprint metadata and issued
// challenges live in Firestore documents, reference waveform blobs in a Cloud
// Storage bucket (Firestore documents cap at 1 MiB, recordings do not).
type Firestore struct {
	client     *firestore.Client
	blobs      *storage.Client
	voiceprint *voiceprintRepository
	challenge  *challengeRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, mainly for tests sharing a
// project.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.voiceprint.collectionPrefix = prefix
		f.challenge.collectionPrefix = prefix
	}
}

// New creates a Firestore-backed repository. bucket is the Cloud Storage
// bucket that holds reference waveforms.
func New(ctx context.Context, projectID, databaseID, bucket string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	blobs, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	if bucket == "" {
		return nil, goerr.New("waveform bucket is required for firestore backend")
	}

	f := &Firestore{
		client: client,
		blobs:  blobs,
		voiceprint: &voiceprintRepository{
			client: client,
			bucket: blobs.Bucket(bucket),
		},
		challenge: &challengeRepository{client: client},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Voiceprint() interfaces.VoiceprintRepository {
	return f.voiceprint
}

func (f *Firestore) Challenge() interfaces.ChallengeRepository {
	return f.challenge
}

func (f *Firestore) Close() error {
	var errs []error
	if f.blobs != nil {
		if err := f.blobs.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if f.client != nil {
		if err := f.client.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return goerr.Wrap(errs[0], "failed to close firestore repository")
	}
	return nil
}
