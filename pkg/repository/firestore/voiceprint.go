package firestore

import (
	"context"
	"errors"
	"io"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/truevoice/pkg/domain/interfaces"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
	"github.com/secmon-lab/truevoice/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type voiceprintDocument struct {
	UserID         string    `firestore:"user_id"`
	WaveformObject string    `firestore:"waveform_object"`
	SampleRate     int       `firestore:"sample_rate"`
	Channels       int       `firestore:"channels"`
	Embedding      []float32 `firestore:"embedding,omitempty"`
	EnrolledAt     time.Time `firestore:"enrolled_at"`
}

type voiceprintRepository struct {
	client           *firestore.Client
	bucket           *storage.BucketHandle
	collectionPrefix string
}

func (r *voiceprintRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_voiceprints"
	}
	return "voiceprints"
}

func (r *voiceprintRepository) objectName(userID types.UserID) string {
	return "voiceprints/" + userID.String() + ".wav"
}

func (r *voiceprintRepository) Put(ctx context.Context, vp *model.Voiceprint) error {
	if err := vp.Validate(); err != nil {
		return goerr.Wrap(err, "invalid voiceprint")
	}

	// Blob first: a document pointing at a missing object is worse than an
	// orphaned object. Object overwrite is atomic per GCS semantics, which
	// gives the last-write-wins replacement the store promises.
	obj := r.bucket.Object(r.objectName(vp.UserID))
	w := obj.NewWriter(ctx)
	w.ContentType = "audio/wav"
	if _, err := w.Write(vp.Reference.Data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write waveform blob", goerr.V("user_id", vp.UserID))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize waveform blob", goerr.V("user_id", vp.UserID))
	}

	doc := voiceprintDocument{
		UserID:         vp.UserID.String(),
		WaveformObject: r.objectName(vp.UserID),
		SampleRate:     vp.Reference.SampleRate,
		Channels:       vp.Reference.Channels,
		Embedding:      vp.Embedding,
		EnrolledAt:     vp.EnrolledAt,
	}

	_, err := r.client.Collection(r.collection()).Doc(vp.UserID.String()).Set(ctx, doc)
	if err != nil {
		return goerr.Wrap(err, "failed to store voiceprint document", goerr.V("user_id", vp.UserID))
	}
	return nil
}

func (r *voiceprintRepository) Get(ctx context.Context, userID types.UserID) (*model.Voiceprint, error) {
	snap, err := r.client.Collection(r.collection()).Doc(userID.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrVoiceprintNotFound, "no enrollment", goerr.V("user_id", userID))
		}
		return nil, goerr.Wrap(err, "failed to read voiceprint document", goerr.V("user_id", userID))
	}

	var doc voiceprintDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode voiceprint document", goerr.V("user_id", userID))
	}

	reader, err := r.bucket.Object(doc.WaveformObject).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, goerr.Wrap(interfaces.ErrVoiceprintNotFound, "reference waveform blob missing", goerr.V("user_id", userID))
		}
		return nil, goerr.Wrap(err, "failed to open waveform blob", goerr.V("user_id", userID))
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read waveform blob", goerr.V("user_id", userID))
	}

	return &model.Voiceprint{
		UserID: types.UserID(doc.UserID),
		Reference: &model.Waveform{
			Data:       data,
			SampleRate: doc.SampleRate,
			Channels:   doc.Channels,
		},
		Embedding:  doc.Embedding,
		EnrolledAt: doc.EnrolledAt,
	}, nil
}

func (r *voiceprintRepository) Exists(ctx context.Context, userID types.UserID) (bool, error) {
	_, err := r.client.Collection(r.collection()).Doc(userID.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to check voiceprint", goerr.V("user_id", userID))
	}
	return true, nil
}

func (r *voiceprintRepository) Delete(ctx context.Context, userID types.UserID) error {
	ref := r.client.Collection(r.collection()).Doc(userID.String())
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrVoiceprintNotFound, "no enrollment", goerr.V("user_id", userID))
		}
		return goerr.Wrap(err, "failed to check voiceprint", goerr.V("user_id", userID))
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete voiceprint document", goerr.V("user_id", userID))
	}

	err := r.bucket.Object(r.objectName(userID)).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return goerr.Wrap(err, "failed to delete waveform blob", goerr.V("user_id", userID))
	}
	return nil
}
