package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/truevoice/pkg/domain/types"
)

// Voiceprint is the durable enrollment artifact of one user: the reference
// waveform the speaker matcher compares live audio against, plus an optional
// precomputed embedding vector kept for inspection and future matching
// strategies. A user has at most one live Voiceprint; re-enrollment replaces
// it entirely.
type Voiceprint struct {
	UserID     types.UserID
	Reference  *Waveform
	Embedding  []float32
	EnrolledAt time.Time
}

// NewVoiceprint creates a Voiceprint for the given user and reference waveform
func NewVoiceprint(userID types.UserID, ref *Waveform) *Voiceprint {
	return &Voiceprint{
		UserID:     userID,
		Reference:  ref,
		EnrolledAt: time.Now().UTC(),
	}
}

// Validate checks if the Voiceprint is storable
func (v *Voiceprint) Validate() error {
	if err := v.UserID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid voiceprint user ID")
	}
	if err := v.Reference.Validate(); err != nil {
		return goerr.Wrap(err, "invalid voiceprint reference waveform", goerr.V("user_id", v.UserID))
	}
	return nil
}

// Clone returns a deep copy so repository callers cannot mutate stored state
func (v *Voiceprint) Clone() *Voiceprint {
	copied := &Voiceprint{
		UserID:     v.UserID,
		EnrolledAt: v.EnrolledAt,
	}
	if v.Reference != nil {
		copied.Reference = &Waveform{
			Data:       append([]byte(nil), v.Reference.Data...),
			SampleRate: v.Reference.SampleRate,
			Channels:   v.Reference.Channels,
		}
	}
	if v.Embedding != nil {
		copied.Embedding = append([]float32(nil), v.Embedding...)
	}
	return copied
}
