package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
)

func testWaveform() *model.Waveform {
	return &model.Waveform{
		Data:       []byte("RIFF....WAVEfmt "),
		SampleRate: model.CanonicalSampleRate,
		Channels:   1,
	}
}

func TestNewVoiceprint(t *testing.T) {
	vp := model.NewVoiceprint("alice", testWaveform())

	gt.NoError(t, vp.Validate())
	gt.Value(t, vp.UserID.String()).Equal("alice")
	gt.False(t, vp.EnrolledAt.IsZero())
}

func TestVoiceprint_Validate(t *testing.T) {
	vp := model.NewVoiceprint("", testWaveform())
	gt.Error(t, vp.Validate())

	vp = model.NewVoiceprint("alice", &model.Waveform{})
	gt.Error(t, vp.Validate())

	vp = model.NewVoiceprint("alice", nil)
	gt.Error(t, vp.Validate())
}

func TestVoiceprint_Clone(t *testing.T) {
	vp := model.NewVoiceprint("alice", testWaveform())
	vp.Embedding = []float32{0.1, 0.2, 0.3}

	clone := vp.Clone()
	clone.Reference.Data[0] = 'X'
	clone.Embedding[0] = 9.9

	gt.Value(t, vp.Reference.Data[0]).Equal(byte('R'))
	gt.Value(t, vp.Embedding[0]).Equal(float32(0.1))
}
