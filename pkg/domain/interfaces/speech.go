package interfaces

import (
	"context"

	"github.com/secmon-lab/truevoice/pkg/domain/model"
)

// SpeakerMatcher scores the similarity of two voices. Implementations wrap a
// speaker-verification model backend; scores are model-defined with higher
// meaning more similar.
type SpeakerMatcher interface {
	Score(ctx context.Context, reference, candidate *model.Waveform) (float64, error)
}

// EmbeddingExtractor derives a fixed-length speaker embedding from a waveform
type EmbeddingExtractor interface {
	Embed(ctx context.Context, waveform *model.Waveform) ([]float32, error)
}

// Transcriber converts speech to text
type Transcriber interface {
	Transcribe(ctx context.Context, waveform *model.Waveform) (string, error)
}

// Transcoder decodes an uploaded recording of any supported codec into the
// canonical waveform representation.
type Transcoder interface {
	ToWaveform(ctx context.Context, data []byte, format model.AudioFormat) (*model.Waveform, error)
}

// PhraseSource supplies challenge phrases from a fixed corpus
type PhraseSource interface {
	NextPhrase() string
	Corpus() []string
}
