package transcribe

import (
	"bytes"
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/secmon-lab/truevoice/pkg/domain/interfaces"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
)

// Whisper transcribes speech through the OpenAI audio API. Pointing the base
// URL at a local whisper-server gives the same contract without the hosted
// service. The underlying client is stateless and safe for concurrent use.
type Whisper struct {
	client openai.Client
	model  openai.AudioModel
}

var _ interfaces.Transcriber = &Whisper{}

type Option func(*config)

type config struct {
	baseURL string
	model   openai.AudioModel
}

// WithBaseURL points the client at a non-default API endpoint
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithModel overrides the transcription model
func WithModel(m string) Option {
	return func(c *config) {
		c.model = openai.AudioModel(m)
	}
}

// New creates a Whisper transcriber
func New(apiKey string, opts ...Option) (*Whisper, error) {
	if apiKey == "" {
		return nil, goerr.New("transcription API key is required")
	}

	cfg := &config{
		model: openai.AudioModelWhisper1,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}

	return &Whisper{
		client: openai.NewClient(clientOpts...),
		model:  cfg.model,
	}, nil
}

// Transcribe converts the waveform to text, trimmed and lowercased the way
// downstream transcript matching expects.
func (w *Whisper) Transcribe(ctx context.Context, waveform *model.Waveform) (string, error) {
	if err := waveform.Validate(); err != nil {
		return "", goerr.Wrap(err, "invalid waveform for transcription")
	}

	resp, err := w.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(waveform.Data), "audio.wav", "audio/wav"),
		Model: w.model,
	})
	if err != nil {
		return "", goerr.Wrap(err, "transcription request failed", goerr.V("model", w.model))
	}

	return strings.ToLower(strings.TrimSpace(resp.Text)), nil
}
