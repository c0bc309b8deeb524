package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/truevoice/pkg/service/speaker"
	"github.com/secmon-lab/truevoice/pkg/service/transcode"
	"github.com/secmon-lab/truevoice/pkg/service/transcribe"
	"github.com/urfave/cli/v3"
)

// Speech holds CLI flags for the speech capability backends: the
// speaker-verification sidecar, Whisper transcription and ffmpeg.
type Speech struct {
	speakerURL     string
	openaiAPIKey   string
	whisperBaseURL string
	whisperModel   string
	ffmpegPath     string
}

// Flags returns CLI flags for speech capability configuration
func (s *Speech) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "speaker-url",
			Usage:       "Base URL of the speaker verification sidecar",
			Value:       "http://localhost:8001",
			Sources:     cli.EnvVars("TRUEVOICE_SPEAKER_URL"),
			Destination: &s.speakerURL,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key for Whisper transcription (liveness checks are disabled without it)",
			Sources:     cli.EnvVars("TRUEVOICE_OPENAI_API_KEY", "OPENAI_API_KEY"),
			Destination: &s.openaiAPIKey,
		},
		&cli.StringFlag{
			Name:        "whisper-base-url",
			Usage:       "Override the OpenAI API base URL (e.g. a local whisper-server)",
			Sources:     cli.EnvVars("TRUEVOICE_WHISPER_BASE_URL"),
			Destination: &s.whisperBaseURL,
		},
		&cli.StringFlag{
			Name:        "whisper-model",
			Usage:       "Transcription model name",
			Sources:     cli.EnvVars("TRUEVOICE_WHISPER_MODEL"),
			Destination: &s.whisperModel,
		},
		&cli.StringFlag{
			Name:        "ffmpeg-path",
			Usage:       "Path to the ffmpeg binary",
			Sources:     cli.EnvVars("TRUEVOICE_FFMPEG_PATH"),
			Destination: &s.ffmpegPath,
		},
	}
}

// LogValue renders the configuration for the startup log line. The API key
// itself never appears, only whether one is set.
func (s Speech) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("speaker_url", s.speakerURL),
		slog.Bool("openai_api_key", s.openaiAPIKey != ""),
		slog.String("whisper_base_url", s.whisperBaseURL),
		slog.String("whisper_model", s.whisperModel),
		slog.String("ffmpeg_path", s.ffmpegPath),
	)
}

// Matcher creates the speaker verification client
func (s *Speech) Matcher() (*speaker.Client, error) {
	client, err := speaker.New(s.speakerURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create speaker client")
	}
	return client, nil
}

// Transcriber creates the Whisper client, or returns nil when no API key is
// configured.
func (s *Speech) Transcriber() (*transcribe.Whisper, error) {
	if s.openaiAPIKey == "" {
		return nil, nil
	}

	var opts []transcribe.Option
	if s.whisperBaseURL != "" {
		opts = append(opts, transcribe.WithBaseURL(s.whisperBaseURL))
	}
	if s.whisperModel != "" {
		opts = append(opts, transcribe.WithModel(s.whisperModel))
	}

	whisper, err := transcribe.New(s.openaiAPIKey, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create whisper client")
	}
	return whisper, nil
}

// Transcoder creates the ffmpeg transcoder
func (s *Speech) Transcoder() *transcode.FFmpeg {
	var opts []transcode.Option
	if s.ffmpegPath != "" {
		opts = append(opts, transcode.WithBinary(s.ffmpegPath))
	}
	return transcode.New(opts...)
}
