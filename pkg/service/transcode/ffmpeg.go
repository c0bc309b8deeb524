package transcode

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/truevoice/pkg/domain/interfaces"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
	"github.com/secmon-lab/truevoice/pkg/utils/logging"
)

// Runner executes the transcoder binary. Extracted so tests can run without
// ffmpeg installed.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// FFmpeg converts any codec ffmpeg can read into the canonical waveform:
// 16 kHz mono 16-bit PCM WAV. Each call works in its own temp directory,
// removed on every exit path.
type FFmpeg struct {
	binary string
	run    Runner
}

var _ interfaces.Transcoder = &FFmpeg{}

type Option func(*FFmpeg)

// WithBinary overrides the ffmpeg executable path
func WithBinary(path string) Option {
	return func(f *FFmpeg) {
		f.binary = path
	}
}

// WithRunner overrides command execution (tests only)
func WithRunner(run Runner) Option {
	return func(f *FFmpeg) {
		f.run = run
	}
}

// New creates an FFmpeg transcoder
func New(opts ...Option) *FFmpeg {
	f := &FFmpeg{
		binary: "ffmpeg",
		run:    defaultRunner,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ToWaveform decodes the uploaded recording into the canonical waveform
func (f *FFmpeg) ToWaveform(ctx context.Context, data []byte, format model.AudioFormat) (*model.Waveform, error) {
	if len(data) == 0 {
		return nil, goerr.New("audio input is empty")
	}
	if format == "" {
		format = model.AudioFormatWAV
	}

	dir, err := os.MkdirTemp("", "truevoice-transcode-*")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create transcode work directory")
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			logging.From(ctx).Warn("failed to remove transcode work directory", "dir", dir, "error", err.Error())
		}
	}()

	inPath := filepath.Join(dir, "input."+string(format))
	outPath := filepath.Join(dir, "output.wav")

	if err := os.WriteFile(inPath, data, 0600); err != nil {
		return nil, goerr.Wrap(err, "failed to write input audio", goerr.V("path", inPath))
	}

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-y",
		"-i", inPath,
		"-ar", strconv.Itoa(model.CanonicalSampleRate),
		"-ac", "1",
		"-sample_fmt", "s16",
		outPath,
	}

	if out, err := f.run(ctx, f.binary, args...); err != nil {
		return nil, goerr.Wrap(err, "failed to decode audio",
			goerr.V("format", format),
			goerr.V("output", string(out)),
		)
	}

	decoded, err := os.ReadFile(outPath)
	if err != nil {
		return nil, goerr.Wrap(err, "transcoder produced no output", goerr.V("format", format))
	}
	if len(decoded) == 0 {
		return nil, goerr.New("transcoder produced empty output", goerr.V("format", format))
	}

	return &model.Waveform{
		Data:       decoded,
		SampleRate: model.CanonicalSampleRate,
		Channels:   1,
	}, nil
}
