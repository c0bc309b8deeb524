package transcode_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
	"github.com/secmon-lab/truevoice/pkg/service/transcode"
)

func TestFFmpeg_ToWaveform(t *testing.T) {
	var gotArgs []string
	var workDir string

	runner := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = args
		// Last argument is the output path; simulate ffmpeg writing it
		outPath := args[len(args)-1]
		workDir = filepath.Dir(outPath)
		return nil, os.WriteFile(outPath, []byte("RIFFfakeWAVE"), 0600)
	}

	tc := transcode.New(transcode.WithRunner(runner))
	wf, err := tc.ToWaveform(context.Background(), []byte("webm-bytes"), model.AudioFormatWebM)
	gt.NoError(t, err)

	gt.Value(t, string(wf.Data)).Equal("RIFFfakeWAVE")
	gt.Value(t, wf.SampleRate).Equal(model.CanonicalSampleRate)
	gt.Value(t, wf.Channels).Equal(1)

	// Resample arguments must request the canonical format
	joined := ""
	for _, a := range gotArgs {
		joined += a + " "
	}
	if !contains(gotArgs, "-ar", "16000") {
		t.Errorf("expected -ar 16000 in args, got %s", joined)
	}
	if !contains(gotArgs, "-ac", "1") {
		t.Errorf("expected -ac 1 in args, got %s", joined)
	}

	// Work directory must be cleaned up on success
	if _, err := os.Stat(workDir); !os.IsNotExist(err) {
		t.Errorf("work directory %s was not removed", workDir)
	}
}

func TestFFmpeg_ToWaveform_DecodeFailure(t *testing.T) {
	var workDir string
	runner := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		workDir = filepath.Dir(args[len(args)-1])
		return []byte("Invalid data found when processing input"), os.ErrInvalid
	}

	tc := transcode.New(transcode.WithRunner(runner))
	_, err := tc.ToWaveform(context.Background(), []byte("not-audio"), model.AudioFormatOGG)
	gt.Error(t, err)

	// Work directory must be cleaned up on failure as well
	if _, err := os.Stat(workDir); !os.IsNotExist(err) {
		t.Errorf("work directory %s was not removed after failure", workDir)
	}
}

func TestFFmpeg_ToWaveform_EmptyInput(t *testing.T) {
	tc := transcode.New(transcode.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		t.Fatal("runner must not be invoked for empty input")
		return nil, nil
	}))
	_, err := tc.ToWaveform(context.Background(), nil, model.AudioFormatWAV)
	gt.Error(t, err)
}

func contains(args []string, flag, value string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}
