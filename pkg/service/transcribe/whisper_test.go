package transcribe_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
	"github.com/secmon-lab/truevoice/pkg/service/transcribe"
)

func TestWhisper_Transcribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.MultipartForm.File["file"] == nil {
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"text": "  My Voice Is My Passport. "})
	}))
	t.Cleanup(srv.Close)

	tr, err := transcribe.New("test-key", transcribe.WithBaseURL(srv.URL))
	gt.NoError(t, err)

	text, err := tr.Transcribe(context.Background(), &model.Waveform{
		Data:       []byte("RIFFfake"),
		SampleRate: model.CanonicalSampleRate,
		Channels:   1,
	})
	gt.NoError(t, err)
	gt.Value(t, text).Equal("my voice is my passport.")
}

func TestWhisper_RequiresAPIKey(t *testing.T) {
	_, err := transcribe.New("")
	gt.Error(t, err)
}

func TestWhisper_RejectsEmptyWaveform(t *testing.T) {
	tr, err := transcribe.New("test-key")
	gt.NoError(t, err)

	_, err = tr.Transcribe(context.Background(), &model.Waveform{})
	gt.Error(t, err)
}
