package speaker_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
	"github.com/secmon-lab/truevoice/pkg/service/speaker"
)

func testWaveform(data string) *model.Waveform {
	return &model.Waveform{Data: []byte(data), SampleRate: model.CanonicalSampleRate, Channels: 1}
}

func newSidecar(t *testing.T, healthCalls *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if healthCalls != nil {
			healthCalls.Add(1)
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /v1/verify", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.MultipartForm.File["reference"] == nil || r.MultipartForm.File["candidate"] == nil {
			http.Error(w, "missing waveform", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"score": 0.8125})
	})
	mux.HandleFunc("POST /v1/embed", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"embedding": []float32{0.1, 0.2}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Score(t *testing.T) {
	srv := newSidecar(t, nil)
	client, err := speaker.New(srv.URL)
	gt.NoError(t, err)

	score, err := client.Score(context.Background(), testWaveform("ref"), testWaveform("cand"))
	gt.NoError(t, err)
	gt.Value(t, score).Equal(0.8125)
}

func TestClient_Embed(t *testing.T) {
	srv := newSidecar(t, nil)
	client, err := speaker.New(srv.URL)
	gt.NoError(t, err)

	embedding, err := client.Embed(context.Background(), testWaveform("audio"))
	gt.NoError(t, err)
	gt.Value(t, len(embedding)).Equal(2)
}

func TestClient_WarmsExactlyOnce(t *testing.T) {
	var healthCalls atomic.Int32
	srv := newSidecar(t, &healthCalls)
	client, err := speaker.New(srv.URL)
	gt.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = client.Score(context.Background(), testWaveform("a"), testWaveform("b"))
		}()
	}
	wg.Wait()

	gt.Value(t, healthCalls.Load()).Equal(int32(1))
}

func TestClient_RecoversAfterFailedWarmUp(t *testing.T) {
	var healthCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		// Unhealthy on the first check only, as with a sidecar still starting
		if healthCalls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /v1/verify", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"score": 0.75})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := speaker.New(srv.URL)
	gt.NoError(t, err)

	_, err = client.Score(context.Background(), testWaveform("a"), testWaveform("b"))
	gt.Error(t, err)

	score, err := client.Score(context.Background(), testWaveform("a"), testWaveform("b"))
	gt.NoError(t, err)
	gt.Value(t, score).Equal(0.75)

	// Success is latched; no further health checks once the sidecar answered
	_, err = client.Score(context.Background(), testWaveform("a"), testWaveform("b"))
	gt.NoError(t, err)
	gt.Value(t, healthCalls.Load()).Equal(int32(2))
}

func TestClient_SidecarError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /v1/verify", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "model not loaded"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := speaker.New(srv.URL)
	gt.NoError(t, err)

	_, err = client.Score(context.Background(), testWaveform("a"), testWaveform("b"))
	gt.Error(t, err)
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := speaker.New("")
	gt.Error(t, err)
}
