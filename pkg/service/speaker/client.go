package speaker

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/truevoice/pkg/domain/interfaces"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
	"github.com/secmon-lab/truevoice/pkg/utils/logging"
)

// Service is the speaker-verification capability: pairwise scoring and
// embedding extraction against an inference sidecar hosting the
// speaker-recognition model.
type Service interface {
	interfaces.SpeakerMatcher
	interfaces.EmbeddingExtractor
}

// Client talks to the scoring sidecar over HTTP. The sidecar loads its model
// lazily; the first request through this client triggers a warm-up health
// check, guarded so concurrent first calls run it one at a time. Only success
// is latched: a failed check is returned to its caller and retried on the
// next request. After warm-up the client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	warmMu sync.Mutex
	warmed bool
}

var _ Service = &Client{}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a speaker service client for the given sidecar base URL
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, goerr.New("speaker service base URL is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// warm checks the sidecar's health endpoint so model loading happens before
// the first scoring request and is never raced by concurrent callers. A
// transient failure (sidecar still starting, caller's context cancelled) must
// not poison the client, so the check reruns until it succeeds once.
func (c *Client) warm(ctx context.Context) error {
	c.warmMu.Lock()
	defer c.warmMu.Unlock()
	if c.warmed {
		return nil
	}

	started := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return goerr.Wrap(err, "failed to build warm-up request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "speaker sidecar is unreachable", goerr.V("base_url", c.baseURL))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return goerr.New("speaker sidecar is not healthy", goerr.V("status", resp.StatusCode))
	}

	c.warmed = true
	logging.From(ctx).Info("speaker sidecar warmed", "elapsed", time.Since(started).String())
	return nil
}

// Score compares two waveforms and returns the model's similarity score
func (c *Client) Score(ctx context.Context, reference, candidate *model.Waveform) (float64, error) {
	if err := c.warm(ctx); err != nil {
		return 0, err
	}

	body, contentType, err := multipartBody(map[string][]byte{
		"reference": reference.Data,
		"candidate": candidate.Data,
	})
	if err != nil {
		return 0, err
	}

	var result verifyResponse
	if err := c.post(ctx, "/v1/verify", body, contentType, &result); err != nil {
		return 0, err
	}
	return result.Score, nil
}

// Embed extracts the speaker embedding of one waveform
func (c *Client) Embed(ctx context.Context, waveform *model.Waveform) ([]float32, error) {
	if err := c.warm(ctx); err != nil {
		return nil, err
	}

	body, contentType, err := multipartBody(map[string][]byte{
		"audio": waveform.Data,
	})
	if err != nil {
		return nil, err
	}

	var result embedResponse
	if err := c.post(ctx, "/v1/embed", body, contentType, &result); err != nil {
		return nil, err
	}
	if len(result.Embedding) == 0 {
		return nil, goerr.New("speaker sidecar returned an empty embedding")
	}
	return result.Embedding, nil
}

func (c *Client) post(ctx context.Context, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return goerr.Wrap(err, "failed to build request", goerr.V("path", path))
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "speaker sidecar request failed", goerr.V("path", path))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		detail := ""
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil {
			detail = apiErr.Detail
		}
		return goerr.New("speaker sidecar returned an error",
			goerr.V("path", path),
			goerr.V("status", resp.StatusCode),
			goerr.V("detail", detail),
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode speaker sidecar response", goerr.V("path", path))
	}
	return nil
}

func multipartBody(fields map[string][]byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, data := range fields {
		part, err := w.CreateFormFile(name, name+".wav")
		if err != nil {
			return nil, "", goerr.Wrap(err, "failed to create multipart field", goerr.V("field", name))
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", goerr.Wrap(err, "failed to write multipart field", goerr.V("field", name))
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", goerr.Wrap(err, "failed to finalize multipart body")
	}
	return &buf, w.FormDataContentType(), nil
}
