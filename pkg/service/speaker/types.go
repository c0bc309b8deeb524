package speaker

// verifyResponse is the scoring sidecar's answer to a waveform-pair comparison
type verifyResponse struct {
	Score float64 `json:"score"`
}

// embedResponse carries the fixed-length speaker embedding of one waveform
type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// errorResponse is the sidecar's error envelope
type errorResponse struct {
	Detail string `json:"detail"`
}
