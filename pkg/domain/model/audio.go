package model

import (
	"github.com/m-mizutani/goerr/v2"
)

// AudioFormat is the declared container/codec of an uploaded recording,
// normalized from the file extension or MIME subtype (e.g. "wav", "webm",
// "ogg", "mp3", "m4a").
type AudioFormat string

const (
	AudioFormatWAV  AudioFormat = "wav"
	AudioFormatWebM AudioFormat = "webm"
	AudioFormatOGG  AudioFormat = "ogg"
	AudioFormatMP3  AudioFormat = "mp3"
	AudioFormatM4A  AudioFormat = "m4a"
)

// Waveform is the canonical decoded representation of a recording:
// 16 kHz mono 16-bit PCM wrapped in a WAV container. All speech
// capabilities operate on this representation only.
type Waveform struct {
	Data       []byte
	SampleRate int
	Channels   int
}

// CanonicalSampleRate is the sample rate all inputs are resampled to
const CanonicalSampleRate = 16000

// Validate checks if the Waveform carries audio data
func (w *Waveform) Validate() error {
	if w == nil || len(w.Data) == 0 {
		return goerr.New("waveform is empty")
	}
	if w.SampleRate <= 0 {
		return goerr.New("waveform sample rate is invalid", goerr.V("sample_rate", w.SampleRate))
	}
	return nil
}
