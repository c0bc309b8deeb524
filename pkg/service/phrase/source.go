package phrase

import (
	"math/rand/v2"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/truevoice/pkg/domain/interfaces"
)

// defaultCorpus is the built-in challenge phrase list. Phrases mix digits and
// uncommon word pairs so a pre-recorded sample is unlikely to contain one by
// accident.
var defaultCorpus = []string{
	"Say 35 green apples",
	"Repeat 42 orange balloons",
	"I like yellow bananas",
	"My voice is my passport",
	"Open the red umbrella",
	"The sun sets at 6 PM",
	"Blue sky above the mountains",
	"Coffee tastes better in the morning",
	"Technology changes rapidly",
	"Music brings people together",
	"Reading is a wonderful hobby",
	"Exercise keeps you healthy",
	"Friendship is very important",
	"Learning never stops",
	"Nature is beautiful and peaceful",
	"Cooking can be very relaxing",
	"Travel broadens the mind",
	"Art expresses human creativity",
	"Science explains the world",
	"Kindness makes the world better",
}

// Source selects challenge phrases uniformly at random from a fixed corpus
type Source struct {
	corpus []string
}

var _ interfaces.PhraseSource = &Source{}

type Option func(*Source)

// WithCorpus replaces the built-in phrase list
func WithCorpus(corpus []string) Option {
	return func(s *Source) {
		s.corpus = corpus
	}
}

// New creates a phrase source. The corpus must be non-empty.
func New(opts ...Option) (*Source, error) {
	s := &Source{
		corpus: defaultCorpus,
	}
	for _, opt := range opts {
		opt(s)
	}

	if len(s.corpus) == 0 {
		return nil, goerr.New("phrase corpus cannot be empty")
	}
	for i, p := range s.corpus {
		if p == "" {
			return nil, goerr.New("phrase corpus contains an empty phrase", goerr.V("index", i))
		}
	}

	return s, nil
}

// NextPhrase returns a uniformly random phrase from the corpus
func (s *Source) NextPhrase() string {
	return s.corpus[rand.IntN(len(s.corpus))]
}

// Corpus returns the phrase list
func (s *Source) Corpus() []string {
	return append([]string(nil), s.corpus...)
}
