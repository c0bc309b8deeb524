package usecase

import (
	"time"

	"github.com/secmon-lab/truevoice/pkg/domain/interfaces"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
)

// UseCases orchestrates enrollment, identity verification and combined
// secure (identity + liveness) verification over the repository and the
// speech capabilities.
type UseCases struct {
	repo         interfaces.Repository
	transcoder   interfaces.Transcoder
	matcher      interfaces.SpeakerMatcher
	embedder     interfaces.EmbeddingExtractor
	transcriber  interfaces.Transcriber
	phrases      interfaces.PhraseSource
	challengeTTL time.Duration
	policy       model.DecisionPolicy
}

type Option func(*UseCases)

// WithEmbedder enables best-effort embedding persistence at enrollment
func WithEmbedder(embedder interfaces.EmbeddingExtractor) Option {
	return func(uc *UseCases) {
		uc.embedder = embedder
	}
}

// WithTranscriber enables secure (liveness) verification
func WithTranscriber(transcriber interfaces.Transcriber) Option {
	return func(uc *UseCases) {
		uc.transcriber = transcriber
	}
}

// WithChallengeTTL overrides how long issued challenges stay valid
func WithChallengeTTL(ttl time.Duration) Option {
	return func(uc *UseCases) {
		uc.challengeTTL = ttl
	}
}

// WithPolicy overrides the default decision policy
func WithPolicy(policy model.DecisionPolicy) Option {
	return func(uc *UseCases) {
		uc.policy = policy
	}
}

// New creates the use case layer. transcoder, matcher and phrases are
// required for the base operations; embedder and transcriber are optional
// capabilities enabled through options.
func New(repo interfaces.Repository, transcoder interfaces.Transcoder, matcher interfaces.SpeakerMatcher, phrases interfaces.PhraseSource, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:         repo,
		transcoder:   transcoder,
		matcher:      matcher,
		phrases:      phrases,
		challengeTTL: model.DefaultChallengeTTL,
		policy:       model.DefaultPolicy(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
