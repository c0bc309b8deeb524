package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
	"github.com/secmon-lab/truevoice/pkg/service/phrase"
	"github.com/urfave/cli/v3"
)

// Challenge holds CLI flags for challenge issuance: the phrase corpus and
// challenge lifetime.
type Challenge struct {
	corpusPath    string
	ttl           time.Duration
	sweepInterval time.Duration
}

// corpusFile is the TOML schema of a custom phrase corpus
type corpusFile struct {
	Phrases []string `toml:"phrases"`
}

// Flags returns CLI flags for challenge configuration
func (c *Challenge) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "challenge-corpus",
			Usage:       "Path to a TOML file with a custom challenge phrase corpus",
			Sources:     cli.EnvVars("TRUEVOICE_CHALLENGE_CORPUS"),
			Destination: &c.corpusPath,
		},
		&cli.DurationFlag{
			Name:        "challenge-ttl",
			Usage:       "How long an issued challenge stays valid",
			Value:       model.DefaultChallengeTTL,
			Sources:     cli.EnvVars("TRUEVOICE_CHALLENGE_TTL"),
			Destination: &c.ttl,
		},
		&cli.DurationFlag{
			Name:        "challenge-sweep-interval",
			Usage:       "How often expired challenges are purged",
			Value:       time.Minute,
			Sources:     cli.EnvVars("TRUEVOICE_CHALLENGE_SWEEP_INTERVAL"),
			Destination: &c.sweepInterval,
		},
	}
}

// LogValue renders the configuration for the startup log line
func (c Challenge) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("corpus", c.corpusPath),
		slog.Duration("ttl", c.ttl),
		slog.Duration("sweep_interval", c.sweepInterval),
	)
}

// TTL returns the configured challenge lifetime
func (c *Challenge) TTL() time.Duration {
	return c.ttl
}

// SweepInterval returns how often expired challenges are purged
func (c *Challenge) SweepInterval() time.Duration {
	return c.sweepInterval
}

// Configure builds the phrase source, loading the corpus file when one is
// given and falling back to the built-in corpus otherwise.
func (c *Challenge) Configure() (*phrase.Source, error) {
	if c.corpusPath == "" {
		return phrase.New()
	}

	data, err := os.ReadFile(c.corpusPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read corpus file", goerr.V("path", c.corpusPath))
	}

	var file corpusFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse corpus file", goerr.V("path", c.corpusPath))
	}

	source, err := phrase.New(phrase.WithCorpus(file.Phrases))
	if err != nil {
		return nil, goerr.Wrap(err, "invalid corpus file", goerr.V("path", c.corpusPath))
	}
	return source, nil
}
