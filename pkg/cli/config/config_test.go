package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/truevoice/pkg/cli/config"
)

func TestChallengeConfigure(t *testing.T) {
	t.Run("default corpus without file", func(t *testing.T) {
		var cfg config.Challenge
		source, err := cfg.Configure()
		gt.NoError(t, err).Required()
		gt.Number(t, len(source.Corpus())).GreaterOrEqual(15)
	})

	t.Run("custom corpus from TOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corpus.toml")
		body := `phrases = ["Red rockets rise rapidly", "Count nine silver coins"]`
		gt.NoError(t, os.WriteFile(path, []byte(body), 0o644))

		var cfg config.Challenge
		cfg.SetCorpusPath(path)
		source, err := cfg.Configure()
		gt.NoError(t, err).Required()
		gt.Array(t, source.Corpus()).Length(2).Has("Count nine silver coins")
	})

	t.Run("broken TOML fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corpus.toml")
		gt.NoError(t, os.WriteFile(path, []byte(`phrases = [`), 0o644))

		var cfg config.Challenge
		cfg.SetCorpusPath(path)
		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("missing file fails", func(t *testing.T) {
		var cfg config.Challenge
		cfg.SetCorpusPath(filepath.Join(t.TempDir(), "no-such.toml"))
		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("empty corpus fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corpus.toml")
		gt.NoError(t, os.WriteFile(path, []byte(`phrases = []`), 0o644))

		var cfg config.Challenge
		cfg.SetCorpusPath(path)
		_, err := cfg.Configure()
		gt.Error(t, err)
	})
}

func TestRepositoryConfigure(t *testing.T) {
	t.Run("memory backend", func(t *testing.T) {
		cfg := config.NewRepository("memory")
		repo, err := cfg.Configure(context.Background())
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.Close())
	})

	t.Run("unknown backend fails", func(t *testing.T) {
		cfg := config.NewRepository("postgres")
		_, err := cfg.Configure(context.Background())
		gt.Error(t, err)
	})

	t.Run("firestore requires project", func(t *testing.T) {
		cfg := config.NewRepository("firestore")
		_, err := cfg.Configure(context.Background())
		gt.Error(t, err)
	})
}

func TestLoggerConfigure(t *testing.T) {
	t.Run("invalid level fails", func(t *testing.T) {
		cfg := config.NewLogger("verbose", "console", "stderr")
		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("invalid format fails", func(t *testing.T) {
		cfg := config.NewLogger("info", "xml", "stderr")
		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("json to stderr", func(t *testing.T) {
		cfg := config.NewLogger("debug", "json", "stderr")
		closer, err := cfg.Configure()
		gt.NoError(t, err).Required()
		closer()
	})
}
