package phrase_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/truevoice/pkg/service/phrase"
)

func TestSource_NextPhrase(t *testing.T) {
	src, err := phrase.New()
	gt.NoError(t, err)

	corpus := src.Corpus()
	members := make(map[string]bool, len(corpus))
	for _, p := range corpus {
		members[p] = true
	}

	// Every draw must be a corpus member, and with enough draws every member
	// should be reachable.
	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		p := src.NextPhrase()
		if !members[p] {
			t.Fatalf("drew phrase outside corpus: %q", p)
		}
		seen[p] = true
	}
	gt.Value(t, len(seen)).Equal(len(corpus))
}

func TestSource_CustomCorpus(t *testing.T) {
	src, err := phrase.New(phrase.WithCorpus([]string{"only phrase"}))
	gt.NoError(t, err)
	gt.Value(t, src.NextPhrase()).Equal("only phrase")
}

func TestSource_EmptyCorpus(t *testing.T) {
	_, err := phrase.New(phrase.WithCorpus(nil))
	gt.Error(t, err)

	_, err = phrase.New(phrase.WithCorpus([]string{"ok", ""}))
	gt.Error(t, err)
}
