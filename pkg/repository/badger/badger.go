package badger

import (
	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/truevoice/pkg/domain/interfaces"
)

// Badger is an embedded durable repository backed by BadgerDB. It is the
// default backend for single-node deployments: voiceprints and issued
// challenges survive process restarts without any external service.
type Badger struct {
	db         *badgerdb.DB
	voiceprint *voiceprintRepository
	challenge  *challengeRepository
}

var _ interfaces.Repository = &Badger{}

// nopLogger silences badger's internal logging; operational logs go through
// the application logger instead.
type nopLogger struct{}

func (nopLogger) Errorf(string, ...interface{})   {}
func (nopLogger) Warningf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})    {}
func (nopLogger) Debugf(string, ...interface{})   {}

// New opens (or creates) a BadgerDB repository at the given directory
func New(dir string) (*Badger, error) {
	if dir == "" {
		return nil, goerr.New("badger data directory is required")
	}

	opts := badgerdb.DefaultOptions(dir).WithLogger(nopLogger{})
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open badger database", goerr.V("dir", dir))
	}

	return &Badger{
		db:         db,
		voiceprint: &voiceprintRepository{db: db},
		challenge:  &challengeRepository{db: db},
	}, nil
}

func (b *Badger) Voiceprint() interfaces.VoiceprintRepository {
	return b.voiceprint
}

func (b *Badger) Challenge() interfaces.ChallengeRepository {
	return b.challenge
}

func (b *Badger) Close() error {
	return b.db.Close()
}
