package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/truevoice/pkg/domain/interfaces"
	"github.com/secmon-lab/truevoice/pkg/repository/badger"
	"github.com/secmon-lab/truevoice/pkg/repository/firestore"
	"github.com/secmon-lab/truevoice/pkg/repository/memory"
	"github.com/secmon-lab/truevoice/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Repository holds CLI flags for repository backend configuration
type Repository struct {
	backend    string
	badgerDir  string
	projectID  string
	databaseID string
	bucket     string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (badger, firestore or memory)",
			Value:       "badger",
			Sources:     cli.EnvVars("TRUEVOICE_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "badger-dir",
			Usage:       "Data directory for the badger backend",
			Value:       "./data",
			Sources:     cli.EnvVars("TRUEVOICE_BADGER_DIR"),
			Destination: &r.badgerDir,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Sources:     cli.EnvVars("TRUEVOICE_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Sources:     cli.EnvVars("TRUEVOICE_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "storage-bucket",
			Usage:       "Cloud Storage bucket for waveform blobs (required when using firestore backend)",
			Sources:     cli.EnvVars("TRUEVOICE_STORAGE_BUCKET"),
			Destination: &r.bucket,
		},
	}
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// ProjectID returns the Firestore project ID
func (r *Repository) ProjectID() string {
	return r.projectID
}

// DatabaseID returns the Firestore database ID
func (r *Repository) DatabaseID() string {
	return r.databaseID
}

// Configure initializes and returns a repository based on the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case "badger":
		repo, err := badger.New(r.badgerDir)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize badger repository")
		}
		logging.Default().Info("Using badger repository", "dir", r.badgerDir)
		return repo, nil

	case "firestore":
		if r.projectID == "" {
			return nil, goerr.New("firestore-project-id is required when using firestore backend")
		}
		if r.bucket == "" {
			return nil, goerr.New("storage-bucket is required when using firestore backend")
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID, r.bucket)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
			"bucket", r.bucket,
		)
		return repo, nil

	case "memory":
		logging.Default().Info("Using in-memory repository (development mode)")
		return memory.New(), nil

	default:
		return nil, goerr.New("invalid repository backend", goerr.V("backend", r.backend))
	}
}
