package snapshotrepo

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/munkhbat-e/pocket-ledger/internal/domain"
	"github.com/munkhbat-e/pocket-ledger/pkg/errorspkg"
)

// RepoFile stores snapshot blobs as one file per key under a data directory.
// It is the fallback backend and is assumed to always be present.
type RepoFile struct {
	dir string
}

// NewRepoFile returns snapshot RepoFile rooted at dir.
func NewRepoFile(dir string) *RepoFile {
	return &RepoFile{
		dir: dir,
	}
}

func (r *RepoFile) path(key string) string {
	return filepath.Join(r.dir, key+".json")
}

// Get returns the snapshot blob stored under key.
func (r *RepoFile) Get(ctx context.Context, key string) (string, error) {
	l := zerolog.Ctx(ctx)

	data, err := os.ReadFile(r.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", domain.ErrSnapshotNotFound
		}

		l.Error().Err(err).Msgf("Get(ctx, %v)", key)

		return "", errorspkg.ErrInternal
	}

	if len(data) == 0 {
		return "", domain.ErrSnapshotNotFound
	}

	return string(data), nil
}

// Set writes the snapshot blob under key. The write goes to a temporary
// file first and is then renamed over the old one, so a crash mid-write
// cannot corrupt the previous snapshot.
func (r *RepoFile) Set(ctx context.Context, key, value string) error {
	l := zerolog.Ctx(ctx)

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		l.Error().Err(err).Msgf("Set(ctx, %v)", key)

		return errorspkg.ErrInternal
	}

	path := r.path(key)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		l.Error().Err(err).Msgf("Set(ctx, %v)", key)

		return errorspkg.ErrInternal
	}

	if err := os.Rename(tmp, path); err != nil {
		l.Error().Err(err).Msgf("Set(ctx, %v)", key)

		return errorspkg.ErrInternal
	}

	return nil
}
