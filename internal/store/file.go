package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"albaranes/internal/logger"
)

// FileStore keeps each key in <dir>/<key>.json. Writes go to a temporary
// file that is renamed over the previous value.
type FileStore struct {
	dir string
	log zerolog.Logger
}

// NewFileStore creates dir if needed and returns a FileStore rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	const op = "NewFileStore"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, wrapError(op, "", fmt.Errorf("failed to create store directory %s: %w", dir, err))
	}

	s := &FileStore{dir: dir, log: logger.WithComponent("store-file")}
	s.log.Debug().Str("dir", dir).Msg("File store ready")
	return s, nil
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	const op = "Get"

	p, err := s.path(key)
	if err != nil {
		return "", false, wrapError(op, key, err)
	}

	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapError(op, key, err)
	}
	return string(data), true, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	const op = "Set"

	p, err := s.path(key)
	if err != nil {
		return wrapError(op, key, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return wrapError(op, key, err)
	}
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return wrapError(op, key, err)
	}
	if err := tmp.Close(); err != nil {
		return wrapError(op, key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return wrapError(op, key, err)
	}

	s.log.Debug().Str("key", key).Int("bytes", len(value)).Msg("Value written")
	return nil
}

func (s *FileStore) Close() error { return nil }
