// ABOUTME: Static snapshot source reads the bundled reading-list file
// ABOUTME: Supports local paths and http(s) locations; also writes refreshed files

package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"shelf-widgets/core/domain"
	coreerrors "shelf-widgets/core/errors"
	"shelf-widgets/core/interfaces"
)

// DefaultMaxReadBooks is how many read-shelf books a refreshed static file keeps
const DefaultMaxReadBooks = 10

// StaticSource loads the bundled snapshot. The file may omit its timestamp.
type StaticSource struct {
	location string
	fetcher  interfaces.Fetcher
}

// NewStaticSource creates a source for location. Remote locations are read through
// fetcher; local paths are read from disk.
func NewStaticSource(location string, fetcher interfaces.Fetcher) *StaticSource {
	return &StaticSource{
		location: location,
		fetcher:  fetcher,
	}
}

// Location returns the configured path or URL
func (s *StaticSource) Location() string {
	return s.location
}

// IsRemote reports whether the location is an http(s) URL
func (s *StaticSource) IsRemote() bool {
	return strings.HasPrefix(s.location, "http://") || strings.HasPrefix(s.location, "https://")
}

// Load reads and decodes the static snapshot
func (s *StaticSource) Load(ctx context.Context) (domain.Snapshot, error) {
	if s.location == "" {
		return domain.Snapshot{}, &coreerrors.NotFoundError{Resource: "static snapshot", ID: "(unset)"}
	}

	data, err := s.read(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode static snapshot %s: %w", s.location, err)
	}
	return snap, nil
}

func (s *StaticSource) read(ctx context.Context) ([]byte, error) {
	if s.IsRemote() {
		if s.fetcher == nil {
			return nil, errors.New("no fetcher configured for remote static snapshot")
		}
		return s.fetcher.Fetch(ctx, s.location)
	}

	data, err := os.ReadFile(s.location)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &coreerrors.NotFoundError{Resource: "static snapshot", ID: s.location}
	}
	if err != nil {
		return nil, fmt.Errorf("read static snapshot %s: %w", s.location, err)
	}
	return data, nil
}

// Save writes snap to the local location, keeping at most maxRead read-shelf books.
// The file is replaced atomically so readers never see a partial write.
func (s *StaticSource) Save(snap domain.Snapshot, maxRead int) error {
	if s.location == "" || s.IsRemote() {
		return fmt.Errorf("static snapshot location %q is not a writable path", s.location)
	}
	if snap.IsEmpty() {
		return errors.New("refusing to save an empty snapshot")
	}

	out := snap.Clone()
	if maxRead > 0 && len(out.ReadBooks) > maxRead {
		out.ReadBooks = out.ReadBooks[:maxRead]
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return coreerrors.WrapError(err, "encode static snapshot")
	}

	dir := filepath.Dir(s.location)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return coreerrors.WrapError(err, "create snapshot directory")
	}

	tmp, err := os.CreateTemp(dir, ".goodreads-*.json")
	if err != nil {
		return coreerrors.WrapError(err, "create temp snapshot")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return coreerrors.WrapError(err, "write temp snapshot")
	}
	if err := tmp.Close(); err != nil {
		return coreerrors.WrapError(err, "close temp snapshot")
	}
	return os.Rename(tmp.Name(), s.location)
}
