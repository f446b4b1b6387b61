package forecast

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rshade/weathr/internal/fsys"
	"github.com/rshade/weathr/internal/nws"
)

// Snapshot errors.
var (
	// ErrNoSnapshot means no location has been saved yet.
	ErrNoSnapshot = errors.New(
		"no saved location; run weathr once with --latlong <lat>,<long> to set one (see weathr --help)")

	// ErrNoSnapshotPath means there is no directory to keep a snapshot in.
	ErrNoSnapshotPath = errors.New("no configuration directory for the location snapshot")
)

// SnapshotStore keeps the last resolved location on disk so later runs can
// omit coordinates.
type SnapshotStore struct {
	path string
	fs   fsys.FS
}

// NewSnapshotStore returns a store for the file at path. An empty path gives
// a store that can neither load nor save.
func NewSnapshotStore(path string, filesystem fsys.FS) *SnapshotStore {
	return &SnapshotStore{path: path, fs: filesystem}
}

// Path returns the snapshot file path.
func (s *SnapshotStore) Path() string {
	return s.path
}

// Load reads the saved location. Files written by older releases, which hold
// the raw points response, are accepted too.
func (s *SnapshotStore) Load() (nws.LocationProperties, error) {
	if s.path == "" {
		return nws.LocationProperties{}, ErrNoSnapshotPath
	}

	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if fsys.IsNotExist(err) {
			return nws.LocationProperties{}, fmt.Errorf("%w (looked in %s)", ErrNoSnapshot, s.path)
		}
		return nws.LocationProperties{}, fmt.Errorf("reading location snapshot %s: %w", s.path, err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nws.LocationProperties{}, fmt.Errorf("location snapshot %s: %w: %w", s.path, nws.ErrMalformedJSON, err)
	}
	if _, legacy := probe["properties"]; legacy {
		return nws.DecodePoint(string(data))
	}

	var loc nws.LocationProperties
	if err := json.Unmarshal(data, &loc); err != nil {
		return nws.LocationProperties{}, fmt.Errorf("location snapshot %s: %w: %w", s.path, nws.ErrWrongType, err)
	}
	if loc.GridID == "" || loc.ForecastURL == "" {
		return nws.LocationProperties{}, fmt.Errorf("location snapshot %s: %w: gridId/forecast", s.path, nws.ErrMissingField)
	}
	return loc, nil
}

// Save replaces the snapshot with loc.
func (s *SnapshotStore) Save(loc nws.LocationProperties) error {
	if s.path == "" {
		return ErrNoSnapshotPath
	}

	data, err := json.MarshalIndent(loc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding location snapshot: %w", err)
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	if err := s.fs.WriteFile(s.path, data); err != nil {
		return fmt.Errorf("writing location snapshot: %w", err)
	}
	return nil
}
