// Package modelstore loads predictor artifacts from disk. A missing or
// corrupt artifact is reported as absence, never as an error: serving must
// keep answering from the fallback tier whatever happens to the files.
package modelstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fleetsense/autocare/core/logger"
	"github.com/fleetsense/autocare/core/predictor"
)

// FileStore reads JSON linear-model artifacts named <kind>_model.json from a
// fixed directory.
type FileStore struct {
	dir string
	log logger.Logger
}

// NewFileStore creates a store over the given artifact directory.
func NewFileStore(dir string, log logger.Logger) *FileStore {
	return &FileStore{dir: dir, log: log}
}

// ArtifactPath returns the expected artifact location for a kind.
func (s *FileStore) ArtifactPath(kind predictor.Kind) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_model.json", kind))
}

// Load implements predictor.Store.
func (s *FileStore) Load(kind predictor.Kind) (predictor.Handle, bool) {
	path := s.ArtifactPath(kind)
	data, err := os.ReadFile(path)
	if err != nil {
		if s.log != nil {
			s.log.Debugf("no %s predictor artifact at %s: %v", kind, path, err)
		}
		return predictor.Handle{}, false
	}
	m, err := predictor.ParseLinearModel(data)
	if err != nil {
		if s.log != nil {
			s.log.Warnf("unusable %s predictor artifact at %s: %v", kind, path, err)
		}
		return predictor.Handle{}, false
	}
	return predictor.Handle{Name: m.Name(), Model: m}, true
}
