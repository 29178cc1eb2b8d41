package site

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	foundationerrors "github.com/lmittmann/w3docs/internal/foundation/errors"
	"github.com/lmittmann/w3docs/internal/logfields"
)

// stage is a temporary sibling of the output directory that is renamed into
// place once every file is written.
type stage struct {
	dir    string
	output string
	logger *slog.Logger
}

func beginStaging(output string, logger *slog.Logger) (*stage, error) {
	parent := filepath.Dir(output)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, fsError(err, "create output parent", parent)
	}
	dir, err := os.MkdirTemp(parent, "."+filepath.Base(output)+"-stage-*")
	if err != nil {
		return nil, fsError(err, "create staging directory", parent)
	}
	logger.Debug("Initialized staging directory", "staging", dir, "final", output)
	return &stage{dir: dir, output: output, logger: logger}, nil
}

func (s *stage) writeFile(rel string, data []byte) error {
	p := filepath.Join(s.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fsError(err, "create output directory", filepath.Dir(p))
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fsError(err, "write output file", p)
	}
	return nil
}

func (s *stage) writeJSON(rel string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryInternal, "encode json").
			WithContext("path", rel).
			Build()
	}
	return s.writeFile(rel, append(data, '\n'))
}

// promote swaps the staging directory in for the output directory. The
// previous output is moved aside first and removed once the swap succeeded.
func (s *stage) promote() error {
	prev := s.output + ".prev"
	if err := os.RemoveAll(prev); err != nil {
		return fsError(err, "remove previous backup", prev)
	}
	hadOutput := false
	if _, err := os.Stat(s.output); err == nil {
		if err := os.Rename(s.output, prev); err != nil {
			return fsError(err, "back up existing output", s.output)
		}
		hadOutput = true
	}
	if err := os.Rename(s.dir, s.output); err != nil {
		if hadOutput {
			_ = os.Rename(prev, s.output)
		}
		return fsError(err, "promote staging directory", s.output)
	}
	s.dir = ""
	if hadOutput {
		if err := os.RemoveAll(prev); err != nil {
			s.logger.Warn("Failed to remove previous output", logfields.Path(prev), logfields.Error(err))
		}
	}
	return nil
}

// abort removes the staging directory after a failed build.
func (s *stage) abort() {
	if s == nil || s.dir == "" {
		return
	}
	dir := s.dir
	s.dir = ""
	if err := os.RemoveAll(dir); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("Failed to remove staging directory after abort", "staging", dir, logfields.Error(err))
	}
}

func fsError(err error, msg, path string) error {
	return foundationerrors.FileSystemError(msg).
		WithCause(err).
		WithContext("path", path).
		Build()
}
