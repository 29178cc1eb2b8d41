package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	foundationerrors "github.com/lmittmann/w3docs/internal/foundation/errors"
)

// envFiles are loaded in order; a variable already present in the process
// environment is never overwritten, so earlier files win over later ones.
var envFiles = []string{".env.local", ".env"}

// loadEnvFiles loads the environment files found in dir and returns the ones it read.
func loadEnvFiles(dir string) ([]string, error) {
	var loaded []string
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "load environment file").
				WithContext("path", path).
				UserAction().
				Build()
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
