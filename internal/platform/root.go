package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/omarchive/pkg/adapters/fs"
)

// ConfigFile is the name of the project configuration file.
const ConfigFile = ".omarchive.yaml"

// FindRoot looks upwards from startDir for a project root: a directory
// holding ConfigFile or the archive catalog directory. It returns the
// absolute path of the root.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ConfigFile) || hasFile(dir, fs.SystemDir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

func hasFile(dir, name string) bool {
	path := filepath.Join(dir, name)
	_, err := os.Stat(path)
	return err == nil
}
