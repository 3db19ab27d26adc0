package updater

import (
	"os"
	"path/filepath"
)

// locateCheckout finds the source checkout this binary was built from:
// first by walking up from the executable, then by probing the
// conventional clone locations under the home directory.
func locateCheckout() (string, error) {
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dir := filepath.Dir(exe)
		for {
			if isCheckout(dir) {
				return dir, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", ErrNoCheckout
	}
	for _, dir := range []string{
		filepath.Join(home, repoName),
		filepath.Join(home, "projects", repoName),
		filepath.Join(home, "code", repoName),
		filepath.Join(home, "dev", repoName),
	} {
		if isCheckout(dir) {
			return dir, nil
		}
	}
	return "", ErrNoCheckout
}

// isCheckout requires both a git dir to pull into and a module root to
// rebuild from.
func isCheckout(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		return false
	}
	_, err := os.Stat(filepath.Join(dir, "go.mod"))
	return err == nil
}
