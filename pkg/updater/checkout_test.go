package updater

import (
	"os"
	"path/filepath"
	"testing"
)

func makeCheckout(t *testing.T, dir string, markers ...string) {
	t.Helper()
	for _, m := range markers {
		path := filepath.Join(dir, m)
		if m == ".git" {
			if err := os.MkdirAll(path, 0755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("module x\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestLocateCheckoutFindsHomeClone(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	clone := filepath.Join(home, "projects", repoName)
	makeCheckout(t, clone, ".git", "go.mod")

	dir, err := locateCheckout()
	if err != nil {
		t.Fatalf("locateCheckout: %v", err)
	}
	if dir != clone {
		t.Errorf("located %q, want %q", dir, clone)
	}
}

func TestLocateCheckoutPrefersDirectClone(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	direct := filepath.Join(home, repoName)
	makeCheckout(t, direct, ".git", "go.mod")
	makeCheckout(t, filepath.Join(home, "code", repoName), ".git", "go.mod")

	dir, err := locateCheckout()
	if err != nil {
		t.Fatalf("locateCheckout: %v", err)
	}
	if dir != direct {
		t.Errorf("located %q, want %q", dir, direct)
	}
}

func TestLocateCheckoutRequiresBothMarkers(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	makeCheckout(t, filepath.Join(home, repoName), ".git")
	makeCheckout(t, filepath.Join(home, "dev", repoName), "go.mod")

	if _, err := locateCheckout(); err != ErrNoCheckout {
		t.Fatalf("err = %v, want ErrNoCheckout", err)
	}
}

func TestIsCheckout(t *testing.T) {
	dir := t.TempDir()
	if isCheckout(dir) {
		t.Error("empty dir must not look like a checkout")
	}
	makeCheckout(t, dir, ".git", "go.mod")
	if !isCheckout(dir) {
		t.Error("dir with .git and go.mod must be a checkout")
	}
}
