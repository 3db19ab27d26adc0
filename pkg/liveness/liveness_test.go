package liveness

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// deadPID is far above any default pid_max, so no live process can
// ever own it.
const deadPID = 99999999

func TestRegisterAndIsRunning(t *testing.T) {
	reg := New(t.TempDir())

	if err := reg.Register("atlas"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !reg.IsRunning("atlas") {
		t.Error("expected own process to be reported running")
	}

	pid, err := reg.PID("atlas")
	if err != nil {
		t.Fatalf("PID failed: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("expected marker pid %d, got %d", os.Getpid(), pid)
	}
}

func TestIsRunningUnknownIdentity(t *testing.T) {
	reg := New(t.TempDir())

	if reg.IsRunning("ghost") {
		t.Error("expected unknown identity to be reported not running")
	}
}

func TestStaleMarkerRemovedOnCheck(t *testing.T) {
	dir := t.TempDir()
	reg := New(dir)

	marker := filepath.Join(dir, "atlas.pid")
	if err := os.WriteFile(marker, []byte(strconv.Itoa(deadPID)), 0644); err != nil {
		t.Fatalf("failed to write marker: %v", err)
	}

	if reg.IsRunning("atlas") {
		t.Error("expected dead pid to be reported not running")
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Error("expected stale marker to be removed")
	}
}

func TestCorruptMarkerRemovedOnCheck(t *testing.T) {
	dir := t.TempDir()
	reg := New(dir)

	marker := filepath.Join(dir, "atlas.pid")
	if err := os.WriteFile(marker, []byte("not-a-pid"), 0644); err != nil {
		t.Fatalf("failed to write marker: %v", err)
	}

	if reg.IsRunning("atlas") {
		t.Error("expected corrupt marker to be reported not running")
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Error("expected corrupt marker to be removed")
	}
}

func TestLiveMarkerLeftIntact(t *testing.T) {
	dir := t.TempDir()
	reg := New(dir)

	if err := reg.Register("atlas"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	reg.IsRunning("atlas")
	reg.IsRunning("atlas")

	if _, err := os.Stat(filepath.Join(dir, "atlas.pid")); err != nil {
		t.Errorf("expected live marker to survive checks: %v", err)
	}
}

func TestUnregisterIdempotent(t *testing.T) {
	reg := New(t.TempDir())

	if err := reg.Register("atlas"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := reg.Unregister("atlas"); err != nil {
		t.Fatalf("Unregister failed: %v", err)
	}
	if err := reg.Unregister("atlas"); err != nil {
		t.Errorf("expected second Unregister to succeed, got %v", err)
	}
	if reg.IsRunning("atlas") {
		t.Error("expected identity to be not running after Unregister")
	}
}

func TestRunningListsLiveIdentities(t *testing.T) {
	dir := t.TempDir()
	reg := New(dir)

	if err := reg.Register("beta"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := reg.Register("alpha"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	stale := filepath.Join(dir, "ghost.pid")
	if err := os.WriteFile(stale, []byte(strconv.Itoa(deadPID)), 0644); err != nil {
		t.Fatalf("failed to write marker: %v", err)
	}

	running, err := reg.Running()
	if err != nil {
		t.Fatalf("Running failed: %v", err)
	}
	if len(running) != 2 || running[0] != "alpha" || running[1] != "beta" {
		t.Errorf("expected [alpha beta], got %v", running)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("expected stale marker to be cleaned up by listing")
	}
}

func TestRunningEmptyDirectory(t *testing.T) {
	reg := New(filepath.Join(t.TempDir(), "never-created"))

	running, err := reg.Running()
	if err != nil {
		t.Fatalf("Running failed: %v", err)
	}
	if len(running) != 0 {
		t.Errorf("expected no running identities, got %v", running)
	}
}

func TestStopDeadIdentity(t *testing.T) {
	dir := t.TempDir()
	reg := New(dir)

	marker := filepath.Join(dir, "atlas.pid")
	if err := os.WriteFile(marker, []byte(strconv.Itoa(deadPID)), 0644); err != nil {
		t.Fatalf("failed to write marker: %v", err)
	}

	if err := reg.Stop("atlas"); err != ErrNotRunning {
		t.Errorf("expected ErrNotRunning, got %v", err)
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Error("expected stale marker to be removed by Stop")
	}
}

func TestStopUnknownIdentity(t *testing.T) {
	reg := New(t.TempDir())

	if err := reg.Stop("ghost"); err != ErrNotRunning {
		t.Errorf("expected ErrNotRunning, got %v", err)
	}
}
