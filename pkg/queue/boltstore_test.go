package queue

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/types"
)

func testEntry(n int) types.QueuedRequest {
	return types.QueuedRequest{
		ID:       fmt.Sprintf("id-%d", n),
		Endpoint: fmt.Sprintf("endpoint-%d", n),
		Payload:  json.RawMessage(fmt.Sprintf(`{"n":%d}`, n)),
		Method:   "POST",
		QueuedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestBoltStoreLoadEmpty(t *testing.T) {
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "queue.db"))
	if err != nil {
		t.Fatalf("NewBoltStore() error: %v", err)
	}
	defer store.Close()

	entries, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty queue, got %d entries", len(entries))
	}
}

func TestBoltStoreReplaceAndLoadOrder(t *testing.T) {
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "queue.db"))
	if err != nil {
		t.Fatalf("NewBoltStore() error: %v", err)
	}
	defer store.Close()

	want := []types.QueuedRequest{testEntry(0), testEntry(1), testEntry(2)}
	if err := store.Replace(want); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Errorf("entry %d: expected ID %s, got %s", i, want[i].ID, got[i].ID)
		}
		if got[i].Endpoint != want[i].Endpoint {
			t.Errorf("entry %d: expected endpoint %s, got %s", i, want[i].Endpoint, got[i].Endpoint)
		}
	}
}

func TestBoltStoreReplaceShrinks(t *testing.T) {
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "queue.db"))
	if err != nil {
		t.Fatalf("NewBoltStore() error: %v", err)
	}
	defer store.Close()

	if err := store.Replace([]types.QueuedRequest{testEntry(0), testEntry(1), testEntry(2)}); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}
	// Second replace must fully supersede the first, not merge.
	if err := store.Replace([]types.QueuedRequest{testEntry(9)}); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entry after replace, got %d", len(got))
	}
	if got[0].ID != "id-9" {
		t.Errorf("expected id-9, got %s", got[0].ID)
	}
}

func TestBoltStoreReplaceEmpty(t *testing.T) {
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "queue.db"))
	if err != nil {
		t.Fatalf("NewBoltStore() error: %v", err)
	}
	defer store.Close()

	if err := store.Replace([]types.QueuedRequest{testEntry(0)}); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}
	if err := store.Replace(nil); err != nil {
		t.Fatalf("Replace(nil) error: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty queue, got %d entries", len(got))
	}
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.db")

	store, err := NewBoltStore(path)
	if err != nil {
		t.Fatalf("NewBoltStore() error: %v", err)
	}
	want := []types.QueuedRequest{testEntry(0), testEntry(1)}
	if err := store.Replace(want); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	reopened, err := NewBoltStore(path)
	if err != nil {
		t.Fatalf("NewBoltStore() reopen error: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load() after reopen error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries after reopen, got %d", len(got))
	}
	if got[0].ID != "id-0" || got[1].ID != "id-1" {
		t.Errorf("order lost across reopen: %s, %s", got[0].ID, got[1].ID)
	}
	if string(got[0].Payload) != `{"n":0}` {
		t.Errorf("payload mangled across reopen: %s", got[0].Payload)
	}
}

func TestBoltStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "queue.db")
	store, err := NewBoltStore(path)
	if err != nil {
		t.Fatalf("NewBoltStore() error: %v", err)
	}
	store.Close()
}
