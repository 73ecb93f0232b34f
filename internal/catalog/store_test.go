package catalog

import (
	"sync"
	"testing"
)

func TestStoreSnapshotAndReplace(t *testing.T) {
	first, err := LoadFS(validTables(), "")
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	store := NewStore(first)

	if store.Snapshot() != first {
		t.Fatal("snapshot is not the installed catalog")
	}

	second, err := LoadFS(validTables(), "finance")
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	store.Replace(second)

	if store.Snapshot() != second {
		t.Fatal("replace did not install the new catalog")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	c, err := LoadFS(validTables(), "")
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	store := NewStore(c)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if store.Snapshot() == nil {
					t.Error("nil snapshot")
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.Replace(c)
			}
		}()
	}
	wg.Wait()
}
