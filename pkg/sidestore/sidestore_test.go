package sidestore

import (
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()

	if err := s.Set(KeyScrollPosition+"sess-1", "420", time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, err := s.Get(KeyScrollPosition + "sess-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != "420" {
		t.Errorf("Get = %q, want %q", got, "420")
	}
}

func TestMemoryStoreMissingKey(t *testing.T) {
	s := NewMemoryStore()

	if _, err := s.Get("nope"); err != ErrNotFound {
		t.Errorf("Get on missing key = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreRemove(t *testing.T) {
	s := NewMemoryStore()

	_ = s.Set(KeyMountToken+"sess-1", "token-a", time.Minute)
	if err := s.Remove(KeyMountToken + "sess-1"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if _, err := s.Get(KeyMountToken + "sess-1"); err != ErrNotFound {
		t.Errorf("Get after Remove = %v, want ErrNotFound", err)
	}
}
