package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kbukum/fileflow/storage"
)

func TestStatRelativeAndAbsolute(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.csv")
	if err := os.WriteFile(path, []byte("a,b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	mod := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}

	st, err := NewStorage(dir)
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}

	info, err := st.Stat(context.Background(), "in.csv")
	if err != nil {
		t.Fatalf("relative stat: %v", err)
	}
	if !info.LastModified.Equal(mod) {
		t.Errorf("expected %v, got %v", mod, info.LastModified)
	}

	if _, err := st.Stat(context.Background(), path); err != nil {
		t.Fatalf("absolute stat: %v", err)
	}
}

func TestStatMissing(t *testing.T) {
	st, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_, err = st.Stat(context.Background(), "nope.csv")
	if !storage.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	ok, err := st.Exists(context.Background(), "nope.csv")
	if err != nil || ok {
		t.Errorf("expected (false, nil), got (%v, %v)", ok, err)
	}
}

func TestNewStorageDoesNotCreateBase(t *testing.T) {
	base := filepath.Join(t.TempDir(), "not-there")
	if _, err := NewStorage(base); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(base); !os.IsNotExist(err) {
		t.Errorf("expected base path to stay absent, got %v", err)
	}
}

func TestFactoryRegistered(t *testing.T) {
	st, err := storage.New(context.Background(), storage.Config{Provider: storage.ProviderLocal}, nil)
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if _, ok := st.(*Storage); !ok {
		t.Fatalf("expected *local.Storage, got %T", st)
	}
}
