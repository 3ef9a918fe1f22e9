package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() }) //nolint:errcheck
	return mr, rdb
}

// exerciseStore runs the contract every TokenStore must satisfy.
func exerciseStore(t *testing.T, s TokenStore) {
	t.Helper()
	ctx := context.Background()

	tok, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() on empty store error: %v", err)
	}
	if tok != "" {
		t.Fatalf("Load() on empty store = %q, want empty", tok)
	}

	if err := s.Save(ctx, "T1"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if tok, _ := s.Load(ctx); tok != "T1" {
		t.Errorf("Load() = %q, want T1", tok)
	}

	if err := s.Save(ctx, "T2"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if tok, _ := s.Load(ctx); tok != "T2" {
		t.Errorf("Load() after overwrite = %q, want T2", tok)
	}

	if err := s.Remove(ctx); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if tok, _ := s.Load(ctx); tok != "" {
		t.Errorf("Load() after Remove = %q, want empty", tok)
	}
	if err := s.Remove(ctx); err != nil {
		t.Errorf("second Remove() error: %v", err)
	}
}

func TestFileStore(t *testing.T) {
	exerciseStore(t, NewFileStore(filepath.Join(t.TempDir(), "state"), ""))
}

func TestFileStorePermissionsAndTrim(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	s := NewFileStore(dir, "token")
	if err := s.Save(context.Background(), "T1"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatalf("stat token file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("token file perm = %o, want 600", perm)
	}

	if err := os.WriteFile(s.Path(), []byte("  T2\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if tok, _ := s.Load(context.Background()); tok != "T2" {
		t.Errorf("Load() = %q, want trimmed T2", tok)
	}
}

func TestRedisStore(t *testing.T) {
	_, rdb := newTestRedis(t)
	exerciseStore(t, NewRedisStore(rdb, "shopdesk:", ""))
}

func TestRedisStoreKey(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewRedisStore(rdb, "shopdesk:", "token")
	if err := s.Save(context.Background(), "T1"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := mr.Get("shopdesk:token")
	if err != nil {
		t.Fatalf("miniredis Get: %v", err)
	}
	if got != "T1" {
		t.Errorf("stored value = %q, want T1", got)
	}
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close() //nolint:errcheck
	mr.Close()

	if _, err := NewRedisStore(rdb, "", "").Load(context.Background()); err == nil {
		t.Fatal("expected error when redis is down")
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(""))
}
