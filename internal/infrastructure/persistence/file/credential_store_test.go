package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"veo-prompt-studio/internal/domain/repository"
)

func TestCredentialStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credential.json")
	s := NewCredentialStore(path)
	ctx := context.Background()

	if _, err := s.Get(ctx); !errors.Is(err, repository.ErrCredentialNotFound) {
		t.Fatalf("missing file err = %v", err)
	}
	if err := s.Set(ctx, "AIza-123"); err != nil {
		t.Fatal(err)
	}

	// 新实例模拟进程重启
	got, err := NewCredentialStore(path).Get(ctx)
	if err != nil || got != "AIza-123" {
		t.Fatalf("Get after restart = %q, %v", got, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("perm = %v", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temp file left behind")
	}

	if err := s.Delete(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	if _, err := s.Get(ctx); !errors.Is(err, repository.ErrCredentialNotFound) {
		t.Fatalf("after delete err = %v", err)
	}
}

func TestCredentialStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCredentialStore(path).Get(context.Background()); err == nil || errors.Is(err, repository.ErrCredentialNotFound) {
		t.Fatalf("corrupt file err = %v", err)
	}
}
