// Package file 提供基于本地 JSON 文件的凭据存储
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"veo-prompt-studio/internal/domain/entity"
	"veo-prompt-studio/internal/domain/repository"
)

// CredentialStore 将凭据以 {"gemini-api-key": "..."} 形式写入文件，写入为临时文件加重命名
type CredentialStore struct {
	path string
	mu   sync.Mutex
}

var _ repository.CredentialRepository = (*CredentialStore)(nil)

func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

func (s *CredentialStore) Get(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", repository.ErrCredentialNotFound
		}
		return "", fmt.Errorf("read credential file: %w", err)
	}

	var doc map[string]string
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parse credential file: %w", err)
	}
	v, ok := doc[entity.CredentialKey]
	if !ok {
		return "", repository.ErrCredentialNotFound
	}
	return v, nil
}

func (s *CredentialStore) Set(_ context.Context, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(map[string]string{entity.CredentialKey: value}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename credential file: %w", err)
	}
	return nil
}

func (s *CredentialStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credential file: %w", err)
	}
	return nil
}
