package redis

import (
	"context"
	"fmt"
	"time"

	"veo-prompt-studio/internal/domain/entity"
	"veo-prompt-studio/internal/domain/repository"
)

// kv 凭据存储所需的最小键值操作
type kv interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// CredentialStore 基于 Redis 的凭据存储，无过期时间
type CredentialStore struct {
	client kv
	key    string
}

var _ repository.CredentialRepository = (*CredentialStore)(nil)

// NewCredentialStore 创建 Redis 凭据存储
func NewCredentialStore(client *Client) *CredentialStore {
	return &CredentialStore{client: client, key: client.Key(entity.CredentialKey)}
}

func (s *CredentialStore) Get(ctx context.Context) (string, error) {
	v, err := s.client.Get(ctx, s.key)
	if err != nil {
		if IsNil(err) {
			return "", repository.ErrCredentialNotFound
		}
		return "", fmt.Errorf("failed to read credential: %w", err)
	}
	return v, nil
}

func (s *CredentialStore) Set(ctx context.Context, value string) error {
	if err := s.client.Set(ctx, s.key, value, 0); err != nil {
		return fmt.Errorf("failed to write credential: %w", err)
	}
	return nil
}

func (s *CredentialStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}
