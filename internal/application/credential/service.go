// Package credential 管理进程级生成凭据：启动时读取一次，保存时同步写入存储
package credential

import (
	"context"
	"errors"
	"strings"
	"sync"

	"veo-prompt-studio/internal/domain/repository"
	"veo-prompt-studio/pkg/logger"
)

type Service struct {
	repo    repository.CredentialRepository
	mu      sync.RWMutex
	current string
}

func NewService(repo repository.CredentialRepository) *Service {
	return &Service{repo: repo}
}

// Load 从存储读取凭据；未保存时为空
func (s *Service) Load(ctx context.Context) error {
	v, err := s.repo.Get(ctx)
	if err != nil && !errors.Is(err, repository.ErrCredentialNotFound) {
		return err
	}
	s.mu.Lock()
	s.current = v
	s.mu.Unlock()
	logger.Info(ctx, "credential loaded", "present", v != "")
	return nil
}

// Current 当前凭据，作为参数传给每次生成调用
func (s *Service) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// IsSet 是否已设置非空凭据
func (s *Service) IsSet() bool {
	return strings.TrimSpace(s.Current()) != ""
}

// Save 写入凭据；空白值等同于删除
func (s *Service) Save(ctx context.Context, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return s.Clear(ctx)
	}
	if err := s.repo.Set(ctx, value); err != nil {
		return err
	}
	s.mu.Lock()
	s.current = value
	s.mu.Unlock()
	logger.Info(ctx, "credential saved")
	return nil
}

// Clear 删除凭据
func (s *Service) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.current = ""
	s.mu.Unlock()
	logger.Info(ctx, "credential removed")
	return nil
}

// Masked 返回掩码形式，用于展示
func Masked(v string) string {
	if len(v) <= 8 {
		return strings.Repeat("*", len(v))
	}
	return v[:4] + strings.Repeat("*", len(v)-8) + v[len(v)-4:]
}
