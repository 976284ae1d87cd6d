// Package app 组装工作室应用依赖，API 与 CLI 共用
package app

import (
	"context"
	"fmt"
	"strings"

	"veo-prompt-studio/internal/application/credential"
	"veo-prompt-studio/internal/application/editor"
	"veo-prompt-studio/internal/application/generation"
	"veo-prompt-studio/internal/application/prompt"
	"veo-prompt-studio/internal/application/studio"
	"veo-prompt-studio/internal/config"
	"veo-prompt-studio/internal/domain/entity"
	"veo-prompt-studio/internal/domain/repository"
	"veo-prompt-studio/internal/infrastructure/llm"
	"veo-prompt-studio/internal/infrastructure/persistence/file"
	"veo-prompt-studio/internal/infrastructure/persistence/redis"
	"veo-prompt-studio/pkg/logger"
)

// App 应用依赖容器
type App struct {
	Config      *config.Config
	Credentials *credential.Service
	Prompts     *prompt.Builder
	Generator   *generation.Client
	Sessions    *studio.Registry
	// Redis 仅在凭据后端为 redis 时非空
	Redis *redis.Client
}

// Options 组装选项，测试可替换后端
type Options struct {
	Backend    generation.Backend
	Credential repository.CredentialRepository
}

// New 初始化应用，返回清理函数
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, func(), error) {
	cleanups := make([]func(), 0, 1)
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	a := &App{Config: cfg}

	repo := opts.Credential
	if repo == nil {
		r, client, closeFn, err := ProvideCredentialRepository(cfg)
		if err != nil {
			return nil, nil, err
		}
		repo = r
		a.Redis = client
		cleanups = append(cleanups, closeFn)
	}

	a.Credentials = credential.NewService(repo)
	if err := a.Credentials.Load(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}

	backend := opts.Backend
	if backend == nil {
		backend = ProvideGeminiBackend(cfg)
	}
	a.Generator = generation.NewClient(backend)
	a.Prompts = prompt.NewBuilder(nil)
	a.Sessions = ProvideSessionRegistry(cfg, studio.Deps{
		Generator:   a.Generator,
		Prompts:     a.Prompts,
		Credentials: a.Credentials,
	})

	logger.Info(ctx, "studio app initialized",
		"credential_backend", cfg.Credential.Backend,
		"model", cfg.LLM.Model,
		"credential_set", a.Credentials.IsSet(),
	)
	return a, cleanup, nil
}

// ProvideCredentialRepository 按配置选择凭据存储
func ProvideCredentialRepository(cfg *config.Config) (repository.CredentialRepository, *redis.Client, func(), error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Credential.Backend)) {
	case "", "file":
		return file.NewCredentialStore(cfg.Credential.FilePath), nil, func() {}, nil
	case "redis":
		client, err := redis.NewClient(&cfg.Cache.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		return redis.NewCredentialStore(client), client, func() { _ = client.Close() }, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown credential backend: %s", cfg.Credential.Backend)
	}
}

// ProvideGeminiBackend 提供 Gemini 生成后端
func ProvideGeminiBackend(cfg *config.Config) *llm.GeminiBackend {
	return llm.NewGeminiBackend(&cfg.LLM, llm.NewGenaiClient)
}

// ProvideSessionRegistry 提供会话表
func ProvideSessionRegistry(cfg *config.Config, deps studio.Deps) *studio.Registry {
	if cfg.Studio.FeedbackWindow > 0 {
		deps.EditorOpts = append(deps.EditorOpts, editor.WithFeedbackWindow(cfg.Studio.FeedbackWindow))
	}
	return studio.NewRegistry(
		deps,
		entity.ParseLanguage(cfg.Studio.DefaultLanguage),
		studio.Inputs{WordCount: cfg.Studio.DefaultWords},
		cfg.Studio.SessionTTL,
		cfg.Studio.CleanupInterval,
	)
}
