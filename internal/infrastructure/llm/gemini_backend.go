// Package llm 提供基于 Gemini 的生成后端实现
package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"veo-prompt-studio/internal/application/generation"
	"veo-prompt-studio/internal/config"
	"veo-prompt-studio/internal/domain/service"
	"veo-prompt-studio/pkg/metrics"
	"veo-prompt-studio/pkg/tracer"
)

const providerGemini = "gemini"

// ContentGenerator 单次内容生成调用，便于替换为测试桩
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ClientFactory 根据 API Key 创建内容生成器
type ClientFactory func(ctx context.Context, apiKey string) (ContentGenerator, error)

// NewGenaiClient 使用 google.golang.org/genai 创建 Gemini API 客户端
func NewGenaiClient(ctx context.Context, apiKey string) (ContentGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return client.Models, nil
}

// GeminiBackend 实现 generation.Backend；凭据按调用传入，客户端按凭据惰性缓存
type GeminiBackend struct {
	config  *config.LLMConfig
	factory ClientFactory
	limiter *rate.Limiter
	clients map[string]ContentGenerator
	mu      sync.RWMutex
}

var _ generation.Backend = (*GeminiBackend)(nil)

// NewGeminiBackend 创建 Gemini 后端
func NewGeminiBackend(cfg *config.LLMConfig, factory ClientFactory) *GeminiBackend {
	if factory == nil {
		factory = NewGenaiClient
	}
	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}
	return &GeminiBackend{
		config:  cfg,
		factory: factory,
		limiter: rate.NewLimiter(limit, 1),
		clients: make(map[string]ContentGenerator),
	}
}

// Generate 调用 Gemini 生成文本；json 模式设置 application/json 响应类型
func (b *GeminiBackend) Generate(ctx context.Context, req generation.BackendRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "llm.Gemini.Generate",
		trace.WithAttributes(
			attribute.String("llm.model", b.config.Model),
			attribute.String("llm.workflow", service.WorkflowFromContext(ctx)),
			attribute.Bool("llm.json", req.JSON),
			attribute.Int("llm.prompt_length", len(req.Prompt)),
		))
	text, err := b.generate(ctx, req)
	tracer.EndSpan(span, err)
	return text, err
}

func (b *GeminiBackend) generate(ctx context.Context, req generation.BackendRequest) (string, error) {
	if b.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.config.Timeout)
		defer cancel()
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait: %w", err)
	}

	client, err := b.client(ctx, req.APIKey)
	if err != nil {
		return "", err
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(b.config.Temperature)),
	}
	if req.JSON {
		genCfg.ResponseMIMEType = "application/json"
	}

	start := time.Now()
	resp, err := client.GenerateContent(ctx, b.config.Model, genai.Text(req.Prompt), genCfg)
	metrics.LLMCallDuration.WithLabelValues(providerGemini, b.config.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(providerGemini, b.config.Model, "error").Inc()
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	metrics.LLMCallTotal.WithLabelValues(providerGemini, b.config.Model, "success").Inc()

	if resp == nil {
		return "", nil
	}
	return resp.Text(), nil
}

// client 获取指定凭据的客户端，如果未创建则惰性创建
func (b *GeminiBackend) client(ctx context.Context, apiKey string) (ContentGenerator, error) {
	id := fingerprint(apiKey)

	b.mu.RLock()
	c, ok := b.clients[id]
	b.mu.RUnlock()
	if ok {
		return c, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// 再次检查防止竞态
	if c, ok = b.clients[id]; ok {
		return c, nil
	}

	c, err := b.factory(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	b.clients[id] = c
	return c, nil
}

// fingerprint 缓存键不保存明文凭据
func fingerprint(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:])
}
