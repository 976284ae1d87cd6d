// Package generation 调用外部生成后端，负责凭据前置校验、响应规范化与错误分类
package generation

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"veo-prompt-studio/internal/application/artifact"
	"veo-prompt-studio/internal/domain/entity"
	"veo-prompt-studio/internal/domain/service"
	"veo-prompt-studio/internal/locale"
	apperrors "veo-prompt-studio/pkg/errors"
	"veo-prompt-studio/pkg/logger"
	"veo-prompt-studio/pkg/metrics"
	"veo-prompt-studio/pkg/tracer"
)

// Mode 响应形态提示
type Mode string

const (
	ModeFreeText Mode = "free_text"
	ModeJSON     Mode = "json"
)

// Request 生成请求
type Request struct {
	Text       string
	Mode       Mode
	Credential string
	Language   entity.Language
	// Kind 目标槽位，决定失败文案与指标标签
	Kind entity.ArtifactKind
}

// BackendRequest 后端调用参数
type BackendRequest struct {
	Prompt string
	JSON   bool
	APIKey string
}

// Backend 生成后端端口
type Backend interface {
	Generate(ctx context.Context, req BackendRequest) (string, error)
}

// Client 生成客户端
type Client struct {
	backend Backend
}

func NewClient(backend Backend) *Client {
	return &Client{backend: backend}
}

// Generate 调用后端生成文本
// 凭据为空时直接返回 MissingCredential，不发起调用；后端失败统一为 GenerationFailed，原因仅写日志
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	kind := string(req.Kind)
	if strings.TrimSpace(req.Credential) == "" {
		metrics.GenerationTotal.WithLabelValues(kind, "missing_credential").Inc()
		return "", apperrors.New(apperrors.CodeMissingCredential, locale.Message(req.Language, locale.MsgMissingCredential))
	}

	ctx = service.WithWorkflow(ctx, kind)
	ctx, span := tracer.Start(ctx, "generation.Generate",
		trace.WithAttributes(
			attribute.String("generation.kind", kind),
			attribute.String("generation.mode", string(req.Mode)),
		))
	start := time.Now()

	text, err := c.backend.Generate(ctx, BackendRequest{
		Prompt: req.Text,
		JSON:   req.Mode == ModeJSON,
		APIKey: req.Credential,
	})
	metrics.GenerationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		tracer.EndSpan(span, err)
		metrics.GenerationTotal.WithLabelValues(kind, "failed").Inc()
		logger.Error(ctx, "generation backend call failed", err, "kind", kind, "mode", req.Mode)
		return "", apperrors.Wrap(err, apperrors.CodeGenerationFailed, locale.Message(req.Language, failureMessage(req.Kind)))
	}
	span.End()
	metrics.GenerationTotal.WithLabelValues(kind, "success").Inc()

	if req.Mode == ModeJSON {
		return ExtractJSONObject(text), nil
	}
	return text, nil
}

// ExtractJSONObject 去除首尾空白后截取第一个 '{' 到最后一个 '}'（含）
// 找不到成对花括号时返回去空白后的原文，由调用方解析失败
func ExtractJSONObject(s string) string {
	s = strings.TrimSpace(s)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

// ParseStructured 将 json 模式的结果解析为结构化构件，失败时返回 MalformedResponse
func ParseStructured(ctx context.Context, kind entity.ArtifactKind, lang entity.Language, text string) (*artifact.Document, error) {
	doc, ok := artifact.TryParse(kind, text)
	if !ok {
		metrics.GenerationTotal.WithLabelValues(string(kind), "malformed").Inc()
		logger.Warn(ctx, "generation response is not structured", "kind", kind, "length", len(text))
		return nil, apperrors.New(apperrors.CodeMalformedResponse, locale.Message(lang, malformedMessage(kind)))
	}
	return doc, nil
}

func failureMessage(kind entity.ArtifactKind) locale.MessageKey {
	switch kind {
	case entity.ArtifactKindVeoPrompt:
		return locale.MsgPromptFailed
	case entity.ArtifactKindCharacters:
		return locale.MsgCharactersFailed
	default:
		return locale.MsgScriptFailed
	}
}

func malformedMessage(kind entity.ArtifactKind) locale.MessageKey {
	if kind == entity.ArtifactKindCharacters {
		return locale.MsgCharactersMalformed
	}
	return locale.MsgPromptMalformed
}
