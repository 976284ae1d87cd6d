// Package prompt 构建发给生成后端的请求文本（剧本、结构化提示词、角色表）
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"veo-prompt-studio/internal/domain/entity"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

type PromptID string

const (
	PromptScript     PromptID = "script"
	PromptStructure  PromptID = "structure"
	PromptCharacters PromptID = "characters"
)

type Registry struct {
	mu    sync.RWMutex
	cache map[string]*template.Template
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[string]*template.Template),
	}
}

// Template 按提示词与语言取模板，首次访问时解析并缓存
func (r *Registry) Template(id PromptID, lang entity.Language) (*template.Template, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}
	name, err := resolveTemplateFile(id, lang)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	if tpl, ok := r.cache[name]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[name]; ok {
		return tpl, nil
	}

	text, err := templatesFS.ReadFile(name)
	if err != nil {
		return nil, err
	}
	tpl, err := template.New(name).Option("missingkey=error").Parse(string(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template %s: %w", name, err)
	}
	r.cache[name] = tpl
	return tpl, nil
}

func (r *Registry) render(id PromptID, lang entity.Language, data any) (string, error) {
	tpl, err := r.Template(id, lang)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s: %w", id, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func resolveTemplateFile(id PromptID, lang entity.Language) (string, error) {
	switch id {
	case PromptScript, PromptStructure, PromptCharacters:
	default:
		return "", fmt.Errorf("unknown prompt id: %s", id)
	}
	if lang != entity.LanguageEnglish {
		lang = entity.LanguageVietnamese
	}
	return fmt.Sprintf("templates/%s.%s.tmpl", id, lang), nil
}
