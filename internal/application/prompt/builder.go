package prompt

import (
	"strings"

	"veo-prompt-studio/internal/domain/entity"
)

// ScriptInput 剧本生成输入
type ScriptInput struct {
	Topic     string
	WordCount string
	Language  entity.Language
	Genre     string
}

// StructuringInput 结构化提示词生成输入
type StructuringInput struct {
	Script   string
	Style    string
	Language entity.Language
	// Roster 角色参考文本，每行 "名字: 描述"；为空则不拼接
	Roster  string
	Variant entity.StructuringVariant
}

// CharacterInput 角色表生成输入
type CharacterInput struct {
	Script   string
	Style    string
	Language entity.Language
}

// Builder 基于模板注册表构建请求文本；结果只取决于输入
type Builder struct {
	registry *Registry
}

func NewBuilder(registry *Registry) *Builder {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Builder{registry: registry}
}

// BuildScriptPrompt 构建剧本生成请求；字数为空白时使用短视频时长提示
func (b *Builder) BuildScriptPrompt(in ScriptInput) (string, error) {
	return b.registry.render(PromptScript, in.Language, struct {
		Topic     string
		WordCount string
		Genre     string
	}{
		Topic:     in.Topic,
		WordCount: strings.TrimSpace(in.WordCount),
		Genre:     strings.TrimSpace(in.Genre),
	})
}

// BuildStructuringPrompt 构建剧本到场景/镜头 JSON 的结构化请求
func (b *Builder) BuildStructuringPrompt(in StructuringInput) (string, error) {
	variant := in.Variant
	if variant == "" {
		variant = entity.VariantShots
	}
	return b.registry.render(PromptStructure, in.Language, struct {
		Script  string
		Style   string
		Roster  string
		Variant string
	}{
		Script:  in.Script,
		Style:   strings.TrimSpace(in.Style),
		Roster:  strings.TrimSpace(in.Roster),
		Variant: string(variant),
	})
}

// BuildCharacterPrompt 构建角色表请求
func (b *Builder) BuildCharacterPrompt(in CharacterInput) (string, error) {
	return b.registry.render(PromptCharacters, in.Language, struct {
		Script string
		Style  string
	}{
		Script: in.Script,
		Style:  strings.TrimSpace(in.Style),
	})
}
