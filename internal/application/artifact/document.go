// Package artifact 定义结构化构件（场景/镜头或角色表）的解析、序列化与字段级修改
package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"

	"veo-prompt-studio/internal/domain/entity"
)

const indent = "  "

// Document 已通过结构校验的构件
// source 保存紧凑形式的原始 JSON，类型化结构之外的字段也随之保留
type Document struct {
	Kind   entity.ArtifactKind     `json:"kind"`
	Prompt *entity.VeoPrompt       `json:"prompt,omitempty"`
	Roster *entity.CharacterRoster `json:"roster,omitempty"`

	source []byte
}

// TryParse 尝试将文本解析为指定类型的结构化构件
// 文本须为合法 JSON，顶层对象须含该类型对应的数组字段；否则返回 false，不报错
func TryParse(kind entity.ArtifactKind, text string) (*Document, bool) {
	field := kind.RootField()
	if field == "" {
		return nil, false
	}

	raw := bytes.TrimSpace([]byte(text))
	if len(raw) == 0 || raw[0] != '{' || !json.Valid(raw) {
		return nil, false
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, false
	}
	arr, ok := top[field]
	if !ok || !isArray(arr) {
		return nil, false
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return nil, false
	}

	doc := &Document{Kind: kind, source: compact.Bytes()}
	switch kind {
	case entity.ArtifactKindVeoPrompt:
		var p entity.VeoPrompt
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, false
		}
		normalizePrompt(&p)
		doc.Prompt = &p
	case entity.ArtifactKindCharacters:
		var r entity.CharacterRoster
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, false
		}
		if r.Characters == nil {
			r.Characters = []entity.Character{}
		}
		doc.Roster = &r
	}
	return doc, true
}

// Serialize 以两空格缩进输出规范 JSON；由文本解析而来的构件保留全部原有字段与顺序
func Serialize(doc *Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("nil document")
	}
	if len(doc.source) > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, doc.source, "", indent); err != nil {
			return "", fmt.Errorf("failed to serialize %s: %w", doc.Kind, err)
		}
		return buf.String(), nil
	}

	var v any
	switch doc.Kind {
	case entity.ArtifactKindVeoPrompt:
		if doc.Prompt == nil {
			return "", fmt.Errorf("veo prompt document has no content")
		}
		v = doc.Prompt
	case entity.ArtifactKindCharacters:
		if doc.Roster == nil {
			return "", fmt.Errorf("character document has no content")
		}
		v = doc.Roster
	default:
		return "", fmt.Errorf("artifact kind %s is not structured", doc.Kind)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to serialize %s: %w", doc.Kind, err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// Normalize 解析成功时返回规范化文本，否则原样返回
func Normalize(kind entity.ArtifactKind, text string) (string, bool) {
	doc, ok := TryParse(kind, text)
	if !ok {
		return text, false
	}
	out, err := Serialize(doc)
	if err != nil {
		return text, false
	}
	return out, true
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// normalizePrompt 统一空集合表示，保证序列化后再解析结果一致
func normalizePrompt(p *entity.VeoPrompt) {
	if p.Scenes == nil {
		p.Scenes = []entity.Scene{}
	}
	for i := range p.Scenes {
		if len(p.Scenes[i].Shots) == 0 {
			p.Scenes[i].Shots = nil
		}
	}
}
