// Package entity 定义领域实体
package entity

import "fmt"

// ArtifactKind 构件槽位类型
type ArtifactKind string

const (
	ArtifactKindScript     ArtifactKind = "script"
	ArtifactKindVeoPrompt  ArtifactKind = "veo_prompt"
	ArtifactKindCharacters ArtifactKind = "characters"
)

// ArtifactKinds 全部槽位，按流水线顺序
var ArtifactKinds = []ArtifactKind{ArtifactKindScript, ArtifactKindVeoPrompt, ArtifactKindCharacters}

// ParseArtifactKind 解析槽位类型
func ParseArtifactKind(s string) (ArtifactKind, error) {
	switch ArtifactKind(s) {
	case ArtifactKindScript, ArtifactKindVeoPrompt, ArtifactKindCharacters:
		return ArtifactKind(s), nil
	default:
		return "", fmt.Errorf("invalid artifact kind: %s", s)
	}
}

// IsStructured 该类型的内容是否为 JSON 构件
func (k ArtifactKind) IsStructured() bool {
	return k == ArtifactKindVeoPrompt || k == ArtifactKindCharacters
}

// RootField 结构化构件顶层数组字段名
func (k ArtifactKind) RootField() string {
	switch k {
	case ArtifactKindVeoPrompt:
		return "scenes"
	case ArtifactKindCharacters:
		return "characters"
	default:
		return ""
	}
}
