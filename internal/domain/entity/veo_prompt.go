package entity

// ShotDuration 每个镜头的固定时长（秒）
const ShotDuration = 8

// StructuringVariant 结构化输出的场景形态
type StructuringVariant string

const (
	// VariantShots 场景拆分为 8 秒镜头
	VariantShots StructuringVariant = "shots"
	// VariantScenes 每个场景一段描述
	VariantScenes StructuringVariant = "scenes"
)

// ParseStructuringVariant 解析场景形态，默认镜头形态
func ParseStructuringVariant(s string) StructuringVariant {
	if StructuringVariant(s) == VariantScenes {
		return VariantScenes
	}
	return VariantShots
}

// VeoPrompt 结构化视频提示词
type VeoPrompt struct {
	Scenes []Scene `json:"scenes"`
}

// Scene 场景；Shots 与 Description 二选一
type Scene struct {
	SceneNumber int     `json:"sceneNumber"`
	Shots       []Shot  `json:"shots,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Shot 8 秒镜头
type Shot struct {
	ShotNumber int    `json:"shotNumber"`
	Duration   int    `json:"duration"`
	Prompt     string `json:"prompt"`
}

// CharacterRoster 角色表
type CharacterRoster struct {
	Characters []Character `json:"characters"`
}

// Character 角色
type Character struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
