package artifact

import (
	"fmt"
	"strings"

	"veo-prompt-studio/internal/domain/entity"
)

// ExportFileName 下载文件名
const ExportFileName = "veo_prompts.txt"

const recordSeparator = "\n\n---\n\n"

// Export 将构件展开为逐条文本记录，每个镜头（或场景描述、角色）一条
func Export(doc *Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("nil document")
	}

	var records []string
	switch doc.Kind {
	case entity.ArtifactKindVeoPrompt:
		if doc.Prompt == nil {
			return "", fmt.Errorf("veo prompt document has no content")
		}
		for _, scene := range doc.Prompt.Scenes {
			if scene.Description != nil && len(scene.Shots) == 0 {
				records = append(records, fmt.Sprintf("SCENE %d\n%s", scene.SceneNumber, *scene.Description))
				continue
			}
			for _, shot := range scene.Shots {
				records = append(records, fmt.Sprintf("SCENE %d - SHOT %d\n%s", scene.SceneNumber, shot.ShotNumber, shot.Prompt))
			}
		}
	case entity.ArtifactKindCharacters:
		if doc.Roster == nil {
			return "", fmt.Errorf("character document has no content")
		}
		for _, c := range doc.Roster.Characters {
			records = append(records, fmt.Sprintf("CHARACTER %s\n%s", c.Name, c.Description))
		}
	default:
		return "", fmt.Errorf("artifact kind %s cannot be exported", doc.Kind)
	}

	return strings.Join(records, recordSeparator), nil
}

// RosterText 渲染角色表供结构化提示词拼接，每行 "名字: 描述"
func RosterText(doc *Document) string {
	if doc == nil || doc.Roster == nil {
		return ""
	}
	lines := make([]string, 0, len(doc.Roster.Characters))
	for _, c := range doc.Roster.Characters {
		lines = append(lines, fmt.Sprintf("%s: %s", c.Name, c.Description))
	}
	return strings.Join(lines, "\n")
}
