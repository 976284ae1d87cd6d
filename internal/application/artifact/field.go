package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"

	"veo-prompt-studio/internal/domain/entity"
)

// LeafKind 可编辑叶子字段类型
type LeafKind string

const (
	LeafShotPrompt           LeafKind = "shot_prompt"
	LeafSceneDescription     LeafKind = "scene_description"
	LeafCharacterDescription LeafKind = "character_description"
)

// FieldPath 定位唯一一个可编辑叶子字段；索引为数组下标（从 0 开始），与编号无关
type FieldPath struct {
	Leaf      LeafKind `json:"leaf"`
	Scene     int      `json:"scene"`
	Shot      int      `json:"shot"`
	Character int      `json:"character"`
}

// ShotPrompt 镜头提示词路径
func ShotPrompt(scene, shot int) FieldPath {
	return FieldPath{Leaf: LeafShotPrompt, Scene: scene, Shot: shot}
}

// SceneDescription 场景描述路径
func SceneDescription(scene int) FieldPath {
	return FieldPath{Leaf: LeafSceneDescription, Scene: scene}
}

// CharacterDescription 角色描述路径
func CharacterDescription(character int) FieldPath {
	return FieldPath{Leaf: LeafCharacterDescription, Character: character}
}

// Pointer 返回 RFC 6901 JSON Pointer
func (p FieldPath) Pointer() string {
	switch p.Leaf {
	case LeafShotPrompt:
		return fmt.Sprintf("/scenes/%d/shots/%d/prompt", p.Scene, p.Shot)
	case LeafSceneDescription:
		return fmt.Sprintf("/scenes/%d/description", p.Scene)
	case LeafCharacterDescription:
		return fmt.Sprintf("/characters/%d/description", p.Character)
	default:
		return ""
	}
}

// ParseFieldPath 从 JSON Pointer 解析叶子路径
func ParseFieldPath(pointer string) (FieldPath, error) {
	parts := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	idx := func(s string) (int, bool) {
		n, err := strconv.Atoi(s)
		return n, err == nil && n >= 0
	}

	switch {
	case len(parts) == 5 && parts[0] == "scenes" && parts[2] == "shots" && parts[4] == "prompt":
		scene, ok1 := idx(parts[1])
		shot, ok2 := idx(parts[3])
		if ok1 && ok2 {
			return ShotPrompt(scene, shot), nil
		}
	case len(parts) == 3 && parts[0] == "scenes" && parts[2] == "description":
		if scene, ok := idx(parts[1]); ok {
			return SceneDescription(scene), nil
		}
	case len(parts) == 3 && parts[0] == "characters" && parts[2] == "description":
		if c, ok := idx(parts[1]); ok {
			return CharacterDescription(c), nil
		}
	}
	return FieldPath{}, fmt.Errorf("unsupported field path: %s", pointer)
}

// Leaf 读取叶子字段的当前值
func Leaf(doc *Document, path FieldPath) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("nil document")
	}

	switch path.Leaf {
	case LeafShotPrompt, LeafSceneDescription:
		if doc.Kind != entity.ArtifactKindVeoPrompt || doc.Prompt == nil {
			return "", fmt.Errorf("field %s requires a veo prompt document", path.Pointer())
		}
		if path.Scene < 0 || path.Scene >= len(doc.Prompt.Scenes) {
			return "", fmt.Errorf("scene index out of range: %d", path.Scene)
		}
		scene := doc.Prompt.Scenes[path.Scene]
		if path.Leaf == LeafSceneDescription {
			if scene.Description == nil {
				return "", fmt.Errorf("scene %d has no description", path.Scene)
			}
			return *scene.Description, nil
		}
		if path.Shot < 0 || path.Shot >= len(scene.Shots) {
			return "", fmt.Errorf("shot index out of range: %d", path.Shot)
		}
		return scene.Shots[path.Shot].Prompt, nil

	case LeafCharacterDescription:
		if doc.Kind != entity.ArtifactKindCharacters || doc.Roster == nil {
			return "", fmt.Errorf("field %s requires a character document", path.Pointer())
		}
		if path.Character < 0 || path.Character >= len(doc.Roster.Characters) {
			return "", fmt.Errorf("character index out of range: %d", path.Character)
		}
		return doc.Roster.Characters[path.Character].Description, nil

	default:
		return "", fmt.Errorf("unknown leaf kind: %s", path.Leaf)
	}
}

// keys 返回 jsonparser 使用的键路径，数组下标写作 "[n]"
func (p FieldPath) keys() []string {
	index := func(n int) string { return "[" + strconv.Itoa(n) + "]" }
	switch p.Leaf {
	case LeafShotPrompt:
		return []string{"scenes", index(p.Scene), "shots", index(p.Shot), "prompt"}
	case LeafSceneDescription:
		return []string{"scenes", index(p.Scene), "description"}
	case LeafCharacterDescription:
		return []string{"characters", index(p.Character), "description"}
	default:
		return nil
	}
}

// ReplaceField 返回仅替换了一个叶子字段的新构件；编号、顺序与其余字段（含未知字段）保持不变
func ReplaceField(doc *Document, path FieldPath, value string) (*Document, error) {
	// Set 作用于不存在的键时会新增，先校验叶子存在
	if _, err := Leaf(doc, path); err != nil {
		return nil, err
	}

	base := doc.source
	if len(base) == 0 {
		text, err := Serialize(doc)
		if err != nil {
			return nil, err
		}
		base = []byte(text)
	}

	encoded, err := encodeString(value)
	if err != nil {
		return nil, err
	}
	out, err := jsonparser.Set(base, encoded, path.keys()...)
	if err != nil {
		return nil, fmt.Errorf("failed to replace %s: %w", path.Pointer(), err)
	}

	next, ok := TryParse(doc.Kind, string(out))
	if !ok {
		return nil, fmt.Errorf("patched %s document no longer parses", doc.Kind)
	}
	return next, nil
}

func encodeString(value string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
