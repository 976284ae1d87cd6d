package artifact

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
)

// ApplyPatch 应用 RFC 6902 补丁文档
// 仅接受作用于可编辑叶子字段的 replace 与 test 操作；任一操作失败则整体不生效
func ApplyPatch(doc *Document, patchJSON []byte) (*Document, error) {
	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return nil, fmt.Errorf("invalid json patch: %w", err)
	}
	if len(patch) == 0 {
		return nil, fmt.Errorf("empty json patch")
	}

	next := doc
	for i, op := range patch {
		pointer, err := op.Path()
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		path, err := ParseFieldPath(pointer)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		v, err := op.ValueInterface()
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		value, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("operation %d: value of %s must be a string", i, pointer)
		}

		switch op.Kind() {
		case "replace":
			if next, err = ReplaceField(next, path, value); err != nil {
				return nil, fmt.Errorf("operation %d: %w", i, err)
			}
		case "test":
			current, err := Leaf(next, path)
			if err != nil {
				return nil, fmt.Errorf("operation %d: %w", i, err)
			}
			if current != value {
				return nil, fmt.Errorf("operation %d: test failed for %s", i, pointer)
			}
		default:
			return nil, fmt.Errorf("operation %d: unsupported op %q", i, op.Kind())
		}
	}
	return next, nil
}
