package studio

import (
	"context"

	"veo-prompt-studio/internal/application/artifact"
	"veo-prompt-studio/internal/application/editor"
	"veo-prompt-studio/internal/domain/entity"
	apperrors "veo-prompt-studio/pkg/errors"
)

// Snapshot 会话只读视图
type Snapshot struct {
	ID       string                                  `json:"id"`
	Language entity.Language                         `json:"language"`
	Stage    entity.Stage                            `json:"stage"`
	Inputs   Inputs                                  `json:"inputs"`
	Slots    map[entity.ArtifactKind]editor.Snapshot `json:"slots"`
	Busy     map[entity.ArtifactKind]bool            `json:"busy"`
	Error    string                                  `json:"error,omitempty"`
}

// Snapshot 返回当前会话状态
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:       s.id,
		Language: s.lang,
		Stage:    s.stage,
		Inputs:   s.in,
		Slots:    make(map[entity.ArtifactKind]editor.Snapshot, len(s.slots)),
		Busy:     make(map[entity.ArtifactKind]bool, len(s.slots)),
	}
	for k, slot := range s.slots {
		snap.Slots[k] = slot.Snapshot()
		snap.Busy[k] = s.busy[k]
	}
	if s.err != nil {
		snap.Error = s.err.Message
	}
	return snap
}

// Slot 返回单个槽位视图
func (s *Session) Slot(kind entity.ArtifactKind) (editor.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[kind]
	if !ok {
		return editor.Snapshot{}, apperrors.ErrNotFound.WithDetail("slot " + string(kind))
	}
	return slot.Snapshot(), nil
}

// withSlot 在会话锁内操作槽位；失败写入错误槽位，成功则清除之前的错误
func (s *Session) withSlot(kind entity.ArtifactKind, fn func(*editor.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[kind]
	if !ok {
		return apperrors.ErrNotFound.WithDetail("slot " + string(kind))
	}
	s.touch()
	if err := fn(slot); err != nil {
		return s.fail(err)
	}
	s.err = nil
	return nil
}

// EditRaw 修改槽位原始文本
func (s *Session) EditRaw(kind entity.ArtifactKind, text string) error {
	return s.withSlot(kind, func(e *editor.Session) error { return e.EditRaw(text) })
}

// EditField 修改结构化槽位的一个叶子字段
func (s *Session) EditField(kind entity.ArtifactKind, path artifact.FieldPath, value string) error {
	return s.withSlot(kind, func(e *editor.Session) error { return e.EditField(path, value) })
}

// ApplyPatch 以 RFC 6902 补丁批量修改结构化槽位的叶子字段
func (s *Session) ApplyPatch(kind entity.ArtifactKind, patch []byte) error {
	return s.withSlot(kind, func(e *editor.Session) error { return e.ApplyPatch(patch) })
}

// SetView 切换视图；切到结构化时内容须可解析
func (s *Session) SetView(kind entity.ArtifactKind, mode editor.ViewMode) error {
	return s.withSlot(kind, func(e *editor.Session) error {
		switch mode {
		case editor.ViewRaw:
			e.ShowRaw()
			return nil
		case editor.ViewStructured:
			return e.ShowStructured()
		default:
			return e.Toggle()
		}
	})
}

// Save 提交槽位编辑；剧本槽位保存后成为下游生成的输入
func (s *Session) Save(kind entity.ArtifactKind) (string, error) {
	var out string
	err := s.withSlot(kind, func(e *editor.Session) error {
		out = e.Save()
		return nil
	})
	return out, err
}

// Copy 复制槽位已保存内容
func (s *Session) Copy(ctx context.Context, kind entity.ArtifactKind, clip editor.Clipboard) (string, error) {
	var out string
	err := s.withSlot(kind, func(e *editor.Session) error {
		var err error
		out, err = e.Copy(ctx, clip)
		return err
	})
	return out, err
}

// CopyLeaf 复制单个镜头提示词或描述
func (s *Session) CopyLeaf(ctx context.Context, kind entity.ArtifactKind, path artifact.FieldPath, clip editor.Clipboard) (string, error) {
	var out string
	err := s.withSlot(kind, func(e *editor.Session) error {
		var err error
		out, err = e.CopyLeaf(ctx, clip, path)
		return err
	})
	return out, err
}

// Download 导出槽位内容为逐镜头文本
func (s *Session) Download(kind entity.ArtifactKind) (string, error) {
	var out string
	err := s.withSlot(kind, func(e *editor.Session) error {
		if !kind.IsStructured() {
			return apperrors.ErrInvalidParam.WithDetail("slot " + string(kind) + " cannot be downloaded")
		}
		var err error
		out, err = e.Download()
		return err
	})
	return out, err
}
