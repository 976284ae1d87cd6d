package dto

import (
	"veo-prompt-studio/internal/application/credential"
	"veo-prompt-studio/internal/application/editor"
	"veo-prompt-studio/internal/application/studio"
	"veo-prompt-studio/internal/domain/entity"
	"veo-prompt-studio/internal/locale"
)

// SessionResponse 会话响应
type SessionResponse struct {
	ID       string                                `json:"id"`
	Language entity.Language                       `json:"language"`
	Stage    entity.Stage                          `json:"stage"`
	Inputs   studio.Inputs                         `json:"inputs"`
	Slots    map[entity.ArtifactKind]*SlotResponse `json:"slots"`
	Error    string                                `json:"error,omitempty"`
}

// SlotResponse 槽位响应
type SlotResponse struct {
	editor.Snapshot
	Busy bool `json:"busy"`
}

// CopyResponse 复制结果；text 由前端写入系统剪贴板
type CopyResponse struct {
	Text     string          `json:"text"`
	Feedback editor.Feedback `json:"feedback"`
}

// SaveResponse 保存结果
type SaveResponse struct {
	Original string          `json:"original"`
	Feedback editor.Feedback `json:"feedback"`
}

// CredentialResponse 凭据状态，不返回明文
type CredentialResponse struct {
	Set    bool   `json:"set"`
	Masked string `json:"masked,omitempty"`
}

// StyleListResponse 风格列表
type StyleListResponse struct {
	Language entity.Language      `json:"language"`
	Styles   []locale.StyleOption `json:"styles"`
}

// ToSessionResponse 转换会话快照
func ToSessionResponse(snap studio.Snapshot) *SessionResponse {
	out := &SessionResponse{
		ID:       snap.ID,
		Language: snap.Language,
		Stage:    snap.Stage,
		Inputs:   snap.Inputs,
		Slots:    make(map[entity.ArtifactKind]*SlotResponse, len(snap.Slots)),
		Error:    snap.Error,
	}
	for k, s := range snap.Slots {
		out.Slots[k] = &SlotResponse{Snapshot: s, Busy: snap.Busy[k]}
	}
	return out
}

// ToCredentialResponse 转换凭据状态
func ToCredentialResponse(svc *credential.Service) *CredentialResponse {
	v := svc.Current()
	if v == "" {
		return &CredentialResponse{}
	}
	return &CredentialResponse{Set: true, Masked: credential.Masked(v)}
}
