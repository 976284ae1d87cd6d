// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"strings"

	"github.com/gin-gonic/gin"

	"veo-prompt-studio/internal/application/artifact"
	"veo-prompt-studio/internal/application/editor"
	"veo-prompt-studio/internal/application/studio"
	"veo-prompt-studio/internal/domain/entity"
	"veo-prompt-studio/pkg/errors"
)

// BindSessionID 读取路径中的会话 ID
func BindSessionID(c *gin.Context) string {
	return strings.TrimSpace(c.Param("sid"))
}

// BindSlot 读取路径中的槽位类型
func BindSlot(c *gin.Context) (entity.ArtifactKind, error) {
	kind, err := entity.ParseArtifactKind(c.Param("slot"))
	if err != nil {
		return "", errors.ErrInvalidParam.WithDetail(err.Error())
	}
	return kind, nil
}

// CreateSessionRequest 创建会话请求
type CreateSessionRequest struct {
	Language string `json:"language,omitempty"`
}

// UpdateInputsRequest 更新输入请求，缺省字段保持不变
type UpdateInputsRequest struct {
	Topic     *string `json:"topic,omitempty"`
	WordCount *string `json:"word_count,omitempty"`
	Genre     *string `json:"genre,omitempty"`
	Style     *string `json:"style,omitempty"`
	Variant   *string `json:"variant,omitempty"`
	Language  *string `json:"language,omitempty"`
}

// ToPatch 转为会话输入补丁
func (r *UpdateInputsRequest) ToPatch() studio.InputsPatch {
	return studio.InputsPatch{
		Topic:     r.Topic,
		WordCount: r.WordCount,
		Genre:     r.Genre,
		Style:     r.Style,
		Variant:   r.Variant,
		Language:  r.Language,
	}
}

// SetStageRequest 切换阶段请求
type SetStageRequest struct {
	Stage string `json:"stage" binding:"required,oneof=script prompt"`
}

// EditRawRequest 原始文本编辑请求
type EditRawRequest struct {
	Text string `json:"text"`
}

// EditFieldRequest 字段编辑请求，path 为 JSON Pointer，如 /scenes/0/shots/1/prompt
type EditFieldRequest struct {
	Path  string `json:"path" binding:"required"`
	Value string `json:"value"`
}

// FieldPath 解析字段路径
func (r *EditFieldRequest) FieldPath() (artifact.FieldPath, error) {
	return parseFieldPath(r.Path)
}

// SetViewRequest 视图切换请求；mode 为空时在两种视图间切换
type SetViewRequest struct {
	Mode string `json:"mode" binding:"omitempty,oneof=structured raw"`
}

// ViewMode 目标视图
func (r *SetViewRequest) ViewMode() editor.ViewMode {
	return editor.ViewMode(r.Mode)
}

// CopyRequest 复制请求；path 非空时只复制该叶子字段
type CopyRequest struct {
	Path string `json:"path,omitempty"`
}

// FieldPath 解析字段路径
func (r *CopyRequest) FieldPath() (artifact.FieldPath, error) {
	return parseFieldPath(r.Path)
}

// CredentialRequest 凭据写入请求；空白值表示删除
type CredentialRequest struct {
	APIKey string `json:"api_key"`
}

func parseFieldPath(p string) (artifact.FieldPath, error) {
	path, err := artifact.ParseFieldPath(strings.TrimSpace(p))
	if err != nil {
		return artifact.FieldPath{}, errors.ErrInvalidParam.WithDetail(err.Error())
	}
	return path, nil
}
