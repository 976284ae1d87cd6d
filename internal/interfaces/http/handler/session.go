// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"veo-prompt-studio/internal/application/studio"
	"veo-prompt-studio/internal/domain/entity"
	"veo-prompt-studio/internal/interfaces/http/dto"
	"veo-prompt-studio/pkg/logger"
)

// SessionHandler 工作室会话处理器
type SessionHandler struct {
	sessions *studio.Registry
}

// NewSessionHandler 创建会话处理器
func NewSessionHandler(sessions *studio.Registry) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// CreateSession 创建会话
// @Summary 创建工作室会话
// @Tags Sessions
// @Accept json
// @Produce json
// @Param body body dto.CreateSessionRequest false "语言"
// @Success 201 {object} dto.Response[dto.SessionResponse]
// @Router /v1/sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			dto.BadRequest(c, "invalid request body: "+err.Error())
			return
		}
	}
	s := h.sessions.Create(req.Language)
	logger.Info(logger.WithContext(c.Request.Context(), logger.SessionIDKey, s.ID()), "studio session created", "language", s.Language())
	dto.Created(c, dto.ToSessionResponse(s.Snapshot()))
}

// GetSession 获取会话
// @Summary 获取会话状态
// @Tags Sessions
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	dto.Success(c, dto.ToSessionResponse(s.Snapshot()))
}

// DeleteSession 删除会话
// @Summary 删除会话
// @Tags Sessions
// @Param sid path string true "会话 ID"
// @Success 204
// @Router /v1/sessions/{sid} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	h.sessions.Delete(dto.BindSessionID(c))
	dto.NoContent(c)
}

// UpdateInputs 更新输入
// @Summary 更新主题、字数、风格与语言
// @Tags Sessions
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.UpdateInputsRequest true "输入"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Router /v1/sessions/{sid}/inputs [put]
func (h *SessionHandler) UpdateInputs(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req dto.UpdateInputsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	s.UpdateInputs(req.ToPatch())
	dto.Success(c, dto.ToSessionResponse(s.Snapshot()))
}

// SetStage 切换阶段
// @Summary 切换剧本/提示词阶段
// @Tags Sessions
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.SetStageRequest true "阶段"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/stage [put]
func (h *SessionHandler) SetStage(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req dto.SetStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := s.SetStage(entity.Stage(req.Stage)); err != nil {
		dto.AppError(c, err)
		return
	}
	dto.Success(c, dto.ToSessionResponse(s.Snapshot()))
}

// GenerateScript 生成剧本
// @Summary 根据主题生成剧本
// @Tags Pipeline
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/script/generate [post]
func (h *SessionHandler) GenerateScript(c *gin.Context) {
	h.run(c, (*studio.Session).GenerateScript)
}

// UseOriginalScript 直接使用输入文本作为剧本
// @Summary 使用原始剧本
// @Tags Pipeline
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/script/use-original [post]
func (h *SessionHandler) UseOriginalScript(c *gin.Context) {
	h.run(c, (*studio.Session).UseOriginalScript)
}

// GeneratePrompt 生成结构化提示词
// @Summary 将剧本结构化为场景/镜头 JSON
// @Tags Pipeline
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/prompt/generate [post]
func (h *SessionHandler) GeneratePrompt(c *gin.Context) {
	h.run(c, (*studio.Session).GeneratePrompt)
}

// GenerateCharacters 提取角色表
// @Summary 从剧本提取角色表
// @Tags Pipeline
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/characters/generate [post]
func (h *SessionHandler) GenerateCharacters(c *gin.Context) {
	h.run(c, (*studio.Session).GenerateCharacters)
}

func (h *SessionHandler) run(c *gin.Context, op func(*studio.Session, context.Context) error) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := op(s, c.Request.Context()); err != nil {
		dto.AppError(c, err)
		return
	}
	dto.Success(c, dto.ToSessionResponse(s.Snapshot()))
}

// session 解析路径中的会话；不存在时已写出 404
func (h *SessionHandler) session(c *gin.Context) (*studio.Session, bool) {
	return lookupSession(h.sessions, c)
}

func lookupSession(sessions *studio.Registry, c *gin.Context) (*studio.Session, bool) {
	s, err := sessions.Get(dto.BindSessionID(c))
	if err != nil {
		dto.AppError(c, err)
		return nil, false
	}
	return s, true
}
