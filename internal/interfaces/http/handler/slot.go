package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"veo-prompt-studio/internal/application/artifact"
	"veo-prompt-studio/internal/application/studio"
	"veo-prompt-studio/internal/domain/entity"
	"veo-prompt-studio/internal/infrastructure/clipboard"
	"veo-prompt-studio/internal/interfaces/http/dto"
)

// SlotHandler 构件槽位处理器
type SlotHandler struct {
	sessions *studio.Registry
}

// NewSlotHandler 创建槽位处理器
func NewSlotHandler(sessions *studio.Registry) *SlotHandler {
	return &SlotHandler{sessions: sessions}
}

// GetSlot 获取槽位
// @Summary 获取槽位视图
// @Tags Slots
// @Produce json
// @Param sid path string true "会话 ID"
// @Param slot path string true "槽位" Enums(script, veo_prompt, characters)
// @Success 200 {object} dto.Response[dto.SlotResponse]
// @Router /v1/sessions/{sid}/slots/{slot} [get]
func (h *SlotHandler) GetSlot(c *gin.Context) {
	s, kind, ok := h.bind(c)
	if !ok {
		return
	}
	h.respondSlot(c, s, kind)
}

// EditRaw 修改原始文本
// @Summary 编辑槽位原始文本
// @Tags Slots
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param slot path string true "槽位"
// @Param body body dto.EditRawRequest true "文本"
// @Success 200 {object} dto.Response[dto.SlotResponse]
// @Router /v1/sessions/{sid}/slots/{slot}/edit [put]
func (h *SlotHandler) EditRaw(c *gin.Context) {
	s, kind, ok := h.bind(c)
	if !ok {
		return
	}
	var req dto.EditRawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := s.EditRaw(kind, req.Text); err != nil {
		dto.AppError(c, err)
		return
	}
	h.respondSlot(c, s, kind)
}

// EditField 修改单个叶子字段
// @Summary 编辑镜头提示词或描述
// @Tags Slots
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param slot path string true "槽位"
// @Param body body dto.EditFieldRequest true "字段"
// @Success 200 {object} dto.Response[dto.SlotResponse]
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/slots/{slot}/field [put]
func (h *SlotHandler) EditField(c *gin.Context) {
	s, kind, ok := h.bind(c)
	if !ok {
		return
	}
	var req dto.EditFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	path, err := req.FieldPath()
	if err != nil {
		dto.AppError(c, err)
		return
	}
	if err := s.EditField(kind, path, req.Value); err != nil {
		dto.AppError(c, err)
		return
	}
	h.respondSlot(c, s, kind)
}

// PatchSlot 以 JSON Patch 批量修改叶子字段
// @Summary 应用 RFC 6902 补丁（仅 replace/test）
// @Tags Slots
// @Accept json-patch+json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param slot path string true "槽位"
// @Success 200 {object} dto.Response[dto.SlotResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/slots/{slot} [patch]
func (h *SlotHandler) PatchSlot(c *gin.Context) {
	s, kind, ok := h.bind(c)
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		dto.BadRequest(c, "json patch body required")
		return
	}
	if err := s.ApplyPatch(kind, body); err != nil {
		dto.AppError(c, err)
		return
	}
	h.respondSlot(c, s, kind)
}

// SetView 切换视图
// @Summary 切换结构化/原始视图
// @Tags Slots
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param slot path string true "槽位"
// @Param body body dto.SetViewRequest false "视图"
// @Success 200 {object} dto.Response[dto.SlotResponse]
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/slots/{slot}/view [post]
func (h *SlotHandler) SetView(c *gin.Context) {
	s, kind, ok := h.bind(c)
	if !ok {
		return
	}
	var req dto.SetViewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			dto.BadRequest(c, "invalid request body: "+err.Error())
			return
		}
	}
	if err := s.SetView(kind, req.ViewMode()); err != nil {
		dto.AppError(c, err)
		return
	}
	h.respondSlot(c, s, kind)
}

// Save 保存编辑内容
// @Summary 提交槽位编辑
// @Tags Slots
// @Produce json
// @Param sid path string true "会话 ID"
// @Param slot path string true "槽位"
// @Success 200 {object} dto.Response[dto.SaveResponse]
// @Router /v1/sessions/{sid}/slots/{slot}/save [post]
func (h *SlotHandler) Save(c *gin.Context) {
	s, kind, ok := h.bind(c)
	if !ok {
		return
	}
	out, err := s.Save(kind)
	if err != nil {
		dto.AppError(c, err)
		return
	}
	snap, _ := s.Slot(kind)
	dto.Success(c, &dto.SaveResponse{Original: out, Feedback: snap.Feedback})
}

// Copy 复制内容；body 带 path 时只复制该字段
// @Summary 复制槽位内容或单个字段
// @Tags Slots
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param slot path string true "槽位"
// @Param body body dto.CopyRequest false "字段路径"
// @Success 200 {object} dto.Response[dto.CopyResponse]
// @Router /v1/sessions/{sid}/slots/{slot}/copy [post]
func (h *SlotHandler) Copy(c *gin.Context) {
	s, kind, ok := h.bind(c)
	if !ok {
		return
	}
	var req dto.CopyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			dto.BadRequest(c, "invalid request body: "+err.Error())
			return
		}
	}

	clip := &clipboard.Capture{}
	var err error
	if req.Path == "" {
		_, err = s.Copy(c.Request.Context(), kind, clip)
	} else {
		var path artifact.FieldPath
		if path, err = req.FieldPath(); err == nil {
			_, err = s.CopyLeaf(c.Request.Context(), kind, path, clip)
		}
	}
	if err != nil {
		dto.AppError(c, err)
		return
	}
	snap, _ := s.Slot(kind)
	dto.Success(c, &dto.CopyResponse{Text: clip.Text(), Feedback: snap.Feedback})
}

// Download 下载逐镜头文本
// @Summary 导出 veo_prompts.txt
// @Tags Slots
// @Produce plain
// @Param sid path string true "会话 ID"
// @Param slot path string true "槽位"
// @Success 200 {string} string
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/slots/{slot}/download [get]
func (h *SlotHandler) Download(c *gin.Context) {
	s, kind, ok := h.bind(c)
	if !ok {
		return
	}
	out, err := s.Download(kind)
	if err != nil {
		dto.AppError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+artifact.ExportFileName+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(out))
}

func (h *SlotHandler) bind(c *gin.Context) (*studio.Session, entity.ArtifactKind, bool) {
	kind, err := dto.BindSlot(c)
	if err != nil {
		dto.AppError(c, err)
		return nil, "", false
	}
	s, ok := lookupSession(h.sessions, c)
	if !ok {
		return nil, "", false
	}
	return s, kind, true
}

func (h *SlotHandler) respondSlot(c *gin.Context, s *studio.Session, kind entity.ArtifactKind) {
	snap, err := s.Slot(kind)
	if err != nil {
		dto.AppError(c, err)
		return
	}
	busy := s.Snapshot().Busy[kind]
	dto.Success(c, &dto.SlotResponse{Snapshot: snap, Busy: busy})
}
