package handler

import (
	"github.com/gin-gonic/gin"

	"veo-prompt-studio/internal/application/credential"
	"veo-prompt-studio/internal/interfaces/http/dto"
	"veo-prompt-studio/pkg/errors"
)

// CredentialHandler 凭据处理器
type CredentialHandler struct {
	svc *credential.Service
}

// NewCredentialHandler 创建凭据处理器
func NewCredentialHandler(svc *credential.Service) *CredentialHandler {
	return &CredentialHandler{svc: svc}
}

// GetCredential 凭据状态
// @Summary 查看凭据是否已设置
// @Tags Credential
// @Produce json
// @Success 200 {object} dto.Response[dto.CredentialResponse]
// @Router /v1/credential [get]
func (h *CredentialHandler) GetCredential(c *gin.Context) {
	dto.Success(c, dto.ToCredentialResponse(h.svc))
}

// PutCredential 保存凭据；空白值等同删除
// @Summary 保存 API Key
// @Tags Credential
// @Accept json
// @Produce json
// @Param body body dto.CredentialRequest true "凭据"
// @Success 200 {object} dto.Response[dto.CredentialResponse]
// @Router /v1/credential [put]
func (h *CredentialHandler) PutCredential(c *gin.Context) {
	var req dto.CredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := h.svc.Save(c.Request.Context(), req.APIKey); err != nil {
		dto.AppError(c, errors.Wrap(err, errors.CodeStorageError, "failed to save credential"))
		return
	}
	dto.Success(c, dto.ToCredentialResponse(h.svc))
}

// DeleteCredential 删除凭据
// @Summary 删除 API Key
// @Tags Credential
// @Success 204
// @Router /v1/credential [delete]
func (h *CredentialHandler) DeleteCredential(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context()); err != nil {
		dto.AppError(c, errors.Wrap(err, errors.CodeStorageError, "failed to delete credential"))
		return
	}
	dto.NoContent(c)
}
