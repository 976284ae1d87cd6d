package handler

import (
	"github.com/gin-gonic/gin"

	"veo-prompt-studio/internal/domain/entity"
	"veo-prompt-studio/internal/interfaces/http/dto"
	"veo-prompt-studio/internal/locale"
)

// StyleHandler 风格目录处理器
type StyleHandler struct {
	defaultLang entity.Language
}

func NewStyleHandler(defaultLang entity.Language) *StyleHandler {
	return &StyleHandler{defaultLang: defaultLang}
}

// ListStyles 风格列表
// @Summary 列出视觉风格
// @Tags Styles
// @Produce json
// @Param language query string false "english | vietnamese"
// @Success 200 {object} dto.Response[dto.StyleListResponse]
// @Router /v1/styles [get]
func (h *StyleHandler) ListStyles(c *gin.Context) {
	lang := h.defaultLang
	if q := c.Query("language"); q != "" {
		lang = entity.ParseLanguage(q)
	}
	dto.Success(c, &dto.StyleListResponse{Language: lang, Styles: locale.Styles(lang)})
}
