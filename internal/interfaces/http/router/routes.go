// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"

	"veo-prompt-studio/internal/interfaces/http/handler"
)

// RegisterV1Routes 注册 v1 版本路由；generateLimit 只作用于调用生成后端的接口
func RegisterV1Routes(
	v1 *gin.RouterGroup,
	generateLimit gin.HandlerFunc,
	sessionHandler *handler.SessionHandler,
	slotHandler *handler.SlotHandler,
	credentialHandler *handler.CredentialHandler,
	styleHandler *handler.StyleHandler,
) {
	// 会话
	sessions := v1.Group("/sessions")
	{
		sessions.POST("", sessionHandler.CreateSession)
		sessions.GET("/:sid", sessionHandler.GetSession)
		sessions.DELETE("/:sid", sessionHandler.DeleteSession)
		sessions.PUT("/:sid/inputs", sessionHandler.UpdateInputs)
		sessions.PUT("/:sid/stage", sessionHandler.SetStage)

		// 流水线
		sessions.POST("/:sid/script/generate", generateLimit, sessionHandler.GenerateScript)
		sessions.POST("/:sid/script/use-original", sessionHandler.UseOriginalScript)
		sessions.POST("/:sid/prompt/generate", generateLimit, sessionHandler.GeneratePrompt)
		sessions.POST("/:sid/characters/generate", generateLimit, sessionHandler.GenerateCharacters)

		// 槽位
		sessions.GET("/:sid/slots/:slot", slotHandler.GetSlot)
		sessions.PATCH("/:sid/slots/:slot", slotHandler.PatchSlot)
		sessions.PUT("/:sid/slots/:slot/edit", slotHandler.EditRaw)
		sessions.PUT("/:sid/slots/:slot/field", slotHandler.EditField)
		sessions.POST("/:sid/slots/:slot/view", slotHandler.SetView)
		sessions.POST("/:sid/slots/:slot/save", slotHandler.Save)
		sessions.POST("/:sid/slots/:slot/copy", slotHandler.Copy)
		sessions.GET("/:sid/slots/:slot/download", slotHandler.Download)
	}

	// 凭据
	cred := v1.Group("/credential")
	{
		cred.GET("", credentialHandler.GetCredential)
		cred.PUT("", credentialHandler.PutCredential)
		cred.DELETE("", credentialHandler.DeleteCredential)
	}

	v1.GET("/styles", styleHandler.ListStyles)
}
