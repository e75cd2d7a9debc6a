package http

import "github.com/gin-gonic/gin"

func RegisterWebhookRoutes(r *gin.Engine, handler *WebhookHandler) {
	// Any + check de método en el handler: así el 405 lleva cabecera Allow
	r.Any("/api/webhook", handler.Handle)
}
