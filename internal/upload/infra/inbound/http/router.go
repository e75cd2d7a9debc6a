package http

import "github.com/gin-gonic/gin"

func RegisterUploadRoutes(r *gin.Engine, handler *UploadHandler) {
	r.Any("/api/upload-url", handler.Handle)
}
