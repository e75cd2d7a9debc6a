package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/quickasset/internal/upload/application"
	"github.com/davicafu/quickasset/pkg/utils"
)

// UploadHandler encapsula el endpoint de subida de assets
type UploadHandler struct {
	service *application.UploadService
}

func NewUploadHandler(service *application.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// Handle endpoint POST /api/upload-url
// Delegación pura: cualquier error del blob store o del protocolo es 400.
func (h *UploadHandler) Handle(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		utils.SendMethodNotAllowed(c, http.MethodPost)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read request body"})
		return
	}

	resp, err := h.service.HandleMessage(c.Request.Context(), body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
