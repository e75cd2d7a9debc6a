package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/quickasset/internal/connect/application"
	"github.com/davicafu/quickasset/pkg/utils"
)

// ConnectHandler encapsula el endpoint de conexión de cuentas de cobro
type ConnectHandler struct {
	service *application.ConnectService
}

func NewConnectHandler(service *application.ConnectService) *ConnectHandler {
	return &ConnectHandler{service: service}
}

// ExchangeToken endpoint POST|GET /api/exchange-token
// POST lleva code y redirect_uri en el body JSON; GET los lleva en la query
// string. El redirect_uri viene del frontend y se reenvía al proveedor.
func (h *ConnectHandler) ExchangeToken(c *gin.Context) {
	var code, redirectURI string

	switch c.Request.Method {
	case http.MethodPost:
		var req struct {
			Code        string `json:"code"`
			RedirectURI string `json:"redirect_uri"`
		}
		if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		code, redirectURI = req.Code, req.RedirectURI
	case http.MethodGet:
		code = c.Query("code")
		redirectURI = c.Query("redirect_uri")
	default:
		utils.SendMethodNotAllowed(c, "GET, POST")
		return
	}

	resp, err := h.service.ExchangeCode(c.Request.Context(), code, redirectURI)
	if err != nil {
		if errors.Is(err, application.ErrMissingParams) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing code or redirect_uri"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Respuesta del proveedor tal cual, sin re-serializar
	c.Data(http.StatusOK, "application/json", resp)
}
