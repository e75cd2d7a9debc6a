package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/quickasset/internal/fulfillment/application"
	"github.com/davicafu/quickasset/internal/fulfillment/domain"
	"github.com/davicafu/quickasset/pkg/utils"
)

// WebhookHandler encapsula el endpoint del webhook de pagos
type WebhookHandler struct {
	service *application.FulfillmentService
}

// NewWebhookHandler crea un nuevo WebhookHandler
func NewWebhookHandler(service *application.FulfillmentService) *WebhookHandler {
	return &WebhookHandler{service: service}
}

// Handle endpoint POST /api/webhook
//
// El mapeo outcome → HTTP es el contrato con el proveedor:
//   - 400 solo para eventos genuinamente inválidos (firma o payload);
//     el proveedor reintentará, y debe hacerlo.
//   - 200 para todo lo demás, INCLUIDO un fallo de fulfillment: un error de
//     aplicación no va a salir distinto por reintentarlo y un 4xx/5xx aquí
//     solo provocaría una tormenta de redeliveries.
func (h *WebhookHandler) Handle(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		utils.SendMethodNotAllowed(c, http.MethodPost)
		return
	}

	// Bytes crudos, sin pasar por ningún binding: la firma se calcula sobre
	// el body exacto que mandó el proveedor.
	rawBody, err := c.GetRawData()
	if err != nil {
		utils.SendBadRequest(c, "cannot read request body")
		return
	}

	outcome, err := h.service.Process(c.Request.Context(), rawBody, c.GetHeader("Stripe-Signature"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if outcome.Status == domain.OutcomeFailed {
		c.JSON(http.StatusOK, gin.H{"error": outcome.Reason})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
