// en pkg/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse define la estructura estándar para las respuestas de error.
type ErrorResponse struct {
	Message string `json:"message"`
}

// SendError envía una respuesta de error con un formato estandarizado.
func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error": ErrorResponse{
			Message: message,
		},
	})
}

// --- Helpers específicos para errores comunes ---

func SendBadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendInternalServerError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, message)
}

// SendMethodNotAllowed responde 405 anunciando los métodos permitidos.
// Stripe y el resto de colaboradores externos esperan la cabecera Allow.
func SendMethodNotAllowed(c *gin.Context, allowed string) {
	c.Header("Allow", allowed)
	c.String(http.StatusMethodNotAllowed, "Method Not Allowed")
}
