package http

import "github.com/gin-gonic/gin"

func RegisterConnectRoutes(r *gin.Engine, handler *ConnectHandler) {
	r.Any("/api/exchange-token", handler.ExchangeToken)
}
