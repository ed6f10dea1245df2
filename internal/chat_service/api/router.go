package api

import "github.com/gin-gonic/gin"

// SetupRouter configures and returns the Gin engine for the chat service.
func SetupRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	{
		api.POST("/send", h.Send)
		api.GET("/conversations/:user_id", h.History)
	}

	return r
}
