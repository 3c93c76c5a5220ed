package route

import (
	"github.com/gin-gonic/gin"
)

type CommandHandler interface {
	Interpret(c *gin.Context)
	Health(c *gin.Context)
}

// RegisterCommand mounts the add-in facing endpoint. GET on the same
// path answers deployment probes.
func RegisterCommand(g *gin.RouterGroup, h CommandHandler) {
	g.POST("/command", h.Interpret)
	g.GET("/command", h.Health)
}
