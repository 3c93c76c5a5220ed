package route

import (
	"github.com/gin-gonic/gin"
)

type AuthKeyHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Deactivate(c *gin.Context)
}

type LogHandler interface {
	Recent(c *gin.Context)
}

type StatsHandler interface {
	Get(c *gin.Context)
}

func RegisterAdmin(g *gin.RouterGroup, keys AuthKeyHandler, logs LogHandler, stats StatsHandler, adminAuthMiddleware gin.HandlerFunc) {
	protected := g.Group("", adminAuthMiddleware)

	protected.GET("/auth-keys", keys.List)
	protected.POST("/auth-keys", keys.Create)
	protected.DELETE("/auth-keys", keys.Deactivate)

	protected.GET("/validation-logs", logs.Recent)
	protected.GET("/usage-stats", stats.Get)
}
