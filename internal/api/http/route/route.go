package route

import (
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sheetworks-back/internal/api/http/handler"
	"sheetworks-back/internal/api/http/middleware"
	"sheetworks-back/internal/config"
)

func SetupRouter(
	log *zap.Logger,
	cfg *config.Config,
	healthHdl HealthHandler,
	commandHdl CommandHandler,
	authKeyHdl AuthKeyHandler,
	logHdl LogHandler,
	statsHdl StatsHandler,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = io.Discard

	router := gin.Default()

	// middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.RequestTimeout(cfg.HTTPServer.Timeout.Request))
	router.Use(middleware.CORS(cfg.HTTPServer.CORS))

	adminAuthMiddleware := middleware.AdminAuth(cfg.Auth.AdminPassword)

	router.HandleMethodNotAllowed = true
	router.NoMethod(handler.NoMethod)
	router.NoRoute(handler.NoRoute)

	basePath := router.Group(cfg.HTTPServer.BasePath)

	healthPath := basePath.Group("/health")
	RegisterHealth(healthPath, healthHdl)

	apiPath := basePath.Group("/api")
	RegisterCommand(apiPath, commandHdl)
	RegisterAdmin(apiPath, authKeyHdl, logHdl, statsHdl, adminAuthMiddleware)

	return router
}
