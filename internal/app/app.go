package app

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"sheetworks-back/internal/api/http/handler"
	"sheetworks-back/internal/api/http/route"
	"sheetworks-back/internal/apperrors"
	"sheetworks-back/internal/config"
	"sheetworks-back/internal/repository"
	"sheetworks-back/internal/service"
	"sheetworks-back/pkg/openai"
	"sheetworks-back/pkg/redis"
	"sheetworks-back/pkg/server"
)

const (
	storeModeRedis  = "redis"
	storeModeMemory = "memory"
)

type Repository struct {
	AuthKeyRepository *repository.AuthKeyRepository
	LogRepository     *repository.LogRepository
}

type Service struct {
	HealthService      *service.HealthService
	AuthKeyService     *service.AuthKeyService
	LogService         *service.LogService
	AuthorizerService  *service.AuthorizerService
	InterpreterService *service.InterpreterService
	StatsService       *service.StatsService
}

type Handler struct {
	HealthHandler  *handler.HealthHandler
	CommandHandler *handler.CommandHandler
	AuthKeyHandler *handler.AuthKeyHandler
	LogHandler     *handler.LogHandler
	StatsHandler   *handler.StatsHandler
}

type App struct {
	Cfg        *config.Config
	Log        *zap.Logger
	Repository *Repository
	Service    *Service
	Handler    *Handler
	RDB        redis.Redis
	HTTPServer server.HTTPServer
}

func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	rdb, store, storeMode := initStore(log, cfg)

	llm, err := openai.New(&openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Timeout: cfg.OpenAI.Timeout,
	}, nil)
	if err != nil {
		log.Error("Failed to initialize openai client", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize openai client: %w", err)
	}

	repo := initRepository(log, store)

	svc := initService(log, cfg, repo, llm, store, storeMode)

	hdl := initHandler(log, cfg, svc)

	httpServer := initHTTPServer(log, cfg, hdl)

	return &App{
		Cfg:        cfg,
		Log:        log,
		Repository: repo,
		Service:    svc,
		Handler:    hdl,
		RDB:        rdb,
		HTTPServer: httpServer,
	}, nil
}

func MustNew(cfg *config.Config, log *zap.Logger) *App {
	app, err := New(cfg, log)
	if err != nil {
		panic(err)
	}

	return app
}

func (a *App) Run() error {
	return a.HTTPServer.Run()
}

func (a *App) Shutdown() error {
	err := apperrors.ErrShutdown

	if srvErr := a.HTTPServer.Shutdown(); srvErr != nil {
		err = fmt.Errorf("%w, failed to shutdown http server: %w", err, srvErr)
	}

	a.Log.Debug("Http server shutdown")

	// Let in-flight usage increments and log writes land before the
	// store goes away.
	a.Service.AuthorizerService.Flush()
	a.Log.Debug("Detached side effects flushed")

	if a.RDB != nil {
		if rdbErr := a.RDB.Close(); rdbErr != nil {
			err = fmt.Errorf("%w, failed to close RDB: %w", err, rdbErr)
		}

		a.Log.Debug("Redis closed")
	}

	if !errors.Is(err, apperrors.ErrShutdown) {
		return err
	}

	return nil
}

// initStore connects to redis when enabled; any failure falls back to
// the in-memory store so the service always comes up.
func initStore(log *zap.Logger, cfg *config.Config) (redis.Redis, repository.Store, string) {
	if !cfg.Redis.Enable {
		log.Info("Redis disabled, using in-memory store")
		return nil, repository.NewMemoryStore(), storeModeMemory
	}

	rdb, err := redis.New(&redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory store", zap.Error(err))
		return nil, repository.NewMemoryStore(), storeModeMemory
	}

	log.Debug("Redis initialized")

	return rdb, repository.NewRedisStore(rdb.Client()), storeModeRedis
}

func initRepository(log *zap.Logger, store repository.Store) *Repository {
	authKeyRepo := repository.NewAuthKeyRepository(store)
	log.Debug("Auth key repository initialized")

	logRepo := repository.NewLogRepository(store)
	log.Debug("Log repository initialized")

	return &Repository{
		AuthKeyRepository: authKeyRepo,
		LogRepository:     logRepo,
	}
}

func initService(
	log *zap.Logger,
	cfg *config.Config,
	repo *Repository,
	llm openai.Client,
	store repository.Store,
	storeMode string,
) *Service {
	healthSvc := service.NewHealthService(log, store, storeMode, cfg.OpenAI.APIKey != "")
	log.Debug("Health service initialized")

	authKeySvc := service.NewAuthKeyService(log, repo.AuthKeyRepository, cfg.Auth.KeyPrefix)
	log.Debug("Auth key service initialized")

	logSvc := service.NewLogService(log, repo.LogRepository, cfg.Logs.Retention, cfg.Logs.Timezone)
	log.Debug("Log service initialized")

	authorizerSvc := service.NewAuthorizerService(log, repo.AuthKeyRepository, logSvc, cfg.Auth.AllowList)
	log.Debug("Authorizer service initialized")

	interpreterSvc := service.NewInterpreterService(log, llm, service.InterpreterConfig{
		DefaultModel: cfg.OpenAI.DefaultModel,
		PremiumModel: cfg.OpenAI.PremiumModel,
		Temperature:  *cfg.OpenAI.Temperature,
		MaxTokens:    cfg.OpenAI.MaxTokens,
		BatchTokens:  cfg.OpenAI.BatchTokens,
	})
	log.Debug("Interpreter service initialized")

	statsSvc := service.NewStatsService(log, repo.LogRepository, repo.AuthKeyRepository)
	log.Debug("Stats service initialized")

	return &Service{
		HealthService:      healthSvc,
		AuthKeyService:     authKeySvc,
		LogService:         logSvc,
		AuthorizerService:  authorizerSvc,
		InterpreterService: interpreterSvc,
		StatsService:       statsSvc,
	}
}

func initHandler(log *zap.Logger, cfg *config.Config, svc *Service) *Handler {
	healthHandler := handler.NewHealthHandler(log, svc.HealthService)
	log.Debug("Health handler initialized")

	commandHandler := handler.NewCommandHandler(log, svc.InterpreterService, svc.AuthorizerService, cfg.OpenAI.APIKey != "")
	log.Debug("Command handler initialized")

	authKeyHandler := handler.NewAuthKeyHandler(log, svc.AuthKeyService)
	log.Debug("Auth key handler initialized")

	logHandler := handler.NewLogHandler(log, svc.LogService)
	log.Debug("Log handler initialized")

	statsHandler := handler.NewStatsHandler(log, svc.StatsService)
	log.Debug("Stats handler initialized")

	return &Handler{
		HealthHandler:  healthHandler,
		CommandHandler: commandHandler,
		AuthKeyHandler: authKeyHandler,
		LogHandler:     logHandler,
		StatsHandler:   statsHandler,
	}
}

func initHTTPServer(log *zap.Logger, cfg *config.Config, hdl *Handler) server.HTTPServer {
	router := route.SetupRouter(
		log,
		cfg,
		hdl.HealthHandler,
		hdl.CommandHandler,
		hdl.AuthKeyHandler,
		hdl.LogHandler,
		hdl.StatsHandler,
	)

	httpServer := server.NewHTTPServer(
		server.WithAddr(cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		server.WithTimeout(cfg.HTTPServer.Timeout.Read, cfg.HTTPServer.Timeout.Write, cfg.HTTPServer.Timeout.Idle),
		server.WithHandler(router),
	)

	return httpServer
}
