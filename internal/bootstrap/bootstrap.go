package bootstrap

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appClient "github.com/yigit/communityadmin/internal/app/client"
	appControllers "github.com/yigit/communityadmin/internal/app/controllers"
	appPages "github.com/yigit/communityadmin/internal/app/pages"
	appRoutes "github.com/yigit/communityadmin/internal/app/routes"
	"github.com/yigit/communityadmin/internal/config"
	appMiddleware "github.com/yigit/communityadmin/internal/middleware"
	"github.com/yigit/communityadmin/internal/pkg/logger"
	"github.com/yigit/communityadmin/internal/proxy"
	"github.com/yigit/communityadmin/internal/workspace"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Registry       *workspace.Registry
	Upstream       *proxy.Upstream
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// DefaultConfigPath is where the console looks for its config file
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	lgr.Info().Str("logLevel", logger.ParseLevel(cfg.Logging.Level).String()).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ClientOptions derives the upstream client options shared by every workspace
func ClientOptions(cfg *config.Config) appClient.Options {
	return appClient.Options{
		BaseURL:       cfg.UpstreamURL().String(),
		Timeout:       cfg.UpstreamTimeout(),
		RateLimit:     cfg.Upstream.RateLimit,
		Burst:         cfg.Upstream.Burst,
		TLSSkipVerify: cfg.Upstream.TLSSkipVerify,
		Retries:       2,
	}
}

// BuildDependencies initializes the workspace registry, upstream proxy and controllers.
func BuildDependencies(cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	clientOpts := ClientOptions(cfg)
	wsConfig := appPages.WorkspaceConfig{
		Client:       clientOpts,
		Location:     cfg.Location(),
		NoticeBuffer: cfg.Console.NoticeBuffer,
		Log:          logger.Component("workspace"),
	}

	registry, err := workspace.NewRegistry(cfg.Console.MaxWorkspaces, func(id string) (*appPages.Workspace, error) {
		return appPages.NewWorkspace(id, wsConfig)
	}, logger.Component("registry"))
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to create workspace registry")
		return nil, fmt.Errorf("failed to create workspace registry: %w", err)
	}
	deps.Registry = registry

	deps.Upstream = proxy.New(cfg.UpstreamURL(), cfg.Upstream.ProxiedPrefixes, nil, logger.Component("proxy"))
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(time.Now)

	controllerLog := logger.Component("controllers")
	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(controllerLog),
		Community:    appControllers.NewCommunityController(cfg.Console.PageSize),
		Modal:        appControllers.NewModalController(),
		Post:         appControllers.NewPostController(),
		Event:        appControllers.NewEventController(),
		Announcement: appControllers.NewAnnouncementController(),
		Notification: appControllers.NewNotificationController(),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(logger.Component("http")))

	workspaceMiddleware := appMiddleware.Workspace(deps.Registry, appMiddleware.WorkspaceOptions{
		Cookie: cfg.Console.SessionCookie,
		Secure: cfg.Console.SecureCookie,
		MaxAge: int(cfg.IdleTimeout().Seconds()),
	})
	appRoutes.SetupRouter(router, deps.Controllers, workspaceMiddleware, deps.AuthMiddleware)

	// Browser shell calls to the backend go straight through
	deps.Upstream.Mount(router)
	lgr.Info().Strs("prefixes", deps.Upstream.Prefixes()).Str("upstream", cfg.UpstreamURL().String()).Msg("Upstream proxy mounted")

	return router
}
