package router

import (
	"github.com/danisatya/asset-management-api/internal/application"
	"github.com/danisatya/asset-management-api/internal/container"
	pginfra "github.com/danisatya/asset-management-api/internal/infrastructure/postgres"
	handlers "github.com/danisatya/asset-management-api/internal/interface/http"
	"github.com/danisatya/asset-management-api/internal/router/modules"
	"github.com/danisatya/asset-management-api/pkg/cache"
)

type moduleDeps struct {
	Assets *application.AssetService
	Users  *application.UserService
}

func buildDeps() moduleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	assetRepo := pginfra.NewAssetRepository(container.GetPGPool())
	userRepo := pginfra.NewUserRepository(container.GetPGPool())

	listCache := cache.New(container.GetRedis(), logger)

	assets := application.NewAssetService(
		assetRepo,
		listCache,
		cfg.AssetListCacheTTL,
		container.GetVision(),
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetES(),
		cfg.ESAssetsIndex,
		logger,
	)

	// Interface fields must stay nil when the publisher was never built.
	var notifier application.Notifier
	if p := container.GetRabbitPub(); p != nil {
		notifier = p
	}

	users := application.NewUserService(
		userRepo,
		container.GetJWT(),
		notifier,
		logger,
	)

	return moduleDeps{Assets: assets, Users: users}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildDeps()
	jwt := container.GetJWT()

	assetHandler := handlers.NewAssetHandler(deps.Assets, container.GetLogger())
	authHandler := handlers.NewAuthHandler(deps.Users, container.GetLogger())
	emailHandler := handlers.NewEmailHandler(container.GetMailgun(), container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewAssetModule(assetHandler, deps.Users, jwt))
	r.Add(modules.NewEmailModule(emailHandler, deps.Users, jwt))
	r.Add(modules.NewDebugModule())
}
