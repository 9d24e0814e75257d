package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/saralhq/admin-backend/internal/infra/config"
	"github.com/saralhq/admin-backend/internal/permissions"
	"github.com/saralhq/admin-backend/internal/transport/http/handlers"
	"github.com/saralhq/admin-backend/internal/transport/http/middleware"
	"github.com/saralhq/admin-backend/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth              *usecase.AuthService
	Authorization     *usecase.AuthorizationService
	Users             *usecase.UserService
	Roles             *usecase.RoleService
	Permissions       *usecase.PermissionService
	EfaConfigurations *usecase.EfaConfigurationService
	Files             *usecase.FileService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config    *config.AppConfig
	Logger    *zap.Logger
	Metrics   *middleware.HTTPMetrics
	Services  ServiceSet
	Database  DatabaseChecker
	Cache     CacheChecker
	UploadDir string
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware. Every
// administrative route sits behind authentication plus one permission key.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	requireAuth := middleware.RequireAuth(deps.Services.Auth)
	requires := func(permissionKey string) gin.HandlerFunc {
		return middleware.RequirePermission(deps.Services.Authorization, permissionKey)
	}

	healthChecks := make([]handlers.ReadinessCheck, 0, 2)
	if deps.Database != nil {
		healthChecks = append(healthChecks, handlers.ReadinessCheck{Name: "database", Probe: deps.Database.Ping})
	}
	if deps.Cache != nil {
		healthChecks = append(healthChecks, handlers.ReadinessCheck{Name: "redis", Probe: deps.Cache.HealthCheck})
	}

	healthHandler := handlers.NewHealthHandler(healthChecks...)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Services.Users, deps.Services.Authorization)

		authGroup := api.Group("/auth")
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", requireAuth, authHandler.Me)
		authGroup.POST("/password", requireAuth, authHandler.ChangePassword)
		authGroup.POST("/wizard/complete", requireAuth, authHandler.CompleteWizard)

		userHandler := handlers.NewUserHandler(deps.Services.Users)

		userGroup := api.Group("/users")
		userGroup.Use(requireAuth)
		userGroup.GET("", requires(permissions.UsersRead), userHandler.List)
		userGroup.GET("/:id", requires(permissions.UsersRead), userHandler.Get)
		userGroup.POST("", requires(permissions.UsersCreate), userHandler.Create)
		userGroup.PUT("/:id", requires(permissions.UsersUpdate), userHandler.Update)
		userGroup.PUT("/:id/roles", requires(permissions.UsersAssignRoles), userHandler.AssignRoles)

		roleHandler := handlers.NewRoleHandler(deps.Services.Roles)

		roleGroup := api.Group("/roles")
		roleGroup.Use(requireAuth)
		roleGroup.GET("", requires(permissions.RolesRead), roleHandler.List)
		roleGroup.GET("/:id", requires(permissions.RolesRead), roleHandler.Get)
		roleGroup.POST("", requires(permissions.RolesCreate), roleHandler.Create)
		roleGroup.PUT("/:id", requires(permissions.RolesUpdate), roleHandler.Update)
		roleGroup.DELETE("/:id", requires(permissions.RolesDelete), roleHandler.Delete)
		roleGroup.POST("/:id/permissions", requires(permissions.RolesGrant), roleHandler.GrantPermissions)
		roleGroup.DELETE("/:id/permissions", requires(permissions.RolesGrant), roleHandler.RevokePermissions)

		permissionHandler := handlers.NewPermissionHandler(deps.Services.Permissions)

		permissionGroup := api.Group("/permissions")
		permissionGroup.Use(requireAuth)
		permissionGroup.GET("", requires(permissions.PermissionsRead), permissionHandler.List)

		efaHandler := handlers.NewEfaConfigurationHandler(deps.Services.EfaConfigurations)

		efaGroup := api.Group("/efa-configurations")
		efaGroup.Use(requireAuth)
		efaGroup.GET("", requires(permissions.ConfigRead), efaHandler.List)
		efaGroup.POST("", requires(permissions.ConfigCreate), efaHandler.Create)
		efaGroup.POST("/bulk", requires(permissions.ConfigUpdate), efaHandler.BulkUpsert)
		efaGroup.PUT("/:id", requires(permissions.ConfigUpdate), efaHandler.Edit)
		efaGroup.DELETE("/:id", requires(permissions.ConfigDelete), efaHandler.Delete)

		fileHandler := handlers.NewFileHandler(deps.Services.Files, deps.UploadDir)

		fileGroup := api.Group("/files")
		fileGroup.Use(requireAuth)
		fileGroup.GET("", requires(permissions.FilesRead), fileHandler.List)
		fileGroup.GET("/:id", requires(permissions.FilesRead), fileHandler.Get)
		fileGroup.POST("", requires(permissions.FilesUpload), fileHandler.Upload)
		fileGroup.DELETE("/:id", requires(permissions.FilesDelete), fileHandler.Delete)
	}

	return r
}
