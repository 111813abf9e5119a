package handlers

import (
	"log/slog"

	"github.com/SscSPs/avec_backend/cmd/docs"
	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/middleware"
	"github.com/SscSPs/avec_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	if err := RegisterValidators(); err != nil {
		return err
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	loginLimiter, err := middleware.NewMemoryLimiter(cfg.LoginRateLimit)
	if err != nil {
		return err
	}
	registerAuthRoutes(r, services, middleware.RateLimit(loginLimiter))

	if err := setupAPIV1Routes(r, cfg, services); err != nil {
		return err
	}

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	apiLimiter, err := middleware.NewMemoryLimiter(cfg.APIRateLimit)
	if err != nil {
		return err
	}

	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret), middleware.GinMiddlewarize(apiLimiter))

	registerUserRoutes(v1, services.User)
	registerCycleRoutes(v1, services.Cycle)
	registerGroupRoutes(v1, services)
	registerFormationRoutes(v1, services.Formation)
	registerEvaluationRoutes(v1, services.Evaluation)
	registerTransactionRoutes(v1, services.Ledger)
	registerReportingRoutes(v1, services.Reporting)
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	slog.Debug("Serving swagger documentation", slog.String("path", "/swagger/index.html"))
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
