package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/coop_payroll_app/cmd/docs"
	portssvc "github.com/SscSPs/coop_payroll_app/internal/core/ports/services"
	"github.com/SscSPs/coop_payroll_app/internal/middleware"
	"github.com/SscSPs/coop_payroll_app/internal/platform/config"
	"github.com/gin-gonic/gin"
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
		return fmt.Errorf("failed to register validators: %w", err)
	}

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api/v1")

	// Setup admin routes with Auth Middleware, passing service interfaces
	setupAdminRoutes(api, cfg, services)

	if err := setupCronRoutes(api, cfg, services); err != nil {
		return err
	}

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAdminRoutes applies the admin JWT middleware and delegates to specific entity route registrations
func setupAdminRoutes(api *gin.RouterGroup, cfg *config.Config, service *portssvc.ServiceContainer) {
	admin := api.Group("", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))

	registerMemberRoutes(admin, service.Member, service.Loan)
	registerLoanRoutes(admin, service.Loan)
	registerPayrollRoutes(admin, service.Payroll)
	registerVoucherRoutes(admin, service.Voucher)
}

// setupCronRoutes exposes the auto-post trigger to an external scheduler,
// behind its API key and a rate limit.
func setupCronRoutes(api *gin.RouterGroup, cfg *config.Config, service *portssvc.ServiceContainer) error {
	lim, err := middleware.NewRateLimiter(cfg.CronRateLimit)
	if err != nil {
		return fmt.Errorf("failed to create cron rate limiter: %w", err)
	}
	cron := api.Group("/cron", middleware.RateLimit(lim), middleware.CronKeyAuth(cfg.CronAPIKeyHash))
	registerCronRoutes(cron, service.Payroll, func() time.Time { return time.Now().UTC() })
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
