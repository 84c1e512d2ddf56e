package api

import (
	"net/http"
	"time"

	"care-recruitment-backend/config"
	"care-recruitment-backend/internal/delivery/http/middleware"
	"care-recruitment-backend/internal/delivery/http/response"
	"care-recruitment-backend/internal/domain"
	"care-recruitment-backend/internal/usecase"
	"care-recruitment-backend/pkg/logger"
	"care-recruitment-backend/pkg/security"
	"care-recruitment-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	UserUC      domain.UserUsecase
	IntakeUC    domain.IntakeUsecase
	TestUC      domain.TestUsecase
	AdminUC     domain.AdminUsecase
	AuthUC      domain.AuthUsecase
	HealthUC    usecase.HealthUsecase
	RateLimiter *middleware.RateLimiter
	Audit       *security.AuditLogger
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	cfg := deps.Config
	if deps.RateLimiter == nil {
		deps.RateLimiter = middleware.NewRateLimiter(nil, deps.Audit)
	}
	if deps.HealthUC == nil {
		deps.HealthUC = usecase.NewHealthUsecase(nil)
	}
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second

	r := gin.New()
	// ClientIP feeds the rate limiters, so forwarded headers are honoured
	// only from configured proxies.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Log.Warn("Invalid TRUSTED_PROXIES, trusting no proxy", "error", err)
		_ = r.SetTrustedProxies(nil)
	}
	// Uploads beyond this spill to temp files
	r.MaxMultipartMemory = 8 << 20

	// Global Middlewares
	r.Use(middleware.RequestID())
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL, cfg.IsProduction()))
	r.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))
	r.Use(middleware.ErrorHandler())

	api := r.Group("/api")

	// Health Check
	api.GET("/health", func(c *gin.Context) {
		report, healthy := deps.HealthUC.Check(c.Request.Context())
		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", report)
			return
		}
		response.Success(c, http.StatusOK, "System operational", report)
	})

	// Public routes
	NewUserHandler(api, deps.UserUC)
	NewApplicationHandler(api, deps.IntakeUC, cfg.MaxUploadBytes,
		deps.RateLimiter.Middleware(middleware.IntakeRateLimitConfig(cfg.RateLimitIntakeThreshold, window)))
	NewTestHandler(api, deps.TestUC)

	// Admin routes
	admin := api.Group("/admin")
	NewAuthHandler(admin, deps.AuthUC,
		deps.RateLimiter.Middleware(middleware.LoginRateLimitConfig(cfg.RateLimitLoginThreshold, window)))

	protected := admin.Group("")
	protected.Use(middleware.AdminAuthMiddleware(deps.AuthUC, deps.Audit))
	NewAdminHandler(protected, deps.AdminUC)

	// Swagger
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
