package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"workpulse/internal/access"
	"workpulse/internal/cache"
	"workpulse/internal/config"
	"workpulse/internal/middleware"
	"workpulse/internal/models"
	"workpulse/internal/repository"
	"workpulse/internal/service"
)

// Services are the access-core components served over HTTP.
type Services struct {
	// Credentials lets tenant-scoped handlers see who an email belongs to.
	Credentials *repository.CredentialRepository
	Clients     *service.ClientRegistry
	OTP         *service.OTPService
	Invites     *service.InviteRegistry
	Cooldown    cache.Cooldown
}

type HandlerSet struct {
	credentials *repository.CredentialRepository
	log         zerolog.Logger
	cfg         *config.AppConfig
	cache       *redis.Client
	clients     *service.ClientRegistry
	otp         *service.OTPService
	invites     *service.InviteRegistry
	cooldown    cache.Cooldown
}

// NewHandlerSet wires the handlers. cache may be nil when redis is disabled;
// a nil Cooldown falls back to an in-memory one.
func NewHandlerSet(log zerolog.Logger, redisClient *redis.Client, cfg *config.AppConfig, svc Services) HandlerSet {
	cooldown := svc.Cooldown
	if cooldown == nil {
		cooldown = cache.NewMemoryCooldown()
	}
	return HandlerSet{
		credentials: svc.Credentials,
		log:         log,
		cfg:         cfg,
		cache:       redisClient,
		clients:     svc.Clients,
		otp:         svc.OTP,
		invites:     svc.Invites,
		cooldown:    cooldown,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	v1.Use(middleware.Client(
		h.cfg.Security.ClientTokenSecret,
		h.cfg.Security.ClientTokenTTL,
		h.clients,
		h.log,
	))

	limited := middleware.RateLimit(h.cfg.RateLimit.PerSecond, h.cfg.RateLimit.Burst)

	auth := v1.Group("/auth")
	{
		auth.POST("/login", limited, h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/session", h.CurrentSession)
		auth.POST("/role", h.SwitchRole)
		auth.POST("/device", h.BindDevice)
	}

	v1.GET("/permissions", h.Permissions)
	v1.GET("/permissions/check", h.CheckPermissions)

	otp := v1.Group("/otp")
	{
		otp.POST("/send", limited, h.SendOTP)
		otp.POST("/verify", limited, h.VerifyOTP)
		otp.GET("/pending", h.PendingOTP)
	}

	invites := v1.Group("/invites")
	{
		manage := middleware.Guard(access.PermissionGate(models.PermManageInvites))
		invites.POST("", limited, manage, h.CreateInvite)
		invites.GET("", manage, h.ListInvites)
		invites.POST("/accept", limited, h.AcceptInvite)
	}

	v1.GET("/guard", h.Evaluate)

	owner := v1.Group("/owner")
	owner.Use(middleware.Guard(access.OwnerArea))
	owner.GET("/overview", h.OwnerOverview)

	dashboard := v1.Group("/dashboard")
	dashboard.Use(middleware.Guard(access.Chain(
		access.TenantArea,
		access.PermissionGate(models.PermViewDashboard),
	)))
	dashboard.GET("/overview", h.DashboardOverview)
}
