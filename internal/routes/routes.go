package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	"github.com/BruksfildServices01/tenant-scheduler/internal/auth"
	"github.com/BruksfildServices01/tenant-scheduler/internal/config"
	"github.com/BruksfildServices01/tenant-scheduler/internal/handlers"
	"github.com/BruksfildServices01/tenant-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/tenant-scheduler/internal/logger"
	"github.com/BruksfildServices01/tenant-scheduler/internal/middleware"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
	ucAccount "github.com/BruksfildServices01/tenant-scheduler/internal/usecase/account"
	ucAppointment "github.com/BruksfildServices01/tenant-scheduler/internal/usecase/appointment"
)

// Deps are the process singletons the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Log      *zap.Logger
	Repos    repository.Set
	Tokens   *auth.TokenIssuer
	Notifier ucAppointment.Notifier
	Auditor  ucAppointment.Auditor

	// Emails may be nil to skip the registration MX check.
	Emails ucAccount.EmailChecker

	// Limiter guards booking, slot search and the auth endpoints.
	Limiter middleware.Limiter

	Ping handlers.Pinger
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// 🌍 GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestID(),
		logger.Middleware(d.Log),
		middleware.Metrics(),
		middleware.CORSMiddleware(d.Config.CORSAllowedOrigins),
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	policy := d.Config.Policy

	authHandler := handlers.NewAuthHandler(d.Repos.Accounts, d.Tokens, d.Emails, d.Notifier, d.Auditor)
	publicHandler := handlers.NewPublicHandler(d.Repos.Accounts, d.Repos.Catalog)
	meHandler := handlers.NewMeHandler(d.Repos.Appointments)
	appointmentHandler := handlers.NewAppointmentHandler(d.Repos.Appointments, d.Notifier, d.Auditor, policy)
	blockHandler := handlers.NewBlockHandler(d.Repos.Blocks, d.Auditor)
	serviceHandler := handlers.NewServiceHandler(d.Repos.Catalog, d.Auditor)
	workerHandler := handlers.NewWorkerHandler(d.Repos.Catalog, d.Repos.Accounts, d.Auditor)
	businessHandler := handlers.NewBusinessHandler(d.Repos.Catalog, d.Auditor)
	auditLogsHandler := handlers.NewAuditLogsHandler(audit.New(d.Repos.Audit))
	healthHandler := handlers.NewHealthHandler(d.Ping)

	limit := func(route string) gin.HandlerFunc {
		return middleware.RateLimit(d.Limiter, route)
	}

	staff := middleware.RequireRole(models.RoleAdmin, models.RoleWorker)
	admin := middleware.RequireRole(models.RoleAdmin)
	client := middleware.RequireRole(models.RoleUser)

	// ======================================================
	// 🩺 OPS
	// ======================================================
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 PUBLIC
		// ------------------------------
		api.POST("/auth/register", limit("auth"), authHandler.Register)
		api.POST("/auth/login", limit("auth"), authHandler.Login)

		api.GET("/businesses/:slug", publicHandler.Business)
		api.POST("/businesses/:slug/clients", limit("auth"), authHandler.Signup)
		api.POST("/businesses/:slug/clients/login", limit("auth"), authHandler.ClientLogin)

		// ------------------------------
		// 🔐 AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Tokens))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/appointments", client, appointmentHandler.Mine)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", middleware.RequireRole(models.RoleUser, models.RoleAdmin), limit("booking"), appointmentHandler.Create)
			secured.GET("/appointments/slots", limit("slots"), appointmentHandler.Slots)
			secured.GET("/appointments/availability", limit("slots"), appointmentHandler.Availability)
			secured.GET("/appointments/day", staff, appointmentHandler.Day)
			secured.GET("/appointments/stats", admin, appointmentHandler.Stats)
			secured.PATCH("/appointments/:id/status", admin, appointmentHandler.ChangeStatus)
			secured.PATCH("/appointments/:id/cancel", client, appointmentHandler.Cancel)

			// ------------------------------
			// BLOCKS
			// ------------------------------
			secured.POST("/blocks", admin, blockHandler.Create)
			secured.GET("/blocks", admin, blockHandler.List)
			secured.PATCH("/blocks/:id", admin, blockHandler.Update)
			secured.DELETE("/blocks/:id", admin, blockHandler.Deactivate)

			// ------------------------------
			// CATALOG
			// ------------------------------
			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", admin, serviceHandler.Create)
			secured.PATCH("/services/:id", admin, serviceHandler.Update)

			secured.GET("/workers", workerHandler.List)
			secured.POST("/workers", admin, workerHandler.Create)

			secured.GET("/business", businessHandler.Get)
			secured.PATCH("/business", admin, businessHandler.Update)
			secured.PUT("/business/hours", admin, businessHandler.ReplaceHours)

			secured.GET("/audit-logs", admin, auditLogsHandler.List)
		}
	}
}
