package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/audit"
	"github.com/BruksfildServices01/barber-agenda/internal/config"
	"github.com/BruksfildServices01/barber-agenda/internal/handlers"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barber-agenda/internal/usecase/appointment"
	ucCatalog "github.com/BruksfildServices01/barber-agenda/internal/usecase/catalog"
)

// Deps são os singletons montados no main.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config

	Engine  *ucAppointment.Engine
	Catalog *ucCatalog.Catalog

	AuditLogger     *audit.Logger
	AuditDispatcher *audit.Dispatcher

	Notifier    handlers.StatusSource
	RateCounter middleware.Counter
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(d.Config.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config, d.AuditDispatcher)
	publicHandler := handlers.NewPublicHandler(d.Engine, d.Catalog)
	appointmentHandler := handlers.NewAppointmentHandler(d.Engine)
	serviceHandler := handlers.NewServiceHandler(d.Catalog)
	reportHandler := handlers.NewReportHandler(d.Engine)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditLogger, d.Config.Shop.Timezone)
	notifierHandler := handlers.NewNotifierHandler(d.Notifier)

	limited := middleware.RateLimit(d.Config.Limit, d.RateCounter)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		api.GET("/services", publicHandler.ListServices)
		api.GET("/availability", publicHandler.Availability)

		api.POST("/appointments", limited, publicHandler.CreateAppointment)
		api.GET("/appointments/client/:dni", limited, publicHandler.ListByDni)
		api.PUT("/appointments/:id/reschedule", limited, publicHandler.Reschedule)
		api.PUT("/appointments/:id/cancel", limited, publicHandler.Cancel)

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/login", limited, authHandler.Login)

		// ------------------------------
		// 🔐 API ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(d.Config.JWTSecret))
		{
			admin.GET("/me", authHandler.Me)

			admin.GET("/appointments", appointmentHandler.List)
			admin.PUT("/appointments/:id/reschedule", appointmentHandler.Reschedule)
			admin.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			admin.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			admin.POST("/appointments/:id/notify", appointmentHandler.Notify)
			admin.POST("/appointments/:id/payment-link", appointmentHandler.PaymentLink)

			admin.GET("/services", serviceHandler.List)
			admin.POST("/services", serviceHandler.Create)
			admin.PATCH("/services/:id", serviceHandler.Update)
			admin.DELETE("/services/:id", serviceHandler.Delete)
			admin.PUT("/services/:id/image", serviceHandler.UploadImage)

			admin.GET("/reports/revenue", reportHandler.Revenue)
			admin.GET("/audit-logs", auditLogsHandler.List)
			admin.GET("/notifier/status", notifierHandler.Status)
		}
	}
}
