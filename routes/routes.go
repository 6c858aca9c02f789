package routes

import (
	"time"

	"pillflow-backend/config"
	"pillflow-backend/controllers"
	"pillflow-backend/metrics"
	"pillflow-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func SetupRouter(cfg *config.Config, ctl *controllers.Controller, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", config.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", config.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(config.RequestID())
	r.Use(config.PerformanceLogger(log))
	r.Use(metrics.Middleware())

	r.GET("/healthz", controllers.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware(cfg.JWTSecret))
	{
		api.GET("/me", ctl.GetMe)
		api.PUT("/me", ctl.UpdateMe)

		// Customer routes
		customers := api.Group("/customers")
		{
			customers.GET("", ctl.GetCustomers)
			customers.POST("", ctl.CreateCustomer)
			customers.GET("/:id", ctl.GetCustomer)
			customers.PUT("/:id", ctl.UpdateCustomer)
			customers.DELETE("/:id", ctl.DeleteCustomer)
			customers.GET("/:id/medications", ctl.GetCustomerMedications)
		}

		medications := api.Group("/medications")
		{
			medications.POST("", ctl.CreateMedication)
			medications.PUT("/:id", ctl.UpdateMedication)
			medications.DELETE("/:id", ctl.DeleteMedication)
			medications.POST("/:id/toggle", ctl.ToggleMedication)
		}

		team := api.Group("/team-members")
		{
			team.GET("", ctl.GetTeamMembers)
			team.POST("", ctl.CreateTeamMember)
			team.PUT("/:id", ctl.UpdateTeamMember)
			team.DELETE("/:id", ctl.DeleteTeamMember)
			team.POST("/:id/toggle", ctl.ToggleTeamMember)
		}

		packChecks := api.Group("/pack-checks")
		{
			packChecks.GET("", ctl.GetPackChecks)
			packChecks.POST("", ctl.CreatePackCheck)
			packChecks.GET("/exists", ctl.CheckPackExists)
		}

		scanOuts := api.Group("/scan-outs")
		{
			scanOuts.GET("", ctl.GetScanOuts)
			scanOuts.POST("", ctl.CreateScanOut)
			scanOuts.PUT("/:id/status", ctl.UpdateScanOutStatus)
		}

		api.GET("/dashboard", ctl.GetDashboardOverview)
		api.GET("/exports/history.xlsx", ctl.ExportHistory)
		api.GET("/changes", ctl.StreamChanges)
	}

	return r
}
