package routes

import (
	"github.com/Jubbyperson/nutrition-chatbot/config"
	"github.com/Jubbyperson/nutrition-chatbot/controllers"
	"github.com/Jubbyperson/nutrition-chatbot/metrics"
	"github.com/Jubbyperson/nutrition-chatbot/middlewares"
	"github.com/Jubbyperson/nutrition-chatbot/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	m := metrics.New()
	r.Use(m.Middleware())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	hub := services.NewRealtimeHub()
	services.InitAlertDeps(config.DB, hub)

	coachSvc := services.NewCoachService()
	progressSvc := services.NewProgressService(config.DB)
	tipCache := services.NewTipCache()

	logCtl := controllers.NewLogController(m)
	progressCtl := controllers.NewProgressController(progressSvc)
	coachCtl := controllers.NewCoachController(coachSvc, tipCache, m)
	alertCtl := controllers.NewAlertController(hub)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
	}

	// Protected user routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", controllers.GetProfile)
		user.PUT("/profile", controllers.UpdateProfile)
	}

	logs := r.Group("/logs")
	logs.Use(middlewares.AuthMiddleware())
	{
		logs.POST("", logCtl.SaveLog)
		logs.GET("", logCtl.ListLogs)
		logs.GET("/latest", logCtl.LatestLog)
		logs.DELETE("/:id", logCtl.DeleteLog)
	}

	progress := r.Group("/progress")
	progress.Use(middlewares.AuthMiddleware())
	{
		progress.GET("/summary", progressCtl.GetSummary)
		progress.GET("/weekly", progressCtl.GetWeeklyOverview)
	}

	coach := r.Group("/coach")
	coach.Use(middlewares.AuthMiddleware())
	{
		coach.GET("/advice", coachCtl.GetAdvice)
		coach.POST("/meal", coachCtl.SuggestMeal)
		coach.GET("/analysis", coachCtl.AnalyzeProgress)
		coach.GET("/tip", coachCtl.GetQuickTip)
		coach.GET("/ws", coachCtl.CoachWS)
	}

	alerts := r.Group("/alerts")
	alerts.Use(middlewares.AuthMiddleware())
	{
		alerts.GET("", alertCtl.ListAlerts)
		alerts.GET("/ws", alertCtl.AlertsWS)
	}

	export := r.Group("/export")
	export.Use(middlewares.AuthMiddleware())
	{
		export.GET("/logs", controllers.ExportLogs)
	}

	return r
}
