package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cogitex/rfbooking/app"
	"github.com/cogitex/rfbooking/controllers"
	"github.com/cogitex/rfbooking/jobs"
)

func RegisterRoutes(r *gin.Engine, a *app.App, runner *jobs.Runner) {
	s := controllers.GetSrv(a)
	authCtl := controllers.GetAuthController(s)
	bookingCtl := controllers.GetBookingController(s)
	equipCtl := controllers.GetEquipmentController(s)
	aiCtl := controllers.GetAssistantController(s)
	userCtl := controllers.GetUserController(s)
	reportsCtl := controllers.GetReportsController(s)
	cronCtl := controllers.GetCronController(s, runner)

	authMW := app.AuthRequired(s.AppSess, s.Repo)
	adminMW := app.AdminOnly()
	managerMW := app.ManagerOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// Auth (public + protected)
	// ------------------------------
	auth := r.Group("/auth")
	{
		auth.POST("/request-link", authCtl.RequestLink)
		auth.POST("/verify", authCtl.Verify)
	}
	authed := auth.Group("", authMW, seenMW)
	{
		authed.GET("/whoami", authCtl.Whoami)
		authed.POST("/logout", authCtl.Logout)
	}

	// ------------------------------
	// Equipment: browsing for everyone, CRUD for admins
	// ------------------------------
	equip := r.Group("/api/equipment", authMW, seenMW)
	{
		equip.GET("", equipCtl.List)
		equip.GET("/:id", equipCtl.Get)
		equip.GET("/:id/availability", bookingCtl.Availability)
	}
	equipAdmin := r.Group("/api/equipment", authMW, adminMW)
	{
		equipAdmin.POST("", equipCtl.Create)
		equipAdmin.PUT("/:id", equipCtl.Update)
		equipAdmin.DELETE("/:id", equipCtl.Delete)
		equipAdmin.GET("/:id/managers", equipCtl.ListManagers)
		equipAdmin.POST("/:id/managers", equipCtl.AssignManager)
		equipAdmin.DELETE("/:id/managers/:userId", equipCtl.UnassignManager)
	}

	// ------------------------------
	// Bookings
	// ------------------------------
	bookings := r.Group("/api/bookings", authMW, seenMW)
	{
		bookings.GET("", bookingCtl.List) // ?userId=&equipmentId=&status=&page=&size=
		bookings.POST("", bookingCtl.Create)
		bookings.GET("/:id", bookingCtl.Get)
		bookings.PUT("/:id", bookingCtl.Update)
		bookings.POST("/:id/cancel", bookingCtl.Cancel)
	}

	// ------------------------------
	// Assistant
	// ------------------------------
	ai := r.Group("/api/ai", authMW, seenMW)
	{
		ai.POST("/analyze", aiCtl.Analyze)
	}
	aiAdmin := r.Group("/api/ai", authMW, adminMW)
	{
		aiAdmin.POST("/chat", aiCtl.Chat)
		aiAdmin.GET("/usage", aiCtl.Usage)
		aiAdmin.GET("/logs", aiCtl.Logs)
	}

	// ------------------------------
	// User management (admins), cron status (managers)
	// ------------------------------
	users := r.Group("/api/users", authMW, adminMW)
	{
		users.GET("", userCtl.ListUsers) // ?q=&page=&size=
		users.POST("", userCtl.CreateUser)
		users.GET("/:id", userCtl.GetUser)
		users.PUT("/:id/role", userCtl.SetRole)
		users.PUT("/:id/active", userCtl.SetActive)
		users.DELETE("/:id", userCtl.DeleteUser)
	}

	reportsGrp := r.Group("/api/reports", authMW, managerMW)
	{
		reportsGrp.GET("/bookings", reportsCtl.BookingStats)
		reportsGrp.GET("/equipment-usage", reportsCtl.EquipmentUsage)
		reportsGrp.GET("/user-activity", reportsCtl.UserActivity)
	}

	cronGrp := r.Group("/api/cron", authMW, managerMW)
	{
		cronGrp.GET("/jobs", cronCtl.ListJobs)
	}
	cronAdmin := r.Group("/api/cron", authMW, adminMW)
	{
		cronAdmin.POST("/jobs/:key/run", cronCtl.RunJob)
	}
}
