package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/middleware"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/services"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps are the collaborators the route table is built from.
type RouterDeps struct {
	Auth        *services.AuthService
	Users       *services.UserService
	Leaves      *services.LeaveService
	Advances    *services.AdvanceService
	DB          Pinger
	Logger      *slog.Logger
	CORSOrigins []string
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// NewRouter builds the gin engine with every route of the API.
func NewRouter(d RouterDeps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger), cors.New(corsConfig(d.CORSOrigins)))

	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := d.DB.PingContext(ctx); err != nil {
			logger.Error("health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := NewAuthHandler(d.Auth)
	userHandler := NewUserHandler(d.Users)
	leaveHandler := NewLeaveHandler(d.Leaves)
	advanceHandler := NewAdvanceHandler(d.Advances)

	// Public routes
	router.POST("/api/login", authHandler.Login)

	api := router.Group("/api")
	api.Use(middleware.Authenticate(d.Auth))
	managerOnly := middleware.ManagerOnly()
	{
		api.GET("/me", authHandler.Me)

		users := api.Group("/users")
		{
			users.PATCH("/change-password", authHandler.ChangePassword)
			users.GET("/me/salary/:month", userHandler.GetOwnSalary)

			users.GET("", managerOnly, userHandler.ListEmployees)
			users.POST("", managerOnly, userHandler.CreateEmployee)
			users.POST("/bulk-setup", managerOnly, userHandler.BulkSetup)
			users.GET("/:id", managerOnly, userHandler.GetEmployee)
			users.PUT("/:id", managerOnly, userHandler.UpdateEmployee)
			users.DELETE("/:id", managerOnly, userHandler.DeleteEmployee)
			users.PATCH("/:id/reset-password", managerOnly, userHandler.ResetPassword)
			users.GET("/:id/salary/:month", managerOnly, userHandler.GetSalary)
			users.GET("/:id/salaries", managerOnly, userHandler.GetSalaries)
			users.POST("/:id/salary", managerOnly, userHandler.SetSalary)
		}

		leaves := api.Group("/leave-requests")
		{
			leaves.POST("", leaveHandler.Create)
			leaves.GET("", leaveHandler.List)
			leaves.GET("/:id", leaveHandler.Get)
			leaves.PUT("/:id", leaveHandler.Update)
			leaves.PATCH("/:id/status", managerOnly, leaveHandler.SetStatus)
			leaves.DELETE("/:id", managerOnly, leaveHandler.Delete)
		}

		advances := api.Group("/advance-requests")
		{
			advances.POST("", advanceHandler.Create)
			advances.GET("", advanceHandler.List)
			advances.GET("/:id", advanceHandler.Get)
			advances.PUT("/:id", managerOnly, advanceHandler.Update)
			advances.PATCH("/:id/status", managerOnly, advanceHandler.SetStatus)
			advances.DELETE("/:id", managerOnly, advanceHandler.Delete)
		}
	}

	return router
}
