// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"yougotthis/internal/delivery/http/middleware"
	"yougotthis/internal/delivery/http/router/handler"
)

type RouterParams struct {
	fx.In

	AccountHandler  *handler.AccountHandler
	WellnessHandler *handler.WellnessHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler  *handler.AccountHandler
	wellnessHandler *handler.WellnessHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler:  params.AccountHandler,
		wellnessHandler: params.WellnessHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	// Backend mode routes
	e.GET("/mode", r.accountHandler.Mode)
	e.POST("/mode/guest", r.accountHandler.SetGuestMode)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.accountHandler.Register)
		authGroup.POST("/login", r.accountHandler.Login)
		authGroup.POST("/logout", r.accountHandler.Logout)
		authGroup.GET("/me", r.accountHandler.CurrentUser)
		authGroup.GET("/google", r.accountHandler.GoogleLogin)
	}

	// Wellness routes that require an active session
	wellnessGroup := e.Group("/wellness")
	wellnessGroup.Use(r.authMiddleware.Authenticate)
	{
		wellnessGroup.GET("/profile", r.wellnessHandler.GetProfile)
		wellnessGroup.PUT("/profile", r.wellnessHandler.SaveProfile)
		wellnessGroup.PATCH("/profile", r.wellnessHandler.UpdateProfile)

		wellnessGroup.GET("/goals/:period", r.wellnessHandler.GetGoals)
		wellnessGroup.PUT("/goals/:period", r.wellnessHandler.SaveGoals)

		wellnessGroup.POST("/workouts", r.wellnessHandler.AddWorkout)
		wellnessGroup.GET("/workouts", r.wellnessHandler.WorkoutHistory)

		wellnessGroup.POST("/weights", r.wellnessHandler.AddWeight)
		wellnessGroup.GET("/weights", r.wellnessHandler.WeightHistory)
		wellnessGroup.GET("/weights/monthly", r.wellnessHandler.MonthlyWeightAverages)

		wellnessGroup.GET("/dashboard", r.wellnessHandler.Dashboard)
	}
}
