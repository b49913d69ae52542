// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"concordia/internal/delivery/http/middleware"
	"concordia/internal/delivery/http/router/handler"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	StudentHandler *handler.StudentHandler
	BundleHandler  *handler.BundleHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	studentHandler *handler.StudentHandler
	bundleHandler  *handler.BundleHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		studentHandler: params.StudentHandler,
		bundleHandler:  params.BundleHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api")
	api.GET("/ping", handler.Ping)

	// Public auth routes
	api.POST("/register", r.authHandler.Register)
	api.POST("/login", r.authHandler.Login)
	api.POST("/google-login", r.authHandler.GoogleLogin)

	api.GET("/verify-token", r.authHandler.VerifyToken, r.authMiddleware.Authenticate)

	students := api.Group("/students", r.authMiddleware.Authenticate)
	{
		students.GET("", r.studentHandler.ListStudents)
		students.POST("", r.studentHandler.AddStudent)
		// Registered before /:sid so they are not taken for a sid.
		students.POST("/import", r.studentHandler.ImportStudents)
		students.GET("/export", r.studentHandler.ExportStudents)
		students.PUT("/:sid", r.studentHandler.ReplaceStudent)
		students.DELETE("/:sid", r.studentHandler.RemoveStudent)
	}

	bundle := api.Group("/bundle", r.authMiddleware.Authenticate)
	bundle.POST("/normalize", r.bundleHandler.Normalize)
}
