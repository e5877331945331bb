package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/atelier/internal/pkg/auth"
	"github.com/polkiloo/atelier/internal/server/http/handlers"
	"github.com/polkiloo/atelier/internal/server/http/middleware"
	"github.com/polkiloo/atelier/internal/worker"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CommissionFacade, sweeps worker.SweepRunner, strategy auth.TokenStrategy, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	orderHandler := handlers.NewOrderHandler(facade)
	progressHandler := handlers.NewProgressHandler(facade)
	sweepHandler := handlers.NewSweepHandler(sweeps)

	api := engine.Group("/api")

	// Scheduler entry point, no actor identity involved.
	api.POST("/sweep", sweepHandler.Run)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(strategy))

	authed.POST("/orders", orderHandler.Create)
	authed.GET("/orders/:id", orderHandler.Get)
	authed.GET("/orders/:id/progress", progressHandler.Get)

	customer := authed.Group("/customer")
	customer.Use(middleware.RequireRole(auth.RoleCustomer))
	customer.GET("/orders", orderHandler.CustomerList)

	producer := authed.Group("")
	producer.Use(middleware.RequireRole(auth.RoleProducer))
	producer.POST("/orders/:id/transition", orderHandler.Transition)
	producer.POST("/orders/:id/progress", progressHandler.Set)
	producer.GET("/producer/orders", orderHandler.ProducerList)
	producer.GET("/producer/orders/pending", orderHandler.PendingList)
	producer.GET("/producer/summary", orderHandler.Summary)

	return engine
}
