package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookheaven-backend/internal/shared/middleware"
	"bookheaven-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
	)

	auth := middleware.AuthMiddleware(c.JWTManager)
	admin := middleware.AdminMiddleware()

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c.Config.App.Version, c.DB, c.Cache))

		setupSearchRoutes(v1, c)
		setupShelfRoutes(v1, c, auth)
		setupLikeRoutes(v1, c, auth)
		setupRatingRoutes(v1, c, auth)
		setupOrderRoutes(v1, c, auth)
		setupAdminRoutes(v1, c, auth, admin)
	}

	return router
}

// ========================================
// PUBLIC SEARCH ROUTES
// ========================================
func setupSearchRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/books", c.BookHandler.SearchBooks)
	v1.GET("/authors", c.AuthorHandler.SearchAuthors)
	v1.GET("/tags", c.TagHandler.SearchTags)
}

// ========================================
// SHELF ROUTES
// ========================================
func setupShelfRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	shelves := v1.Group("/shelves", auth)
	{
		shelves.GET("", c.ShelfHandler.ListShelves)
		shelves.PUT("", c.ShelfHandler.UpsertShelf)
		shelves.DELETE("/:id", c.ShelfHandler.DeleteShelf)
		shelves.POST("/items", c.ShelfHandler.AddItem)
		shelves.DELETE("/:id/items", c.ShelfHandler.RemoveItem)
		shelves.POST("/items/move", c.ShelfHandler.MoveItem)
		shelves.POST("/items/select", c.ShelfHandler.SelectShelf)
	}
}

// ========================================
// LIKE ROUTES
// ========================================
func setupLikeRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	likes := v1.Group("/likes", auth)
	{
		likes.GET("/:kind/:id", c.LikeHandler.GetStatus)
		likes.POST("/:kind/:id/toggle", c.LikeHandler.Toggle)
	}
}

// ========================================
// RATING ROUTES
// ========================================
func setupRatingRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	v1.GET("/works/:id/ratings", c.RatingHandler.ListByWork)
	v1.GET("/works/:id/ratings/statistics", c.RatingHandler.Statistics)

	ratings := v1.Group("/ratings", auth)
	{
		ratings.PUT("", c.RatingHandler.Upsert)
		ratings.DELETE("/:id", c.RatingHandler.Delete)
	}
}

// ========================================
// ORDER ROUTES
// ========================================
func setupOrderRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	orders := v1.Group("/orders", auth)
	{
		orders.GET("", c.OrderHandler.ListMyOrders)
		orders.POST("/:id/cancel", c.OrderHandler.CancelOrder)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container, auth, admin gin.HandlerFunc) {
	adminGroup := v1.Group("/admin", auth, admin)
	{
		adminGroup.GET("/orders", c.OrderHandler.ListAllOrders)
		adminGroup.POST("/likes/reconcile", c.LikeHandler.Reconcile)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================

// Pinger is satisfied by the database and the cache
type Pinger interface {
	Ping(ctx context.Context) error
}

func healthCheckHandler(version string, db, redis Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := func(p Pinger) string {
			if p == nil {
				return "disconnected"
			}
			if err := p.Ping(ctx); err != nil {
				return "error: " + err.Error()
			}
			return "ok"
		}

		dbStatus := status(db)
		redisStatus := status(redis)

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status":    http.StatusText(statusCode),
			"version":   version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"services": gin.H{
				"database": dbStatus,
				"redis":    redisStatus,
			},
		})
	}
}
