package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marco0antonio0/back-makeapi/internal/metrics"
	"github.com/marco0antonio0/back-makeapi/internal/middleware"
	"github.com/marco0antonio0/back-makeapi/internal/services"
	"github.com/marco0antonio0/back-makeapi/internal/storage"
)

// Deps bundles everything the router needs.
type Deps struct {
	Endpoints  *services.EndpointService
	Items      *services.ItemService
	Auth       *services.AuthService
	Storage    *storage.Client
	CORSOrigin string
}

// NewRouter builds the gin engine with all routes mounted. Reads are
// public; writes require a bearer token.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS(d.CORSOrigin))
	r.Use(middleware.RateLimit(600, 100))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	endpointHandler := NewEndpointHandler(d.Endpoints)
	itemHandler := NewItemHandler(d.Items)
	authHandler := NewAuthHandler(d.Auth)
	storageHandler := NewStorageHandler(d.Storage)

	authGroup := r.Group("/auth")
	authGroup.Use(middleware.AuthRateLimit())
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", authHandler.Me)
	}

	guard := middleware.RequireAuth(d.Auth)

	endpoints := r.Group("/endpoint")
	{
		endpoints.GET("", endpointHandler.List)
		endpoints.GET("/:id", endpointHandler.Get)
		endpoints.POST("/query", endpointHandler.Query)
		endpoints.POST("", guard, endpointHandler.Create)
		endpoints.PATCH("/:id", guard, endpointHandler.Update)
		endpoints.DELETE("/:id", guard, endpointHandler.Delete)
	}

	items := r.Group("/itens")
	{
		items.GET("", itemHandler.List)
		items.GET("/:id", itemHandler.Get)
		items.POST("/query", itemHandler.Query)
		items.POST("", guard, itemHandler.Create)
		items.PATCH("/:id", guard, itemHandler.Update)
		items.DELETE("/:id", guard, itemHandler.Delete)
	}

	files := r.Group("/storage/:endpointId")
	{
		files.GET("", storageHandler.List)
		files.GET("/:key", storageHandler.Download)
		files.POST("", guard, storageHandler.Upload)
		files.DELETE("/:key", guard, storageHandler.Delete)
	}

	return r
}
