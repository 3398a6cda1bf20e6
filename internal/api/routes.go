package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with the middleware stack and routes.
func NewRouter(handler *Handler, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(handler.logger))
	router.Use(cors.New(corsConfig(allowedOrigins)))

	SetupRoutes(router, handler)
	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "PUT", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	origins := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
		if o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)

		api.GET("/projects", handler.SearchProjects)
		api.GET("/zones", handler.GetZones)
		api.GET("/categories", handler.GetCategories)
		api.GET("/periods", handler.GetPeriods)

		api.GET("/records", handler.SearchRecords)
		api.GET("/records/map", handler.RecordMap)
		api.GET("/records/:id", handler.GetRecord)
		api.PUT("/records/:id", handler.UpdateRecord)

		api.GET("/units/catalogs", handler.GetUnitCatalogs)
		api.GET("/units", handler.SearchUnits)
		api.GET("/units/:unitId", handler.GetUnit)
		api.PATCH("/units/:unitId", handler.PatchUnit)
	}
}
