package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/AnaEHC/app-semaforos/internal/config"
	"github.com/AnaEHC/app-semaforos/internal/http/handlers"
	"github.com/AnaEHC/app-semaforos/internal/http/middleware"
	"github.com/AnaEHC/app-semaforos/internal/service"
	"github.com/AnaEHC/app-semaforos/internal/session"

	_ "github.com/AnaEHC/app-semaforos/docs"
)

func Router(cfg config.Config, svc *service.Service, sessions session.Store, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Admin-Key", "X-Request-Id", handlers.SessionIDHeader},
		ExposeHeaders:    []string{"X-Request-Id", handlers.SessionIDHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Service:   svc,
		Sessions:  sessions,
		Validator: validator.New(),
		Logger:    logger,
		AdminKey:  cfg.AdminKey,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/sources", h.SourcesList)
		api.GET("/sources/:label", h.SourceView)
		api.GET("/redlist", h.RedList)
		api.GET("/assignments", h.TrackingList)
		api.GET("/assignments/report", h.Report)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/assignments/commit", h.CommitAssignments)
		admin.PUT("/assignments", h.TrackingSave)
		admin.POST("/assignments/delete", h.TrackingDelete)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
