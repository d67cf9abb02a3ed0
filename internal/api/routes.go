package api

import (
	"github.com/chaudhryu/police-report-request-backend/internal/auth"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler, resolver *auth.Resolver) {
	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1 routes, all behind identity resolution
	v1 := router.Group("/api/v1")
	v1.Use(auth.Middleware(resolver))
	{
		v1.POST("/submissions", handler.CreateSubmission)
		v1.GET("/submissions", handler.ListSubmissions)
		v1.POST("/uploads", handler.CreateUploadURL)

		admin := v1.Group("")
		admin.Use(auth.RequireAdmin())
		{
			admin.GET("/submissions/:id", handler.GetSubmission)
			admin.POST("/submissions/:id/attachments", handler.AppendAttachments)
			admin.PUT("/submissions/:id/status", handler.SetStatus)
			admin.PUT("/users/:badge/admin", handler.SetAdmin)
			admin.GET("/dashboard/overview", handler.DashboardOverview)
			admin.GET("/dashboard/export", handler.DashboardExport)
		}
	}
}
