package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/interfaces/http/middleware"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/interfaces/http/router"
)

// PrintRoutes creates the route group for print-related endpoints
func PrintRoutes(handler *PrintHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("print", "/print")
	group.Use(authMiddleware)

	// Composition
	group.POST("/preview", handler.PreviewPDF)
	group.POST("/generate", middleware.IdempotencyKey(), handler.GeneratePDF)

	// Print jobs
	group.GET("/jobs", handler.ListJobs)
	group.GET("/jobs/:id", handler.GetJob)
	group.GET("/jobs/:id/download", handler.DownloadPDF)
	group.GET("/jobs/by-document/:doc_type/:document_number", handler.GetJobsByDocument)

	// Stored files behind the filesystem pdf_url
	group.GET("/files/*filepath", handler.ServeFile)

	// Reference data
	group.GET("/document-types", handler.GetDocumentTypes)
	group.GET("/paper-sizes", handler.GetPaperSizes)

	return group
}
