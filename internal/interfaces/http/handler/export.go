package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appexport "github.com/shopfront/exporter/internal/application/export"
	"github.com/shopfront/exporter/internal/infrastructure/logger"
	"github.com/shopfront/exporter/internal/interfaces/http/dto"
)

// ExportHandler handles document export requests
type ExportHandler struct {
	service *appexport.Service
}

// NewExportHandler creates a new export handler
func NewExportHandler(service *appexport.Service) *ExportHandler {
	return &ExportHandler{service: service}
}

// RegisterRoutes registers all export routes on the API group
func (h *ExportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("/:id/export", h.ExportOrder)
		orders.POST("/:id/print", h.PrintOrder)
	}

	export := rg.Group("/export")
	{
		export.POST("/html", h.ExportHTML)
		export.POST("/page", h.ExportPage)
		export.GET("/jobs", h.ListJobs)
		export.GET("/jobs/:id", h.GetJob)
		export.GET("/artifacts/*path", h.DownloadArtifact)
	}
}

// orderExportBody is the optional request body for order exports
type orderExportBody struct {
	FileName string                `json:"file_name"`
	Options  appexport.PageOptions `json:"options"`
}

// ExportOrder handles POST /api/v1/orders/:id/export
// The assembled PDF is returned as a download attachment.
func (h *ExportHandler) ExportOrder(c *gin.Context) {
	h.exportOrder(c, "attachment")
}

// PrintOrder handles POST /api/v1/orders/:id/print
// Same pipeline as ExportOrder, served inline for the browser print dialog.
func (h *ExportHandler) PrintOrder(c *gin.Context) {
	h.exportOrder(c, "inline")
}

func (h *ExportHandler) exportOrder(c *gin.Context, disposition string) {
	var body orderExportBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("INVALID_JSON", err.Error()))
			return
		}
	}

	result, err := h.service.ExportOrder(c.Request.Context(), appexport.ExportOrderRequest{
		OrderID:  c.Param("id"),
		FileName: body.FileName,
		Options:  body.Options,
	})
	if err != nil {
		logger.FromGin(c).Warn("order export failed",
			zap.String("order_id", c.Param("id")),
			zap.Error(err))
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, result.FileName))
	c.Header("X-Export-Job-ID", result.JobID)
	c.Header("X-Export-Pages", strconv.Itoa(result.Pages))
	c.Data(http.StatusOK, "application/pdf", result.PDF)
}

// ExportHTML handles POST /api/v1/export/html
func (h *ExportHandler) ExportHTML(c *gin.Context) {
	var req appexport.ExportHTMLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("INVALID_JSON", err.Error()))
		return
	}

	result, err := h.service.ExportHTML(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// ExportPage handles POST /api/v1/export/page
func (h *ExportHandler) ExportPage(c *gin.Context) {
	var req appexport.ExportPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("INVALID_JSON", err.Error()))
		return
	}

	result, err := h.service.ExportPage(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// GetJob handles GET /api/v1/export/jobs/:id
func (h *ExportHandler) GetJob(c *gin.Context) {
	view, err := h.service.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(view))
}

// ListJobs handles GET /api/v1/export/jobs
func (h *ExportHandler) ListJobs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	views, err := h.service.ListJobs(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(views, limit, offset, len(views)))
}

// DownloadArtifact handles GET /api/v1/export/artifacts/*path
func (h *ExportHandler) DownloadArtifact(c *gin.Context) {
	// gin wildcard params carry a leading slash
	path := strings.TrimPrefix(c.Param("path"), "/")
	reader, err := h.service.Artifact(c.Request.Context(), path)
	if err != nil {
		respondError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Type", "application/pdf")
	if _, err := io.Copy(c.Writer, reader); err != nil {
		logger.FromGin(c).Warn("artifact download interrupted", zap.Error(err))
	}
}

// Health handles GET /health
func (h *ExportHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
