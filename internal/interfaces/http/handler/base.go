// Package handler exposes the export pipeline over HTTP.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopfront/exporter/internal/domain/shared"
	"github.com/shopfront/exporter/internal/infrastructure/artifact"
	"github.com/shopfront/exporter/internal/infrastructure/capture"
	"github.com/shopfront/exporter/internal/interfaces/http/dto"
)

// domainCodeStatus maps domain error codes to HTTP status codes
var domainCodeStatus = map[string]int{
	"NOT_FOUND":            http.StatusNotFound,
	"UNAUTHORIZED":         http.StatusUnauthorized,
	"INVALID_INPUT":        http.StatusBadRequest,
	"INVALID_PAPER_SIZE":   http.StatusBadRequest,
	"INVALID_ORIENTATION":  http.StatusBadRequest,
	"INVALID_MARGIN":       http.StatusBadRequest,
	"INVALID_FILE_NAME":    http.StatusBadRequest,
	"INVALID_STATE":        http.StatusConflict,
	"UPSTREAM_UNAVAILABLE": http.StatusBadGateway,
}

// respondError translates pipeline errors into the wire format
func respondError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status, ok := domainCodeStatus[domainErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		c.JSON(status, dto.NewErrorResponse(domainErr.Code, domainErr.Message))
		return
	}

	var captureErr *capture.CaptureError
	if errors.As(err, &captureErr) {
		status := http.StatusInternalServerError
		if captureErr.Code == capture.ErrCodeCaptureTimeout {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, dto.NewErrorResponse(captureErr.Code, captureErr.Message))
		return
	}

	var assemblyErr *artifact.AssemblyError
	if errors.As(err, &assemblyErr) {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(assemblyErr.Code, assemblyErr.Message))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("INTERNAL", err.Error()))
}
