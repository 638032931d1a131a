package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	intelapp "github.com/splitfin/backend/internal/application/intelligence"
	"github.com/splitfin/backend/internal/domain/intelligence"
	"github.com/splitfin/backend/internal/infrastructure/export"
	"github.com/splitfin/backend/internal/interfaces/http/dto"
)

// Exporter renders listings as spreadsheets
type Exporter interface {
	ExportPopularity(ctx context.Context, q intelapp.PopularityQuery, format export.Format) (*intelapp.ExportFile, error)
	ExportReorder(ctx context.Context, q intelapp.ReorderQuery, format export.Format) (*intelapp.ExportFile, error)
}

var exportLimitRange = dto.IntRange{Default: intelligence.MaxExportLimit, Min: 1, Max: intelligence.MaxExportLimit}

// ExportHandler serves spreadsheet exports of the intelligence listings
type ExportHandler struct {
	BaseHandler
	exporter Exporter
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exporter Exporter) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// ExportPopularity godoc
// @ID           exportPopularity
// @Summary      Export the popularity ranking
// @Description  Accepts the popularity filters; limit may go up to 5000. With object storage configured the response carries a presigned link, otherwise the file is returned as an attachment.
// @Tags         intelligence
// @Produce      json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Param        format  query     string  false  "File format"  Enums(xlsx, csv)  default(xlsx)
// @Param        limit   query     int     false  "Rows (max 5000)"  default(5000)
// @Success      200     {object}  dto.Response{data=dto.ExportLink}
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      500     {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /popularity/export [get]
func (h *ExportHandler) ExportPopularity(c *gin.Context) {
	format, ok := h.format(c)
	if !ok {
		return
	}
	file, err := h.exporter.ExportPopularity(c.Request.Context(), parsePopularityQuery(c, exportLimitRange), format)
	h.respond(c, file, err)
}

// ExportReorderAlerts godoc
// @ID           exportReorderAlerts
// @Summary      Export the reorder alerts
// @Tags         intelligence
// @Produce      json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Param        format     query     string  false  "File format"  Enums(xlsx, csv)  default(xlsx)
// @Param        threshold  query     int     false  "Stock threshold (inclusive)"  default(10)
// @Param        limit      query     int     false  "Rows (max 5000)"  default(5000)
// @Success      200        {object}  dto.Response{data=dto.ExportLink}
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      500        {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /reorder-alerts/export [get]
func (h *ExportHandler) ExportReorderAlerts(c *gin.Context) {
	format, ok := h.format(c)
	if !ok {
		return
	}
	file, err := h.exporter.ExportReorder(c.Request.Context(), parseReorderQuery(c, exportLimitRange), format)
	h.respond(c, file, err)
}

func (h *ExportHandler) format(c *gin.Context) (export.Format, bool) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		h.ValidationFailed(c, err.Error())
		return "", false
	}
	return format, true
}

func (h *ExportHandler) respond(c *gin.Context, file *intelapp.ExportFile, err error) {
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if file.Uploaded() {
		h.Success(c, dto.ExportLink{Key: file.Key, URL: file.URL, ExpiresAt: file.ExpiresAt})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
