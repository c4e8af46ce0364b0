package api

import (
	"context"
	"log"
	"net/http"

	"github.com/mdblp/shape-logs/common"
	"github.com/mdblp/shape-logs/usecase"
)

type ExportController struct {
	logger   *log.Logger
	exporter ExporterUseCase
}

func NewExportController(logger *log.Logger, exporter ExporterUseCase) ExportController {
	return ExportController{
		logger:   logger,
		exporter: exporter,
	}
}

type exportStarted struct {
	Status string `json:"status"`
	Format string `json:"format"`
}

// ExportLogs
// @Summary Export the logs of the caller to S3.
// @Description Export every log of the authenticated user to a file stored on S3.
// This operation is asynchronous and returns 202 once the export is started.
// @ID shape-logs-export
// @Produce json
// @Success 202
// @Failure 401 {object} common.DetailedError
// @Param format query string false "json (default) or csv"
// @Param x-tidepool-trace-session header string false "Trace session uuid" format(uuid)
// @Security Auth0
// @Router /api/export/logs [get]
func (c ExportController) ExportLogs(ctx context.Context, res *common.HttpResponseWriter) error {
	format := res.URL.Query().Get("format")
	if format != usecase.ExportCSV {
		format = usecase.ExportJSON
	}
	args := usecase.ExportArgs{
		UserID:  res.UserID,
		TraceID: res.TraceID,
		Format:  format,
	}
	c.logger.Printf("{%s} %s export requested by %s", res.TraceID, format, res.UserID)
	go c.exporter.Export(args)
	return res.WriteJSON(http.StatusAccepted, exportStarted{Status: "started", Format: format})
}
