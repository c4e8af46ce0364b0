package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/mdblp/shape-logs/common"
	"github.com/mdblp/shape-logs/schema"
)

type AllLogsGetter interface {
	GetAllLogs(ctx context.Context, userID string) (*schema.AllLogs, error)
}

const (
	ExportJSON = "json"
	ExportCSV  = "csv"
)

type ExportArgs struct {
	UserID  string
	TraceID string
	// Format is ExportJSON (default) or ExportCSV
	Format string
}

type Exporter struct {
	logger   *log.Logger
	uploader Uploader
	logs     AllLogsGetter
	clock    clockwork.Clock
}

func NewExporter(logger *log.Logger, logs AllLogsGetter, uploader Uploader, clock clockwork.Clock) Exporter {
	return Exporter{
		logger:   logger,
		uploader: uploader,
		logs:     logs,
		clock:    clock,
	}
}

// ExportFilename returns the object key of an export made at the clock time
func (e Exporter) ExportFilename(userID string, format string) string {
	exportTime := e.clock.Now().UTC().Format("20060102T150405Z")
	return strings.Join([]string{userID, exportTime}, "_") + "." + format
}

func encodeExport(allLogs *schema.AllLogs, format string) (*bytes.Buffer, error) {
	if format == ExportCSV {
		return logsToCsv(allLogs.Logs)
	}
	var buffer bytes.Buffer
	if err := json.NewEncoder(&buffer).Encode(allLogs); err != nil {
		return nil, err
	}
	return &buffer, nil
}

// Export writes every log of the user, as JSON or CSV, on the object storage.
// It runs detached from any request and only logs its failures.
func (e Exporter) Export(args ExportArgs) {
	e.logger.Printf("{%s} launching export process for user %s", args.TraceID, args.UserID)
	backgroundCtx := common.TimeItContext(context.Background())
	allLogs, err := e.logs.GetAllLogs(backgroundCtx, args.UserID)
	if err != nil {
		e.logger.Printf("{%s} get logs failed: %v", args.TraceID, err)
		return
	}
	format := args.Format
	if format != ExportCSV {
		format = ExportJSON
	}
	buffer, err := encodeExport(allLogs, format)
	if err != nil {
		e.logger.Printf("{%s} logs encoding failed: %v", args.TraceID, err)
		return
	}
	filename := e.ExportFilename(args.UserID, format)
	if err := e.uploader.Upload(backgroundCtx, filename, buffer); err != nil {
		e.logger.Printf("{%s} S3 upload failed: %v", args.TraceID, err)
		return
	}
	e.logger.Printf("{%s} upload of %s done with success", args.TraceID, filename)
}
