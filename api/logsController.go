package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mdblp/shape-logs/common"
	"github.com/mdblp/shape-logs/schema"
	"github.com/mdblp/shape-logs/usecase"
)

// TimezoneHeader carries the IANA timezone of the client
const TimezoneHeader = "X-Timezone"

const defaultTimezone = "UTC"

// unknownUser is the user of the empty bodies sent when the caller has no profile yet
type unknownUser struct {
	ID string `json:"id"`
}

type unknownUserLogsByDay struct {
	User      unknownUser      `json:"user"`
	LogsByDay schema.LogsByDay `json:"logsByDay"`
}

type unknownUserLogs struct {
	User unknownUser      `json:"user"`
	Logs *schema.UserLogs `json:"logs"`
}

// getLogsByDay
// @Summary Get the logs of the last 7 days grouped by local day
// @Description The days are computed in the timezone given by the X-Timezone header, UTC by default.
// An unknown user gets an empty result.
// @ID shape-logs-api-getlogsbyday
// @Produce json
// @Success 200 {object} schema.GroupedLogs
// @Failure 400 {object} common.DetailedError
// @Failure 401 {object} common.DetailedError
// @Failure 500 {object} common.DetailedError
// @Param X-Timezone header string false "IANA timezone name"
// @Param x-tidepool-trace-session header string false "Trace session uuid" format(uuid)
// @Security Auth0
// @Router /api/logs/by-day [get]
func (a *API) getLogsByDay(ctx context.Context, res *common.HttpResponseWriter) error {
	timezone := res.Header.Get(TimezoneHeader)
	if timezone == "" {
		timezone = defaultTimezone
	}

	grouped, err := a.dayGrouper.Run(ctx, res.UserID, timezone)
	switch {
	case err == nil:
		return res.WriteJSON(http.StatusOK, grouped)
	case errors.Is(err, usecase.ErrUserNotFound):
		a.logger.Printf("{%s} logs by day requested for unknown user %s", res.TraceID, res.UserID)
		return res.WriteJSON(http.StatusOK, unknownUserLogsByDay{
			User:      unknownUser{ID: res.UserID},
			LogsByDay: schema.LogsByDay{},
		})
	case errors.Is(err, usecase.ErrInvalidTimezone):
		return writeError(res, errorInvalidTimezone, err)
	case errors.Is(err, usecase.ErrMalformedLog):
		return writeError(res, errorDataIntegrity, err)
	default:
		return writeError(res, errorRunningQuery, err)
	}
}

// getAllLogs
// @Summary Get every log of the caller
// @ID shape-logs-api-getalllogs
// @Produce json
// @Success 200 {object} schema.AllLogs
// @Failure 401 {object} common.DetailedError
// @Failure 500 {object} common.DetailedError
// @Security Auth0
// @Router /api/logs/all [get]
func (a *API) getAllLogs(ctx context.Context, res *common.HttpResponseWriter) error {
	allLogs, err := a.logs.GetAllLogs(ctx, res.UserID)
	switch {
	case err == nil:
		return res.WriteJSON(http.StatusOK, allLogs)
	case errors.Is(err, usecase.ErrUserNotFound):
		a.logger.Printf("{%s} all logs requested for unknown user %s", res.TraceID, res.UserID)
		return res.WriteJSON(http.StatusOK, unknownUserLogs{
			User: unknownUser{ID: res.UserID},
			Logs: schema.NewUserLogs(),
		})
	default:
		return writeError(res, errorRunningQuery, err)
	}
}

// createLog
// @Summary Record a new log
// @ID shape-logs-api-createlog
// @Accept json
// @Produce json
// @Success 201
// @Failure 400 {object} common.DetailedError
// @Failure 404 {object} common.DetailedError
// @Param kind path string true "food, water, weight, exercise or sleep"
// @Security Auth0
// @Router /api/logs/{kind} [post]
func (a *API) createLog(ctx context.Context, res *common.HttpResponseWriter) error {
	entry, ok := usecase.NewLogEntry(res.VARS["kind"])
	if !ok {
		return writeError(res, errorUnknownLogKind, nil)
	}
	if err := json.Unmarshal(res.Body, entry); err != nil {
		return writeError(res, errorInvalidParameter, err)
	}

	created, err := a.logs.CreateLog(ctx, res.UserID, entry)
	switch {
	case err == nil:
		return res.WriteJSON(http.StatusCreated, created)
	case errors.Is(err, usecase.ErrInvalidLog):
		return writeError(res, errorInvalidParameter, err)
	default:
		return writeError(res, errorRunningQuery, err)
	}
}
