package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/tidepool-org/go-common/clients/status"

	"github.com/mdblp/shape-logs/auth"
	"github.com/mdblp/shape-logs/common"
	"github.com/mdblp/shape-logs/usecase"
)

type (
	// API struct for shape-logs
	API struct {
		exportController ExportController
		dayGrouper       DayGrouperUseCase
		logs             LogsUseCase
		users            UsersUseCase
		foodAnalyzer     FoodAnalyzerUseCase
		databaseAdapter  usecase.DatabaseAdapter
		authClient       auth.ClientInterface
		logger           *log.Logger
	}
)

const (
	// LogsAPIPrefix logging prefix
	LogsAPIPrefix = "api/logs "
)

var (
	errorStatusCheck      = common.DetailedError{Status: http.StatusInternalServerError, Code: "data_status_check", Message: "checking of the status endpoint showed an error"}
	errorUnauthorized     = common.DetailedError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "missing or invalid token"}
	errorRunningQuery     = common.DetailedError{Status: http.StatusInternalServerError, Code: "data_store_error", Message: "internal server error"}
	errorLoadingEvents    = common.DetailedError{Status: http.StatusInternalServerError, Code: "json_marshal_error", Message: "internal server error"}
	errorDataIntegrity    = common.DetailedError{Status: http.StatusInternalServerError, Code: "data_integrity_error", Message: "internal server error"}
	errorUserNotFound     = common.DetailedError{Status: http.StatusNotFound, Code: "user_not_found", Message: "no profile for this user"}
	errorInvalidTimezone  = common.DetailedError{Status: http.StatusBadRequest, Code: "invalid_timezone", Message: "invalid X-Timezone header, an IANA timezone name is expected"}
	errorInvalidParameter = common.DetailedError{Status: http.StatusBadRequest, Code: "invalid_parameters", Message: "one or more parameters are invalid"}
	errorUnknownLogKind   = common.DetailedError{Status: http.StatusNotFound, Code: "unknown_log_kind", Message: "log kind must be one of food, water, weight, exercise or sleep"}
	errorBodyTooLarge     = common.DetailedError{Status: http.StatusRequestEntityTooLarge, Code: "body_too_large", Message: "request body is too large"}
	errorMissingImage     = common.DetailedError{Status: http.StatusBadRequest, Code: "missing_image", Message: "a foodImage file is expected"}
	errorInvalidImage     = common.DetailedError{Status: http.StatusBadRequest, Code: "invalid_image", Message: "a jpeg or png image of at most 5 MiB is expected"}
	errorAnalyzerDisabled = common.DetailedError{Status: http.StatusServiceUnavailable, Code: "food_analysis_disabled", Message: "food analysis is not available"}
	errorAnalyzerFailure  = common.DetailedError{Status: http.StatusBadGateway, Code: "food_analysis_error", Message: "food analysis failed"}
)

func InitAPI(exportController ExportController, dayGrouper DayGrouperUseCase, logs LogsUseCase, users UsersUseCase, foodAnalyzer FoodAnalyzerUseCase, dbAdapter usecase.DatabaseAdapter, auth auth.ClientInterface, logger *log.Logger) *API {
	return &API{
		exportController: exportController,
		dayGrouper:       dayGrouper,
		logs:             logs,
		users:            users,
		foodAnalyzer:     foodAnalyzer,
		databaseAdapter:  dbAdapter,
		authClient:       auth,
		logger:           logger,
	}
}

// SetHandlers set the API routes
func (a *API) SetHandlers(prefix string, rtr *mux.Router) {
	rtr.HandleFunc(prefix+"/logs/by-day", a.middleware(a.getLogsByDay, true)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/logs/all", a.middleware(a.getAllLogs, true)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/logs/{kind}", a.middleware(a.createLog, true, "kind")).Methods(http.MethodPost)

	rtr.HandleFunc(prefix+"/user/me", a.middleware(a.getMe, true)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/user/me", a.middleware(a.provisionMe, true)).Methods(http.MethodPost)
	rtr.HandleFunc(prefix+"/user/me", a.middleware(a.updateMe, true)).Methods(http.MethodPut)
	rtr.HandleFunc(prefix+"/user/me", a.middleware(a.deleteMe, true)).Methods(http.MethodDelete)
	rtr.HandleFunc(prefix+"/auth/me", a.middleware(a.getAuthMe, true)).Methods(http.MethodGet)

	rtr.HandleFunc(prefix+"/food/analyze", a.middleware(a.analyzeFood, true)).Methods(http.MethodPost)
	rtr.HandleFunc(prefix+"/export/logs", a.middleware(a.exportController.ExportLogs, true)).Methods(http.MethodGet)

	rtr.HandleFunc("/status", a.getStatus).Methods(http.MethodGet)
	rtr.PathPrefix(prefix + "/").HandlerFunc(a.middleware(a.getNotFound, false))
}

func (a *API) getNotFound(ctx context.Context, res *common.HttpResponseWriter) error {
	res.WriteHeader(http.StatusNotFound)
	return nil
}

// @Summary Get the api status
// @Description Get the api status
// @ID shape-logs-api-getstatus
// @Produce json
// @Success 200 {object} status.ApiStatus
// @Failure 500 {object} status.ApiStatus
// @Router /status [get]
func (a *API) getStatus(res http.ResponseWriter, req *http.Request) {
	start := time.Now()
	var s status.ApiStatus
	if err := a.databaseAdapter.Ping(); err != nil {
		errorLog := errorStatusCheck.SetInternalMessage(err)
		a.logError(&errorLog, start)
		s = status.NewApiStatus(errorLog.Status, err.Error())
	} else {
		s = status.NewApiStatus(http.StatusOK, "OK")
	}
	if jsonDetails, err := json.Marshal(s); err != nil {
		a.jsonError(res, errorLoadingEvents.SetInternalMessage(err), start)
	} else {
		res.Header().Add("content-type", "application/json")
		res.WriteHeader(s.Status.Code)
		res.Write(jsonDetails)
	}
}

// log error detail and write as application/json
func (a *API) jsonError(res http.ResponseWriter, err common.DetailedError, startedAt time.Time) {
	a.logError(&err, startedAt)
	jsonErr, _ := json.Marshal(err)

	res.Header().Add("content-type", "application/json")
	res.WriteHeader(err.Status)
	res.Write(jsonErr)
}

func (a *API) logError(err *common.DetailedError, startedAt time.Time) {
	err.ID = uuid.New().String()
	a.logger.Println(LogsAPIPrefix, fmt.Sprintf("[%s][%s] failed after [%.3f]secs with error [%s][%s] ", err.ID, err.Code, time.Since(startedAt).Seconds(), err.Message, err.InternalMessage))
}

// writeError sends a copy of detailedErr, err is only kept for the access log
func writeError(res *common.HttpResponseWriter, detailedErr common.DetailedError, err error) error {
	if err != nil {
		detailedErr = detailedErr.SetInternalMessage(err)
	}
	return res.WriteError(&detailedErr)
}
