package common

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHttpResponseWriter_WriteErrorDiscardsPreviousContent(t *testing.T) {
	res := HttpResponseWriter{TraceID: "trace-1", StatusCode: http.StatusOK}
	require.NoError(t, res.WriteString(`{"partial":`))

	err := res.WriteError(&DetailedError{Status: http.StatusBadRequest, Code: "invalid_timezone", Message: "bad tz", InternalMessage: "secret"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "trace-1", res.Err.ID)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(res.WriteBuffer.String()), &body))
	assert.Equal(t, "invalid_timezone", body["code"])
	assert.Equal(t, "trace-1", body["id"])
	assert.NotContains(t, res.WriteBuffer.String(), "secret")
	assert.Equal(t, len(res.WriteBuffer.String()), res.Size)
}

func TestHttpResponseWriter_WriteErrorNil(t *testing.T) {
	res := HttpResponseWriter{}
	require.NoError(t, res.WriteError(nil))
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "unknown_error", res.Err.Code)
}

func TestHttpResponseWriter_WriteJSON(t *testing.T) {
	res := HttpResponseWriter{StatusCode: http.StatusOK}
	require.NoError(t, res.WriteJSON(http.StatusCreated, map[string]int{"id": 3}))
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.JSONEq(t, `{"id":3}`, res.WriteBuffer.String())

	res = HttpResponseWriter{StatusCode: http.StatusOK}
	require.NoError(t, res.WriteJSON(http.StatusOK, make(chan int)))
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "json_marshal_error", res.Err.Code)
}

func TestDetailedError_SetInternalMessage(t *testing.T) {
	base := DetailedError{Status: 500, Code: "data_store_error", Message: "internal server error"}
	withInternal := base.SetInternalMessage(errors.New("connection refused"))
	assert.Equal(t, "", base.InternalMessage)
	assert.Equal(t, "connection refused", withInternal.InternalMessage)
	assert.Equal(t, "data_store_error: connection refused", withInternal.Error())
}

func TestTimeIt(t *testing.T) {
	ctx := TimeItContext(context.Background())
	TimeIt(ctx, "fetch")
	TimeEnd(ctx, "fetch")
	TimeIt(ctx, "bucket")
	TimeEnd(ctx, "bucket")
	assert.Regexp(t, `^fetch:\d+ms bucket:\d+ms$`, TimeResults(ctx))
	assert.Equal(t, int64(0), TimeEnd(ctx, "never-started"))
}

func TestTimeIt_WithoutTimerContext(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		TimeIt(ctx, "fetch")
		assert.Equal(t, int64(0), TimeEnd(ctx, "fetch"))
		assert.Equal(t, "", TimeResults(ctx))
	})
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("6f1c1b5e-3f3c-4f63-9a41-5f0e7b3f1d2a"))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID(""))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"userID", "kind"}, "kind"))
	assert.False(t, Contains([]string{"userID"}, "kind"))
	assert.False(t, Contains(nil, "kind"))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SHAPE_LOGS_DOTENV_TEST=from-file\nSHAPE_LOGS_DOTENV_KEEP=from-file\n"), 0o600))
	t.Setenv("APP_ENV", "development")
	t.Setenv("SHAPE_LOGS_DOTENV_KEEP", "from-env")
	t.Cleanup(func() { os.Unsetenv("SHAPE_LOGS_DOTENV_TEST") })

	require.NoError(t, LoadDotEnv(envFile, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("SHAPE_LOGS_DOTENV_TEST"))
	assert.Equal(t, "from-env", os.Getenv("SHAPE_LOGS_DOTENV_KEEP"))
}

func TestLoadDotEnv_SkippedInProduction(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SHAPE_LOGS_DOTENV_PROD=loaded\n"), 0o600))
	t.Setenv("APP_ENV", "production")

	require.NoError(t, LoadDotEnv(envFile))
	_, present := os.LookupEnv("SHAPE_LOGS_DOTENV_PROD")
	assert.False(t, present)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("SHAPE_LOGS_TEST_VALUE", "")
	assert.Equal(t, "postgres", GetEnvDefault("SHAPE_LOGS_TEST_VALUE", "postgres"))
	t.Setenv("SHAPE_LOGS_TEST_VALUE", "mongo")
	assert.Equal(t, "mongo", GetEnvDefault("SHAPE_LOGS_TEST_VALUE", "postgres"))

	t.Setenv("SHAPE_LOGS_TEST_BOOL", "true")
	assert.True(t, GetEnvBool("SHAPE_LOGS_TEST_BOOL"))
	t.Setenv("SHAPE_LOGS_TEST_BOOL", "nope")
	assert.False(t, GetEnvBool("SHAPE_LOGS_TEST_BOOL"))
}
