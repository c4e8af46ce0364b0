package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mdblp/shape-logs/common"
	"github.com/mdblp/shape-logs/schema"
)

func storedUser() *schema.User {
	return &schema.User{
		ID:            testUserID,
		Name:          "John Doe",
		Email:         "john.doe@example.com",
		ActivityLevel: schema.DefaultActivityLevel,
		Settings:      schema.DefaultSettings(),
		CreatedAt:     testNow.Add(-24 * time.Hour),
		UpdatedAt:     testNow.Add(-24 * time.Hour),
	}
}

func decodeUser(t *testing.T, response []byte) schema.User {
	t.Helper()
	var user schema.User
	require.NoError(t, json.Unmarshal(response, &user))
	return user
}

func TestGetMe(t *testing.T) {
	env := newTestEnv()
	env.userRepo.On("GetUser", mock.Anything, testUserID).Return(storedUser(), nil)

	response := env.serve(authRequest(http.MethodGet, "/api/user/me", ""))

	require.Equal(t, http.StatusOK, response.Code)
	user := decodeUser(t, response.Body.Bytes())
	assert.Equal(t, "John Doe", user.Name)
	require.NotNil(t, user.Settings)
	assert.Equal(t, schema.DefaultMeasurementUnit, user.Settings.MeasurementUnit)
}

func TestGetMe_NotFound(t *testing.T) {
	env := newTestEnv()
	env.userRepo.On("GetUser", mock.Anything, testUserID).Return(nil, common.ErrNotFound)

	response := env.serve(authRequest(http.MethodGet, "/api/user/me", ""))

	assert.Equal(t, http.StatusNotFound, response.Code)
	assert.Equal(t, "user_not_found", decodeError(t, response).Code)
}

func TestProvisionMe_NewUser(t *testing.T) {
	env := newTestEnv()
	env.userRepo.On("GetUser", mock.Anything, testUserID).Return(nil, common.ErrNotFound)
	env.userRepo.On("CreateUser", mock.Anything, mock.MatchedBy(func(user *schema.User) bool {
		return user.ID == testUserID && user.Name == "John Doe" && user.Email == "john.doe@example.com"
	})).Return(nil)

	response := env.serve(authRequest(http.MethodPost, "/api/user/me", ""))

	require.Equal(t, http.StatusCreated, response.Code)
	user := decodeUser(t, response.Body.Bytes())
	assert.Equal(t, testUserID, user.ID)
	assert.True(t, user.CreatedAt.Equal(testNow))
	env.userRepo.AssertExpectations(t)
}

func TestProvisionMe_ExistingUser(t *testing.T) {
	env := newTestEnv()
	env.userRepo.On("GetUser", mock.Anything, testUserID).Return(storedUser(), nil)

	response := env.serve(authRequest(http.MethodPost, "/api/user/me", ""))

	assert.Equal(t, http.StatusOK, response.Code)
	env.userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestProvisionMe_ConcurrentFirstVisit(t *testing.T) {
	env := newTestEnv()
	env.userRepo.On("GetUser", mock.Anything, testUserID).Return(nil, common.ErrNotFound).Once()
	env.userRepo.On("CreateUser", mock.Anything, mock.Anything).Return(common.ErrAlreadyExists).Once()
	env.userRepo.On("GetUser", mock.Anything, testUserID).Return(storedUser(), nil).Once()

	response := env.serve(authRequest(http.MethodPost, "/api/user/me", ""))

	require.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "John Doe", decodeUser(t, response.Body.Bytes()).Name)
	env.userRepo.AssertExpectations(t)
}

func TestProvisionMe_StoreError(t *testing.T) {
	env := newTestEnv()
	env.userRepo.On("GetUser", mock.Anything, testUserID).Return(nil, errors.New("db error: broken pipe"))

	response := env.serve(authRequest(http.MethodPost, "/api/user/me", ""))

	assert.Equal(t, http.StatusInternalServerError, response.Code)
	assert.Equal(t, "data_store_error", decodeError(t, response).Code)
}

func TestUpdateMe(t *testing.T) {
	env := newTestEnv()
	updated := storedUser()
	height := 180
	updated.HeightCm = &height
	updated.Settings.ThemePreference = "dark"
	env.userRepo.On("UpdateUser", mock.Anything, testUserID, mock.MatchedBy(func(update *schema.ProfileUpdate) bool {
		return update.HeightCm != nil && *update.HeightCm == 180 &&
			update.Settings != nil && update.Settings.ThemePreference != nil && *update.Settings.ThemePreference == "dark"
	}), mock.MatchedBy(func(now time.Time) bool {
		return now.Equal(testNow)
	})).Return(updated, nil)

	response := env.serve(authRequest(http.MethodPut, "/api/user/me", `{"heightCm":180,"settings":{"themePreference":"dark"}}`))

	require.Equal(t, http.StatusOK, response.Code)
	user := decodeUser(t, response.Body.Bytes())
	require.NotNil(t, user.HeightCm)
	assert.Equal(t, 180, *user.HeightCm)
	assert.Equal(t, "dark", user.Settings.ThemePreference)
}

func TestUpdateMe_Errors(t *testing.T) {
	testCases := []struct {
		name      string
		body      string
		errorCode string
	}{
		{name: "malformed body", body: `{"heightCm":`, errorCode: "invalid_parameters"},
		{name: "negative height", body: `{"heightCm":-3}`, errorCode: "invalid_parameters"},
		{name: "empty name", body: `{"name":""}`, errorCode: "invalid_parameters"},
		{name: "unknown theme", body: `{"settings":{"themePreference":"blue"}}`, errorCode: "invalid_parameters"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv()

			response := env.serve(authRequest(http.MethodPut, "/api/user/me", tc.body))

			assert.Equal(t, http.StatusBadRequest, response.Code)
			assert.Equal(t, tc.errorCode, decodeError(t, response).Code)
			env.userRepo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateMe_UnknownUser(t *testing.T) {
	env := newTestEnv()
	env.userRepo.On("UpdateUser", mock.Anything, testUserID, mock.Anything, mock.Anything).Return(nil, common.ErrNotFound)

	response := env.serve(authRequest(http.MethodPut, "/api/user/me", `{"onboarded":true}`))

	assert.Equal(t, http.StatusNotFound, response.Code)
}

func TestDeleteMe(t *testing.T) {
	env := newTestEnv()
	env.userRepo.On("DeleteUser", mock.Anything, testUserID).Return(nil)

	response := env.serve(authRequest(http.MethodDelete, "/api/user/me", ""))

	assert.Equal(t, http.StatusNoContent, response.Code)
	assert.Empty(t, response.Body.String())
	env.userRepo.AssertExpectations(t)
}

func TestDeleteMe_NotFound(t *testing.T) {
	env := newTestEnv()
	env.userRepo.On("DeleteUser", mock.Anything, testUserID).Return(common.ErrNotFound)

	response := env.serve(authRequest(http.MethodDelete, "/api/user/me", ""))

	assert.Equal(t, http.StatusNotFound, response.Code)
	assert.Equal(t, "user_not_found", decodeError(t, response).Code)
}

func TestGetAuthMe(t *testing.T) {
	env := newTestEnv()

	response := env.serve(authRequest(http.MethodGet, "/api/auth/me", ""))

	assert.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"user":{"id":"123.456.789","name":"John Doe","email":"john.doe@example.com"}}`, response.Body.String())
}
