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

type authIdentity struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type authMe struct {
	User authIdentity `json:"user"`
}

func writeUserError(res *common.HttpResponseWriter, err error) error {
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		return writeError(res, errorUserNotFound, err)
	case errors.Is(err, usecase.ErrInvalidLog):
		return writeError(res, errorInvalidParameter, err)
	default:
		return writeError(res, errorRunningQuery, err)
	}
}

// @Summary Get the profile of the caller
// @ID shape-logs-api-getme
// @Produce json
// @Success 200 {object} schema.User
// @Failure 404 {object} common.DetailedError
// @Security Auth0
// @Router /api/user/me [get]
func (a *API) getMe(ctx context.Context, res *common.HttpResponseWriter) error {
	user, err := a.users.GetUser(ctx, res.UserID)
	if err != nil {
		return writeUserError(res, err)
	}
	return res.WriteJSON(http.StatusOK, user)
}

// @Summary Create the profile of the caller from its token
// @Description Returns 201 when the profile is created, 200 when it already exists.
// @ID shape-logs-api-provisionme
// @Produce json
// @Success 200 {object} schema.User
// @Success 201 {object} schema.User
// @Security Auth0
// @Router /api/user/me [post]
func (a *API) provisionMe(ctx context.Context, res *common.HttpResponseWriter) error {
	user, created, err := a.users.Provision(ctx, res.UserID, res.UserName, res.UserEmail)
	if err != nil {
		return writeUserError(res, err)
	}
	if created {
		return res.WriteJSON(http.StatusCreated, user)
	}
	return res.WriteJSON(http.StatusOK, user)
}

// @Summary Update the profile and the settings of the caller
// @ID shape-logs-api-updateme
// @Accept json
// @Produce json
// @Success 200 {object} schema.User
// @Failure 400 {object} common.DetailedError
// @Failure 404 {object} common.DetailedError
// @Security Auth0
// @Router /api/user/me [put]
func (a *API) updateMe(ctx context.Context, res *common.HttpResponseWriter) error {
	var update schema.ProfileUpdate
	if err := json.Unmarshal(res.Body, &update); err != nil {
		return writeError(res, errorInvalidParameter, err)
	}
	user, err := a.users.UpdateUser(ctx, res.UserID, &update)
	if err != nil {
		return writeUserError(res, err)
	}
	return res.WriteJSON(http.StatusOK, user)
}

// @Summary Delete the caller, its settings and its logs
// @ID shape-logs-api-deleteme
// @Success 204
// @Failure 404 {object} common.DetailedError
// @Security Auth0
// @Router /api/user/me [delete]
func (a *API) deleteMe(ctx context.Context, res *common.HttpResponseWriter) error {
	if err := a.users.DeleteUser(ctx, res.UserID); err != nil {
		return writeUserError(res, err)
	}
	res.WriteHeader(http.StatusNoContent)
	return nil
}

// @Summary Get the identity carried by the token
// @ID shape-logs-api-getauthme
// @Produce json
// @Success 200
// @Security Auth0
// @Router /api/auth/me [get]
func (a *API) getAuthMe(ctx context.Context, res *common.HttpResponseWriter) error {
	return res.WriteJSON(http.StatusOK, authMe{User: authIdentity{
		ID:    res.UserID,
		Name:  res.UserName,
		Email: res.UserEmail,
	}})
}
