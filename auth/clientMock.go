package auth

import (
	"net/http"
)

type ClientMock struct {
	Unauthorized bool
	UserID       string
	IsServer     bool
	Name         string
	Email        string
}

func NewMock() *ClientMock {
	return &ClientMock{
		Unauthorized: false,
		UserID:       "123.456.789",
		IsServer:     false,
		Name:         "John Doe",
		Email:        "john.doe@example.com",
	}
}

func (client *ClientMock) Authenticate(req *http.Request) *TokenData {
	if client.Unauthorized {
		return nil
	}

	if req.Header.Get(SessionTokenHeader) != "" || req.Header.Get("authorization") != "" {
		return &TokenData{UserID: client.UserID, IsServer: client.IsServer, Name: client.Name, Email: client.Email}
	}
	return nil
}
