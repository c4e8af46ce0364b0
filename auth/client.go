package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
)

// SessionTokenHeader carries the session tokens of the internal services
const SessionTokenHeader = "x-tidepool-session-token"

const defaultAudience = "shape-logs-api"

// TokenData is the identity extracted from a valid token
type TokenData struct {
	UserID   string `json:"userId"`
	IsServer bool   `json:"isServer"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// ClientInterface interface that we will implement and mock
type ClientInterface interface {
	Authenticate(req *http.Request) *TokenData
}

type tokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (interface{}, error)
}

// Client holds the state of the Auth Client
type Client struct {
	authSecret     []byte
	tokenValidator tokenValidator
}

// Config of the bearer token validation
type Config struct {
	// Domain of the token issuer, the issuer url is https://<Domain>/
	Domain   string
	Audience string
	// BearerSecret switches the validation to HS256 with this secret,
	// otherwise the RS256 keys are read from the issuer JWKS
	BearerSecret string
}

// ConfigFromEnv reads AUTH0_DOMAIN, AUTH0_AUDIENCE and AUTH_BEARER_SECRET
func ConfigFromEnv() Config {
	config := Config{
		Domain:       os.Getenv("AUTH0_DOMAIN"),
		Audience:     defaultAudience,
		BearerSecret: os.Getenv("AUTH_BEARER_SECRET"),
	}
	if value, present := os.LookupEnv("AUTH0_AUDIENCE"); present && value != "" {
		config.Audience = value
	}
	return config
}

// IssuerURL returns the expected "iss" claim
func (c Config) IssuerURL() (*url.URL, error) {
	if c.Domain == "" {
		return nil, errors.New("auth domain is empty")
	}
	return url.Parse("https://" + c.Domain + "/")
}

// CustomClaims contains custom data we want from the token.
type CustomClaims struct {
	Scope    string `json:"scope"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsServer bool   `json:"isServer"`
}

// Nothing to validate, the identity is all we need
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

func newValidator(config Config) (*validator.Validator, error) {
	issuerURL, err := config.IssuerURL()
	if err != nil {
		return nil, fmt.Errorf("failed to parse the issuer url: %w", err)
	}
	audience := []string{config.Audience}
	if config.Audience == "" {
		audience = []string{defaultAudience}
	}

	var keyFunc func(context.Context) (interface{}, error)
	algorithm := validator.RS256
	if config.BearerSecret != "" {
		secret := []byte(config.BearerSecret)
		keyFunc = func(context.Context) (interface{}, error) { return secret, nil }
		algorithm = validator.HS256
	} else {
		keyFunc = jwks.NewCachingProvider(issuerURL, 5*time.Minute).KeyFunc
	}

	return validator.New(
		keyFunc,
		algorithm,
		issuerURL.String(),
		audience,
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
}

// NewClient creates a new Auth Client, authSecret signs the session tokens
func NewClient(authSecret string, config Config) (*Client, error) {
	if authSecret == "" {
		return nil, errors.New("auth secret is empty")
	}
	jwtValidator, err := newValidator(config)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the jwt validator: %w", err)
	}
	return &Client{
		authSecret:     []byte(authSecret),
		tokenValidator: jwtValidator,
	}, nil
}

// subjectUserID strips the identity provider prefix of a subject, "auth0|123" gives "123"
func subjectUserID(subject string) string {
	if i := strings.LastIndex(subject, "|"); i >= 0 {
		return subject[i+1:]
	}
	return subject
}

// Authenticate the incoming request using either the session token or the authorization Bearer token
func (client *Client) Authenticate(req *http.Request) *TokenData {
	if sessionToken := req.Header.Get(SessionTokenHeader); sessionToken != "" {
		tokenData, err := ParseSessionToken(sessionToken, client.authSecret)
		if err != nil {
			log.Printf("Error decoding session token: %v", err)
			return nil
		}
		return tokenData
	}

	rawToken, err := jwtmiddleware.AuthHeaderTokenExtractor(req)
	if err != nil || rawToken == "" {
		return nil
	}
	validated, err := client.tokenValidator.ValidateToken(req.Context(), rawToken)
	if err != nil {
		log.Printf("Error decoding bearer token: %v", err)
		return nil
	}
	claims, ok := validated.(*validator.ValidatedClaims)
	if !ok {
		return nil
	}
	userID := subjectUserID(claims.RegisteredClaims.Subject)
	if userID == "" {
		return nil
	}
	tokenData := &TokenData{UserID: userID}
	if custom, ok := claims.CustomClaims.(*CustomClaims); ok {
		tokenData.Name = custom.Name
		tokenData.Email = custom.Email
		tokenData.IsServer = custom.IsServer
	}
	return tokenData
}
