package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPISecret    = "api-secret"
	testBearerSecret = "bearer-secret"
)

var testConfig = Config{
	Domain:       "auth.example.com",
	Audience:     "shape-logs-api",
	BearerSecret: testBearerSecret,
}

type bearerClaims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func bearerToken(t *testing.T, claims bearerClaims, secret string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validBearerClaims() bearerClaims {
	now := time.Now()
	return bearerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://auth.example.com/",
			Subject:   "auth0|u1",
			Audience:  jwt.ClaimStrings{"shape-logs-api"},
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Name:  "Ada",
		Email: "ada@example.com",
	}
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(testAPISecret, testConfig)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	_, err := NewClient("", testConfig)
	assert.Error(t, err)

	_, err = NewClient(testAPISecret, Config{BearerSecret: testBearerSecret})
	assert.Error(t, err, "an empty domain cannot give an issuer")

	client, err := NewClient(testAPISecret, Config{Domain: "auth.example.com"})
	require.NoError(t, err, "jwks keys are only fetched on the first validation")
	assert.NotNil(t, client)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("AUTH0_DOMAIN", "tenant.auth0.com")
	t.Setenv("AUTH0_AUDIENCE", "")
	t.Setenv("AUTH_BEARER_SECRET", "s3cr3t")

	config := ConfigFromEnv()

	assert.Equal(t, Config{Domain: "tenant.auth0.com", Audience: defaultAudience, BearerSecret: "s3cr3t"}, config)
	issuer, err := config.IssuerURL()
	require.NoError(t, err)
	assert.Equal(t, "https://tenant.auth0.com/", issuer.String())
}

func TestSubjectUserID(t *testing.T) {
	assert.Equal(t, "123", subjectUserID("auth0|123"))
	assert.Equal(t, "abc", subjectUserID("google-oauth2|x|abc"))
	assert.Equal(t, "plain", subjectUserID("plain"))
	assert.Equal(t, "", subjectUserID("auth0|"))
}

func TestAuthenticate_Bearer(t *testing.T) {
	client := newTestClient(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, validBearerClaims(), testBearerSecret))
	tokenData := client.Authenticate(req)

	require.NotNil(t, tokenData)
	assert.Equal(t, &TokenData{UserID: "u1", Name: "Ada", Email: "ada@example.com"}, tokenData)
}

func TestAuthenticate_InvalidBearer(t *testing.T) {
	client := newTestClient(t)

	expired := validBearerClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	otherAudience := validBearerClaims()
	otherAudience.Audience = jwt.ClaimStrings{"another-api"}
	otherIssuer := validBearerClaims()
	otherIssuer.Issuer = "https://evil.example.com/"

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header"},
		{name: "not a bearer", header: "Basic dXNlcjpwYXNz"},
		{name: "garbage", header: "Bearer not.a.token"},
		{name: "wrong secret", header: "Bearer " + bearerToken(t, validBearerClaims(), "other-secret")},
		{name: "expired", header: "Bearer " + bearerToken(t, expired, testBearerSecret)},
		{name: "other audience", header: "Bearer " + bearerToken(t, otherAudience, testBearerSecret)},
		{name: "other issuer", header: "Bearer " + bearerToken(t, otherIssuer, testBearerSecret)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Nil(t, client.Authenticate(req))
		})
	}
}

func TestAuthenticate_SessionToken(t *testing.T) {
	client := newTestClient(t)
	token, err := GenerateSessionToken("u2", true, []byte(testAPISecret), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/logs/all", nil)
	req.Header.Set(SessionTokenHeader, token)
	// the session token wins over the bearer token
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, validBearerClaims(), testBearerSecret))

	assert.Equal(t, &TokenData{UserID: "u2", IsServer: true}, client.Authenticate(req))
}

func TestAuthenticate_InvalidSessionToken(t *testing.T) {
	client := newTestClient(t)
	expired, err := GenerateSessionToken("u2", false, []byte(testAPISecret), -time.Minute)
	require.NoError(t, err)
	otherSecret, err := GenerateSessionToken("u2", false, []byte("other"), time.Hour)
	require.NoError(t, err)

	for _, token := range []string{expired, otherSecret, "garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/api/logs/all", nil)
		req.Header.Set(SessionTokenHeader, token)
		assert.Nil(t, client.Authenticate(req))
	}
}

func TestParseSessionToken_RejectsOtherAlgorithms(t *testing.T) {
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "u1",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseSessionToken(unsigned, []byte(testAPISecret))
	assert.Error(t, err)
}

func TestClientMock(t *testing.T) {
	mock := NewMock()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, mock.Authenticate(req))

	req.Header.Set("Authorization", "Bearer x")
	assert.Equal(t, "123.456.789", mock.Authenticate(req).UserID)

	mock.Unauthorized = true
	assert.Nil(t, mock.Authenticate(req))
}
