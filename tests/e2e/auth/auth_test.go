//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"slotbooker/internal/domain/client"
	"slotbooker/internal/handler/dto/request"
	"slotbooker/internal/handler/dto/response"
	"slotbooker/tests/common/dbtest"
	"slotbooker/tests/common/httptest"
	"slotbooker/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	loginURL   = "/api/auth/login"
	logoutURL  = "/api/auth/logout"
	refreshURL = "/api/auth/refresh"
	meURL      = "/api/auth/me"
)

type authSuite struct {
	e2e.SharedSuite
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	dbtest.CreateTestClient(s.T(), s.DB, "admin@example.com", string(client.RoleAdmin))
	dbtest.CreateTestClient(s.T(), s.DB, "client@example.com", string(client.RoleClient))
	dbtest.CreateTestClient(s.T(), s.DB, "inactive@example.com", string(client.RoleClient))

	_, err := s.DB.Exec(s.T().Context(),
		"UPDATE clients SET is_active = false WHERE email = 'inactive@example.com'")
	require.NoError(s.T(), err)
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{
			name:           "valid credentials",
			email:          "client@example.com",
			password:       "password123",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown client",
			email:          "nonexistent@example.com",
			password:       "password123",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong password",
			email:          "client@example.com",
			password:       "wrongpassword",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "inactive client",
			email:          "inactive@example.com",
			password:       "password123",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "empty email",
			email:          "",
			password:       "password123",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "short password",
			email:          "client@example.com",
			password:       "short",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL, request.LoginRequest{
				Email:    tt.email,
				Password: tt.password,
			}, "")
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				var loginRes response.LoginResponse
				httptest.DecodeResponseBody(t, w.Body, &loginRes)
				require.NotEmpty(t, loginRes.AccessToken)
				require.NotEmpty(t, loginRes.RefreshToken)
				require.NotNil(t, loginRes.Client)

				// Login stamps last_login_at.
				var lastLogin any
				err := s.DB.QueryRow(t.Context(),
					"SELECT last_login_at FROM clients WHERE email = $1", tt.email).Scan(&lastLogin)
				require.NoError(t, err)
				require.NotNil(t, lastLogin, "last_login_at was not updated")
			}
		})
	}
}

func (s *authSuite) TestRefresh() {
	s.Run("refresh with a valid token", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL, request.LoginRequest{
			Email:    "client@example.com",
			Password: "password123",
		}, "")
		require.Equal(t, http.StatusOK, w.Code)

		var loginRes response.LoginResponse
		httptest.DecodeResponseBody(t, w.Body, &loginRes)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, refreshURL, request.RefreshRequest{
			RefreshToken: loginRes.RefreshToken,
		}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var refreshRes response.RefreshResponse
		httptest.DecodeResponseBody(t, w.Body, &refreshRes)
		require.NotEmpty(t, refreshRes.AccessToken)
	})

	s.Run("refresh with garbage is rejected", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, refreshURL, request.RefreshRequest{
			RefreshToken: "not-a-token",
		}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func (s *authSuite) TestMe() {
	s.Run("authenticated client sees its profile", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL, request.LoginRequest{
			Email:    "admin@example.com",
			Password: "password123",
		}, "")
		require.Equal(t, http.StatusOK, w.Code)

		var loginRes response.LoginResponse
		httptest.DecodeResponseBody(t, w.Body, &loginRes)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, loginRes.AccessToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var me map[string]any
		httptest.DecodeResponseBody(t, w.Body, &me)
		require.Equal(t, "admin@example.com", me["email"])
	})

	s.Run("unauthenticated request is rejected", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, meURL, nil, "")
		require.Equal(s.T(), http.StatusUnauthorized, w.Code)
	})
}

func (s *authSuite) TestLogout() {
	s.Run("logout clears the session cookies", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL, request.LoginRequest{
			Email:    "client@example.com",
			Password: "password123",
		}, "")
		require.Equal(t, http.StatusOK, w.Code)

		var loginRes response.LoginResponse
		httptest.DecodeResponseBody(t, w.Body, &loginRes)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, logoutURL, nil, loginRes.AccessToken)
		require.Equal(t, http.StatusNoContent, w.Code)

		cleared := httptest.ExtractCookie(w, "access_token")
		require.NotNil(t, cleared)
		require.LessOrEqual(t, cleared.MaxAge, 0)
	})
}
