package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fritterhq/fritter-services/internal/config"
	"github.com/fritterhq/fritter-services/internal/sessions"
	"github.com/fritterhq/fritter-services/internal/users"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:          "test-secret",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: time.Hour,
		},
	}
	userSvc := users.NewService(users.NewMemoryUserRepository())
	sessSvc := sessions.NewService(sessions.NewRedisRepository(client, ""))

	r := gin.New()
	NewAuthHandler(cfg, userSvc, sessSvc).Register(r.Group("/"))
	return r
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginRefreshLogout(t *testing.T) {
	r := newAuthRouter(t)
	creds := gin.H{"username": "alice", "password": "hunter2"}

	// register
	w := postJSON(r, "/auth/register", creds)
	require.Equal(t, http.StatusCreated, w.Code)

	// duplicate register
	w = postJSON(r, "/auth/register", creds)
	require.Equal(t, http.StatusConflict, w.Code)

	// login
	w = postJSON(r, "/auth/login", creds)
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		ExpiresIn    int    `json:"expiresIn"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.AccessToken)
	require.NotEmpty(t, login.RefreshToken)
	require.Equal(t, int((15 * time.Minute).Seconds()), login.ExpiresIn)

	// refresh
	w = postJSON(r, "/auth/refresh", gin.H{"refresh_token": login.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	var refreshed struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))
	require.NotEmpty(t, refreshed.AccessToken)

	// logout kills the refresh session
	w = postJSON(r, "/auth/logout", gin.H{"refresh_token": login.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(r, "/auth/refresh", gin.H{"refresh_token": login.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := newAuthRouter(t)
	require.Equal(t, http.StatusCreated,
		postJSON(r, "/auth/register", gin.H{"username": "alice", "password": "hunter2"}).Code)

	w := postJSON(r, "/auth/login", gin.H{"username": "alice", "password": "wrong"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = postJSON(r, "/auth/login", gin.H{"username": "ghost", "password": "x"})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	r := newAuthRouter(t)

	w := postJSON(r, "/auth/refresh", gin.H{"refresh_token": "deadbeef"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidatesBody(t *testing.T) {
	r := newAuthRouter(t)

	w := postJSON(r, "/auth/register", gin.H{"username": "alice"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseExpFromJWT(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"exp":1893456000}`))
	exp, err := parseExpFromJWT("header." + payload + ".sig")
	require.NoError(t, err)
	require.Equal(t, int64(1893456000), exp.Unix())

	_, err = parseExpFromJWT("garbage")
	require.Error(t, err)

	_, err = parseExpFromJWT("a.!!!.c")
	require.Error(t, err)
}
