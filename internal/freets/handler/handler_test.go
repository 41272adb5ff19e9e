package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fritterhq/fritter-services/internal/annotation"
	annrepo "github.com/fritterhq/fritter-services/internal/annotation/repository"
	annsvc "github.com/fritterhq/fritter-services/internal/annotation/service"
	freetrepo "github.com/fritterhq/fritter-services/internal/freets/repository"
	"github.com/fritterhq/fritter-services/internal/freets/service"
	"github.com/fritterhq/fritter-services/internal/users"
	"github.com/fritterhq/fritter-services/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeVerifier struct{}

func (fakeVerifier) Verify(ctx context.Context, raw string) (middleware.Actor, error) {
	var id string
	if n, _ := fmt.Sscanf(raw, "token:%s", &id); n != 1 {
		return middleware.Actor{}, fmt.Errorf("bad token")
	}
	return middleware.Actor{UserID: id}, nil
}

type fixture struct {
	g       *gin.Engine
	users   *users.Service
	svc     *service.Service
	flagEng *annsvc.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	userSvc := users.NewService(users.NewMemoryUserRepository())
	svc := service.NewService(freetrepo.NewMemoryRepo())
	flagEng := annsvc.NewEngine(annotation.KindFlag, annrepo.NewMemoryStore())

	g := gin.New()
	New(svc, flagEng, userSvc).Register(g, fakeVerifier{})
	return &fixture{g: g, users: userSvc, svc: svc, flagEng: flagEng}
}

func (f *fixture) register(t *testing.T, username string) string {
	t.Helper()
	u, err := f.users.Register(context.Background(), username, "pw")
	require.NoError(t, err)
	return u.ID
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer token:"+token)
	}
	w := httptest.NewRecorder()
	f.g.ServeHTTP(w, req)
	return w
}

func TestCreateAndListFreets(t *testing.T) {
	f := newFixture(t)
	aliceID := f.register(t, "alice")

	w := f.do(t, http.MethodPost, "/api/freets", aliceID, gin.H{"content": "hello world"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Freet FreetView `json:"freet"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "alice", created.Freet.Author)
	require.Equal(t, "hello world", created.Freet.Content)

	w = f.do(t, http.MethodGet, "/api/freets", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var feed []FreetView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed, 1)

	// author-scoped listing
	w = f.do(t, http.MethodGet, "/api/freets?author=alice", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed, 1)

	w = f.do(t, http.MethodGet, "/api/freets?author=ghost", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestFeedHidesFlaggedFreets(t *testing.T) {
	f := newFixture(t)
	aliceID := f.register(t, "alice")
	ctx := context.Background()

	vis, err := f.svc.Create(ctx, aliceID, "visible")
	require.NoError(t, err)
	bad, err := f.svc.Create(ctx, aliceID, "hidden")
	require.NoError(t, err)

	_, err = f.flagEng.Add(ctx, aliceID, bad)
	require.NoError(t, err)

	w := f.do(t, http.MethodGet, "/api/freets", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var feed []FreetView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed, 1)
	require.Equal(t, vis.ID, feed[0].ID)

	// the profile view still shows everything
	w = f.do(t, http.MethodGet, "/api/freets?author=alice", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed, 2)
}

func TestUpdateAndDeleteAreAuthorOnly(t *testing.T) {
	f := newFixture(t)
	aliceID := f.register(t, "alice")
	bobID := f.register(t, "bob")

	w := f.do(t, http.MethodPost, "/api/freets", aliceID, gin.H{"content": "mine"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Freet FreetView `json:"freet"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created.Freet.ID

	// another user cannot edit or delete
	w = f.do(t, http.MethodPut, "/api/freets/"+id, bobID, gin.H{"content": "hijacked"})
	require.Equal(t, http.StatusForbidden, w.Code)
	w = f.do(t, http.MethodDelete, "/api/freets/"+id, bobID, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// the author can
	w = f.do(t, http.MethodPut, "/api/freets/"+id, aliceID, gin.H{"content": "edited"})
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodDelete, "/api/freets/"+id, aliceID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodDelete, "/api/freets/"+id, aliceID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRequiresLoginAndContent(t *testing.T) {
	f := newFixture(t)
	aliceID := f.register(t, "alice")

	w := f.do(t, http.MethodPost, "/api/freets", "", gin.H{"content": "anon"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodPost, "/api/freets", aliceID, gin.H{"content": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/freets", aliceID, gin.H{"content": "   "})
	require.Equal(t, http.StatusConflict, w.Code)
}
