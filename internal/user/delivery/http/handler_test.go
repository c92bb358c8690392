package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/commodity-tracker/internal/user/repository"
	"github.com/tair/commodity-tracker/internal/user/usecase/command"
	"github.com/tair/commodity-tracker/internal/user/usecase/query"
	"github.com/tair/commodity-tracker/pkg/auth"
)

func newRouter(t *testing.T) (*mux.Router, *UserHandler) {
	t.Helper()
	auth.Configure("user-secret", time.Hour)

	repo, err := repository.NewDemoUserRepository()
	require.NoError(t, err)

	h := NewUserHandler(command.NewLoginUserHandler(repo), query.NewGetUserHandler(repo), prometheus.NewRegistry())
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router, h
}

func login(t *testing.T, router *mux.Router, email, password string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body)))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestLoginIssuesTokenForDemoAdmin(t *testing.T) {
	router, h := newRouter(t)

	rec, resp := login(t, router, "Admin@Inventory.com", repository.DemoPassword)
	require.Equal(t, http.StatusOK, rec.Code)

	data := resp["data"].(map[string]interface{})
	claims, err := auth.ValidateToken(data["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "1", claims.UserID)
	assert.Equal(t, "Admin User", claims.Username)
	assert.Equal(t, auth.RoleAdmin, claims.Role)

	user := data["user"].(map[string]interface{})
	assert.NotContains(t, user, "PasswordHash")
	assert.Equal(t, float64(1), testutil.ToFloat64(h.logins.WithLabelValues("accepted")))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router, h := newRouter(t)

	rec, _ := login(t, router, "user@inventory.com", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = login(t, router, "nobody@inventory.com", repository.DemoPassword)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Equal(t, float64(2), testutil.ToFloat64(h.logins.WithLabelValues("rejected")))
}

func TestProfileReturnsTokenOwner(t *testing.T) {
	router, _ := newRouter(t)

	_, resp := login(t, router, "user@inventory.com", repository.DemoPassword)
	token := resp["data"].(map[string]interface{})["token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var profile Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	user := profile.Data.(map[string]interface{})
	assert.Equal(t, "Regular User", user["name"])
	assert.Equal(t, "user", user["role"])
}

func TestProfileRequiresToken(t *testing.T) {
	router, _ := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
