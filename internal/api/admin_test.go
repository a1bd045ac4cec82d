package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"shop_system/internal/notifier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsersRequiresAdmin(t *testing.T) {
	db := setupTestDB(t)
	r := defaultRouter(t, db)

	user := signupAndLogin(t, r, "alice", "secret123")
	w := doJSON(r, http.MethodGet, "/admin/users", user, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodGet, "/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListUsersPaginated(t *testing.T) {
	db := setupTestDB(t)
	r := defaultRouter(t, db)

	admin := signupAndLogin(t, r, "admin", "admin123")
	_ = signupAndLogin(t, r, "alice", "secret123")
	_ = signupAndLogin(t, r, "bob", "secret123")

	w := doJSON(r, http.MethodGet, "/admin/users?page=1&page_size=2", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Users      []UserAdminResponse `json:"users"`
		Total      int64               `json:"total"`
		TotalPages int                 `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Users, 2)
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, 2, resp.TotalPages)

	// Password hashes never leave the server.
	assert.NotContains(t, w.Body.String(), "password")
}

func TestListUsersReflectsNewSignup(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db, liveRedis(t), notifier.NewConsoleNotifier(), t.TempDir(), 10<<20, true)

	admin := signupAndLogin(t, r, "admin", "admin123")

	// Prime the cached listing.
	w := doJSON(r, http.MethodGet, "/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_ = signupAndLogin(t, r, "carol", "secret123")

	// A fresh signup invalidates the listing cache, so the new account shows up.
	w = doJSON(r, http.MethodGet, "/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Users []UserAdminResponse `json:"users"`
		Total int64               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Total)
	assert.Contains(t, w.Body.String(), "carol")
}
