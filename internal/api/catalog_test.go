package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"shop_system/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateItemRequiresAdmin(t *testing.T) {
	db := setupTestDB(t)
	r := defaultRouter(t, db)

	token := signupAndLogin(t, r, "alice", "secret123")
	w := doJSON(r, http.MethodPost, "/admin/items", token, gin.H{"name": "Dress", "price": "10"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateItemValidation(t *testing.T) {
	db := setupTestDB(t)
	r := defaultRouter(t, db)
	admin := signupAndLogin(t, r, "admin", "admin123")

	// Blank name is rejected.
	w := doJSON(r, http.MethodPost, "/admin/items", admin, gin.H{"name": "  ", "price": "10"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unparseable price defaults to zero.
	w = doJSON(r, http.MethodPost, "/admin/items", admin, gin.H{"name": "Freebie", "price": "not-a-number"})
	require.Equal(t, http.StatusCreated, w.Code)
	var item domain.Item
	require.NoError(t, db.Where("name = ?", "Freebie").First(&item).Error)
	assert.Equal(t, 0.0, item.Price)

	// Negative price is rejected.
	w = doJSON(r, http.MethodPost, "/admin/items", admin, gin.H{"name": "Refund", "price": "-5"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListItemsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	r := defaultRouter(t, db)

	now := time.Now()
	older := domain.Item{Name: "Older", Price: 1, CreatedAt: now.Add(-2 * time.Hour)}
	newer := domain.Item{Name: "Newer", Price: 2, CreatedAt: now.Add(-1 * time.Hour)}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	w := doJSON(r, http.MethodGet, "/items", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Items []domain.Item `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Newer", resp.Items[0].Name)
	assert.Equal(t, "Older", resp.Items[1].Name)
}

func TestDeleteItemCascadesCartRows(t *testing.T) {
	db := setupTestDB(t)
	r := defaultRouter(t, db)
	admin := signupAndLogin(t, r, "admin", "admin123")
	user := signupAndLogin(t, r, "alice", "secret123")

	item := mustCreateItem(t, db, "Dress", 1299.0)
	keeper := mustCreateItem(t, db, "Gown", 2499.0)

	w := doJSON(r, http.MethodPost, "/cart/items/"+itemPath(item.ID), user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPost, "/cart/items/"+itemPath(keeper.ID), user, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, "/admin/items/"+itemPath(item.ID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The referencing cart rows are gone and the view has no orphaned line.
	var count int64
	require.NoError(t, db.Model(&domain.CartEntry{}).Where("item_id = ?", item.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	view := cartView(t, r, user)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Gown", view.Items[0].Name)
	assert.Equal(t, 2499.0, view.Total)
}

func TestDeleteMissingItem(t *testing.T) {
	db := setupTestDB(t)
	r := defaultRouter(t, db)
	admin := signupAndLogin(t, r, "admin", "admin123")

	w := doJSON(r, http.MethodDelete, "/admin/items/9999", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
