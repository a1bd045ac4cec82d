package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"shop_system/internal/domain"
	"shop_system/internal/middleware"
	"shop_system/internal/notifier"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"
const testAdminEmail = "admin@example.com"

var testDBCounter int64

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestDB opens a fresh in-memory sqlite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:apitest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Item{}, &domain.CartEntry{}))
	return db
}

// testRedis returns a client pointing at nothing. Cache reads and writes are
// best-effort everywhere, so handlers must behave correctly with redis down.
func testRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		ReadTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

// liveRedis returns a client backed by an in-process redis stand-in,
// for tests that need caching and token revocation to actually work.
func liveRedis(t *testing.T) *redis.Client {
	t.Helper()
	srv := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: srv.Addr()})
}

// setupRouter wires the routes the way the server binary does.
func setupRouter(db *gorm.DB, rdb *redis.Client, mail notifier.Notifier, uploadDir string, maxBytes int64, clearOnRelayFailure bool) *gin.Engine {
	r := gin.New()

	r.POST("/signup", SignupHandler(db, rdb))
	r.POST("/login", LoginHandler(db, testJWTSecret))
	r.GET("/items", ListItemsHandler(db, rdb))
	r.GET("/uploads/:filename", ServeUploadHandler(uploadDir))

	authGroup := r.Group("")
	authGroup.Use(middleware.JWTAuthMiddleware(testJWTSecret, rdb))
	authGroup.POST("/logout", LogoutHandler(testJWTSecret, rdb))

	cartGroup := authGroup.Group("/cart")
	cartGroup.GET("", ViewCartHandler(db, rdb))
	cartGroup.POST("/items/:itemID", AddToCartHandler(db, rdb))
	cartGroup.PATCH("/items/:entryID", UpdateCartHandler(db, rdb))

	checkoutGroup := authGroup.Group("/checkout")
	checkoutGroup.POST("/payment", AcknowledgePaymentHandler())
	checkoutGroup.POST("/screenshot", UploadScreenshotHandler(db, mail, testAdminEmail, uploadDir, maxBytes, clearOnRelayFailure))
	checkoutGroup.POST("/complete", CompleteCheckoutHandler(db, rdb))

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(testJWTSecret, rdb), middleware.AdminOnlyMiddleware(db))
	adminGroup.GET("/users", ListUsersHandler(db, rdb))
	adminGroup.POST("/items", CreateItemHandler(db, rdb))
	adminGroup.DELETE("/items/:id", DeleteItemHandler(db, rdb))

	return r
}

// defaultRouter is setupRouter with the settings most tests want.
func defaultRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	return setupRouter(db, testRedis(), notifier.NewConsoleNotifier(), t.TempDir(), 10<<20, true)
}

// doJSON performs a JSON request, optionally authenticated with a bearer token.
func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// cookieRequest builds a request authenticated through the session cookie.
func cookieRequest(method, path, token string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	return req, httptest.NewRecorder()
}

// signupAndLogin creates an account and returns a live session token.
func signupAndLogin(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/signup", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(r, http.MethodPost, "/login", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code)
	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// itemPath renders an ID for use in a URL.
func itemPath(id uint) string {
	return fmt.Sprintf("%d", id)
}

// mustCreateItem inserts a catalog item directly.
func mustCreateItem(t *testing.T, db *gorm.DB, name string, price float64) domain.Item {
	t.Helper()
	item := domain.Item{Name: name, Price: price}
	require.NoError(t, db.Create(&item).Error)
	return item
}

// uploadScreenshot posts a multipart screenshot and returns the recorder.
func uploadScreenshot(t *testing.T, r *gin.Engine, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("screenshot", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/checkout/screenshot", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// cartView fetches the caller's cart and decodes it.
func cartView(t *testing.T, r *gin.Engine, token string) CartView {
	t.Helper()
	w := doJSON(r, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Cart CartView `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Cart
}
