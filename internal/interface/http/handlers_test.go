package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/anycompany/carmarket/internal/application"
	"github.com/anycompany/carmarket/internal/infrastructure/postgres"
	"github.com/anycompany/carmarket/internal/interface/middleware"
	"github.com/anycompany/carmarket/pkg/helpers"
	"github.com/anycompany/carmarket/pkg/mailer"
	"github.com/anycompany/carmarket/pkg/mailer/templates"
	"github.com/anycompany/carmarket/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type memUploader struct{}

func (memUploader) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	return "https://cdn.test/" + objectPath, nil
}

type harness struct {
	engine *gin.Engine
	jwt    *helpers.JWTManager
	store  *postgres.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), postgres.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, postgres.AutoMigrate(db))
	store := postgres.NewStore(db)

	logger := helpers.NewDiscardLogger()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	images := application.NewImageStore(memUploader{})
	authSvc := application.NewAuthService(store, jwt, nil, mailer.LogNotifier{Logger: logger}, templates.Branding{}, logger)
	cars := application.NewCarService(store, images, nil, nil, logger, 0)
	sellers := application.NewSellerService(store, images, nil, logger)
	buyers := application.NewBuyerService(store, images, logger)

	authH := NewAuthHandler(authSvc, helpers.NewCookie("", false), logger)
	sellerH := NewSellerHandler(sellers, cars, nil, logger)
	buyerH := NewBuyerHandler(buyers, application.NewWishlistService(store), nil, logger)
	carH := NewCarHandler(cars, nil, logger)
	uploadH := NewUploadHandler(images, logger)
	requireAuth := middleware.Auth(jwt, authSvc, logger)

	r := gin.New()
	r.POST("/auth/register", authH.Register)
	r.POST("/auth/login", authH.Login)
	r.POST("/seller", sellerH.Create)
	r.GET("/seller/by-name/:firstName", sellerH.GetByName)
	r.GET("/seller/:id", sellerH.Get)
	r.PATCH("/seller/:id", requireAuth, sellerH.Update)
	r.DELETE("/seller/:id", requireAuth, sellerH.Delete)
	r.POST("/seller/:id/car", requireAuth, sellerH.CreateCar)
	r.POST("/buyer", buyerH.Create)
	r.POST("/buyer/:id/wishlist/:carId", requireAuth, buyerH.AddWishlist)
	r.GET("/buyer/:id/wishlist", requireAuth, buyerH.ListWishlist)
	r.GET("/car", carH.List)
	r.GET("/car/:id", carH.Get)
	r.POST("/upload", requireAuth, uploadH.Upload)
	return &harness{engine: r, jwt: jwt, store: store}
}

func (h *harness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)
	return w
}

func (h *harness) tokenFor(t *testing.T, userID, role string) string {
	t.Helper()
	tok, _, err := h.jwt.Generate(helpers.Claims{UserID: userID, Role: role})
	require.NoError(t, err)
	return tok
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (h *harness) createSeller(t *testing.T, email string) (id, userID string) {
	t.Helper()
	w := h.do(t, http.MethodPost, "/seller", "", map[string]string{"firstName": "Ann", "email": email, "password": "p1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	return body["id"].(string), body["userId"].(string)
}

func TestRegisterTwiceIsRejected(t *testing.T) {
	h := newHarness(t)
	body := map[string]string{"email": "dup@x.com", "password": "p1"}

	w := h.do(t, http.MethodPost, "/auth/register", "", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, decode(t, w)["token"])

	w = h.do(t, http.MethodPost, "/auth/register", "", body)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "A user with this email address already exists", decode(t, w)["message"])
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	h := newHarness(t)
	w := h.do(t, http.MethodPost, "/auth/register", "", map[string]string{"email": "r@x.com", "password": "p1", "role": "admin"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, application.MsgRegisterFailed, decode(t, w)["message"])
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/auth/register", "", map[string]string{"email": "Bob@X.com", "password": "secret"}).Code)

	w := h.do(t, http.MethodPost, "/auth/login", "", map[string]string{})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, application.MsgCheckParams, decode(t, w)["message"])

	w = h.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "bob@x.com", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, application.MsgBadCredentials, decode(t, w)["message"])

	w = h.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "bob@x.com", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["token"])
	assert.Contains(t, w.Header().Get("Set-Cookie"), helpers.AccessTokenCookie+"=")
}

func TestSellerCreateAndGet(t *testing.T) {
	h := newHarness(t)
	id, _ := h.createSeller(t, "a@x.com")

	w := h.do(t, http.MethodGet, "/seller/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Ann", body["firstName"])
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, "basic", body["accountType"])

	w = h.do(t, http.MethodGet, "/seller/by-name/ann", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decode(t, w)["id"])

	assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodGet, "/seller/Ann", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/seller/"+uuid.NewString(), "", nil).Code)
}

func TestSellerCreateValidation(t *testing.T) {
	h := newHarness(t)
	w := h.do(t, http.MethodPost, "/seller", "", map[string]string{"email": "not-an-email", "password": "p1"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "email")
}

func TestSellerCreateWithAvatar(t *testing.T) {
	h := newHarness(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("email", "pic@x.com"))
	require.NoError(t, mw.WriteField("password", "p1"))
	fw, err := mw.CreateFormFile("file", "me.PNG")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("png"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/seller", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	avatar, _ := decode(t, w)["avatar"].(string)
	assert.True(t, strings.HasPrefix(avatar, "https://cdn.test/"), avatar)
	assert.True(t, strings.HasSuffix(avatar, ".png"), avatar)
}

func TestSellerUpdateNeedsOwner(t *testing.T) {
	h := newHarness(t)
	id, userID := h.createSeller(t, "own@x.com")
	patch := map[string]string{"city": "Lviv"}

	assert.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodPatch, "/seller/"+id, "", patch).Code)
	_, otherUser := h.createSeller(t, "other@x.com")
	assert.Equal(t, http.StatusForbidden, h.do(t, http.MethodPatch, "/seller/"+id, h.tokenFor(t, otherUser, "seller"), patch).Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodPatch, "/seller/"+id, h.tokenFor(t, uuid.NewString(), "seller"), patch).Code)

	w := h.do(t, http.MethodPatch, "/seller/"+id, h.tokenFor(t, userID, "seller"), patch)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Lviv", decode(t, w)["city"])
	assert.Equal(t, "Ann", decode(t, w)["firstName"])
}

func TestSellerCarLifecycle(t *testing.T) {
	h := newHarness(t)
	id, userID := h.createSeller(t, "cars@x.com")
	tok := h.tokenFor(t, userID, "seller")

	w := h.do(t, http.MethodPost, "/seller/"+id+"/car", tok, map[string]any{"make": "BMW", "model": "X5", "year": 2020, "price": 0})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(t, http.MethodPost, "/seller/"+id+"/car", tok, map[string]any{"make": "BMW", "model": "X5", "year": 2020, "price": "25000", "currency": "eur", "region": "Kyiv"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	car := decode(t, w)
	assert.Equal(t, "25000.00", car["price"])
	assert.Equal(t, "EUR", car["currency"])
	carID := car["id"].(string)

	w = h.do(t, http.MethodGet, "/car/"+carID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["views"])

	w = h.do(t, http.MethodGet, "/car?make=bmw", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Total-Count"))

	w = h.do(t, http.MethodDelete, "/seller/"+id, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/car/"+carID, "", nil).Code)
	// the account is gone, so its token no longer authenticates
	assert.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodPost, "/upload", tok, nil).Code)
}

func TestWishlist(t *testing.T) {
	h := newHarness(t)
	sellerID, sellerUser := h.createSeller(t, "s@x.com")
	w := h.do(t, http.MethodPost, "/seller/"+sellerID+"/car", h.tokenFor(t, sellerUser, "seller"), map[string]any{"make": "Audi", "model": "A4", "year": 2018, "price": 9000})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	carID := decode(t, w)["id"].(string)

	w = h.do(t, http.MethodPost, "/buyer", "", map[string]string{"email": "b@x.com", "password": "p1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	buyer := decode(t, w)
	buyerID, buyerTok := buyer["id"].(string), h.tokenFor(t, buyer["userId"].(string), "buyer")

	assert.Equal(t, http.StatusForbidden, h.do(t, http.MethodPost, "/buyer/"+buyerID+"/wishlist/"+carID, h.tokenFor(t, sellerUser, "seller"), nil).Code)
	require.Equal(t, http.StatusCreated, h.do(t, http.MethodPost, "/buyer/"+buyerID+"/wishlist/"+carID, buyerTok, nil).Code)

	w = h.do(t, http.MethodGet, "/buyer/"+buyerID+"/wishlist", buyerTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, carID, items[0]["carId"])
}

func TestUploadRejectsNonImage(t *testing.T) {
	h := newHarness(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("hi"))
	require.NoError(t, mw.Close())

	_, userID := h.createSeller(t, "up@x.com")
	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+h.tokenFor(t, userID, "seller"))
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Only image files are allowed!", decode(t, w)["message"])
}
