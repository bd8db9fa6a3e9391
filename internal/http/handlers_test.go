package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalog-admin-public/internal/catalog"
	"github.com/catalog-admin-public/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newCatalog(t *testing.T) (*catalog.Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	repo := catalog.NewFileRepository(path)
	require.NoError(t, repo.Init())
	return catalog.NewService(repo), path
}

func newTestRouter(t *testing.T, products ProductService) *gin.Engine {
	t.Helper()
	return NewRouter(RouterDeps{
		Handler: NewHandler(products, nil),
		Config:  config.Config{AllowedOrigins: []string{"*"}, StaticIndex: "admin.html"},
	})
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeProduct(t *testing.T, rr *httptest.ResponseRecorder) catalog.Product {
	t.Helper()
	var p catalog.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	return p
}

const validBody = `{"name":"Tea","price":4.5,"category":"Drinks","description":"Green"}`

func TestListEmptyCatalog(t *testing.T) {
	svc, _ := newCatalog(t)
	r := newTestRouter(t, svc)

	rr := do(r, http.MethodGet, "/products", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestCreateThenGet(t *testing.T) {
	svc, path := newCatalog(t)
	r := newTestRouter(t, svc)

	rr := do(r, http.MethodPost, "/products", validBody)
	require.Equal(t, http.StatusCreated, rr.Code)
	created := decodeProduct(t, rr)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Tea", created.Name)
	assert.Equal(t, 4.5, created.Price)

	rr = do(r, http.MethodGet, "/products/"+created.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, created, decodeProduct(t, rr))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id": "`+created.ID+`"`)
}

func TestCreateMissingFields(t *testing.T) {
	svc, path := newCatalog(t)
	r := newTestRouter(t, svc)

	rr := do(r, http.MethodPost, "/products", `{"name":"Tea","price":4.5}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Все поля обязательны","fields":["category","description"]}`, rr.Body.String())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestCreateMalformedBody(t *testing.T) {
	svc, _ := newCatalog(t)
	r := newTestRouter(t, svc)

	for _, body := range []string{`{`, `{"name":"Tea","price":"cheap","category":"c","description":"d"}`} {
		rr := do(r, http.MethodPost, "/products", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.JSONEq(t, `{"error":"Все поля обязательны"}`, rr.Body.String(), body)
	}
}

func TestGetUnknownProduct(t *testing.T) {
	svc, _ := newCatalog(t)
	r := newTestRouter(t, svc)

	rr := do(r, http.MethodGet, "/products/nope", "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Товар не найден"}`, rr.Body.String())
}

func TestUpdateKeepsID(t *testing.T) {
	svc, _ := newCatalog(t)
	r := newTestRouter(t, svc)
	created := decodeProduct(t, do(r, http.MethodPost, "/products", validBody))

	rr := do(r, http.MethodPut, "/products/"+created.ID,
		`{"id":"hijack","name":"Coffee","price":3,"category":"Drinks","description":"Black"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	updated := decodeProduct(t, rr)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Coffee", updated.Name)
	assert.Equal(t, float64(3), updated.Price)

	rr = do(r, http.MethodGet, "/products/hijack", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdateErrors(t *testing.T) {
	svc, _ := newCatalog(t)
	r := newTestRouter(t, svc)
	created := decodeProduct(t, do(r, http.MethodPost, "/products", validBody))

	rr := do(r, http.MethodPut, "/products/missing", validBody)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Товар не найден"}`, rr.Body.String())

	rr = do(r, http.MethodPut, "/products/"+created.ID, `{"name":"","price":1,"category":"c","description":"d"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Все поля обязательны","fields":["name"]}`, rr.Body.String())
}

func TestDeleteProduct(t *testing.T) {
	svc, _ := newCatalog(t)
	r := newTestRouter(t, svc)
	first := decodeProduct(t, do(r, http.MethodPost, "/products", validBody))
	second := decodeProduct(t, do(r, http.MethodPost, "/products", validBody))

	rr := do(r, http.MethodDelete, "/products/"+first.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Товар удален"}`, rr.Body.String())

	rr = do(r, http.MethodDelete, "/products/"+first.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	var list []catalog.Product
	require.NoError(t, json.Unmarshal(do(r, http.MethodGet, "/products", "").Body.Bytes(), &list))
	assert.Equal(t, []catalog.Product{second}, list)
}

func TestCorruptCatalogReportsServerError(t *testing.T) {
	svc, path := newCatalog(t)
	r := newTestRouter(t, svc)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	cases := []struct {
		method, path, body, msg string
	}{
		{http.MethodGet, "/products", "", "Ошибка при получении товаров"},
		{http.MethodGet, "/products/1", "", "Ошибка при получении товара"},
		{http.MethodPost, "/products", validBody, "Ошибка при добавлении товара"},
		{http.MethodPut, "/products/1", validBody, "Ошибка при обновлении товара"},
		{http.MethodDelete, "/products/1", "", "Ошибка при удалении товара"},
	}
	for _, tc := range cases {
		rr := do(r, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusInternalServerError, rr.Code, tc.method+" "+tc.path)
		assert.JSONEq(t, `{"error":"`+tc.msg+`"}`, rr.Body.String(), tc.method+" "+tc.path)
	}
}

type brokenService struct {
	ProductService
	err error
}

func (b brokenService) Create(context.Context, catalog.Fields) (catalog.Product, error) {
	return catalog.Product{}, b.err
}

func TestCreateWriteFailure(t *testing.T) {
	r := newTestRouter(t, brokenService{err: errors.Join(catalog.ErrStorageWrite, errors.New("disk full"))})

	rr := do(r, http.MethodPost, "/products", validBody)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Ошибка при добавлении товара"}`, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "disk full")
}
