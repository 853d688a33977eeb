package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webshop/models"
)

func productBody(name string, price, stock uint) gin.H {
	return gin.H{
		"name":        name,
		"price":       price,
		"description": "A fine product.",
		"image":       "product.png",
		"stock":       stock,
		"category":    "kitchen",
	}
}

func TestAdminRoutesRequireAdminFlag(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "buyer@example.com", "password123", false)
	token := ts.login(t, "buyer@example.com", "password123")

	w := ts.request(t, http.MethodGet, "/api/admin/products", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.request(t, http.MethodGet, "/api/admin/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminProductCRUD(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "admin@example.com", "password123", true)
	token := ts.login(t, "admin@example.com", "password123")

	w := ts.request(t, http.MethodPost, "/api/admin/products", token, productBody("Coffee mug", 1000, 5))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var createResp struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &createResp))
	require.NotZero(t, createResp.ID)
	productID := createResp.ID

	w = ts.request(t, http.MethodPut, "/api/admin/products/1", token, productBody("Renamed mug", 1200, 7))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var product models.Product
	require.NoError(t, ts.db.First(&product, productID).Error)
	assert.Equal(t, "Renamed mug", product.Name)
	assert.Equal(t, uint(1200), product.Price)
	assert.Equal(t, uint(7), product.Stock)

	w = ts.request(t, http.MethodGet, "/api/admin/products", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var products []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Renamed mug", products[0].Name)

	w = ts.request(t, http.MethodDelete, "/api/admin/products/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var count int64
	require.NoError(t, ts.db.Model(&models.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAdminProductMissingFields(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "admin@example.com", "password123", true)
	token := ts.login(t, "admin@example.com", "password123")

	body := productBody("Coffee mug", 1000, 5)
	delete(body, "category")
	w := ts.request(t, http.MethodPost, "/api/admin/products", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminZeroStockIsAllowed(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "admin@example.com", "password123", true)
	token := ts.login(t, "admin@example.com", "password123")

	w := ts.request(t, http.MethodPost, "/api/admin/products", token, productBody("Sold out", 1000, 0))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestAdminUserManagement(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "admin@example.com", "password123", true)
	target := ts.createUser(t, "buyer@example.com", "password123", false)
	token := ts.login(t, "admin@example.com", "password123")

	w := ts.request(t, http.MethodGet, "/api/admin/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []struct {
		Email   string `json:"email"`
		IsAdmin bool   `json:"is_admin"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 2)

	w = ts.request(t, http.MethodPut, "/api/admin/users/2/admin", token, gin.H{"is_admin": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var promoted models.User
	require.NoError(t, ts.db.First(&promoted, target.ID).Error)
	assert.True(t, promoted.IsAdmin)

	w = ts.request(t, http.MethodDelete, "/api/admin/users/2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	err := ts.db.First(&models.User{}, target.ID).Error
	assert.Error(t, err)
}

func TestProductListServedFromCacheAfterRebuild(t *testing.T) {
	ts := newTestServer(t)
	ts.createProduct(t, "Coffee mug", 1000, 5)
	ts.createProduct(t, "Teapot", 4500, 2)

	w := ts.request(t, http.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var products []struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Stock uint   `json:"stock"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 2)
	// Sorted set keeps them in id order.
	assert.Equal(t, "Coffee mug", products[0].Name)
	assert.Equal(t, "Teapot", products[1].Name)

	// Second read comes from the cache and sees the same data.
	w = ts.request(t, http.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cached []struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cached))
	assert.Len(t, cached, 2)
}

func TestProductDetail(t *testing.T) {
	ts := newTestServer(t)
	product := ts.createProduct(t, "Coffee mug", 1000, 5)

	w := ts.request(t, http.MethodGet, "/products/1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var detail struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Price uint   `json:"price"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, product.ID, detail.ID)
	assert.Equal(t, "Coffee mug", detail.Name)

	w = ts.request(t, http.MethodGet, "/products/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
