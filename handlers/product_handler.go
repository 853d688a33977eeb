package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"webshop/models"
)

const productCacheKey = "products"

type productData struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       uint   `json:"price"`
	Stock       uint   `json:"stock"`
	Category    string `json:"category"`
	Image       string `json:"image"`
}

func toProductData(product models.Product) productData {
	return productData{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		Category:    product.Category,
		Image:       product.Image,
	}
}

// rebuildProductCache reloads the whole product list into the Redis
// sorted set, scored by product id.
func rebuildProductCache(ctx context.Context, db *gorm.DB, rdb *redis.Client) error {
	var products []models.Product
	if err := db.Find(&products).Error; err != nil {
		return err
	}

	if err := rdb.Del(ctx, productCacheKey).Err(); err != nil {
		return err
	}

	for _, product := range products {
		productJSON, err := json.Marshal(product)
		if err != nil {
			log.Printf("could not serialize product %d: %v", product.ID, err)
			continue
		}

		err = rdb.ZAdd(ctx, productCacheKey, redis.Z{
			Score:  float64(product.ID),
			Member: productJSON,
		}).Err()
		if err != nil {
			return err
		}
	}

	return nil
}

// RefreshProductInRedis replaces one product's cached entry with its
// current database row, or drops it when the row is gone.
func RefreshProductInRedis(ctx context.Context, db *gorm.DB, rdb *redis.Client, productID uint) error {
	score := float64(productID)

	var product models.Product
	err := db.First(&product, productID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return RemoveProductFromRedis(ctx, rdb, productID)
		}
		return err
	}

	productJSON, err := json.Marshal(product)
	if err != nil {
		return err
	}

	if err := rdb.ZRemRangeByScore(ctx, productCacheKey, formatScore(score), formatScore(score)).Err(); err != nil {
		return err
	}
	return rdb.ZAdd(ctx, productCacheKey, redis.Z{
		Score:  score,
		Member: productJSON,
	}).Err()
}

// RemoveProductFromRedis drops one product from the cached list.
func RemoveProductFromRedis(ctx context.Context, rdb *redis.Client, productID uint) error {
	score := formatScore(float64(productID))
	return rdb.ZRemRangeByScore(ctx, productCacheKey, score, score).Err()
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// GetProductListHandler serves the product list from Redis, rebuilding
// the cache from the database when it is missing or empty.
func GetProductListHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	redisProducts, err := rdb.ZRange(c, productCacheKey, 0, -1).Result()
	if err != nil || len(redisProducts) == 0 {
		if err := rebuildProductCache(c, db, rdb); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Could not load the product list.",
			})
			return
		}

		redisProducts, err = rdb.ZRange(c, productCacheKey, 0, -1).Result()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Could not load the product list.",
			})
			return
		}
	}

	productsData := []productData{}
	for _, redisProduct := range redisProducts {
		var product models.Product
		if err := json.Unmarshal([]byte(redisProduct), &product); err != nil {
			log.Printf("could not deserialize cached product: %v", err)
			continue
		}
		productsData = append(productsData, toProductData(product))
	}

	c.JSON(http.StatusOK, productsData)
}

// GetProductDataHandler returns one product by id.
func GetProductDataHandler(c *gin.Context, db *gorm.DB) {
	productID := c.Param("productID")

	var product models.Product
	err := db.First(&product, "id = ?", productID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Product not found.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Could not load the product.",
		})
		return
	}

	c.JSON(http.StatusOK, toProductData(product))
}
