package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"webshop/orders"
)

// SendOrderHandler places an order. Authentication is optional: an
// unauthenticated request is a guest checkout as long as it carries a
// guest email.
func SendOrderHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	var userID *uint
	if id, ok := c.Get("UserID"); ok {
		uid := id.(uint)
		userID = &uid
	}

	var checkout orders.Checkout
	if err := c.ShouldBindJSON(&checkout); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid order payload.",
			"error":   err.Error(),
		})
		return
	}

	if err := orders.Validate(checkout, userID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": err.Error(),
		})
		return
	}

	orderID, err := orders.Place(db, checkout, userID)
	if err != nil {
		var stockErr *orders.InsufficientStockError
		if errors.As(err, &stockErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": stockErr.Error(),
			})
			return
		}
		log.Printf("order placement failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error while saving the order.",
		})
		return
	}

	// Stock changed, keep the cached product list in step. A failure
	// here only delays the cache until the next rebuild.
	for _, item := range checkout.Cart {
		if err := RefreshProductInRedis(c, db, rdb, item.ProductID); err != nil {
			log.Printf("product cache refresh failed for %d: %v", item.ProductID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order saved successfully!",
		"orderId": orderID,
	})
}

// GetOrderListHandler returns the authenticated user's past orders,
// newest first, each with its items nested.
func GetOrderListHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Could not resolve the user.",
		})
		return
	}

	pastOrders, err := orders.History(db, userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Error while fetching the orders.",
		})
		return
	}

	c.JSON(http.StatusOK, pastOrders)
}
