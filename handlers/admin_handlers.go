package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"webshop/models"
)

var allowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

func isValidImageExtension(filename string) bool {
	fileExt := strings.ToLower(filepath.Ext(filename))
	for _, allowExt := range allowedImageExtensions {
		if fileExt == allowExt {
			return true
		}
	}
	return false
}

func makeUniqueFileName(filename string) string {
	fileExt := filepath.Ext(filename)
	fileBase := strings.TrimSuffix(filepath.Base(filename), fileExt)
	return fmt.Sprintf("%s_%s%s", fileBase, uuid.NewString(), fileExt)
}

type productReq struct {
	Name        string `json:"name" binding:"required"`
	Price       uint   `json:"price" binding:"required"`
	Description string `json:"description" binding:"required"`
	Image       string `json:"image" binding:"required"`
	Stock       *uint  `json:"stock" binding:"required"`
	Category    string `json:"category" binding:"required"`
}

// GetAdminProductListHandler returns every product with all fields.
func GetAdminProductListHandler(c *gin.Context, db *gorm.DB) {
	var products []models.Product
	if err := db.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Database error!",
		})
		return
	}

	productsData := []productData{}
	for _, product := range products {
		productsData = append(productsData, toProductData(product))
	}

	c.JSON(http.StatusOK, productsData)
}

// CreateProductHandler adds a new product and caches it.
func CreateProductHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	var newProductReq productReq
	if err := c.ShouldBindJSON(&newProductReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Every field must be filled in!",
		})
		return
	}

	newProduct := models.Product{
		Name:        newProductReq.Name,
		Price:       newProductReq.Price,
		Description: newProductReq.Description,
		Image:       newProductReq.Image,
		Stock:       *newProductReq.Stock,
		Category:    newProductReq.Category,
	}
	if err := db.Create(&newProduct).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Error while saving the product.",
		})
		return
	}

	if err := RefreshProductInRedis(c, db, rdb, newProduct.ID); err != nil {
		// The next list rebuild picks it up.
		log.Printf("product cache refresh failed for %d: %v", newProduct.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product added successfully!",
		"id":      newProduct.ID,
	})
}

// UpdateProductHandler overwrites every product field.
func UpdateProductHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	productID := c.Param("productID")

	var updateReq productReq
	if err := c.ShouldBindJSON(&updateReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Every field must be filled in!",
		})
		return
	}

	var product models.Product
	if err := db.First(&product, "id = ?", productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Product not found.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Error while updating the product.",
		})
		return
	}

	err := db.Model(&product).Updates(map[string]interface{}{
		"name":        updateReq.Name,
		"price":       updateReq.Price,
		"description": updateReq.Description,
		"image":       updateReq.Image,
		"stock":       *updateReq.Stock,
		"category":    updateReq.Category,
	}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Error while updating the product.",
		})
		return
	}

	if err := RefreshProductInRedis(c, db, rdb, product.ID); err != nil {
		log.Printf("product cache refresh failed for %d: %v", product.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully!",
	})
}

// DeleteProductHandler removes a product and its cache entry. Existing
// order items keep their snapshot of the product.
func DeleteProductHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	productID := c.Param("productID")

	var product models.Product
	if err := db.First(&product, "id = ?", productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Product not found.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Error while deleting the product.",
		})
		return
	}

	if err := db.Delete(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Error while deleting the product.",
		})
		return
	}

	if err := RemoveProductFromRedis(c, rdb, product.ID); err != nil {
		log.Printf("product cache removal failed for %d: %v", product.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted!",
	})
}

// GetUserListHandler returns every user without the password digest.
func GetUserListHandler(c *gin.Context, db *gorm.DB) {
	var userList []struct {
		ID       uint   `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Postcode string `json:"postcode"`
		City     string `json:"city"`
		Street   string `json:"street"`
		IsAdmin  bool   `json:"is_admin"`
	}
	err := db.Model(&models.User{}).Find(&userList).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Error while fetching the users.",
		})
		return
	}

	c.JSON(http.StatusOK, userList)
}

// DeleteUserHandler removes a user account.
func DeleteUserHandler(c *gin.Context, db *gorm.DB) {
	userID := c.Param("userID")

	if err := db.Delete(&models.User{}, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Error while deleting the user.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted.",
	})
}

// SetAdminHandler flips a user's admin flag.
func SetAdminHandler(c *gin.Context, db *gorm.DB) {
	userID := c.Param("userID")

	var adminReq struct {
		IsAdmin bool `json:"is_admin"`
	}
	if err := c.ShouldBindJSON(&adminReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid payload.",
		})
		return
	}

	err := db.Model(&models.User{}).Where("id = ?", userID).Update("is_admin", adminReq.IsAdmin).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Error while updating the admin flag.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Admin permission updated.",
	})
}

// ListImagesHandler lists the image files available for products.
func ListImagesHandler(c *gin.Context, imagesDir string) {
	files, err := os.ReadDir(imagesDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Could not load the images.",
		})
		return
	}

	imageFiles := []string{}
	for _, file := range files {
		if !file.IsDir() && isValidImageExtension(file.Name()) {
			imageFiles = append(imageFiles, file.Name())
		}
	}

	c.JSON(http.StatusOK, imageFiles)
}

// UploadImageHandler stores an uploaded product image under a unique name.
func UploadImageHandler(c *gin.Context, imagesDir string) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "No image in the request.",
			"error":   err.Error(),
		})
		return
	}

	if !isValidImageExtension(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Unsupported image format.",
		})
		return
	}

	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Could not create the images directory.",
			"error":   err.Error(),
		})
		return
	}

	imageName := makeUniqueFileName(file.Filename)
	filePath := filepath.Join(imagesDir, imageName)
	if err := c.SaveUploadedFile(file, filePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Could not save the image.",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Image uploaded successfully.",
		"image":   imageName,
	})
}
