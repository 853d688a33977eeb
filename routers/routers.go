package routers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"webshop/config"
	"webshop/handlers"
	"webshop/middleware"
)

func SetupRouters(db *gorm.DB, rdb *redis.Client, cfg config.Config) *gin.Engine {
	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Authorization")
		c.Next()
	})
	err := router.SetTrustedProxies(nil)
	if err != nil {
		return nil
	}

	// Product images
	router.Static("/images", cfg.Server.ImagesDir)

	router.OPTIONS("/*path", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	jwtSecret := []byte(cfg.JWT.Secret)

	//// Optional authentication everywhere; each route decides below.
	router.Use(middleware.AuthMiddleware(db, jwtSecret))
	{
		router.POST("/register", func(context *gin.Context) {
			handlers.RegisterHandler(context, db)
		})
		router.POST("/login", func(context *gin.Context) {
			handlers.LoginHandler(context, db, cfg)
		})
		router.GET("/products", func(context *gin.Context) {
			handlers.GetProductListHandler(context, db, rdb)
		})
		router.GET("/products/:productID", func(context *gin.Context) {
			handlers.GetProductDataHandler(context, db)
		})
		// Order placement allows guest checkout, so only the optional
		// layer runs here.
		router.POST("/api/orders", func(context *gin.Context) {
			handlers.SendOrderHandler(context, db, rdb)
		})

		//// Login required
		loginRequired := router.Group("", middleware.CheckLoginMiddleware())
		{
			loginRequired.GET("/users", func(context *gin.Context) {
				handlers.GetUserProfileHandler(context, db)
			})
			loginRequired.PUT("/users", func(context *gin.Context) {
				handlers.UpdateUserProfileHandler(context, db)
			})
			loginRequired.PUT("/users/password", func(context *gin.Context) {
				handlers.UpdatePasswordHandler(context, db)
			})
			loginRequired.GET("/api/orders", func(context *gin.Context) {
				handlers.GetOrderListHandler(context, db)
			})
			loginRequired.POST("/api/logout", func(context *gin.Context) {
				handlers.LogOutHandler(context, db)
			})
		}

		//// Login and admin flag required
		adminRequired := router.Group("/api/admin")
		adminRequired.Use(middleware.CheckLoginMiddleware(), middleware.CheckAdminPermissionMiddleware())
		{
			adminRequired.GET("/products", func(context *gin.Context) {
				handlers.GetAdminProductListHandler(context, db)
			})
			adminRequired.POST("/products", func(context *gin.Context) {
				handlers.CreateProductHandler(context, db, rdb)
			})
			adminRequired.PUT("/products/:productID", func(context *gin.Context) {
				handlers.UpdateProductHandler(context, db, rdb)
			})
			adminRequired.DELETE("/products/:productID", func(context *gin.Context) {
				handlers.DeleteProductHandler(context, db, rdb)
			})
			adminRequired.GET("/users", func(context *gin.Context) {
				handlers.GetUserListHandler(context, db)
			})
			adminRequired.DELETE("/users/:userID", func(context *gin.Context) {
				handlers.DeleteUserHandler(context, db)
			})
			adminRequired.PUT("/users/:userID/admin", func(context *gin.Context) {
				handlers.SetAdminHandler(context, db)
			})
			adminRequired.GET("/images", func(context *gin.Context) {
				handlers.ListImagesHandler(context, cfg.Server.ImagesDir)
			})
			adminRequired.POST("/image", func(context *gin.Context) {
				handlers.UploadImageHandler(context, cfg.Server.ImagesDir)
			})
		}
	}

	return router
}
