package handlers

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"webshop/config"
	"webshop/jwt"
	"webshop/models"
)

const minPasswordLength = 6

// ValidateEmail checks the address shape, nothing more.
func ValidateEmail(email string) bool {
	pattern := "^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\\.[a-zA-Z]{2,}$"
	matched, _ := regexp.MatchString(pattern, email)
	return matched
}

// IsUserEmailExists reports whether the email is already registered.
func IsUserEmailExists(db *gorm.DB, email string) (bool, error) {
	var user models.User
	err := db.First(&user, "email = ?", email).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RegisterHandler creates a new user account.
func RegisterHandler(c *gin.Context, db *gorm.DB) {
	var registerReq struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Phone    string `json:"phone"`
		Password string `json:"password" binding:"required"`
		Postcode string `json:"postcode"`
		City     string `json:"city"`
		Street   string `json:"street"`
	}
	if err := c.ShouldBindJSON(&registerReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid registration payload.",
			"error":   err.Error(),
		})
		return
	}

	if !ValidateEmail(registerReq.Email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid email address!",
		})
		return
	}

	if len(registerReq.Password) < minPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "The password must be at least 6 characters long!",
		})
		return
	}

	exists, err := IsUserEmailExists(db, registerReq.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Database error!",
		})
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "This email is already in use!",
		})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registerReq.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Could not hash the password.",
		})
		return
	}

	newUser := models.User{
		Name:     registerReq.Name,
		Email:    registerReq.Email,
		Phone:    registerReq.Phone,
		Password: string(hashedPassword),
		Postcode: registerReq.Postcode,
		City:     registerReq.City,
		Street:   registerReq.Street,
	}
	if err := db.Create(&newUser).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Database error!",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful!",
	})
}

// LoginHandler checks the credentials and issues a bearer token.
func LoginHandler(c *gin.Context, db *gorm.DB, cfg config.Config) {
	var loginReq struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Email and password are required!",
		})
		return
	}

	var user models.User
	err := db.First(&user, "email = ?", loginReq.Email).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Wrong email or password!",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Database error!",
		})
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginReq.Password))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": "Wrong email or password!",
		})
		return
	}

	token, err := jwt.GenerateToken(db, []byte(cfg.JWT.Secret), user.ID, user.IsAdmin, cfg.JWT.TokenTTL())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Could not issue the token.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"phone":    user.Phone,
			"is_admin": user.IsAdmin,
		},
	})
}

// GetUserProfileHandler returns the authenticated user's profile fields.
func GetUserProfileHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Could not resolve the user.",
		})
		return
	}

	var profile struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Postcode string `json:"postcode"`
		City     string `json:"city"`
		Street   string `json:"street"`
	}
	err := db.Model(&models.User{}).Where("id = ?", userID).First(&profile).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "User not found!",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateUserProfileHandler overwrites the profile fields.
func UpdateUserProfileHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Could not resolve the user.",
		})
		return
	}

	var profileReq struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Postcode string `json:"postcode"`
		City     string `json:"city"`
		Street   string `json:"street"`
	}
	if err := c.ShouldBindJSON(&profileReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid profile payload.",
			"error":   err.Error(),
		})
		return
	}

	err := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"name":     profileReq.Name,
		"email":    profileReq.Email,
		"phone":    profileReq.Phone,
		"postcode": profileReq.Postcode,
		"city":     profileReq.City,
		"street":   profileReq.Street,
	}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Error while updating the profile!",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Your details were updated successfully!",
	})
}

// UpdatePasswordHandler re-hashes the password after checking the old one.
func UpdatePasswordHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Could not resolve the user.",
		})
		return
	}

	var passwordReq struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&passwordReq); err != nil ||
		passwordReq.OldPassword == "" ||
		len(passwordReq.NewPassword) < minPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "The password must be at least 6 characters long.",
		})
		return
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Error while checking the user.",
		})
		return
	}

	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(passwordReq.OldPassword))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": "The old password is wrong.",
		})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(passwordReq.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Could not hash the password.",
		})
		return
	}

	err = db.Model(&user).Update("password", string(hashedPassword)).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Error while updating the password.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "The password was changed successfully.",
	})
}

// LogOutHandler revokes the bearer token used for the request.
func LogOutHandler(c *gin.Context, db *gorm.DB) {
	token, ok := c.Get("Token")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Could not resolve the token.",
		})
		return
	}

	if err := jwt.RevokeToken(db, token.(string)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Error while logging out.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully.",
	})
}
