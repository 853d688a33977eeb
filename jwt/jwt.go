package jwt

import (
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"webshop/models"
)

// GenerateToken signs a bearer token for the user and records it in the
// login_tokens table so it can be revoked on logout.
func GenerateToken(db *gorm.DB, secret []byte, userID uint, isAdmin bool, ttl time.Duration) (string, error) {
	expirationTime := time.Now().Add(ttl)

	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["userID"] = userID
	claims["isAdmin"] = isAdmin
	claims["exp"] = expirationTime.Unix()

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	loginToken := models.LoginToken{
		Token:          tokenString,
		ExpirationTime: expirationTime,
		UserID:         userID,
		IsAdmin:        isAdmin,
	}
	if err := db.Create(&loginToken).Error; err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyToken checks the signature and that the token has not been
// revoked, and returns the user id and admin flag carried in the claims.
func VerifyToken(tokenString string, secret []byte, db *gorm.DB) (uint, bool, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return 0, false, err
	}

	if !token.Valid {
		return 0, false, jwt.ErrTokenSignatureInvalid
	}

	// A token deleted by logout is no longer accepted even if the
	// signature still checks out.
	var loginToken models.LoginToken
	err = db.Where("token = ?", tokenString).First(&loginToken).Error
	if err != nil {
		log.Println(err)
		return 0, false, err
	}

	claims := token.Claims.(jwt.MapClaims)
	userID := uint(claims["userID"].(float64))
	isAdmin := claims["isAdmin"].(bool)

	return userID, isAdmin, nil
}

// RevokeToken deletes the login_tokens row backing the token.
func RevokeToken(db *gorm.DB, tokenString string) error {
	return db.Unscoped().Where("token = ?", tokenString).Delete(&models.LoginToken{}).Error
}
