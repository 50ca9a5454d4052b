package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/starlink-tech/srm-app/models"
)

var jwtSecret []byte

func init() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// Development fallback, override in .env for any real deployment.
		secret = "starlink-secret-key"
	}
	jwtSecret = []byte(secret)
}

// CustomClaims carries the identity the middleware puts on the request
// context: user id, role and, for supplier users, the supplier affiliation.
type CustomClaims struct {
	UserID     uint        `json:"user_id"`
	Role       models.Role `json:"role"`
	SupplierID *uint       `json:"supplier_id,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken issues a 7-day HS256 token for the user.
func GenerateToken(user *models.User) (string, error) {
	claims := &CustomClaims{
		UserID:     user.ID,
		Role:       user.Role,
		SupplierID: user.SupplierID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "StarLinkSRM",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ParseToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
