package middlewares

import (
	"strconv"
	"time"

	"github.com/gogonoten/johotel/src/models"
	"github.com/gogonoten/johotel/src/types"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// GenerateJWT signs a token accepted by AuthMiddleware.
func GenerateJWT(secret []byte, user models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &types.Claims{
		Username: user.Name,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
