package middlewares

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gogonoten/johotel/src/types"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

const (
	KeyUserID = "id"
	KeyEmail  = "email"
	KeyRole   = "role"
	KeyClaims = "claims"
)

// AuthMiddleware accepts HS256 bearer tokens whose subject is the numeric
// user id and stores the caller identity on the gin context.
func AuthMiddleware(secret []byte, logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		bearerToken := ctx.Request.Header.Get("Authorization")
		reqToken, ok := strings.CutPrefix(bearerToken, "Bearer ")
		if !ok || strings.TrimSpace(reqToken) == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims := &types.Claims{}
		tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return secret, nil
		})
		if err != nil || !tkn.Valid {
			logger.Debug("token rejected", zap.Error(err))
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		uid, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil || uid == 0 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx.Set(KeyUserID, uint(uid))
		ctx.Set(KeyEmail, claims.Email)
		ctx.Set(KeyRole, claims.Role)
		ctx.Set(KeyClaims, claims)
		ctx.Next()
	}
}

// RequireStaff rejects callers that are neither manager nor admin.
func RequireStaff(ctx *gin.Context) {
	claims, ok := ctx.Get(KeyClaims)
	if !ok {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if c, ok := claims.(*types.Claims); !ok || !c.IsStaff() {
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}
	ctx.Next()
}

func CurrentUserID(ctx *gin.Context) uint {
	v, _ := ctx.Get(KeyUserID)
	id, _ := v.(uint)
	return id
}
