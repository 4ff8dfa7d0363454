package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"creative-assigner/domain/model"
	"creative-assigner/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// OperatorKey is the gin context key holding the authenticated operator id.
const OperatorKey = "operator_id"

// Auth accepts HS256 bearer tokens signed with secretKey. The token issuer becomes the operator id.
func Auth(secretKey string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authorization := ctx.Request.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(authorization, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := parseClaims(tokenString, secretKey)
		if err != nil {
			logger.GetLogger().WithField("error", err).Debug("Rejected bearer token")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": rejection(err)})
			return
		}
		if claims.Issuer == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token has no issuer"})
			return
		}
		ctx.Set(OperatorKey, claims.Issuer)
		ctx.Next()
	}
}

func parseClaims(tokenString, secretKey string) (model.OperatorClaims, error) {
	var claims model.OperatorClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return claims, err
	}
	if !token.Valid {
		return claims, errors.New("invalid token")
	}
	return claims, nil
}

func rejection(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		if ve.Errors&jwt.ValidationErrorMalformed != 0 {
			return "That's not even a token"
		} else if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			// Token is either expired or not active yet
			return "Timing is everything"
		}
		return fmt.Sprintf("Couldn't handle this token:%v", err)
	}
	return "Unauthorized"
}

// OperatorID returns the operator set by Auth.
func OperatorID(ctx *gin.Context) string {
	return ctx.GetString(OperatorKey)
}
