package utils

import (
	"time"

	"creative-assigner/domain/model"
	"creative-assigner/infrastructure/logger"

	"github.com/golang-jwt/jwt"
)

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// GenerateOperatorToken issues a token for operatorID valid for ttl.
func GenerateOperatorToken(operatorID, name, secretKey string, ttl time.Duration) (string, error) {
	now := GetCurrentTime()
	claims := model.OperatorClaims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    operatorID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
		Name: name,
	}
	return sign(claims, secretKey)
}

func sign(claims jwt.Claims, secretKey string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return tokenString, nil
}
