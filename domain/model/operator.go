package model

import "github.com/golang-jwt/jwt"

// OperatorClaims are the JWT claims of a signed-in operator. The issuer carries the operator id.
type OperatorClaims struct {
	jwt.StandardClaims
	Name string `json:"name,omitempty"`
}
