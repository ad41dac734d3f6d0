package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/flicky/toolstore/internal/model"
)

const (
	userIDKey   = "userID"
	userRoleKey = "userRole"
	identityKey = "identity"
)

// AuthMiddleware accepts HS256 bearer tokens issued by the identity provider.
// The subject is an opaque user id; profile claims are optional.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abort(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
			func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			},
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		)
		if err != nil || !token.Valid {
			abort(c, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}

		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "token has no subject")
			return
		}

		role, _ := claims["role"].(string)
		c.Set(userIDKey, sub)
		c.Set(userRoleKey, role)
		c.Set(identityKey, model.User{
			ID:              sub,
			Email:           stringClaim(claims, "email"),
			FirstName:       stringClaim(claims, "given_name"),
			LastName:        stringClaim(claims, "family_name"),
			ProfileImageURL: stringClaim(claims, "picture"),
		})
		c.Next()
	}
}

func AdminOnly(adminRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserRole(c) != adminRole {
			abort(c, http.StatusForbidden, "forbidden", "admin only")
			return
		}
		c.Next()
	}
}

func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func GetUserRole(c *gin.Context) string {
	return c.GetString(userRoleKey)
}

// GetIdentity returns the profile carried by the verified token.
func GetIdentity(c *gin.Context) model.User {
	v, _ := c.Get(identityKey)
	u, _ := v.(model.User)
	return u
}

func stringClaim(claims jwt.MapClaims, name string) string {
	s, _ := claims[name].(string)
	return s
}

func abort(c *gin.Context, status int, kind, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": kind, "message": message})
}
