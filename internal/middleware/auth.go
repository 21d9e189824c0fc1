package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
)

const (
	ContextAdminID = "adminID"
	ContextRole    = "role"

	RoleAdmin = "admin"
)

func GenerateToken(secret string, adminID uint, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  adminID,
		"role": RoleAdmin,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Falta el token de acceso.")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Encabezado de autorización inválido.")
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			httperr.Unauthorized(c, "invalid_token", "Sesión inválida o expirada.")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperr.Unauthorized(c, "invalid_token_claims", "Sesión inválida o expirada.")
			c.Abort()
			return
		}

		adminID, ok := claims["sub"].(float64)
		role, _ := claims["role"].(string)
		if !ok || role != RoleAdmin {
			httperr.Unauthorized(c, "invalid_token_payload", "Sesión inválida o expirada.")
			c.Abort()
			return
		}

		c.Set(ContextAdminID, uint(adminID))
		c.Set(ContextRole, role)

		c.Next()
	}
}

// AdminID é nil fora das rotas autenticadas.
func AdminID(c *gin.Context) *uint {
	v, ok := c.Get(ContextAdminID)
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}
