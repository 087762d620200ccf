package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/danisatya/asset-management-api/internal/application"
	"github.com/danisatya/asset-management-api/pkg/helpers"
	"github.com/danisatya/asset-management-api/pkg/response"
)

const CtxUserIDKey = "userID"

// Auth validates the Authorization bearer token and resolves its subject back
// to an active user before any business logic runs. It sets userID and
// userEmail in the Gin context on success.
func Auth(users *application.UserService, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
			c.Abort()
			return
		}
		uid, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid or expired token", nil)
			c.Abort()
			return
		}

		u, err := users.GetActiveUser(c.Request.Context(), uid)
		if err != nil {
			status := http.StatusUnauthorized
			msg := "user not found"
			if errors.Is(err, application.ErrInactiveAccount) {
				status = http.StatusForbidden
				msg = "account is inactive"
			}
			response.Error[any](c, status, msg, nil)
			c.Abort()
			return
		}

		c.Set(CtxUserIDKey, u.ID)
		c.Set("userEmail", u.Email)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
