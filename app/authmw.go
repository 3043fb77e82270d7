package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cogitex/rfbooking/db"
	"github.com/cogitex/rfbooking/models"
	"github.com/cogitex/rfbooking/session"
)

const AppSessionCookie = "app_session"

func AuthRequired(appSess *session.AppSessionStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		as, err := appSess.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		// Confirm the account still exists and is active; one lookup per
		// request, role travels in the context.
		u, err := repo.FindUserByID(c.Request.Context(), as.UserID)
		if err != nil || !u.IsActive {
			_ = appSess.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		c.Set("userID", u.ID)
		c.Set("email", u.Email)
		c.Set("role", u.Role)

		c.Next()
	}
}

func roleOf(c *gin.Context) string {
	v, _ := c.Get("role")
	r, _ := v.(string)
	return r
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if roleOf(c) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// ManagerOnly admits managers and admins.
func ManagerOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r := roleOf(c); r != models.RoleAdmin && r != models.RoleManager {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
