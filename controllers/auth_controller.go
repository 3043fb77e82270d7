package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cogitex/rfbooking/app"
	"github.com/cogitex/rfbooking/db"
)

type AuthController struct{ *Srv }

func GetAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

// RequestLink emails a sign-in link. The response is identical whether or
// not the address has an account, so the endpoint cannot be used to probe
// for registered emails.
func (ac *AuthController) RequestLink(c *app.Ctx) {
	var in struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	ok, err := ac.Limiter.Allow(c.Request.Context(), "maglink", email, 3, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": "try again later"})
		return
	}
	if !ok {
		c.JSON(http.StatusTooManyRequests, app.H{"error": "too many link requests"})
		return
	}

	var userID *string
	if u, err := ac.Repo.FindUserByEmail(c.Request.Context(), email); err == nil {
		if !u.IsActive {
			// Deactivated accounts get the same neutral answer.
			c.JSON(http.StatusOK, app.H{"ok": true})
			return
		}
		userID = &u.ID
	}

	linkID := uuid.NewString()
	if _, err := ac.Repo.CreateMagicLink(c.Request.Context(), linkID, email, userID,
		time.Now().Add(ac.Cfg.MagicLinkTTL), c.ClientIP()); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": "try again later"})
		return
	}
	token, err := app.SignMagicToken(ac.Cfg.MagicLinkSecret, linkID, email, ac.Cfg.MagicLinkTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": "try again later"})
		return
	}

	link := ac.WebOrigin + "/login?token=" + token
	if err := ac.Mailer.SendMagicLink(email, link, ac.Cfg.MagicLinkTTL); err != nil {
		log.Printf("auth: send magic link to %s: %v", email, err)
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// Verify exchanges a magic-link token for a session cookie. First-time
// addresses get an account provisioned on the spot.
func (ac *AuthController) Verify(c *app.Ctx) {
	var in struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	linkID, email, err := app.ParseMagicToken(ac.Cfg.MagicLinkSecret, in.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid or expired link"})
		return
	}
	ml, err := ac.Repo.ConsumeMagicLink(c.Request.Context(), linkID)
	if err != nil {
		if errors.Is(err, db.ErrLinkUsedOrExpired) || errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, app.H{"error": "invalid or expired link"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if ml.Email != email {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid or expired link"})
		return
	}

	u, err := ac.Repo.FindOrCreateUser(c.Request.Context(), email, email, uuid.NewString())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if !u.IsActive {
		c.JSON(http.StatusForbidden, app.H{"error": "account disabled"})
		return
	}

	if err := ac.issueSession(c.Request.Context(), c.Writer, u.ID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "user": u})
}

func (ac *AuthController) Logout(c *app.Ctx) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = ac.AppSess.Delete(c.Request.Context(), ck.Value)
	}
	secure := strings.HasPrefix(ac.WebOrigin, "https://")
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (ac *AuthController) Whoami(c *app.Ctx) {
	uid, ok := userIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	u, err := ac.Repo.FindUserByID(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, app.H{"user": u})
}
