// controllers/srv.go
package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cogitex/rfbooking/app"
	"github.com/cogitex/rfbooking/assistant"
	"github.com/cogitex/rfbooking/db"
	"github.com/cogitex/rfbooking/mail"
	"github.com/cogitex/rfbooking/schedule"
	"github.com/cogitex/rfbooking/session"
)

type Srv struct {
	Repo      *db.Repo
	AppSess   *session.AppSessionStore
	Limiter   *session.Limiter
	Detector  *schedule.Detector
	Catalog   *assistant.CatalogCache
	Assistant *assistant.Service
	Mailer    *mail.Mailer
	WebOrigin string
	Cfg       app.Config
}

func GetSrv(a *app.App) *Srv {
	repo := db.NewRepo(a.DB)
	det := schedule.NewDetector(repo)
	// The TTL only backstops missed invalidations; equipment CRUD
	// invalidates synchronously.
	catalog := assistant.NewCatalogCache(a.Config.CatalogTTL, repo.ListActiveEquipment)
	llm := &assistant.OllamaClient{
		Host:        a.Config.OllamaHost,
		Model:       a.Config.OllamaModel,
		MaxTokens:   a.Config.AIMaxTokens,
		Temperature: a.Config.AITemperature,
	}
	svc := assistant.NewService(catalog, llm, det, repo, assistant.Config{
		Model:       a.Config.OllamaModel,
		Timeout:     a.Config.AITimeout,
		HorizonDays: a.Config.HorizonDays,
	})
	return &Srv{
		Repo:      repo,
		AppSess:   a.AppSessions(),
		Limiter:   session.NewLimiter(a.RDB),
		Detector:  det,
		Catalog:   catalog,
		Assistant: svc,
		Mailer: mail.New(a.Config.SMTPHost, a.Config.SMTPPort,
			a.Config.SMTPUser, a.Config.SMTPPass, a.Config.SMTPFrom),
		WebOrigin: a.Config.WebOrigin,
		Cfg:       a.Config,
	}
}

// --- helpers ---

func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

// issueSession creates the Redis session, sets the cookie and records the
// login snapshot.
func (s *Srv) issueSession(ctx context.Context, w http.ResponseWriter, userID, ip, ua string) error {
	_ = s.Repo.TouchUserLogin(ctx, userID, ip, ua) // snapshot only, never blocks login
	id := uuid.NewString()
	if err := s.AppSess.Create(ctx, id, userID); err != nil {
		return err
	}
	s.setAppCookie(w, id, s.Cfg.SessionTTL)
	return nil
}

func userIDFrom(c *app.Ctx) (string, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return "", false
	}
	uid, _ := v.(string)
	return uid, uid != ""
}
