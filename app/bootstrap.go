package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cogitex/rfbooking/db"
	"github.com/cogitex/rfbooking/models"
)

// BootstrapFirstAdmin makes sure at least one admin exists. With no admins
// and BOOTSTRAP_ADMIN_EMAIL set, it provisions the account and prints a
// ready-to-open magic link to the log.
func BootstrapFirstAdmin(ctx context.Context, cfg Config, repo *db.Repo) {
	if cfg.BootstrapEmail == "" {
		return
	}
	n, err := repo.CountAdmins(ctx)
	if err != nil {
		log.Printf("bootstrap: count admins: %v", err)
		return
	}
	if n > 0 {
		return
	}

	email := strings.ToLower(strings.TrimSpace(cfg.BootstrapEmail))
	u, err := repo.FindOrCreateUser(ctx, email, email, uuid.NewString())
	if err != nil {
		log.Printf("bootstrap: create admin user: %v", err)
		return
	}
	if err := repo.SetUserRole(ctx, u.ID, models.RoleAdmin); err != nil {
		log.Printf("bootstrap: promote admin: %v", err)
		return
	}

	linkID := uuid.NewString()
	if _, err := repo.CreateMagicLink(ctx, linkID, email, &u.ID, time.Now().Add(cfg.MagicLinkTTL), "bootstrap"); err != nil {
		log.Printf("bootstrap: magic link: %v", err)
		return
	}
	token, err := SignMagicToken(cfg.MagicLinkSecret, linkID, email, cfg.MagicLinkTTL)
	if err != nil {
		log.Printf("bootstrap: sign token: %v", err)
		return
	}

	link := fmt.Sprintf("%s/login?token=%s", cfg.WebOrigin, token)
	log.Printf("[BOOTSTRAP] No admin found, created one for %s", email)
	log.Printf("[BOOTSTRAP] Open this URL to sign in: %s", link)
}
