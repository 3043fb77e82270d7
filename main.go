package main

import (
	"context"
	"log"

	"github.com/cogitex/rfbooking/app"
	"github.com/cogitex/rfbooking/config"
	"github.com/cogitex/rfbooking/db"
	"github.com/cogitex/rfbooking/jobs"
	"github.com/cogitex/rfbooking/mail"
	"github.com/cogitex/rfbooking/routes"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	repo := db.NewRepo(application.DB)
	app.BootstrapFirstAdmin(context.Background(), application.Config, repo)

	mailer := mail.New(
		application.Config.SMTPHost, application.Config.SMTPPort,
		application.Config.SMTPUser, application.Config.SMTPPass,
		application.Config.SMTPFrom,
	)
	runner := jobs.NewRunner(repo, mailer)
	if err := runner.Start(context.Background()); err != nil {
		log.Fatalf("jobs: %v", err)
	}
	defer runner.Stop()

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	routes.RegisterRoutes(r, application, runner)

	log.Printf("listening on :%s", application.Config.Port)
	_ = r.Run(":" + application.Config.Port)
}
