package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"

	"rsvphub/config"
	emailadapter "rsvphub/internal/adapters/email"
	"rsvphub/internal/adapters/token"
	httpdelivery "rsvphub/internal/delivery/http"
	"rsvphub/internal/delivery/http/controllers"
	"rsvphub/internal/delivery/http/middleware"
	"rsvphub/internal/repository/postgres"
	"rsvphub/internal/services"
)

const serviceTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}
	if err := postgres.RunMigrations(logger, cfg.DBUrl, "migrations"); err != nil {
		logger.Error("migrate", "err", err)
		os.Exit(1)
	}

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: emailadapter.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureTLS,
		},
	})
	if err != nil {
		logger.Error("mailer", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	guestRepo := postgres.NewGuestRepository(db)
	tokens := token.NewHMACSource(cfg.TokenSecret)
	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer())
	links := services.Links{BaseURL: cfg.BaseURL}

	eventService := services.NewEventService(eventRepo, guestRepo, tokens, emailService, links, serviceTimeout)
	guestService := services.NewGuestService(eventRepo, guestRepo, tokens, emailService, links, serviceTimeout)

	mux := httpdelivery.NewRouter(
		controllers.NewEventController(logger, eventService, links),
		controllers.NewGuestController(logger, guestService, links),
		controllers.NewInviteController(logger, guestService),
	)

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(logger, handler)
	if len(cfg.CORSAllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)
	}

	addr := ":" + cfg.Port
	logger.Info("listening", "addr", addr, "env", cfg.Environment)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("server", "err", err)
		os.Exit(1)
	}
}
