package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"eventplanner/config"
	_ "eventplanner/docs"
	"eventplanner/internal/adapters/auth"
	"eventplanner/internal/adapters/email"
	deliveryhttp "eventplanner/internal/delivery/http"
	"eventplanner/internal/delivery/http/controllers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/repository/postgres"
	"eventplanner/internal/services"
)

const (
	serviceTimeout = 5 * time.Second
	bcryptCost     = 10
)

// @title EventPlanner API
// @version 1.0
// @description Event management API: events, categories, invites, and RSVPs.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	version, err := postgres.RunMigrations(cfg.DBUrl, cfg.MigrationsPath)
	if err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	logger.Info("migrations applied", "version", version)

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	inviteRepo := postgres.NewInviteRepository(db)
	rsvpRepo := postgres.NewRSVPRepository(db)

	// Adapters
	hasher := auth.NewBcryptHasher(bcryptCost)
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.MailerProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKey,
			SecretAccessKey:    cfg.SESSecretKey,
			InsecureSkipVerify: cfg.SESInsecureTLS,
		},
	})
	if err != nil {
		log.Fatalf("failed to create mailer: %v", err)
	}
	renderer := email.NewTemplateRenderer()

	// Services
	gate := services.NewAuthorizationGate(roleRepo)
	emailService := services.NewEmailService(mailer, renderer)
	authService := services.NewAuthService(userRepo, roleRepo, hasher, tokenIssuer, cfg.JWTExpiry, emailService, serviceTimeout)
	userService := services.NewUserService(userRepo, roleRepo, gate, serviceTimeout)
	categoryService := services.NewCategoryService(categoryRepo, gate, serviceTimeout)
	eventService := services.NewEventService(eventRepo, categoryRepo, gate, serviceTimeout)
	inviteService := services.NewInviteService(inviteRepo, eventRepo, userRepo, emailService, gate, serviceTimeout)
	rsvpService := services.NewRSVPService(rsvpRepo, eventRepo, inviteRepo, inviteService, gate, serviceTimeout)

	// Controllers
	router := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Auth:     controllers.NewAuthController(logger, authService),
		User:     controllers.NewUserController(logger, userService),
		Category: controllers.NewCategoryController(logger, categoryService),
		Event:    controllers.NewEventController(logger, eventService),
		Invite:   controllers.NewInviteController(logger, inviteService),
		RSVP:     controllers.NewRSVPController(logger, rsvpService),
	}, tokenVerifier, logger)

	handler := middleware.LoggingMiddleware(logger, router)
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)

	addr := ":" + cfg.Port
	logger.Info("server starting", "addr", addr, "env", cfg.Environment)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
