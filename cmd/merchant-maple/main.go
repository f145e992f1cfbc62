package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Confidence90/merchant-maple/internal/config"
	"github.com/Confidence90/merchant-maple/internal/credstore"
	"github.com/Confidence90/merchant-maple/internal/database"
	"github.com/Confidence90/merchant-maple/internal/handlers"
	authmw "github.com/Confidence90/merchant-maple/internal/middleware"
	"github.com/Confidence90/merchant-maple/internal/services"
	"github.com/Confidence90/merchant-maple/internal/session"
	"github.com/Confidence90/merchant-maple/internal/upstream"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	durable := credstore.NewPostgresKV(db)
	store := credstore.New(durable, credstore.NewMemoryKV())

	api := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout)

	events := session.NewEvents()
	go events.Run()

	sessionService := services.NewSessionService(db)
	jwtService := services.NewJWTService(cfg.SessionSecret, cfg.SessionAccessExpiry, cfg.SessionRefreshExpiry)
	resolver := session.NewResolver(store, api, events, sessionService, cfg.SessionRefreshExpiry)

	authHandler := handlers.NewAuthHandler(cfg, resolver, jwtService, api)
	userHandler := handlers.NewUserHandler(resolver)
	vendorHandler := handlers.NewVendorHandler(resolver, api)
	discussionHandler := handlers.NewDiscussionHandler(resolver, api)
	sseHandler := handlers.NewSSEHandler(events)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.FrontendBaseURL},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api1 := app.Group("/api/v1")

	auth := api1.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Get("/:provider/consent", authHandler.GetConsentURL)
	auth.Get("/:provider/callback", authHandler.Callback)
	auth.Post("/exchange", authHandler.ExchangeCode)

	// Boot-time probe: answers {authenticated: false} to anonymous
	// callers instead of rejecting them.
	probe := api1.Group("")
	probe.Use(authmw.AuthOptional(jwtService))
	probe.Get("/session", userHandler.GetSession)

	// Session-token routes: the Auth middleware only identifies the
	// session; the gates decide whether it may pass.
	identified := api1.Group("")
	identified.Use(authmw.Auth(jwtService))

	identified.Post("/auth/logout", authHandler.Logout)
	identified.Get("/events", sseHandler.Connect)

	protected := api1.Group("")
	protected.Use(authmw.Auth(jwtService))
	protected.Use(authmw.RequireSession(resolver))

	protected.Get("/users/me", userHandler.GetMe)
	protected.Get("/users/check-listing-permission", vendorHandler.CheckListingPermission)

	protected.Get("/discussions", discussionHandler.List)
	protected.Get("/discussions/:id", discussionHandler.Get)
	protected.Post("/discussions/send-message", discussionHandler.Send)

	vendorArea := api1.Group("/vendor")
	vendorArea.Use(authmw.Auth(jwtService))
	vendorArea.Use(authmw.RequireVendor(resolver))

	vendorArea.Get("/dashboard", vendorHandler.Dashboard)
	vendorArea.Get("/orders", vendorHandler.Orders)
	vendorArea.Get("/products", vendorHandler.Products)
	vendorArea.Get("/reviews", vendorHandler.Reviews)

	api1.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			sweepCtx := context.Background()
			if err := sessionService.CleanupExpired(sweepCtx); err != nil {
				log.Printf("session sweep failed: %v", err)
			}
			if err := durable.CleanupOrphaned(sweepCtx); err != nil {
				log.Printf("credential sweep failed: %v", err)
			}
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}
