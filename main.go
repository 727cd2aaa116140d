package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/muhammed1675/ScentsByMotun/admin"
	"github.com/muhammed1675/ScentsByMotun/cart"
	"github.com/muhammed1675/ScentsByMotun/catalog"
	"github.com/muhammed1675/ScentsByMotun/checkout"
	"github.com/muhammed1675/ScentsByMotun/config"
	"github.com/muhammed1675/ScentsByMotun/events"
	"github.com/muhammed1675/ScentsByMotun/gateway"
	"github.com/muhammed1675/ScentsByMotun/payments"
	"github.com/muhammed1675/ScentsByMotun/routes"
	"github.com/muhammed1675/ScentsByMotun/session"
	"github.com/muhammed1675/ScentsByMotun/store"
)

// profileSweepInterval bounds how quickly two storefront processes
// sharing one profile converge.
const profileSweepInterval = 2 * time.Second

func main() {
	log.Println("✅ Starting ScentsByMotun storefront...")

	// Load environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuration failed: %v", err)
	}

	// Open the profile store and start the cross-process watcher
	profile, err := store.Open(cfg.ProfileDB)
	if err != nil {
		log.Fatalf("❌ Failed to open profile store: %v", err)
	}
	defer profile.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go profile.Watch(ctx, profileSweepInterval)

	// Wire the engine. The session manager supplies the bearer token for
	// gateway calls once someone signs in.
	bus := events.NewBus()

	var sessions *session.Manager
	gw := gateway.New(cfg.PlatformURL, cfg.PlatformAnonKey, gateway.TokenFunc(func() string {
		if sessions == nil {
			return ""
		}
		return sessions.AccessToken()
	}))

	sessions = session.New(gw, profile, bus, cfg.AdminRole)
	carts := cart.New(profile, bus)
	products := catalog.New(gw)
	bridge := payments.NewInlineBridge()
	orders := checkout.New(gw, sessions, carts, bridge, cfg.PaystackPublicKey, cfg.Currency)
	admins := admin.New(sessions, products, orders, gw)

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes.SetupRoutes(r, routes.Deps{
		Sessions: sessions,
		Carts:    carts,
		Catalog:  products,
		Checkout: orders,
		Admin:    admins,
		Bridge:   bridge,
		Bus:      bus,
	})

	// Start server
	log.Printf("🚀 Storefront running on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
