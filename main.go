package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"coursecart/config"
	"coursecart/db"
	"coursecart/handlers"
	"coursecart/metrics"
	"coursecart/middleware"
	"coursecart/services"
	"coursecart/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration error: ", err)
	}

	if err := db.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	if err := db.ApplySchema("schema.sql"); err != nil {
		log.Fatal("Failed to apply schema: ", err)
	}
	log.Println("Database schema verified")

	users := store.NewPostgres(db.GetDB())
	pending := services.NewPendingStore(cfg.PendingTTL)
	gateway := services.NewHTTPGateway(
		cfg.GatewayBaseURL,
		cfg.GatewayClientID,
		cfg.GatewayClientSecret,
		cfg.CallbackBaseURL+"/payment-return",
	)
	mailer := services.NewSendGridMailer(cfg.SendGridAPIKey, cfg.CouponFromEmail)
	m := metrics.New()

	authHandler := &handlers.AuthHandler{
		Users:     users,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
	}
	wishlistHandler := &handlers.WishlistHandler{Users: users}
	paymentHandler := &handlers.PaymentHandler{
		Gateway:       gateway,
		Mailer:        mailer,
		Pending:       pending,
		WebhookSecret: []byte(cfg.GatewayWebhookSecret),
		Metrics:       m,
	}

	// Background eviction of pending payments that never reached a paid
	// status.
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			if n := pending.Sweep(time.Now()); n > 0 {
				m.PendingEvicted.Add(float64(n))
				log.Printf("Evicted %d expired pending payments", n)
			}
		}
	}()

	r := gin.Default()
	r.Use(middleware.CORS())

	r.POST("/signup", authHandler.Signup)
	r.POST("/login", authHandler.Login)

	wl := r.Group("/wishlist", middleware.AuthRequired(cfg.JWTSecret, users))
	{
		wl.GET("", wishlistHandler.List)
		wl.POST("", wishlistHandler.Add)
		wl.DELETE("/:courseId", wishlistHandler.Remove)
	}

	r.POST("/createOrder", paymentHandler.CreateOrder)
	r.POST("/payment-webhook", paymentHandler.Webhook)

	r.GET("/metrics", gin.WrapH(m.Handler()))

	log.Println("Server starting on port " + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server error: ", err)
	}
}
