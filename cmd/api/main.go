package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/vcsrentals/rentals-backend/internal/config"
	"github.com/vcsrentals/rentals-backend/internal/database"
	"github.com/vcsrentals/rentals-backend/internal/handlers"
	"github.com/vcsrentals/rentals-backend/internal/middleware"
	"github.com/vcsrentals/rentals-backend/internal/services"
	"github.com/vcsrentals/rentals-backend/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// A missing signing secret is fatal; nothing else is.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Redis backs the testimonial cache and the event fan-out; the service
	// works without it.
	if err := services.InitRedis(cfg.RedisURL); err != nil {
		log.Printf("Redis initialization warning: %v", err)
	}

	if err := services.InitStorage(cfg); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	hub := services.NewHub()
	go hub.Run()

	tm := utils.NewTokenManager(cfg.Secret, cfg.JWTMaxAge)

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"}
	r.Use(cors.New(corsConfig))

	api := r.Group("/api")
	{
		gate := func(resource, verb string) gin.HandlerFunc {
			return middleware.Authorize(tm, resource, verb)
		}

		listings := api.Group("/listings")
		{
			listings.GET("", gate("listings", "list"), handlers.GetListings(db))
			listings.GET("/:id", gate("listings", "read"), handlers.GetListing(db))
			listings.POST("", gate("listings", "create"), handlers.CreateListing(db))
			listings.PATCH("/:id", gate("listings", "update"), handlers.UpdateListing(db))
			listings.DELETE("/:id", gate("listings", "delete"), handlers.DeleteListing(db))
		}

		reservations := api.Group("/reservations")
		{
			reservations.GET("", gate("reservations", "list"), handlers.GetReservations(db))
			reservations.GET("/me", gate("reservations", "me"), handlers.GetMyReservations(db))
			reservations.GET("/listing/:id", gate("reservations", "listing"), handlers.GetReservationsByListingID(db))
			reservations.GET("/:id", gate("reservations", "read"), handlers.GetReservation(db))
			reservations.POST("", gate("reservations", "create"), handlers.CreateReservation(db, hub))
			reservations.PATCH("/:id", gate("reservations", "update"), handlers.UpdateReservation(db, hub))
			reservations.DELETE("/:id", gate("reservations", "delete"), handlers.DeleteReservation(db, hub))
		}

		testimonials := api.Group("/testimonials")
		{
			testimonials.GET("", gate("testimonials", "list"), handlers.GetTestimonials(db))
			testimonials.GET("/latest", gate("testimonials", "latest"), handlers.GetLatestTestimonials(db))
			testimonials.GET("/:id", gate("testimonials", "read"), handlers.GetTestimonial(db))
			testimonials.POST("", gate("testimonials", "create"), handlers.CreateTestimonial(db))
			testimonials.PATCH("/:id", gate("testimonials", "update"), handlers.UpdateTestimonial(db))
			testimonials.DELETE("/:id", gate("testimonials", "delete"), handlers.DeleteTestimonial(db))
		}

		users := api.Group("/users")
		{
			users.POST("/signup", gate("users", "signup"), handlers.Signup(db, tm))
			users.POST("/login", gate("users", "login"), handlers.Login(db, tm))
			users.POST("/logout", gate("users", "logout"), handlers.Logout())
			users.GET("/check-auth", gate("users", "check-auth"), handlers.CheckAuth(db, tm))
			users.GET("/check-cookie", gate("users", "check-cookie"), handlers.CheckCookie(tm))
			users.GET("", gate("users", "list"), handlers.GetUsers(db))
			users.GET("/:id", gate("users", "read"), handlers.GetUser(db))
			users.PATCH("/:id", gate("users", "update"), handlers.UpdateUser(db))
			users.DELETE("/:id", gate("users", "delete"), handlers.DeleteUser(db))
		}

		api.POST("/uploads/images", gate("uploads", "create"), handlers.UploadImages())
		api.GET("/ws", gate("reservations", "feed"), handlers.ReservationFeed(hub))
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
