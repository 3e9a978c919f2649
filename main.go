package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"assessment-service/internal/cache"
	"assessment-service/internal/db"
	"assessment-service/internal/event"
	"assessment-service/internal/handlers"
	"assessment-service/internal/repository"
	"assessment-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}
	db.InitMongo(mongoURI)

	// Redis bank cache (optional)
	var redisClient *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
	} else {
		log.Println("Redis not configured, item banks load from MongoDB on every request")
	}
	bankCache := cache.NewBankCache(redisClient, 5*time.Minute)

	// RabbitMQ event publisher (optional)
	rabbitURL := os.Getenv("RABBITMQ_URI")
	eventExchange := os.Getenv("RABBITMQ_EXCHANGE")
	var publisher *event.EventPublisher
	if rabbitURL != "" && eventExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(rabbitURL, eventExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	database := db.Client.Database("assessment_service")

	// Items
	itemRepo := repository.NewItemRepository(database)
	itemService := service.NewItemService(itemRepo, bankCache)
	itemHandler := handlers.NewItemHandler(itemService)

	// Sessions
	sessionRepo := repository.NewSessionRepository(database)
	resultRepo := repository.NewResultRepository(database)
	sessionService := service.NewSessionService(sessionRepo, itemRepo, resultRepo, bankCache)
	sessionHandler := handlers.NewSessionHandler(sessionService)

	// Spaced reviews
	reviewRepo := repository.NewReviewRepository(database)
	reviewService := service.NewReviewService(reviewRepo)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	// Public routes - item lookup (answer keys stay server-side on session
	// paths; the raw listing is behind the protected group below)
	publicItem := r.Group("/public/assessment/item")
	{
		publicItem.GET("/:id", itemHandler.GetItem)
	}

	protectedItem := r.Group("/protected/assessment/item")
	protectedItem.Use(requireUser())
	{
		protectedItem.POST("/", itemHandler.CreateItem)
		protectedItem.GET("/bank/:bankId", itemHandler.ListBankItems)
		protectedItem.DELETE("/:id", itemHandler.DeleteItem)
	}

	setupSessionRoutes(r, sessionHandler, publisher)
	setupReviewRoutes(r, reviewHandler, publisher)

	port := os.Getenv("PORT")
	if port == "" {
		port = "6680"
	}
	r.Run(":" + port)
}

func setupSessionRoutes(r *gin.Engine, sessionHandler *handlers.SessionHandler, publisher *event.EventPublisher) {
	protectedSession := r.Group("/protected/assessment/session")
	protectedSession.Use(requireUser())
	{
		protectedSession.POST("/", func(c *gin.Context) {
			sessionHandler.CreateSession(c)
			publish(publisher, "assessment.session.created", gin.H{
				"user_id":   c.GetHeader("X-User-ID"),
				"timestamp": time.Now(),
			})
		})

		protectedSession.POST("/:id/answer", func(c *gin.Context) {
			sessionHandler.SubmitAnswer(c)
			publish(publisher, "assessment.answer.submitted", gin.H{
				"session_id": c.Param("id"),
				"user_id":    c.GetHeader("X-User-ID"),
				"timestamp":  time.Now(),
			})
		})

		protectedSession.POST("/:id/complete", func(c *gin.Context) {
			sessionHandler.CompleteSession(c)
			publish(publisher, "assessment.session.completed", gin.H{
				"session_id": c.Param("id"),
				"user_id":    c.GetHeader("X-User-ID"),
				"timestamp":  time.Now(),
			})
		})

		protectedSession.POST("/:id/abandon", func(c *gin.Context) {
			sessionHandler.AbandonSession(c)
			publish(publisher, "assessment.session.abandoned", gin.H{
				"session_id": c.Param("id"),
				"user_id":    c.GetHeader("X-User-ID"),
				"timestamp":  time.Now(),
			})
		})

		protectedSession.GET("/:id/result", sessionHandler.GetResult)
	}

	publicSession := r.Group("/public/assessment/session")
	{
		publicSession.GET("/:id", sessionHandler.GetSession)
	}

	publicUser := r.Group("/public/assessment/user")
	{
		publicUser.GET("/:id/sessions", sessionHandler.ListUserSessions)
	}
}

func setupReviewRoutes(r *gin.Engine, reviewHandler *handlers.ReviewHandler, publisher *event.EventPublisher) {
	protectedReview := r.Group("/protected/assessment/review")
	protectedReview.Use(requireUser())
	{
		protectedReview.POST("/", func(c *gin.Context) {
			reviewHandler.SubmitReview(c)
			publish(publisher, "assessment.review.submitted", gin.H{
				"user_id":   c.GetHeader("X-User-ID"),
				"timestamp": time.Now(),
			})
		})

		protectedReview.GET("/due", reviewHandler.GetDueItems)
	}
}

// requireUser enforces the X-User-ID header contract set by the gateway.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-ID") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func publish(publisher *event.EventPublisher, eventType string, payload interface{}) {
	if publisher != nil {
		publisher.Publish(eventType, payload)
	}
}
