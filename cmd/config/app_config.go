package config

import (
	"Trademate-Backend/internal/api/handlers"
	"Trademate-Backend/internal/api/routes"
	"Trademate-Backend/internal/middleware"
	"Trademate-Backend/internal/utils"
	"Trademate-Backend/internal/utils/storage"
	"Trademate-Backend/pkg/item"
	"Trademate-Backend/pkg/jwt"
	"Trademate-Backend/pkg/progression"
	"Trademate-Backend/pkg/ratelimit"
	"Trademate-Backend/pkg/review"
	"Trademate-Backend/pkg/sanitize"
	"Trademate-Backend/pkg/trade"
	"Trademate-Backend/pkg/user"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	redisDB, err := strconv.Atoi(utils.GetConfig("REDIS_DB"))
	if err != nil {
		redisDB = 0
	}
	offerLimiter, err := ratelimit.NewRedisLimiter(
		utils.GetConfig("REDIS_ADDR"),
		utils.GetConfig("REDIS_PASSWORD"),
		redisDB,
	)
	if err != nil {
		log.Fatalf("error connecting to redis: %v", err)
	}

	publisher, err := progression.NewNATSPublisher(utils.GetConfig("NATS_URL"))
	if err != nil {
		log.Fatalf("error connecting to nats: %v", err)
	}

	sanitizer := sanitize.NewSanitizer()

	// Repository
	userRepository := user.NewUserRepository(db)
	itemRepository := item.NewItemRepository(db)
	tradeRepository := trade.NewTradeRepository(db)
	reviewRepository := review.NewReviewRepository(db)
	progressionRepository := progression.NewProgressionRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	progressionService := progression.NewProgressionService(progressionRepository, publisher)
	tradeService := trade.NewTradeService(
		tradeRepository,
		itemRepository,
		userService,
		progressionService,
		offerLimiter,
		sanitizer,
	)
	itemService := item.NewItemService(itemRepository, tradeService, s3)
	reviewService := review.NewReviewService(
		reviewRepository,
		tradeRepository,
		progressionService,
		sanitizer,
	)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	itemHandler := handlers.NewItemHandler(itemService, validator)
	tradeHandler := handlers.NewTradeHandler(tradeService, validator)
	reviewHandler := handlers.NewReviewHandler(reviewService, validator)
	progressionHandler := handlers.NewProgressionHandler(progressionService)

	// routes
	routesConfig := routes.Config{
		App:                app,
		UserHandler:        userHandler,
		ItemHandler:        itemHandler,
		TradeHandler:       tradeHandler,
		ReviewHandler:      reviewHandler,
		ProgressionHandler: progressionHandler,
		Middleware:         middlewares,
		JWTService:         jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
