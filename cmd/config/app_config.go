package config

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"grocery-price-tracker/internal/api/handlers"
	"grocery-price-tracker/internal/api/routes"
	"grocery-price-tracker/internal/middleware"
	"grocery-price-tracker/internal/utils"
	"grocery-price-tracker/internal/utils/mailing"
	"grocery-price-tracker/internal/utils/storage"
	"grocery-price-tracker/pkg/item"
	"grocery-price-tracker/pkg/jwt"
	"grocery-price-tracker/pkg/ocr"
	"grocery-price-tracker/pkg/receipt"
	"grocery-price-tracker/pkg/search"
	"grocery-price-tracker/pkg/user"
)

func NewApp(db *gorm.DB, cfg utils.Config) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validate := utils.NewValidator()

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
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3(storage.S3Config{
		Bucket:    cfg.AWSS3Bucket,
		Region:    cfg.AWSS3Region,
		AccessKey: cfg.AWSAccessKey,
		SecretKey: cfg.AWSSecretKey,
	})
	mailer := mailing.NewMailer(mailing.MailConfig{
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPSender:   cfg.SMTPSenderName,
		SMTPEmail:    cfg.SMTPAuthEmail,
		SMTPPassword: cfg.SMTPAuthPassword,
	})
	extractor := ocr.NewGeminiExtractor(ocr.GeminiConfig{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	})

	// Repository
	userRepository := user.NewUserRepository(db)
	receiptRepository := receipt.NewReceiptRepository(db)
	itemRepository := item.NewItemRepository(db)
	searchRepository := search.NewSearchRepository(db)

	// Service
	jwtService := jwt.NewJWTService(cfg.JWTSecret)
	userService := user.NewUserService(userRepository, jwtService, mailer, cfg.AppURL)
	receiptService := receipt.NewReceiptService(receiptRepository, extractor, s3, cfg.MaxUploadSize)
	itemService := item.NewItemService(itemRepository)
	searchService := search.NewSearchService(searchRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validate)
	receiptHandler := handlers.NewReceiptHandler(receiptService, validate)
	itemHandler := handlers.NewItemHandler(itemService, validate)
	searchHandler := handlers.NewSearchHandler(searchService)

	// routes
	routesConfig := routes.Config{
		App:            app,
		UserHandler:    userHandler,
		ReceiptHandler: receiptHandler,
		ItemHandler:    itemHandler,
		SearchHandler:  searchHandler,
		Middleware:     middlewares,
		JWTService:     jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
