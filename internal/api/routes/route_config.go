package routes

import (
	"github.com/gofiber/fiber/v2"

	"grocery-price-tracker/internal/api/handlers"
	"grocery-price-tracker/internal/middleware"
	"grocery-price-tracker/pkg/jwt"
)

type Config struct {
	App            *fiber.App
	UserHandler    handlers.UserHandler
	ReceiptHandler handlers.ReceiptHandler
	ItemHandler    handlers.ItemHandler
	SearchHandler  handlers.SearchHandler
	Middleware     middleware.Middleware
	JWTService     jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Receipts()
	c.Items()
	c.Search()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/update", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateUser)
		user.Post("/forget", c.UserHandler.ForgotPassword)
		user.Post("/reset", c.UserHandler.ResetPassword)
	}
}

func (c *Config) Receipts() {
	receipts := c.App.Group("/api/v1/receipts", c.Middleware.AuthMiddleware(c.JWTService))

	receipts.Post("", c.ReceiptHandler.CreateReceipt)
	receipts.Get("", c.ReceiptHandler.GetReceipts)
	receipts.Post("/scan", c.ReceiptHandler.ScanReceipt)
	receipts.Get("/:id", c.ReceiptHandler.GetReceiptDetails)
	receipts.Put("/:id", c.ReceiptHandler.UpdateReceipt)
	receipts.Delete("/:id", c.ReceiptHandler.DeleteReceipt)
}

func (c *Config) Items() {
	items := c.App.Group("/api/v1/items", c.Middleware.AuthMiddleware(c.JWTService))

	items.Post("/:receipt_id", c.ItemHandler.AddItem)
	items.Put("/:id", c.ItemHandler.UpdateItem)
	items.Delete("/:id", c.ItemHandler.DeleteItem)
}

func (c *Config) Search() {
	search := c.App.Group("/api/v1/search", c.Middleware.AuthMiddleware(c.JWTService))

	search.Get("", c.SearchHandler.SearchItems)
	search.Get("/supermarkets", c.SearchHandler.GetSupermarketSuggestions)
	search.Get("/history/:item_name", c.SearchHandler.GetPriceHistory)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
