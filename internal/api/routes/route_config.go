package routes

import (
	"Trademate-Backend/internal/api/handlers"
	"Trademate-Backend/internal/middleware"
	"Trademate-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App                *fiber.App
	UserHandler        handlers.UserHandler
	ItemHandler        handlers.ItemHandler
	TradeHandler       handlers.TradeHandler
	ReviewHandler      handlers.ReviewHandler
	ProgressionHandler handlers.ProgressionHandler
	Middleware         middleware.Middleware
	JWTService         jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Items()
	c.Trades()
	c.Reviews()
	c.Progression()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
	}
}

func (c *Config) Items() {
	items := c.App.Group("/api/v1/items", c.Middleware.AuthMiddleware(c.JWTService))

	items.Get("/feed", c.ItemHandler.GetItemFeed)
	items.Get("/mine", c.ItemHandler.GetMyItems)

	// Basic CRUD operations
	items.Post("", c.ItemHandler.CreateItem)
	items.Get("/:id", c.ItemHandler.GetItemByID)
	items.Put("/:id", c.ItemHandler.UpdateItem)
	items.Delete("/:id", c.ItemHandler.DeleteItem)
}

func (c *Config) Trades() {
	trades := c.App.Group("/api/v1/trades", c.Middleware.AuthMiddleware(c.JWTService))

	trades.Get("/busy-items", c.TradeHandler.GetBusyItems)

	trades.Post("", c.TradeHandler.CreateTrade)
	trades.Get("", c.TradeHandler.GetMyTrades)
	trades.Get("/:id", c.TradeHandler.GetTradeByID)

	// Lifecycle operations
	trades.Post("/:id/respond", c.TradeHandler.RespondToTrade)
	trades.Post("/:id/counter", c.TradeHandler.CounterOffer)
	trades.Post("/:id/cancel", c.TradeHandler.CancelTrade)
	trades.Post("/:id/complete", c.TradeHandler.CompleteTrade)
}

func (c *Config) Reviews() {
	reviews := c.App.Group("/api/v1/reviews", c.Middleware.AuthMiddleware(c.JWTService))

	reviews.Get("/can-review/:tradeId", c.ReviewHandler.CanReview)
	reviews.Post("", c.ReviewHandler.SubmitReview)
	reviews.Get("/user/:userId", c.ReviewHandler.GetUserReviews)
}

func (c *Config) Progression() {
	progression := c.App.Group("/api/v1/progression", c.Middleware.AuthMiddleware(c.JWTService))

	progression.Get("/xp", c.ProgressionHandler.GetUserXP)
	progression.Get("/xp/history", c.ProgressionHandler.GetXPHistory)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
