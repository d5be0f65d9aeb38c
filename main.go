package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/hoaconnect/hoa-services-app/config"
	"github.com/hoaconnect/hoa-services-app/cron"
	"github.com/hoaconnect/hoa-services-app/db"
	"github.com/hoaconnect/hoa-services-app/redis"
	"github.com/hoaconnect/hoa-services-app/routes"
)

func main() {
	config.Load()

	app := fiber.New()
	db.Init()
	db.Migrate()

	if os.Getenv("REDIS_ADDR") != "" {
		redis.InitRedis()
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("HOA community services API")
	})

	routes.SetupAuthRoutes(app)
	routes.SetupApartmentRoutes(app)
	routes.SetupServiceRoutes(app)
	routes.SetupJobRoutes(app)
	routes.SetupBidRoutes(app)
	routes.SetupProviderRoutes(app)

	cron.StartCronJobs()

	log.Fatal(app.Listen(":8000"))
}
