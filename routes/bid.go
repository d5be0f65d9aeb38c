package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hoaconnect/hoa-services-app/controllers"
	"github.com/hoaconnect/hoa-services-app/middleware"
	"github.com/hoaconnect/hoa-services-app/models"
)

func SetupBidRoutes(app *fiber.App) {
	bid := app.Group("/bids", middleware.Protected())

	bid.Get("/", controllers.GetAllBids)
	bid.Get("/my-bids", middleware.RequireRole(models.RoleServiceProvider), controllers.GetMyBids)
	bid.Get("/:id", controllers.GetBid)

	bid.Post("/", middleware.RequireRole(models.RoleServiceProvider), controllers.CreateBid)
	bid.Patch("/:id/status", middleware.RequireRole(models.RoleLeader), controllers.UpdateBidStatus)
	bid.Delete("/:id", middleware.RequireRole(models.RoleServiceProvider), controllers.DeleteBid)
}
