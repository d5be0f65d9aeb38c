package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hoaconnect/hoa-services-app/controllers"
	"github.com/hoaconnect/hoa-services-app/middleware"
	"github.com/hoaconnect/hoa-services-app/models"
)

func SetupApartmentRoutes(app *fiber.App) {
	apartment := app.Group("/apartments", middleware.Protected())

	apartment.Get("/", controllers.GetAllApartments)
	apartment.Get("/my", middleware.RequireRole(models.RoleLeader), controllers.GetMyApartments)
	apartment.Get("/:id", controllers.GetApartment)
	apartment.Get("/:id/jobs", controllers.GetApartmentJobs)
	apartment.Post("/", middleware.RequireRole(models.RoleLeader), controllers.CreateApartment)
	apartment.Patch("/:id", middleware.RequireRole(models.RoleLeader), controllers.UpdateApartment)
	apartment.Delete("/:id", middleware.RequireRole(models.RoleLeader), controllers.DeleteApartment)

	apartment.Post("/:id/houses", middleware.RequireRole(models.RoleLeader), controllers.AddHouse)
	apartment.Delete("/:id/houses/:houseId", middleware.RequireRole(models.RoleLeader), controllers.RemoveHouse)
}
