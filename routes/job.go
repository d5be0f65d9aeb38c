package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hoaconnect/hoa-services-app/controllers"
	"github.com/hoaconnect/hoa-services-app/middleware"
	"github.com/hoaconnect/hoa-services-app/models"
)

func SetupJobRoutes(app *fiber.App) {
	job := app.Group("/jobs", middleware.Protected())

	job.Get("/", controllers.GetAllJobs)
	job.Get("/my-jobs", controllers.GetMyJobs)
	job.Get("/leader-jobs", middleware.RequireRole(models.RoleLeader), controllers.GetLeaderJobs)
	job.Get("/pending-community-jobs", middleware.RequireRole(models.RoleLeader), controllers.GetPendingCommunityJobs)
	job.Get("/:id", controllers.GetJob)

	job.Post("/", middleware.RequireRole(models.RoleHomeOwner, models.RoleLeader), controllers.CreateJob)
	job.Post("/:id/approve", middleware.RequireRole(models.RoleLeader), controllers.ApproveCommunityJob)
	job.Post("/:id/reject", middleware.RequireRole(models.RoleLeader), controllers.RejectCommunityJob)
	job.Patch("/:id/status", middleware.RequireRole(models.RoleLeader), controllers.UpdateJobStatus)
	job.Patch("/:id", middleware.RequireRole(models.RoleLeader), controllers.UpdateJob)
	job.Delete("/:id", middleware.RequireRole(models.RoleLeader), controllers.DeleteJob)
}
