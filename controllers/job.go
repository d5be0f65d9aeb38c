package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/hoaconnect/hoa-services-app/db"
	"github.com/hoaconnect/hoa-services-app/middleware"
	"github.com/hoaconnect/hoa-services-app/models"
	"github.com/hoaconnect/hoa-services-app/utils"
)

// CreateJobRequest carries the caller-supplied job fields. Localizable text
// is accepted in a single language and expanded server-side.
type CreateJobRequest struct {
	Title           string         `json:"title" form:"title"`
	Description     string         `json:"description" form:"description"`
	Charges         string         `json:"charges" form:"charges"`
	WorkDuration    string         `json:"work_duration" form:"work_duration"`
	TimeSlot        string         `json:"time_slot" form:"time_slot"`
	Location        string         `json:"location" form:"location"`
	ExperienceLevel string         `json:"experience_level" form:"experience_level"`
	StartDate       string         `json:"start_date" form:"start_date"`
	EndDate         string         `json:"end_date" form:"end_date"`
	JobType         models.JobType `json:"job_type" form:"job_type"`
	ApartmentID     *uint          `json:"apartment_id" form:"apartment_id"`
	ServiceIDs      []uint         `json:"service_ids" form:"service_ids"`
}

// UpdateJobRequest carries the optional fields a leader may change while a
// job is still open.
type UpdateJobRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Charges         string `json:"charges"`
	WorkDuration    string `json:"work_duration"`
	TimeSlot        string `json:"time_slot"`
	Location        string `json:"location"`
	ExperienceLevel string `json:"experience_level"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	ServiceIDs      []uint `json:"service_ids"`
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

func preloadJob(q *gorm.DB) *gorm.DB {
	return q.Preload("Services").
		Preload("Apartment").
		Preload("Leader").
		Preload("Creator").
		Preload("Bids", func(db *gorm.DB) *gorm.DB {
			return db.Order("total_price ASC") // cheapest bids first
		}).
		Preload("Bids.ServiceProvider")
}

// CreateJob routes a new job by job type and creator role. Home-service jobs
// open immediately; community-service jobs posted by a home owner are sent
// to the apartment's leader for approval first.
func CreateJob(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	req := new(CreateJobRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	if req.Title == "" || req.Description == "" || req.Charges == "" ||
		req.WorkDuration == "" || req.TimeSlot == "" || req.Location == "" ||
		req.StartDate == "" || req.EndDate == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing required fields",
			Error:   "title, description, charges, work_duration, time_slot, location, start_date and end_date are required",
		})
	}

	if len(req.ServiceIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "At least one service is required",
			Error:   "service_ids must not be empty",
		})
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid start date",
			Error:   err.Error(),
		})
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid end date",
			Error:   err.Error(),
		})
	}

	var user models.User
	if err := db.DB.First(&user, principal.ID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "User not found",
			Error:   err.Error(),
		})
	}

	// Verify all requested services exist before anything is written.
	var services []models.Service
	if err := db.DB.Where("id IN ?", req.ServiceIDs).Find(&services).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load services",
			Error:   err.Error(),
		})
	}
	if len(services) != len(req.ServiceIDs) {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "One or more services not found",
			Error:   "unknown service id in service_ids",
		})
	}

	var apartmentID uint
	var leaderID *uint
	var initialStatus models.JobStatus

	switch req.JobType {
	case models.JobTypeHomeService:
		switch user.Role {
		case models.RoleHomeOwner:
			// Home service: use the home owner's assigned apartment.
			if user.ApartmentID == nil {
				return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
					Message: "Your account is not linked to any apartment",
					Error:   "no apartment linkage",
				})
			}
			if req.ApartmentID != nil && *req.ApartmentID != *user.ApartmentID {
				return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
					Message: "You can only create home service jobs for your own apartment",
					Error:   "apartment mismatch",
				})
			}
			apartmentID = *user.ApartmentID
			leaderID = nil
			initialStatus = models.JobStatusOpen // visible to providers immediately
		case models.RoleLeader:
			if req.ApartmentID == nil {
				return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
					Message: "Apartment ID is required for leader-created home service jobs",
					Error:   "missing apartment_id",
				})
			}
			var apartment models.Apartment
			if err := db.DB.Where("id = ? AND leader_id = ?", *req.ApartmentID, user.ID).
				First(&apartment).Error; err != nil {
				return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
					Message: "You are not authorized to post jobs for this apartment",
					Error:   "not the apartment leader",
				})
			}
			apartmentID = apartment.ID
			leaderID = &user.ID
			initialStatus = models.JobStatusOpen
		default:
			return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
				Message: "Invalid role for creating home service job",
				Error:   "role not permitted",
			})
		}

	case models.JobTypeCommunityService:
		if req.ApartmentID == nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Apartment ID is required for community service jobs",
				Error:   "missing apartment_id",
			})
		}
		var apartment models.Apartment
		if err := db.DB.First(&apartment, *req.ApartmentID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Apartment not found",
				Error:   err.Error(),
			})
		}
		if apartment.LeaderID == nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "This apartment does not have a leader assigned",
				Error:   "apartment has no leader assigned",
			})
		}

		switch user.Role {
		case models.RoleHomeOwner:
			// Home owner can only target their own apartment.
			if user.ApartmentID == nil || *user.ApartmentID != apartment.ID {
				return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
					Message: "You can only create community service jobs for your own apartment",
					Error:   "apartment mismatch",
				})
			}
			apartmentID = apartment.ID
			leaderID = apartment.LeaderID
			initialStatus = models.JobStatusSentToLeader // waits for leader approval
		case models.RoleLeader:
			if *apartment.LeaderID != user.ID {
				return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
					Message: "You are not authorized to post jobs for this apartment",
					Error:   "not the apartment leader",
				})
			}
			apartmentID = apartment.ID
			leaderID = &user.ID
			initialStatus = models.JobStatusOpen // directly open when leader posts
		default:
			return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
				Message: "Invalid role for creating community service job",
				Error:   "role not permitted",
			})
		}

	default:
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid job type",
			Error:   "job_type must be HOME_SERVICE or COMMUNITY_SERVICE",
		})
	}

	// Translate every localizable field before the transaction begins so a
	// translation failure leaves nothing behind.
	translations, err := utils.TranslateAll(
		req.Title,
		req.Description,
		req.Charges,
		req.WorkDuration,
		req.TimeSlot,
		req.Location,
		req.ExperienceLevel,
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to translate job fields",
			Error:   err.Error(),
		})
	}

	job := models.Job{
		Title:           translations[0],
		Description:     translations[1],
		Charges:         translations[2],
		WorkDuration:    translations[3],
		TimeSlot:        translations[4],
		Location:        translations[5],
		ExperienceLevel: translations[6],
		JobType:         req.JobType,
		Status:          initialStatus,
		StartDate:       startDate,
		EndDate:         endDate,
		ApartmentID:     apartmentID,
		LeaderID:        leaderID,
		CreatedBy:       user.ID,
		Services:        services,
	}

	// Job row and its service links land together or not at all.
	if err := db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&job).Error
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create job",
			Error:   err.Error(),
		})
	}

	var created models.Job
	if err := preloadJob(db.DB).First(&created, job.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load created job",
			Error:   err.Error(),
		})
	}

	message := "Home service job created successfully and is now visible to service providers"
	if req.JobType == models.JobTypeCommunityService {
		if user.Role == models.RoleHomeOwner {
			message = "Community service job request sent to leader for approval"
		} else {
			message = "Community service job created successfully and is now visible to service providers"
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"job":     created,
	})
}

// GetAllJobs lists the jobs open for bidding, newest first.
func GetAllJobs(c *fiber.Ctx) error {
	var jobs []models.Job
	if err := preloadJob(db.DB).
		Where("status IN ?", []models.JobStatus{models.JobStatusOpen, models.JobStatusPostedByLeader}).
		Order("created_at DESC").
		Find(&jobs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch jobs",
			Error:   err.Error(),
		})
	}
	return c.JSON(jobs)
}

// GetJob returns one job with its relations; bids come cheapest first.
func GetJob(c *fiber.Ctx) error {
	id := c.Params("id")
	var job models.Job
	if err := preloadJob(db.DB).First(&job, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Job not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(job)
}

// GetMyJobs lists the jobs the caller created, newest first.
func GetMyJobs(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	var jobs []models.Job
	if err := preloadJob(db.DB).
		Where("created_by = ?", principal.ID).
		Order("created_at DESC").
		Find(&jobs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch jobs",
			Error:   err.Error(),
		})
	}
	return c.JSON(jobs)
}

// GetLeaderJobs lists the jobs pinned to the calling leader, newest first.
func GetLeaderJobs(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	var jobs []models.Job
	if err := preloadJob(db.DB).
		Where("leader_id = ?", principal.ID).
		Order("created_at DESC").
		Find(&jobs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch jobs",
			Error:   err.Error(),
		})
	}
	return c.JSON(jobs)
}

// GetPendingCommunityJobs lists community jobs awaiting the calling leader's
// approval, newest first.
func GetPendingCommunityJobs(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	var jobs []models.Job
	if err := db.DB.
		Preload("Services").
		Preload("Apartment").
		Preload("Creator").
		Joins("JOIN apartments ON apartments.id = jobs.apartment_id").
		Where("jobs.job_type = ? AND jobs.status = ? AND apartments.leader_id = ?",
			models.JobTypeCommunityService, models.JobStatusSentToLeader, principal.ID).
		Order("jobs.created_at DESC").
		Find(&jobs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch pending community jobs",
			Error:   err.Error(),
		})
	}
	return c.JSON(jobs)
}

// GetApartmentJobs lists every job posted against one apartment.
func GetApartmentJobs(c *fiber.Ctx) error {
	id := c.Params("id")

	var jobs []models.Job
	if err := preloadJob(db.DB).
		Where("apartment_id = ?", id).
		Order("created_at DESC").
		Find(&jobs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch jobs",
			Error:   err.Error(),
		})
	}
	return c.JSON(jobs)
}

// ApproveCommunityJob moves a community job from SENT_TO_LEADER to
// POSTED_BY_LEADER and pins the approving leader onto it.
func ApproveCommunityJob(c *fiber.Ctx) error {
	return resolveCommunityJob(c, models.JobStatusPostedByLeader,
		"Community service job approved and posted successfully")
}

// RejectCommunityJob moves a community job from SENT_TO_LEADER to CANCELLED.
func RejectCommunityJob(c *fiber.Ctx) error {
	return resolveCommunityJob(c, models.JobStatusCancelled,
		"Community service job rejected successfully")
}

func resolveCommunityJob(c *fiber.Ctx, target models.JobStatus, message string) error {
	principal := middleware.GetPrincipal(c)
	id := c.Params("id")

	var job models.Job
	if err := db.DB.Preload("Apartment").First(&job, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Job not found",
			Error:   err.Error(),
		})
	}

	if job.JobType != models.JobTypeCommunityService {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Only community service jobs can be approved or rejected",
			Error:   "wrong job type",
		})
	}

	if job.Status != models.JobStatusSentToLeader {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Job is not in SENT_TO_LEADER status",
			Error:   "invalid status",
		})
	}

	if job.Apartment.LeaderID == nil || *job.Apartment.LeaderID != principal.ID {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "You are not authorized to approve or reject jobs for this apartment",
			Error:   "not the apartment leader",
		})
	}

	updates := map[string]interface{}{"status": target}
	if target == models.JobStatusPostedByLeader {
		updates["leader_id"] = principal.ID // ensure leader is set
	}
	if err := db.DB.Model(&job).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update job",
			Error:   err.Error(),
		})
	}

	var updated models.Job
	if err := preloadJob(db.DB).First(&updated, job.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load updated job",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": message,
		"job":     updated,
	})
}

// UpdateJob lets the owning leader change job fields while the job is OPEN.
// When service_ids are supplied the existing link set is replaced in the
// same transaction as the field update.
func UpdateJob(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	id := c.Params("id")

	req := new(UpdateJobRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	var job models.Job
	if err := db.DB.Where("id = ? AND leader_id = ?", id, principal.ID).
		First(&job).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Job not found or you are not authorized to update it",
			Error:   err.Error(),
		})
	}

	if job.Status != models.JobStatusOpen {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot update job that is not in OPEN status",
			Error:   "invalid status",
		})
	}

	var services []models.Service
	if len(req.ServiceIDs) > 0 {
		if err := db.DB.Where("id IN ?", req.ServiceIDs).Find(&services).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to load services",
				Error:   err.Error(),
			})
		}
		if len(services) != len(req.ServiceIDs) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "One or more services not found",
				Error:   "unknown service id in service_ids",
			})
		}
	}

	updates := map[string]interface{}{}

	// Translate only the supplied text fields, before any write.
	texts := map[string]string{
		"title":            req.Title,
		"description":      req.Description,
		"charges":          req.Charges,
		"work_duration":    req.WorkDuration,
		"time_slot":        req.TimeSlot,
		"location":         req.Location,
		"experience_level": req.ExperienceLevel,
	}
	for column, text := range texts {
		if text == "" {
			continue
		}
		translated, err := utils.Translate(text)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to translate job fields",
				Error:   err.Error(),
			})
		}
		updates[column] = translated
	}

	if req.StartDate != "" {
		startDate, err := parseDate(req.StartDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid start date",
				Error:   err.Error(),
			})
		}
		updates["start_date"] = startDate
	}
	if req.EndDate != "" {
		endDate, err := parseDate(req.EndDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid end date",
				Error:   err.Error(),
			})
		}
		updates["end_date"] = endDate
	}

	if err := db.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&job).Updates(updates).Error; err != nil {
				return err
			}
		}
		if len(req.ServiceIDs) > 0 {
			// Replace the full link set atomically with the field update.
			if err := tx.Model(&job).Association("Services").Replace(services); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update job",
			Error:   err.Error(),
		})
	}

	var updated models.Job
	if err := preloadJob(db.DB).First(&updated, job.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load updated job",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Job updated successfully",
		"job":     updated,
	})
}

// UpdateJobStatus is the leader's operational status overwrite, used e.g.
// for manual cancellation. Ownership is the only gate; no transition table
// is enforced here.
func UpdateJobStatus(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	id := c.Params("id")

	var body struct {
		Status models.JobStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	if !models.ValidJobStatus(body.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid job status",
			Error:   "unknown status value",
		})
	}

	var job models.Job
	if err := db.DB.Where("id = ? AND leader_id = ?", id, principal.ID).
		First(&job).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Job not found or you are not authorized to update it",
			Error:   err.Error(),
		})
	}

	if err := db.DB.Model(&job).Update("status", body.Status).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update job status",
			Error:   err.Error(),
		})
	}

	var updated models.Job
	if err := preloadJob(db.DB).First(&updated, job.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load updated job",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Job status updated successfully",
		"job":     updated,
	})
}

// DeleteJob removes an OPEN job along with its service links and bids in a
// single transaction.
func DeleteJob(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	id := c.Params("id")

	var job models.Job
	if err := db.DB.Where("id = ? AND leader_id = ?", id, principal.ID).
		First(&job).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Job not found or you are not authorized to delete it",
			Error:   err.Error(),
		})
	}

	if job.Status != models.JobStatusOpen {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot delete job that is not in OPEN status",
			Error:   "invalid status",
		})
	}

	if err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&job).Association("Services").Clear(); err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", job.ID).Delete(&models.Bid{}).Error; err != nil {
			return err
		}
		return tx.Delete(&job).Error
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete job",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Job deleted successfully",
	})
}
