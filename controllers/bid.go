package controllers

import (
	"fmt"
	"log"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/hoaconnect/hoa-services-app/db"
	"github.com/hoaconnect/hoa-services-app/middleware"
	"github.com/hoaconnect/hoa-services-app/models"
	"github.com/hoaconnect/hoa-services-app/utils"
)

// CreateBidRequest carries a provider's offer. TotalPrice arrives as text
// and is validated server-side.
type CreateBidRequest struct {
	JobID       uint   `json:"job_id" form:"job_id"`
	TotalPrice  string `json:"total_price" form:"total_price"`
	CoverLetter string `json:"cover_letter" form:"cover_letter"`
}

func preloadBid(q *gorm.DB) *gorm.DB {
	return q.Preload("Job").
		Preload("Job.Services").
		Preload("Job.Apartment").
		Preload("ServiceProvider")
}

// CreateBid submits a provider's offer against an open job. The optional
// document is stored first; a failed upload aborts the whole create.
func CreateBid(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal.Type != "serviceProvider" {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "Only service providers can create bids",
			Error:   "caller is not a service provider",
		})
	}

	req := new(CreateBidRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	if req.JobID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Job ID is required",
			Error:   "missing job_id",
		})
	}
	if req.CoverLetter == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cover letter is required",
			Error:   "missing cover_letter",
		})
	}

	totalPrice, err := strconv.ParseFloat(req.TotalPrice, 64)
	if err != nil || math.IsNaN(totalPrice) || math.IsInf(totalPrice, 0) || totalPrice <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Total price must be a valid positive number",
			Error:   "invalid total_price",
		})
	}

	var provider models.ServiceProvider
	if err := db.DB.Preload("Services").First(&provider, principal.ID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Service provider not found",
			Error:   err.Error(),
		})
	}
	if !provider.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "Service provider account is not active",
			Error:   "inactive account",
		})
	}

	var job models.Job
	if err := db.DB.Preload("Services").First(&job, req.JobID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Job not found",
			Error:   err.Error(),
		})
	}
	if job.Status != models.JobStatusOpen {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot bid on job that is not open",
			Error:   "job not open",
		})
	}

	// One bid per (job, provider); the composite unique index backs this up
	// under concurrent submissions.
	var existing models.Bid
	if db.DB.Where("job_id = ? AND service_provider_id = ?", job.ID, provider.ID).
		First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "You have already bid on this job",
			Error:   "duplicate bid",
		})
	}

	if len(job.Services) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Job has no services defined",
			Error:   "no job services",
		})
	}

	// One shared service category is sufficient.
	offersAny := false
	for _, s := range job.Services {
		if provider.OffersService(s.ID) {
			offersAny = true
			break
		}
	}
	if !offersAny {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "You do not offer any of the services required for this job",
			Error:   "no matching service",
		})
	}

	var documentURL string
	if file, err := c.FormFile("document"); err == nil && file != nil {
		documentURL, err = utils.UploadDocument(file, "bid-documents", provider.ID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Failed to upload bid document",
				Error:   err.Error(),
			})
		}
	}

	coverLetter, err := utils.Translate(req.CoverLetter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to translate cover letter",
			Error:   err.Error(),
		})
	}

	bid := models.Bid{
		JobID:             job.ID,
		ServiceProviderID: provider.ID,
		TotalPrice:        totalPrice,
		CoverLetter:       coverLetter,
		DocumentURL:       documentURL,
		Status:            models.BidStatusPending,
	}

	if err := db.DB.Create(&bid).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create bid",
			Error:   err.Error(),
		})
	}

	var created models.Bid
	if err := preloadBid(db.DB).First(&created, bid.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load created bid",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Bid submitted successfully",
		"bid":     created,
	})
}

// GetAllBids lists bids, optionally filtered by job or provider. Bids of one
// job come cheapest first; everything else comes newest first.
func GetAllBids(c *fiber.Ctx) error {
	var bids []models.Bid

	q := preloadBid(db.DB)
	if jobID := c.Query("jobId"); jobID != "" {
		q = q.Where("job_id = ?", jobID).Order("total_price ASC")
	} else if providerID := c.Query("serviceProviderId"); providerID != "" {
		q = q.Where("service_provider_id = ?", providerID).Order("created_at DESC")
	} else {
		q = q.Order("created_at DESC")
	}

	if err := q.Find(&bids).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch bids",
			Error:   err.Error(),
		})
	}
	return c.JSON(bids)
}

// GetMyBids lists the calling provider's bids, newest first.
func GetMyBids(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal.Type != "serviceProvider" {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "Only service providers can view their bids",
			Error:   "caller is not a service provider",
		})
	}

	var bids []models.Bid
	if err := preloadBid(db.DB).
		Where("service_provider_id = ?", principal.ID).
		Order("created_at DESC").
		Find(&bids).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch bids",
			Error:   err.Error(),
		})
	}
	return c.JSON(bids)
}

// GetBid returns one bid with its job and provider attached.
func GetBid(c *fiber.Ctx) error {
	id := c.Params("id")
	var bid models.Bid
	if err := preloadBid(db.DB).First(&bid, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Bid not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(bid)
}

// UpdateBidStatus lets the leader who posted the bid's job accept or reject
// it. Accepting a bid also moves the job to IN_PROGRESS; both writes happen
// in one transaction so a crash cannot leave an accepted bid on an open job.
func UpdateBidStatus(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	id := c.Params("id")

	var body struct {
		Status models.BidStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	if !models.ValidBidStatus(body.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid bid status",
			Error:   "unknown status value",
		})
	}

	var bid models.Bid
	if err := db.DB.Preload("Job").Preload("ServiceProvider").First(&bid, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Bid not found",
			Error:   err.Error(),
		})
	}

	if bid.Job.LeaderID == nil || *bid.Job.LeaderID != principal.ID {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "Only the job poster can update bid status",
			Error:   "not the job leader",
		})
	}

	if err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&bid).Update("status", body.Status).Error; err != nil {
			return err
		}
		if body.Status == models.BidStatusAccepted {
			return tx.Model(&models.Job{}).Where("id = ?", bid.JobID).
				Update("status", models.JobStatusInProgress).Error
		}
		return nil
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update bid status",
			Error:   err.Error(),
		})
	}

	// Notification is best-effort; a mail failure never undoes the update.
	if body.Status == models.BidStatusAccepted || body.Status == models.BidStatusRejected {
		if err := sendBidStatusEmail(&bid, body.Status); err != nil {
			log.Printf("Failed to send bid status email for bid %d: %v", bid.ID, err)
		}
	}

	var updated models.Bid
	if err := preloadBid(db.DB).First(&updated, bid.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load updated bid",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Bid status updated successfully",
		"bid":     updated,
	})
}

// DeleteBid lets the owning provider withdraw a bid while it is PENDING.
func DeleteBid(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal.Type != "serviceProvider" {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "Only service providers can delete their bids",
			Error:   "caller is not a service provider",
		})
	}
	id := c.Params("id")

	var bid models.Bid
	if err := db.DB.Where("id = ? AND service_provider_id = ?", id, principal.ID).
		First(&bid).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Bid not found or you are not authorized to delete it",
			Error:   err.Error(),
		})
	}

	if bid.Status != models.BidStatusPending {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot delete bid that is not in PENDING status",
			Error:   "invalid status",
		})
	}

	if err := db.DB.Delete(&bid).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete bid",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Bid deleted successfully",
	})
}

func sendBidStatusEmail(bid *models.Bid, status models.BidStatus) error {
	if bid.ServiceProvider.Email == "" {
		return nil
	}

	verb := "accepted"
	if status == models.BidStatusRejected {
		verb = "rejected"
	}

	subject := fmt.Sprintf("Your bid on %q was %s", bid.Job.Title.En, verb)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your bid of %.2f on the job <strong>%s</strong> has been %s.</p>
		<p>Best regards,</p>
		<p>The HOA Connect Team</p>
	`, bid.ServiceProvider.Name.En, bid.TotalPrice, bid.Job.Title.En, verb)

	return utils.SendEmail(bid.ServiceProvider.Email, subject, body)
}
