package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoaconnect/hoa-services-app/db"
	"github.com/hoaconnect/hoa-services-app/models"
)

func jobPayload(jobType models.JobType, apartmentID *uint, serviceIDs ...uint) fiber.Map {
	return fiber.Map{
		"title":         "Fix the lobby AC",
		"description":   "The AC has been leaking for a week",
		"charges":       "Negotiable",
		"work_duration": "2 days",
		"time_slot":     "Morning",
		"location":      "Building A lobby",
		"start_date":    "2026-09-10",
		"end_date":      "2026-09-12",
		"job_type":      jobType,
		"apartment_id":  apartmentID,
		"service_ids":   serviceIDs,
	}
}

func TestCreateJobHomeServiceByHomeOwner(t *testing.T) {
	setupTestDB(t)

	apartment := createApartment(t, "HOA-100", nil)
	owner := createHomeOwner(t, "1000000001", &apartment.ID)
	service := createTestService(t, "AC Services")

	app := fiber.New()
	app.Post("/jobs", as(userPrincipal(owner)), CreateJob)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/jobs",
		jobPayload(models.JobTypeHomeService, nil, service.ID)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var job models.Job
	require.NoError(t, db.DB.Preload("Services").First(&job).Error)
	assert.Equal(t, models.JobStatusOpen, job.Status)
	assert.Nil(t, job.LeaderID)
	assert.Equal(t, apartment.ID, job.ApartmentID)
	assert.Equal(t, owner.ID, job.CreatedBy)
	require.Len(t, job.Services, 1)
	assert.Equal(t, service.ID, job.Services[0].ID)
	// Localizable fields are stored in both languages.
	assert.Equal(t, "Fix the lobby AC", job.Title.En)
	assert.NotEmpty(t, job.Title.Ar)
}

func TestCreateJobCommunityServiceByHomeOwnerWaitsForLeader(t *testing.T) {
	setupTestDB(t)

	leader := createLeader(t, "2000000001")
	apartment := createApartment(t, "HOA-200", &leader.ID)
	owner := createHomeOwner(t, "1000000002", &apartment.ID)
	service := createTestService(t, "Cleaning Services")

	app := fiber.New()
	app.Post("/jobs", as(userPrincipal(owner)), CreateJob)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/jobs",
		jobPayload(models.JobTypeCommunityService, &apartment.ID, service.ID)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Message string `json:"message"`
	}
	decodeBody(t, resp, &body)
	assert.Contains(t, body.Message, "sent to leader")

	var job models.Job
	require.NoError(t, db.DB.First(&job).Error)
	assert.Equal(t, models.JobStatusSentToLeader, job.Status)
	require.NotNil(t, job.LeaderID)
	assert.Equal(t, leader.ID, *job.LeaderID)
}

func TestCreateJobCommunityServiceRequiresLeader(t *testing.T) {
	setupTestDB(t)

	apartment := createApartment(t, "HOA-300", nil)
	owner := createHomeOwner(t, "1000000003", &apartment.ID)
	service := createTestService(t, "Plumber")

	app := fiber.New()
	app.Post("/jobs", as(userPrincipal(owner)), CreateJob)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/jobs",
		jobPayload(models.JobTypeCommunityService, &apartment.ID, service.ID)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var count int64
	db.DB.Model(&models.Job{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateJobCommunityServiceByLeaderOpensDirectly(t *testing.T) {
	setupTestDB(t)

	leader := createLeader(t, "2000000002")
	apartment := createApartment(t, "HOA-400", &leader.ID)
	service := createTestService(t, "Painter")

	app := fiber.New()
	app.Post("/jobs", as(userPrincipal(leader)), CreateJob)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/jobs",
		jobPayload(models.JobTypeCommunityService, &apartment.ID, service.ID)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var job models.Job
	require.NoError(t, db.DB.First(&job).Error)
	assert.Equal(t, models.JobStatusOpen, job.Status)
	require.NotNil(t, job.LeaderID)
	assert.Equal(t, leader.ID, *job.LeaderID)
}

func TestCreateJobLeaderCannotPostForForeignApartment(t *testing.T) {
	setupTestDB(t)

	leader := createLeader(t, "2000000003")
	other := createLeader(t, "2000000004")
	apartment := createApartment(t, "HOA-500", &other.ID)
	service := createTestService(t, "Electrician")

	app := fiber.New()
	app.Post("/jobs", as(userPrincipal(leader)), CreateJob)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/jobs",
		jobPayload(models.JobTypeHomeService, &apartment.ID, service.ID)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCreateJobUnknownServiceRejected(t *testing.T) {
	setupTestDB(t)

	apartment := createApartment(t, "HOA-600", nil)
	owner := createHomeOwner(t, "1000000004", &apartment.ID)

	app := fiber.New()
	app.Post("/jobs", as(userPrincipal(owner)), CreateJob)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/jobs",
		jobPayload(models.JobTypeHomeService, nil, 999)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestApproveCommunityJob(t *testing.T) {
	setupTestDB(t)

	leader := createLeader(t, "2000000005")
	apartment := createApartment(t, "HOA-700", &leader.ID)
	owner := createHomeOwner(t, "1000000005", &apartment.ID)

	job := createTestJob(t, &models.Job{
		JobType:     models.JobTypeCommunityService,
		Status:      models.JobStatusSentToLeader,
		ApartmentID: apartment.ID,
		LeaderID:    &leader.ID,
		CreatedBy:   owner.ID,
	})

	app := fiber.New()
	app.Post("/jobs/:id/approve", as(userPrincipal(leader)), ApproveCommunityJob)

	resp, err := app.Test(jsonRequest(t, http.MethodPost,
		fmt.Sprintf("/jobs/%d/approve", job.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.Job
	require.NoError(t, db.DB.First(&updated, job.ID).Error)
	assert.Equal(t, models.JobStatusPostedByLeader, updated.Status)
	require.NotNil(t, updated.LeaderID)
	assert.Equal(t, leader.ID, *updated.LeaderID)

	// A second approval finds the job out of SENT_TO_LEADER and fails.
	resp, err = app.Test(jsonRequest(t, http.MethodPost,
		fmt.Sprintf("/jobs/%d/approve", job.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRejectCommunityJob(t *testing.T) {
	setupTestDB(t)

	leader := createLeader(t, "2000000006")
	apartment := createApartment(t, "HOA-800", &leader.ID)
	owner := createHomeOwner(t, "1000000006", &apartment.ID)

	job := createTestJob(t, &models.Job{
		JobType:     models.JobTypeCommunityService,
		Status:      models.JobStatusSentToLeader,
		ApartmentID: apartment.ID,
		LeaderID:    &leader.ID,
		CreatedBy:   owner.ID,
	})

	app := fiber.New()
	app.Post("/jobs/:id/reject", as(userPrincipal(leader)), RejectCommunityJob)

	resp, err := app.Test(jsonRequest(t, http.MethodPost,
		fmt.Sprintf("/jobs/%d/reject", job.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.Job
	require.NoError(t, db.DB.First(&updated, job.ID).Error)
	assert.Equal(t, models.JobStatusCancelled, updated.Status)
}

func TestApproveCommunityJobWrongLeaderForbidden(t *testing.T) {
	setupTestDB(t)

	leader := createLeader(t, "2000000007")
	intruder := createLeader(t, "2000000008")
	apartment := createApartment(t, "HOA-900", &leader.ID)
	owner := createHomeOwner(t, "1000000007", &apartment.ID)

	job := createTestJob(t, &models.Job{
		JobType:     models.JobTypeCommunityService,
		Status:      models.JobStatusSentToLeader,
		ApartmentID: apartment.ID,
		LeaderID:    &leader.ID,
		CreatedBy:   owner.ID,
	})

	app := fiber.New()
	app.Post("/jobs/:id/approve", as(userPrincipal(intruder)), ApproveCommunityJob)

	resp, err := app.Test(jsonRequest(t, http.MethodPost,
		fmt.Sprintf("/jobs/%d/approve", job.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var unchanged models.Job
	require.NoError(t, db.DB.First(&unchanged, job.ID).Error)
	assert.Equal(t, models.JobStatusSentToLeader, unchanged.Status)
}

func TestUpdateJobRejectedWhenNotOpen(t *testing.T) {
	setupTestDB(t)

	leader := createLeader(t, "2000000009")
	apartment := createApartment(t, "HOA-1000", &leader.ID)

	job := createTestJob(t, &models.Job{
		JobType:     models.JobTypeCommunityService,
		Status:      models.JobStatusInProgress,
		ApartmentID: apartment.ID,
		LeaderID:    &leader.ID,
		CreatedBy:   leader.ID,
	})

	app := fiber.New()
	app.Patch("/jobs/:id", as(userPrincipal(leader)), UpdateJob)

	resp, err := app.Test(jsonRequest(t, http.MethodPatch,
		fmt.Sprintf("/jobs/%d", job.ID), fiber.Map{"title": "New title"}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateJobStatusLeaderCancels(t *testing.T) {
	setupTestDB(t)

	leader := createLeader(t, "2000000014")
	apartment := createApartment(t, "HOA-1500", &leader.ID)

	job := createTestJob(t, &models.Job{
		JobType:     models.JobTypeHomeService,
		Status:      models.JobStatusOpen,
		ApartmentID: apartment.ID,
		LeaderID:    &leader.ID,
		CreatedBy:   leader.ID,
	})

	app := fiber.New()
	app.Patch("/jobs/:id/status", as(userPrincipal(leader)), UpdateJobStatus)

	resp, err := app.Test(jsonRequest(t, http.MethodPatch,
		fmt.Sprintf("/jobs/%d/status", job.ID),
		fiber.Map{"status": models.JobStatusCancelled}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.Job
	require.NoError(t, db.DB.First(&updated, job.ID).Error)
	assert.Equal(t, models.JobStatusCancelled, updated.Status)

	// Unknown status values never reach the database.
	resp, err = app.Test(jsonRequest(t, http.MethodPatch,
		fmt.Sprintf("/jobs/%d/status", job.ID),
		fiber.Map{"status": "DONE"}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateJobStatusForeignLeaderRejected(t *testing.T) {
	setupTestDB(t)

	leader := createLeader(t, "2000000015")
	intruder := createLeader(t, "2000000016")
	apartment := createApartment(t, "HOA-1600", &leader.ID)

	job := createTestJob(t, &models.Job{
		JobType:     models.JobTypeHomeService,
		Status:      models.JobStatusOpen,
		ApartmentID: apartment.ID,
		LeaderID:    &leader.ID,
		CreatedBy:   leader.ID,
	})

	app := fiber.New()
	app.Patch("/jobs/:id/status", as(userPrincipal(intruder)), UpdateJobStatus)

	resp, err := app.Test(jsonRequest(t, http.MethodPatch,
		fmt.Sprintf("/jobs/%d/status", job.ID),
		fiber.Map{"status": models.JobStatusCancelled}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var unchanged models.Job
	require.NoError(t, db.DB.First(&unchanged, job.ID).Error)
	assert.Equal(t, models.JobStatusOpen, unchanged.Status)
}

func TestDeleteJobOnlyWhenOpen(t *testing.T) {
	setupTestDB(t)

	leader := createLeader(t, "2000000010")
	apartment := createApartment(t, "HOA-1100", &leader.ID)

	open := createTestJob(t, &models.Job{
		JobType:     models.JobTypeHomeService,
		Status:      models.JobStatusOpen,
		ApartmentID: apartment.ID,
		LeaderID:    &leader.ID,
		CreatedBy:   leader.ID,
	})
	inProgress := createTestJob(t, &models.Job{
		JobType:     models.JobTypeHomeService,
		Status:      models.JobStatusInProgress,
		ApartmentID: apartment.ID,
		LeaderID:    &leader.ID,
		CreatedBy:   leader.ID,
	})

	app := fiber.New()
	app.Delete("/jobs/:id", as(userPrincipal(leader)), DeleteJob)

	resp, err := app.Test(jsonRequest(t, http.MethodDelete,
		fmt.Sprintf("/jobs/%d", open.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodDelete,
		fmt.Sprintf("/jobs/%d", inProgress.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var count int64
	db.DB.Model(&models.Job{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetPendingCommunityJobsScopedToLeader(t *testing.T) {
	setupTestDB(t)

	leader := createLeader(t, "2000000011")
	other := createLeader(t, "2000000012")
	mine := createApartment(t, "HOA-1200", &leader.ID)
	theirs := createApartment(t, "HOA-1300", &other.ID)
	owner := createHomeOwner(t, "1000000008", &mine.ID)

	pending := createTestJob(t, &models.Job{
		JobType:     models.JobTypeCommunityService,
		Status:      models.JobStatusSentToLeader,
		ApartmentID: mine.ID,
		LeaderID:    &leader.ID,
		CreatedBy:   owner.ID,
	})
	createTestJob(t, &models.Job{
		JobType:     models.JobTypeCommunityService,
		Status:      models.JobStatusSentToLeader,
		ApartmentID: theirs.ID,
		LeaderID:    &other.ID,
		CreatedBy:   owner.ID,
	})
	createTestJob(t, &models.Job{
		JobType:     models.JobTypeHomeService,
		Status:      models.JobStatusOpen,
		ApartmentID: mine.ID,
		CreatedBy:   owner.ID,
	})

	app := fiber.New()
	app.Get("/jobs/pending-community", as(userPrincipal(leader)), GetPendingCommunityJobs)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/jobs/pending-community", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var jobs []models.Job
	decodeBody(t, resp, &jobs)
	require.Len(t, jobs, 1)
	assert.Equal(t, pending.ID, jobs[0].ID)
}

func TestGetAllJobsListsOnlyBiddableStatuses(t *testing.T) {
	setupTestDB(t)

	leader := createLeader(t, "2000000013")
	apartment := createApartment(t, "HOA-1400", &leader.ID)

	for _, status := range []models.JobStatus{
		models.JobStatusOpen,
		models.JobStatusPostedByLeader,
		models.JobStatusSentToLeader,
		models.JobStatusInProgress,
		models.JobStatusCancelled,
	} {
		createTestJob(t, &models.Job{
			JobType:     models.JobTypeCommunityService,
			Status:      status,
			ApartmentID: apartment.ID,
			LeaderID:    &leader.ID,
			CreatedBy:   leader.ID,
		})
	}

	app := fiber.New()
	app.Get("/jobs", as(userPrincipal(leader)), GetAllJobs)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/jobs", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var jobs []models.Job
	decodeBody(t, resp, &jobs)
	require.Len(t, jobs, 2)
	for _, job := range jobs {
		assert.Contains(t, []models.JobStatus{
			models.JobStatusOpen, models.JobStatusPostedByLeader,
		}, job.Status)
	}
}
