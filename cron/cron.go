package cron

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hoaconnect/hoa-services-app/db"
	"github.com/hoaconnect/hoa-services-app/models"
	"github.com/hoaconnect/hoa-services-app/utils"
)

// StartCronJobs initializes and starts the cron scheduler for job digests
func StartCronJobs() {
	c := cron.New()
	// Every morning at 08:00, email providers the jobs opened since yesterday
	_, err := c.AddFunc("0 8 * * *", sendOpenJobDigests)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for open job digests")
}

// sendOpenJobDigests emails each active provider the newly opened jobs that
// match at least one of the services they offer.
func sendOpenJobDigests() {
	since := time.Now().Add(-24 * time.Hour)

	var jobs []models.Job
	err := db.DB.Preload("Services").Preload("Apartment").
		Where("status = ? AND created_at >= ?", models.JobStatusOpen, since).
		Find(&jobs).Error
	if err != nil {
		log.Printf("Error fetching open jobs for digest: %v", err)
		return
	}
	if len(jobs) == 0 {
		return
	}

	var providers []models.ServiceProvider
	err = db.DB.Preload("Services").
		Where("is_active = ?", true).
		Find(&providers).Error
	if err != nil {
		log.Printf("Error fetching providers for digest: %v", err)
		return
	}

	for _, provider := range providers {
		matched := matchJobs(jobs, &provider)
		if len(matched) == 0 {
			continue
		}
		if err := sendDigestEmail(&provider, matched); err != nil {
			log.Printf("Failed to send job digest to provider %d: %v", provider.ID, err)
			continue
		}
		log.Printf("Sent job digest with %d jobs to %s", len(matched), provider.Email)
	}
}

// matchJobs keeps the jobs whose services intersect the provider's offering.
func matchJobs(jobs []models.Job, provider *models.ServiceProvider) []models.Job {
	var matched []models.Job
	for _, job := range jobs {
		for _, s := range job.Services {
			if provider.OffersService(s.ID) {
				matched = append(matched, job)
				break
			}
		}
	}
	return matched
}

// sendDigestEmail constructs and sends the daily digest email
func sendDigestEmail(provider *models.ServiceProvider, jobs []models.Job) error {
	subject := fmt.Sprintf("New jobs matching your services - %d available", len(jobs))

	var items strings.Builder
	for _, job := range jobs {
		items.WriteString(fmt.Sprintf(`
			<li>
				<strong>%s</strong> (%s)<br/>
				%s<br/>
				<em>Posted:</em> %s
			</li>
		`, job.Title.In("en"), job.JobType,
			job.Description.In("en"),
			utils.ToRiyadh(job.CreatedAt).Format("2006-01-02 15:04")))
	}

	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>The following jobs matching your services were opened in the last 24 hours:</p>
		<ul>%s</ul>
		<p>Log in to place your bids before they are taken.</p>
		<p>Best regards,</p>
		<p>Your Community Services Team</p>
	`, provider.Name.In("en"), items.String())

	return utils.SendEmail(provider.Email, subject, body)
}
