package models

import (
	"time"

	"gorm.io/gorm"
)

type JobType string

const (
	JobTypeHomeService      JobType = "HOME_SERVICE"
	JobTypeCommunityService JobType = "COMMUNITY_SERVICE"
)

type JobStatus string

const (
	// Community job posted by a home owner, waiting for leader approval.
	JobStatusSentToLeader JobStatus = "SENT_TO_LEADER"
	// Community job approved by the leader and visible to providers.
	JobStatusPostedByLeader JobStatus = "POSTED_BY_LEADER"
	// Open for competitive bidding.
	JobStatusOpen JobStatus = "OPEN"
	// A bid was accepted; closed to further bidding.
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusCancelled  JobStatus = "CANCELLED"
)

// ValidJobStatus reports whether s is one of the known job states.
func ValidJobStatus(s JobStatus) bool {
	switch s {
	case JobStatusSentToLeader, JobStatusPostedByLeader, JobStatusOpen,
		JobStatusInProgress, JobStatusCancelled:
		return true
	}
	return false
}

type Job struct {
	gorm.Model
	Title           Translation `json:"title"`
	Description     Translation `json:"description"`
	Charges         Translation `json:"charges"`
	WorkDuration    Translation `json:"work_duration"`
	TimeSlot        Translation `json:"time_slot"`
	Location        Translation `json:"location"`
	ExperienceLevel Translation `json:"experience_level"`
	JobType         JobType     `json:"job_type" gorm:"not null"`
	Status          JobStatus   `json:"status" gorm:"not null"`
	StartDate       time.Time   `json:"start_date"`
	EndDate         time.Time   `json:"end_date"`
	ApartmentID     uint        `json:"apartment_id" gorm:"not null"`
	Apartment       Apartment   `json:"apartment,omitempty" gorm:"foreignKey:ApartmentID"`
	LeaderID        *uint       `json:"leader_id"`
	Leader          *User       `json:"leader,omitempty" gorm:"foreignKey:LeaderID"`
	CreatedBy       uint        `json:"created_by"`
	Creator         User        `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Services        []Service   `json:"services,omitempty" gorm:"many2many:job_services;"`
	Bids            []Bid       `json:"bids,omitempty" gorm:"foreignKey:JobID"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.Status == "" {
		j.Status = JobStatusOpen
	}
	return nil
}
