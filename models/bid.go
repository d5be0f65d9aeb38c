package models

import (
	"gorm.io/gorm"
)

type BidStatus string

const (
	BidStatusPending  BidStatus = "PENDING"
	BidStatusAccepted BidStatus = "ACCEPTED"
	BidStatusRejected BidStatus = "REJECTED"
)

// ValidBidStatus reports whether s is one of the known bid states.
func ValidBidStatus(s BidStatus) bool {
	switch s {
	case BidStatusPending, BidStatusAccepted, BidStatusRejected:
		return true
	}
	return false
}

// Bid is a provider's priced offer against an open job. A provider holds at
// most one bid per job, enforced by the composite unique index.
type Bid struct {
	gorm.Model
	JobID             uint            `json:"job_id" gorm:"uniqueIndex:idx_job_provider;not null"`
	Job               Job             `json:"job,omitempty" gorm:"foreignKey:JobID"`
	ServiceProviderID uint            `json:"service_provider_id" gorm:"uniqueIndex:idx_job_provider;not null"`
	ServiceProvider   ServiceProvider `json:"service_provider,omitempty" gorm:"foreignKey:ServiceProviderID"`
	TotalPrice        float64         `json:"total_price" gorm:"not null"`
	CoverLetter       Translation     `json:"cover_letter"`
	DocumentURL       string          `json:"document_url"`
	Status            BidStatus       `json:"status" gorm:"not null"`
}

func (b *Bid) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = BidStatusPending
	}
	return nil
}
