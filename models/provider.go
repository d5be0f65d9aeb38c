package models

import (
	"gorm.io/gorm"
)

// Onboarding step each provider has reached. Step 7 means onboarding is
// complete and the account has been activated.
const (
	ProviderStepSignedUp    = 1
	ProviderStepDocument    = 2
	ProviderStepServices    = 3
	ProviderStepRates       = 4
	ProviderStepLocations   = 5
	ProviderStepBio         = 6
	ProviderStepBankDetails = 7
)

// ServiceProvider is an independently onboarded actor. It is not a User:
// providers authenticate with their own tokens and only become bid-eligible
// once IsActive is set at the final onboarding step.
type ServiceProvider struct {
	gorm.Model
	Name                  Translation        `json:"name"`
	Email                 string             `json:"email" gorm:"uniqueIndex;not null"`
	PhoneNumber           string             `json:"phone_number"`
	SignupStep            int                `json:"signup_step" gorm:"default:1"`
	IsActive              bool               `json:"is_active" gorm:"default:false"`
	IsVerified            bool               `json:"is_verified" gorm:"default:false"`
	GovernmentDocumentURL string             `json:"government_document_url"`
	ProfilePictureURL     string             `json:"profile_picture_url"`
	Bio                   Translation        `json:"bio"`
	FirstName             Translation        `json:"first_name"`
	LastName              Translation        `json:"last_name"`
	BankAccountNumber     string             `json:"bank_account_number"`
	BankDocumentURL       string             `json:"bank_document_url"`
	Rating                float64            `json:"rating" gorm:"default:0"`
	TotalJobs             int                `json:"total_jobs" gorm:"default:0"`
	TotalEarnings         float64            `json:"total_earnings" gorm:"default:0"`
	Services              []Service          `json:"services,omitempty" gorm:"many2many:provider_services;"`
	ServiceRates          []ServiceRate      `json:"service_rates,omitempty" gorm:"foreignKey:ServiceProviderID"`
	Locations             []ProviderLocation `json:"locations,omitempty" gorm:"foreignKey:ServiceProviderID"`
	Bids                  []Bid              `json:"bids,omitempty" gorm:"foreignKey:ServiceProviderID"`
}

// OffersService reports whether the provider has selected the given catalog
// service. Relies on Services being preloaded.
func (p *ServiceProvider) OffersService(serviceID uint) bool {
	for _, s := range p.Services {
		if s.ID == serviceID {
			return true
		}
	}
	return false
}

type ServiceRate struct {
	gorm.Model
	ServiceProviderID uint        `json:"service_provider_id" gorm:"uniqueIndex:idx_provider_service_rate"`
	ServiceID         uint        `json:"service_id" gorm:"uniqueIndex:idx_provider_service_rate"`
	Service           Service     `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	Rate              float64     `json:"rate"`
	Description       Translation `json:"description"`
}

type ProviderLocation struct {
	gorm.Model
	ServiceProviderID uint   `json:"service_provider_id"`
	City              string `json:"city"`
	State             string `json:"state"`
	Country           string `json:"country"`
}
