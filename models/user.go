package models

import (
	"time"

	"gorm.io/datatypes"
)

type Role string

const (
	RoleLeader    Role = "LEADER"
	RoleHomeOwner Role = "HOME_OWNER"
	RoleAdmin     Role = "ADMIN"
	// RoleServiceProvider is never stored on a User row; it only appears in
	// tokens issued to ServiceProvider accounts.
	RoleServiceProvider Role = "SERVICE_PROVIDER"
)

type User struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	NationalID        string         `json:"national_id" gorm:"uniqueIndex;not null"`
	Password          string         `json:"password,omitempty"`
	Role              Role           `json:"role" gorm:"not null"`
	ApartmentID       *uint          `json:"apartment_id"` // home-owner linkage
	Apartment         *Apartment     `json:"apartment,omitempty" gorm:"foreignKey:ApartmentID"`
	ManagedApartments []Apartment    `json:"managed_apartments,omitempty" gorm:"foreignKey:LeaderID"`
	OwnedHouses       []House        `json:"owned_houses,omitempty" gorm:"foreignKey:OwnerID"`
	PostedJobs        []Job          `json:"posted_jobs,omitempty" gorm:"foreignKey:LeaderID"`
	Documents         []UserDocument `json:"documents,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// UserDocument keeps the identity documents uploaded at signup.
type UserDocument struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id"`
	ImageURLs datatypes.JSON `json:"image_urls" gorm:"type:json"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
