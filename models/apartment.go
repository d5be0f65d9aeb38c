package models

import (
	"gorm.io/gorm"
)

// Apartment is an HOA community. It can exist without a leader so home
// owners can register against an HOA number before one signs up.
type Apartment struct {
	gorm.Model
	HOANumber string      `json:"hoa_number" gorm:"uniqueIndex;not null"`
	Name      Translation `json:"name"`
	Address   Translation `json:"address"`
	City      Translation `json:"city"`
	State     Translation `json:"state"`
	Country   Translation `json:"country"`
	LeaderID  *uint       `json:"leader_id"` // at most one leader
	Leader    *User       `json:"leader,omitempty" gorm:"foreignKey:LeaderID"`
	Houses    []House     `json:"houses,omitempty" gorm:"foreignKey:ApartmentID"`
	Jobs      []Job       `json:"jobs,omitempty" gorm:"foreignKey:ApartmentID"`
}

type House struct {
	gorm.Model
	HouseNumber string    `json:"house_number" gorm:"not null"`
	ApartmentID uint      `json:"apartment_id" gorm:"not null"`
	Apartment   Apartment `json:"apartment,omitempty" gorm:"foreignKey:ApartmentID"`
	OwnerID     uint      `json:"owner_id" gorm:"not null"`
	Owner       User      `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}
