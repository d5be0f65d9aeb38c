package models

import (
	"gorm.io/gorm"
)

// Service is one entry in the static catalog of service categories.
type Service struct {
	gorm.Model
	Name        Translation `json:"name"`
	Description Translation `json:"description"`
	ImageURL    string      `json:"image_url"`
}
