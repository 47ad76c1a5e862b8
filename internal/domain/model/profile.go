package model

import (
	"time"

	"github.com/kashodiya/milan/internal/domain/enums"
)

type Profile struct {
	UserID          int64        `json:"user_id"`
	FirstName       string       `json:"first_name"`
	LastName        string       `json:"last_name"`
	Gender          enums.Gender `json:"gender"`
	BirthDate       time.Time    `json:"birth_date"`
	HeightCM        *float64     `json:"height_cm"`
	Religion        *string      `json:"religion"`
	MotherTongue    *string      `json:"mother_tongue"`
	MaritalStatus   string       `json:"marital_status"`
	AboutMe         string       `json:"about_me"`
	Occupation      string       `json:"occupation"`
	Education       string       `json:"education"`
	LocationCity    *string      `json:"location_city"`
	LocationState   *string      `json:"location_state"`
	LocationCountry *string      `json:"location_country"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
