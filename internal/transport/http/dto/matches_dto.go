package dto

import "time"

type MatchItemResponse struct {
	UserID          int64      `json:"user_id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Gender          string     `json:"gender"`
	Age             int        `json:"age"`
	HeightCM        *float64   `json:"height_cm"`
	Religion        *string    `json:"religion"`
	LocationCity    *string    `json:"location_city"`
	LocationState   *string    `json:"location_state"`
	LocationCountry *string    `json:"location_country"`
	LastLoginAt     *time.Time `json:"last_login_at"`
}

type MatchesResponse struct {
	Items []MatchItemResponse `json:"items"`
}
