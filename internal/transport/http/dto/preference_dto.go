package dto

type PreferenceRequest struct {
	MinAge                 *int     `json:"min_age"`
	MaxAge                 *int     `json:"max_age"`
	HeightMin              *float64 `json:"height_min"`
	HeightMax              *float64 `json:"height_max"`
	Religion               *string  `json:"religion"`
	LocationPreferenceText *string  `json:"location_preference_text"`
}

type PreferenceResponse struct {
	UserID                 int64    `json:"user_id"`
	MinAge                 *int     `json:"min_age"`
	MaxAge                 *int     `json:"max_age"`
	HeightMin              *float64 `json:"height_min"`
	HeightMax              *float64 `json:"height_max"`
	Religion               *string  `json:"religion"`
	LocationPreferenceText *string  `json:"location_preference_text"`
	LocationScope          string   `json:"location_scope"`
}
